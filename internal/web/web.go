// Package web renders the single Brainiac page.
package web

import (
	"embed"
	"encoding/base64"
	"html/template"
	"io"
	"io/fs"

	"github.com/Brownie44l1/brainiac/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

type TeamMember struct {
	Name     string
	Role     string
	Initials string
}

type Contact struct {
	Email string
	Phone string
}

type PageData struct {
	Labels     []string
	Accept     string
	Filename   string
	PreviewURI template.URL
	Result     *model.PredictionResponse
	Ranked     []model.ClassScore
	Error      string
	Team       []TeamMember
	Contact    Contact
}

var DefaultTeam = []TeamMember{
	{Name: "Vighnesh H.", Role: "AI Specialist", Initials: "VH"},
	{Name: "Ayyappadas MT", Role: "AI Specialist", Initials: "AM"},
	{Name: "Yadhu Vipin M.", Role: "Web Developer", Initials: "YV"},
}

var DefaultContact = Contact{
	Email: "support@brainiac.com",
	Phone: "+919447540712",
}

type Page struct {
	tmpl *template.Template
}

func NewPage() (*Page, error) {
	tmpl, err := template.New("index.html").Funcs(template.FuncMap{
		"percent": func(v float32) float64 { return float64(v) * 100 },
	}).ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, err
	}
	return &Page{tmpl: tmpl}, nil
}

// NewPageData returns the chrome shared by every render.
func NewPageData() PageData {
	return PageData{
		Labels:  model.ClassLabels,
		Accept:  ".jpg,.jpeg,.png,image/jpeg,image/png",
		Team:    DefaultTeam,
		Contact: DefaultContact,
	}
}

func (p *Page) Render(w io.Writer, data PageData) error {
	return p.tmpl.ExecuteTemplate(w, "index.html", data)
}

// Static returns the stylesheet tree rooted at static/.
func Static() (fs.FS, error) {
	return fs.Sub(staticFS, "static")
}

// PreviewURI inlines the upload so the preview never touches disk.
func PreviewURI(mimeType string, data []byte) template.URL {
	return template.URL("data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data))
}
