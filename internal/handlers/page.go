package handlers

import (
	"bytes"
	"net/http"

	"github.com/Brownie44l1/brainiac/internal/web"
)

func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, web.NewPageData())
}

// Scan is the form target behind the "Scan with AI" button.
func (h *Handler) Scan(w http.ResponseWriter, r *http.Request) {
	data := web.NewPageData()

	upload, err := h.readUpload(w, r)
	if err != nil {
		h.renderError(w, r, data, err)
		return
	}
	data.Filename = upload.Filename

	result, err := h.classify(r.Context(), upload)
	if upload.MIMEType != "" {
		data.PreviewURI = web.PreviewURI(upload.MIMEType, upload.Data)
	}
	if err != nil {
		h.renderError(w, r, data, err)
		return
	}

	data.Result = result
	data.Ranked = result.Ranked()
	h.render(w, http.StatusOK, data)
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, data web.PageData, err error) {
	status, message := classifyError(err)
	if status >= http.StatusInternalServerError {
		h.log.Error("Scan failed", "err", err)
	} else {
		h.log.Warn("Scan rejected", "err", err)
	}
	data.Error = message
	h.render(w, status, data)
}

func (h *Handler) render(w http.ResponseWriter, status int, data web.PageData) {
	var buf bytes.Buffer
	if err := h.page.Render(&buf, data); err != nil {
		h.log.Error("Unable to render page", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
