package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/Brownie44l1/brainiac/internal/model"
	"github.com/Brownie44l1/brainiac/internal/preprocess"
	"github.com/Brownie44l1/brainiac/internal/web"
)

const formField = "image"

// multipartOverhead covers boundaries and part headers around the file, so
// maxUpload bounds the image itself rather than the whole request body.
const multipartOverhead = 64 << 10

// Predictor runs one forward pass over a preprocessed tensor.
type Predictor interface {
	Predict(ctx context.Context, input []float32) (*model.PredictionResponse, error)
}

type Handler struct {
	predictor Predictor
	transform preprocess.Transform
	page      *web.Page
	static    fs.FS
	log       *slog.Logger
	maxUpload int64
}

func NewHandler(log *slog.Logger, predictor Predictor, transform preprocess.Transform, maxUpload int64) (*Handler, error) {
	page, err := web.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to parse page template: %w", err)
	}
	static, err := web.Static()
	if err != nil {
		return nil, fmt.Errorf("failed to open static assets: %w", err)
	}
	return &Handler{
		predictor: predictor,
		transform: transform,
		page:      page,
		static:    static,
		log:       log,
		maxUpload: maxUpload,
	}, nil
}

// Routes registers every endpoint on a fresh mux.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.Index)
	mux.HandleFunc("POST /scan", h.Scan)
	mux.HandleFunc("/health", enableCORS(h.Health))
	mux.HandleFunc("/predict", enableCORS(h.Predict))
	mux.HandleFunc("/predict/image", enableCORS(h.PredictFromImage))
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(h.static)))
	return withRequestLog(h.log, mux)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// Predict accepts an already normalized tensor as a flat JSON array.
func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req model.PredictionRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxUpload)).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	result, err := h.predictor.Predict(r.Context(), req.Image)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}

func (h *Handler) PredictFromImage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	upload, err := h.readUpload(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	result, err := h.classify(r.Context(), upload)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}

// classify runs decode, transform and one forward pass entirely in memory.
func (h *Handler) classify(ctx context.Context, upload *Upload) (*model.PredictionResponse, error) {
	img, mimeType, err := preprocess.Decode(upload.Data)
	if err != nil {
		return nil, err
	}
	upload.MIMEType = mimeType

	h.log.Debug("Image decoded",
		"filename", upload.Filename,
		"mime", mimeType,
		"width", img.Bounds().Dx(),
		"height", img.Bounds().Dy())

	tensor, err := h.transform.Apply(img)
	if err != nil {
		return nil, err
	}

	result, err := h.predictor.Predict(ctx, tensor.Data)
	if err != nil {
		return nil, err
	}

	h.log.Info("Prediction complete",
		"filename", upload.Filename,
		"class", result.Class,
		"confidence", result.Confidence)
	return result, nil
}

type Upload struct {
	Filename string
	MIMEType string
	Data     []byte
}

var (
	errMissingFile = errors.New("no image file provided, use 'image' as the form field name")
	errTooLarge    = errors.New("image too large")
)

func (h *Handler) readUpload(w http.ResponseWriter, r *http.Request) (*Upload, error) {
	bodyLimit := h.maxUpload + multipartOverhead
	if r.ContentLength > bodyLimit {
		return nil, errTooLarge
	}
	r.Body = http.MaxBytesReader(w, r.Body, bodyLimit)

	// The body cap keeps every part under maxMemory, so nothing spills to temp files.
	if err := r.ParseMultipartForm(bodyLimit); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, errTooLarge
		}
		return nil, errMissingFile
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile(formField)
	if err != nil {
		return nil, errMissingFile
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxUpload+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > h.maxUpload {
		return nil, errTooLarge
	}

	h.log.Debug("Received file", "filename", header.Filename, "size", len(data))
	return &Upload{Filename: header.Filename, Data: data}, nil
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error("Unable to encode JSON response", "err", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := classifyError(err)
	if status >= http.StatusInternalServerError {
		h.log.Error("Request failed", "path", r.URL.Path, "err", err)
	} else {
		h.log.Warn("Request rejected", "path", r.URL.Path, "err", err)
	}
	http.Error(w, message, status)
}

// classifyError maps pipeline errors onto an HTTP status and a user-facing message.
func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, errMissingFile):
		return http.StatusBadRequest, "No image file provided. Use 'image' as the form field name"
	case errors.Is(err, errTooLarge):
		return http.StatusRequestEntityTooLarge, "Image too large"
	case errors.Is(err, preprocess.ErrEmptyImage):
		return http.StatusBadRequest, "Uploaded image is empty"
	case errors.Is(err, preprocess.ErrUnsupportedFormat), errors.Is(err, preprocess.ErrDecode):
		return http.StatusBadRequest, "Invalid image format. Supported: JPEG, PNG"
	case errors.Is(err, model.ErrInputSize):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, "Prediction failed"
	}
}
