package handlers

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/carriernorth/release-form-api/internal/models"
	"github.com/carriernorth/release-form-api/internal/services"
	"github.com/carriernorth/release-form-api/internal/utils"
	"github.com/gorilla/mux"
)

type ExtractionHandler struct {
	service     services.ExtractionService
	logger      *utils.Logger
	maxFileSize int64
	maxFiles    int
}

func NewExtractionHandler(service services.ExtractionService, logger *utils.Logger, maxFileSize int64, maxFiles int) *ExtractionHandler {
	return &ExtractionHandler{
		service:     service,
		logger:      logger,
		maxFileSize: maxFileSize,
		maxFiles:    maxFiles,
	}
}

// CreateExtraction accepts the document batch either as a multipart form
// (repeated "files" parts) or as a JSON body of base64 payloads, converts
// both into the same tagged input type, and runs the extraction.
func (h *ExtractionHandler) CreateExtraction(w http.ResponseWriter, r *http.Request) {
	var docs []models.RawDocument
	var err error

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		docs, err = h.parseJSONBody(r)
	} else {
		docs, err = h.parseMultipart(w, r)
	}
	if err != nil {
		h.respondError(w, err)
		return
	}

	if len(docs) == 0 {
		h.respondError(w, utils.NewBadRequestError("No files provided"))
		return
	}
	if len(docs) > h.maxFiles {
		h.respondError(w, utils.NewBadRequestError("Too many files in one request"))
		return
	}

	result, err := h.service.Extract(r.Context(), docs)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, result)
}

func (h *ExtractionHandler) GetExtraction(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]

	if id == "" {
		h.respondError(w, utils.NewBadRequestError("Extraction ID is required"))
		return
	}

	result, err := h.service.GetExtraction(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

// GetOriginalDocument serves the archived upload back to the caller.
func (h *ExtractionHandler) GetOriginalDocument(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]
	filename := vars["filename"]

	if id == "" || filename == "" {
		h.respondError(w, utils.NewBadRequestError("Extraction ID and filename are required"))
		return
	}

	data, contentType, err := h.service.GetOriginalDocument(r.Context(), id, filename)
	if err != nil {
		h.respondError(w, err)
		return
	}

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.Error("Failed to write document response", "error", err)
	}
}

func (h *ExtractionHandler) DeleteExtraction(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]

	if id == "" {
		h.respondError(w, utils.NewBadRequestError("Extraction ID is required"))
		return
	}

	if err := h.service.DeleteExtraction(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ExtractionHandler) parseJSONBody(r *http.Request) ([]models.RawDocument, error) {
	var req models.ExtractRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, h.maxFileSize*int64(h.maxFiles)*2)).Decode(&req); err != nil {
		return nil, utils.NewBadRequestError("Invalid JSON body")
	}

	docs := make([]models.RawDocument, 0, len(req.Files))
	for _, f := range req.Files {
		data, err := base64.StdEncoding.DecodeString(f.Data)
		if err != nil {
			return nil, utils.NewBadRequestError("File data is not valid base64: " + f.Name)
		}
		if int64(len(data)) > h.maxFileSize {
			return nil, utils.NewBadRequestError("File exceeds size limit: " + f.Name)
		}
		if len(data) == 0 {
			return nil, utils.NewBadRequestError("File is empty: " + f.Name)
		}
		docs = append(docs, models.RawDocument{
			Name:    f.Name,
			Type:    determineContentType(f.Name, f.Type),
			DocType: f.DocType,
			Data:    data,
		})
	}
	return docs, nil
}

func (h *ExtractionHandler) parseMultipart(w http.ResponseWriter, r *http.Request) ([]models.RawDocument, error) {
	totalLimit := h.maxFileSize * int64(h.maxFiles)
	if r.ContentLength > totalLimit {
		return nil, utils.NewBadRequestError("Request exceeds size limit")
	}

	r.Body = http.MaxBytesReader(w, r.Body, totalLimit)

	if err := r.ParseMultipartForm(totalLimit); err != nil {
		if strings.Contains(err.Error(), "request body too large") {
			return nil, utils.NewBadRequestError("Request exceeds size limit")
		}
		return nil, utils.NewBadRequestError("Invalid form data")
	}

	if r.MultipartForm == nil || len(r.MultipartForm.File["files"]) == 0 {
		return nil, utils.NewBadRequestError("No files provided")
	}

	docTypes := r.MultipartForm.Value["doc_types"]

	var docs []models.RawDocument
	for i, header := range r.MultipartForm.File["files"] {
		file, err := header.Open()
		if err != nil {
			return nil, utils.NewInternalError("Failed to read file: " + header.Filename)
		}

		data, err := io.ReadAll(io.LimitReader(file, h.maxFileSize+1))
		file.Close()
		if err != nil {
			return nil, utils.NewInternalError("Failed to read file: " + header.Filename)
		}
		if int64(len(data)) > h.maxFileSize {
			return nil, utils.NewBadRequestError("File exceeds size limit: " + header.Filename)
		}
		if len(data) == 0 {
			return nil, utils.NewBadRequestError("File is empty: " + header.Filename)
		}

		docType := ""
		if i < len(docTypes) {
			docType = docTypes[i]
		}

		contentType := determineContentType(header.Filename, header.Header.Get("Content-Type"))

		h.logger.Info("File received",
			"filename", header.Filename,
			"reported_content_type", header.Header.Get("Content-Type"),
			"determined_content_type", contentType)

		docs = append(docs, models.RawDocument{
			Name:    header.Filename,
			Type:    contentType,
			DocType: docType,
			Data:    data,
		})
	}

	return docs, nil
}

// determineContentType resolves the MIME type from the filename extension
// first, falling back to whatever the client declared.
func determineContentType(filename, declared string) string {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".pdf":
		return "application/pdf"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".txt":
		return "text/plain"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".tif", ".tiff":
		return "image/tiff"
	case ".heic":
		return "image/heic"
	}

	return declared
}

func (h *ExtractionHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode JSON response", "error", err)
	}
}

func (h *ExtractionHandler) respondError(w http.ResponseWriter, err error) {
	var status int
	var message string

	switch e := err.(type) {
	case *utils.AppError:
		status = e.StatusCode
		message = e.Message
	default:
		status = http.StatusInternalServerError
		message = "Internal server error"
	}

	h.logger.Error("Request error", "status", status, "error", message)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
