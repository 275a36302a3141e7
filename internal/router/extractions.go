package router

import (
	"net/http"

	"github.com/carriernorth/release-form-api/internal/handlers"
	"github.com/carriernorth/release-form-api/internal/middleware"
	"github.com/carriernorth/release-form-api/internal/services"
	"github.com/carriernorth/release-form-api/internal/utils"

	"github.com/gorilla/mux"
)

func NewRouter(svc services.ExtractionService, logger *utils.Logger, maxFileSize int64, maxFiles int) http.Handler {
	r := mux.NewRouter()

	// Middlewares
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS())
	r.Use(middleware.Recovery(logger))

	handler := handlers.NewExtractionHandler(svc, logger, maxFileSize, maxFiles)

	// Routes
	api := r.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)

	// Extraction endpoints
	api.HandleFunc("/extractions", handler.CreateExtraction).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/extractions/{id}", handler.GetExtraction).Methods(http.MethodGet)
	api.HandleFunc("/extractions/{id}", handler.DeleteExtraction).Methods(http.MethodDelete)
	api.HandleFunc("/extractions/{id}/files/{filename}", handler.GetOriginalDocument).Methods(http.MethodGet)

	return r
}
