// Package handlers provides HTTP request handlers for the prescriptions
// API endpoints. It implements the analyze pipeline (upload, OCR, medicine
// matching) and formulary lookup with dependency injection, input
// validation, and JSON response formatting.
package handlers

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/giygas/prescriptions-api/formulary/entities"
	"github.com/giygas/prescriptions-api/interfaces"
	"github.com/giygas/prescriptions-api/logging"
	"github.com/giygas/prescriptions-api/metrics"
	"github.com/giygas/prescriptions-api/storage"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// AnalyzeRequest is the body of POST /analyze
type AnalyzeRequest struct {
	FileName    string `json:"fileName"`
	FileContent string `json:"fileContent"` // base64-encoded, required
	ContentType string `json:"contentType"`
}

// AnalyzeResponse is the successful result of POST /analyze
type AnalyzeResponse struct {
	Success       bool                `json:"success"`
	FileName      string              `json:"fileName"`
	StorageKey    string              `json:"storageKey"`
	ExtractedText string              `json:"extractedText"`
	Medicines     []entities.Medicine `json:"medicines"`
	Timestamp     string              `json:"timestamp"`
}

// HTTPHandlerImpl bundles the analyze pipeline collaborators
type HTTPHandlerImpl struct {
	dataStore   interfaces.DataStore
	matcher     interfaces.Matcher
	ocrClient   interfaces.OCRClient
	objectStore interfaces.ObjectStore
	validator   interfaces.RequestValidator
	health      interfaces.HealthChecker
}

// NewHTTPHandler creates a new HTTP handler with injected dependencies
func NewHTTPHandler(
	dataStore interfaces.DataStore,
	matcher interfaces.Matcher,
	ocrClient interfaces.OCRClient,
	objectStore interfaces.ObjectStore,
	validator interfaces.RequestValidator,
	health interfaces.HealthChecker,
) *HTTPHandlerImpl {
	return &HTTPHandlerImpl{
		dataStore:   dataStore,
		matcher:     matcher,
		ocrClient:   ocrClient,
		objectStore: objectStore,
		validator:   validator,
		health:      health,
	}
}

// RespondWithJSON writes a JSON response
func (h *HTTPHandlerImpl) RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err, "payload_type", fmt.Sprintf("%T", payload))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Last-Modified", time.Now().UTC().Format(http.TimeFormat))
	w.WriteHeader(code)
	w.Write(data)
}

// RespondWithError writes a JSON error response
func (h *HTTPHandlerImpl) RespondWithError(w http.ResponseWriter, code int, message string) {
	h.RespondWithJSON(w, code, map[string]string{"error": message})
}

// AnalyzePrescription handles POST /analyze: persist the upload, extract
// its text, and match the text against the formulary.
func (h *HTTPHandlerImpl) AnalyzePrescription(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logging.Warn("Invalid analyze request body", "error", err, "remote_addr", r.RemoteAddr)
		metrics.AnalysesTotal.WithLabelValues("client_error").Inc()
		h.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.FileContent == "" {
		metrics.AnalysesTotal.WithLabelValues("client_error").Inc()
		h.RespondWithError(w, http.StatusBadRequest, "No file content provided")
		return
	}

	fileName := req.FileName
	if fileName == "" {
		fileName = fmt.Sprintf("prescription_%s.jpg", uuid.New().String())
	}
	if err := h.validator.ValidateFileName(fileName); err != nil {
		logging.Warn("Invalid upload file name", "file_name", fileName, "error", err)
		metrics.AnalysesTotal.WithLabelValues("client_error").Inc()
		h.RespondWithError(w, http.StatusBadRequest, "Invalid file name")
		return
	}

	contentType := req.ContentType
	if contentType == "" {
		contentType = "image/jpeg"
	}
	if err := h.validator.ValidateContentType(contentType); err != nil {
		logging.Warn("Unsupported upload content type", "content_type", contentType, "error", err)
		metrics.AnalysesTotal.WithLabelValues("client_error").Inc()
		h.RespondWithError(w, http.StatusBadRequest, "Unsupported content type")
		return
	}

	fileBytes, err := base64.StdEncoding.DecodeString(req.FileContent)
	if err != nil {
		// Undecodable content is treated as a pipeline failure, not a
		// distinct client error
		logging.Error("Failed to decode file content", "error", err, "file_name", fileName)
		metrics.AnalysesTotal.WithLabelValues("server_error").Inc()
		h.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	storageKey := storage.PrescriptionKey(fileName, time.Now())
	if err := h.objectStore.Put(r.Context(), storageKey, fileBytes, contentType); err != nil {
		logging.Error("Failed to store prescription upload", "key", storageKey, "error", err)
		metrics.AnalysesTotal.WithLabelValues("server_error").Inc()
		h.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	// Image uploads go through OCR; text uploads are decoded directly.
	// An OCR failure comes back as an empty string, so matching still
	// runs and the response simply carries no extracted text.
	var extractedText string
	if strings.HasPrefix(contentType, "image/") {
		extractedText = h.ocrClient.ExtractText(r.Context(), fileBytes)
	} else {
		extractedText = string(fileBytes)
	}

	medicines := h.matcher.Match(extractedText, h.dataStore.GetTable())
	if medicines == nil {
		medicines = []entities.Medicine{}
	}

	h.dataStore.RecordAnalysis()
	metrics.AnalysesTotal.WithLabelValues("success").Inc()

	logging.Info("Prescription analyzed",
		"file_name", fileName,
		"storage_key", storageKey,
		"text_length", len(extractedText),
		"medicine_count", len(medicines),
	)

	h.RespondWithJSON(w, http.StatusOK, AnalyzeResponse{
		Success:       true,
		FileName:      fileName,
		StorageKey:    storageKey,
		ExtractedText: extractedText,
		Medicines:     medicines,
		Timestamp:     time.Now().Format(time.RFC3339),
	})
}

// ServeFormulary returns all formulary records in table order
func (h *HTTPHandlerImpl) ServeFormulary(w http.ResponseWriter, r *http.Request) {
	medicines := h.dataStore.GetTable().Medicines()
	h.RespondWithJSON(w, http.StatusOK, medicines)
}

// FindMedicine searches the formulary by name (case-insensitive substring
// on canonical key or display name, mirroring the matcher's exact pass)
func (h *HTTPHandlerImpl) FindMedicine(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		h.RespondWithError(w, http.StatusBadRequest, "Missing search term")
		return
	}

	if err := h.validator.ValidateInput(name); err != nil {
		logging.Warn("Unusual user input", "search_term", name, "error", err)
		h.RespondWithError(w, http.StatusBadRequest, "Invalid search term")
		return
	}

	lowered := strings.ToLower(name)

	var results []entities.Medicine
	for _, entry := range h.dataStore.GetTable().Entries() {
		if strings.Contains(entry.Key, lowered) ||
			strings.Contains(strings.ToLower(entry.Medicine.Name), lowered) {
			results = append(results, entry.Medicine)
		}
	}

	if len(results) == 0 {
		h.RespondWithError(w, http.StatusNotFound, "No medicines found")
		return
	}

	h.RespondWithJSON(w, http.StatusOK, results)
}

// HealthCheck returns server health information
func (h *HTTPHandlerImpl) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status, details, httpStatus := h.health.HealthCheck()

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	uptime := time.Since(h.dataStore.GetServerStartTime())

	response := map[string]any{
		"status":         status,
		"uptime_seconds": uptime.Seconds(),
		"data":           details,
		"system": map[string]any{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb":       int(m.Alloc / 1024 / 1024),
				"total_alloc_mb": int(m.TotalAlloc / 1024 / 1024),
				"sys_mb":         int(m.Sys / 1024 / 1024),
				"num_gc":         m.NumGC,
			},
		},
	}

	h.RespondWithJSON(w, httpStatus, response)
}
