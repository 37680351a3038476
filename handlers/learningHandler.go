package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"vocabtutor/models"
	"vocabtutor/services"
	"vocabtutor/services/analyzer"

	"github.com/gorilla/mux"
)

const (
	defaultIntroduceCount = 3
	defaultReviewCount    = 5
)

type LearningHandler struct {
	learning    *services.LearningService
	analyzer    *analyzer.Service
	exposureLog *services.ExposureLogService
}

func NewLearningHandler(learning *services.LearningService, analyzer *analyzer.Service, exposureLog *services.ExposureLogService) *LearningHandler {
	return &LearningHandler{learning: learning, analyzer: analyzer, exposureLog: exposureLog}
}

func (h *LearningHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/learning/introduce", h.IntroduceWords).Methods("POST")
	router.HandleFunc("/learning/review", h.GetReviewWords).Methods("GET")
	router.HandleFunc("/learning/exposure", h.RecordExposure).Methods("POST")
	router.HandleFunc("/learning/transcript", h.ProcessTranscript).Methods("POST")
	router.HandleFunc("/learning/exposures", h.GetRecentExposures).Methods("GET")
	router.HandleFunc("/learning/exposures/{word}", h.GetWordExposures).Methods("GET")
}

func (h *LearningHandler) IntroduceWords(w http.ResponseWriter, r *http.Request) {
	count, err := queryCount(r, defaultIntroduceCount)
	if err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.learning.IntroduceWords(count)
	if err != nil {
		h.writeErrorResponse(w, statusForError(err), "Failed to introduce words")
		return
	}

	h.writeJSONResponse(w, http.StatusOK, result)
}

func (h *LearningHandler) GetReviewWords(w http.ResponseWriter, r *http.Request) {
	count, err := queryCount(r, defaultReviewCount)
	if err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.learning.GetReviewWords(count)
	if err != nil {
		h.writeErrorResponse(w, statusForError(err), "Failed to retrieve review words")
		return
	}

	h.writeJSONResponse(w, http.StatusOK, result)
}

func (h *LearningHandler) RecordExposure(w http.ResponseWriter, r *http.Request) {
	var exposure models.Exposure
	if err := json.NewDecoder(r.Body).Decode(&exposure); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	if !exposure.Speaker.Valid() {
		h.writeErrorResponse(w, http.StatusBadRequest, fmt.Sprintf("unknown speaker %q", exposure.Speaker))
		return
	}

	word, err := h.learning.RecordExposure(exposure)
	if err != nil {
		h.writeErrorResponse(w, statusForError(err), err.Error())
		return
	}

	h.writeJSONResponse(w, http.StatusOK, word)
}

func (h *LearningHandler) ProcessTranscript(w http.ResponseWriter, r *http.Request) {
	log.Printf("[INFO] Received transcript analysis request")

	var req models.TranscriptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("[ERROR] Failed to decode transcript request JSON: %v", err)
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	if len(req.Messages) == 0 {
		h.writeErrorResponse(w, http.StatusBadRequest, "At least one message is required")
		return
	}

	report, err := h.analyzer.AnalyzeTranscript(r.Context(), req)
	if err != nil {
		log.Printf("[ERROR] Transcript analysis failed: %v", err)
		h.writeErrorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	log.Printf("[INFO] Transcript analysis completed successfully")
	h.writeJSONResponse(w, http.StatusOK, report)
}

func (h *LearningHandler) GetRecentExposures(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	entries, err := h.exposureLog.GetRecentEntries(limit)
	if err != nil {
		h.writeErrorResponse(w, statusForError(err), "Failed to retrieve exposure log")
		return
	}

	h.writeJSONResponse(w, http.StatusOK, entries)
}

func (h *LearningHandler) GetWordExposures(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	entries, err := h.exposureLog.GetEntriesByWord(vars["word"])
	if err != nil {
		h.writeErrorResponse(w, statusForError(err), "Failed to retrieve exposure log")
		return
	}

	h.writeJSONResponse(w, http.StatusOK, entries)
}

func (h *LearningHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func (h *LearningHandler) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// queryCount reads the count query parameter, falling back when absent.
func queryCount(r *http.Request, fallback int) (int, error) {
	raw := r.URL.Query().Get("count")
	if raw == "" {
		return fallback, nil
	}

	count, err := strconv.Atoi(raw)
	if err != nil || count <= 0 {
		return 0, fmt.Errorf("count must be a positive integer, got %q", raw)
	}

	return count, nil
}
