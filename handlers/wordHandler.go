package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"vocabtutor/db"
	"vocabtutor/models"
	"vocabtutor/services"
	"vocabtutor/services/srs"

	"github.com/gorilla/mux"
)

type WordHandler struct {
	service *services.WordService
}

func NewWordHandler(service *services.WordService) *WordHandler {
	return &WordHandler{service: service}
}

func (h *WordHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/words", h.CreateWord).Methods("POST")
	router.HandleFunc("/words", h.GetWords).Methods("GET")
	router.HandleFunc("/words/reset", h.ResetAllWords).Methods("POST")
	router.HandleFunc("/words/{word}", h.GetWordByText).Methods("GET")
	router.HandleFunc("/words/{word}/reset", h.ResetWord).Methods("POST")
}

func (h *WordHandler) CreateWord(w http.ResponseWriter, r *http.Request) {
	var req models.CreateWordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	word, err := h.service.CreateWord(req)
	if err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	h.writeJSONResponse(w, http.StatusCreated, word)
}

func (h *WordHandler) GetWords(w http.ResponseWriter, r *http.Request) {
	words, err := h.service.SearchWords(r.URL.Query().Get("q"))
	if err != nil {
		h.writeErrorResponse(w, statusForError(err), "Failed to retrieve words")
		return
	}

	h.writeJSONResponse(w, http.StatusOK, words)
}

func (h *WordHandler) GetWordByText(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	word, err := h.service.GetWordByText(vars["word"])
	if err != nil {
		h.writeErrorResponse(w, statusForError(err), err.Error())
		return
	}

	h.writeJSONResponse(w, http.StatusOK, word)
}

func (h *WordHandler) ResetWord(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	word, err := h.service.ResetWord(vars["word"])
	if err != nil {
		h.writeErrorResponse(w, statusForError(err), err.Error())
		return
	}

	h.writeJSONResponse(w, http.StatusOK, word)
}

func (h *WordHandler) ResetAllWords(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.ResetAllWords()
	if err != nil {
		h.writeErrorResponse(w, statusForError(err), "Failed to reset words")
		return
	}

	h.writeJSONResponse(w, http.StatusOK, map[string]int{"reset_count": count})
}

func (h *WordHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func (h *WordHandler) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// statusForError maps the store and scheduler sentinels onto HTTP status
// codes; anything unrecognized is treated as a server fault.
func statusForError(err error) int {
	switch {
	case errors.Is(err, db.ErrWordNotFound):
		return http.StatusNotFound
	case errors.Is(err, db.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, srs.ErrInvalidQuality):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
