package handlers

import (
	"encoding/json"
	"net/http"

	"taskboard/logging"
	"taskboard/services"
)

type AIHandler struct {
	service *services.AIService
}

func NewAIHandler(service *services.AIService) *AIHandler {
	return &AIHandler{service: service}
}

// GenerateDescription drafts a task description from a title. Unauthenticated
// and best-effort: any upstream failure is a generic error.
func (h *AIHandler) GenerateDescription(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Title == "" {
		http.Error(w, "Title is required", http.StatusBadRequest)
		return
	}

	description, err := h.service.GenerateDescription(r.Context(), req.Title)
	if err != nil {
		logging.Logger.Warnf("Event ID: AI_GENERATION_FAILED, Description: Description generation failed: %v", err)
		http.Error(w, "Failed to generate description", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"description": description})
}
