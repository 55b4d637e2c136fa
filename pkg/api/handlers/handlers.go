package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/jswales/capstead/pkg/game"
	"github.com/jswales/capstead/pkg/log"
)

// Summarizer exposes the read-only session view the API serves.
type Summarizer interface {
	Summary() game.SessionSummary
}

func HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]string{"status": "ok"}); err != nil {
			log.Error("failed to encode health response: %v", err)
		}
	}
}

func HandleGetSession(summarizer Summarizer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(summarizer.Summary()); err != nil {
			log.Error("failed to encode session summary: %v", err)
			http.Error(w, "Failed to encode session summary", http.StatusInternalServerError)
		}
	}
}

// HandleTriggerSave asks the save worker for an immediate checkpoint.
func HandleTriggerSave(saveChan chan<- struct{}) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		select {
		case saveChan <- struct{}{}:
			w.WriteHeader(http.StatusAccepted)
		default:
			http.Error(w, "A save is already in progress", http.StatusConflict)
		}
	}
}
