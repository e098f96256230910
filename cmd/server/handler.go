package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/m2tx/contentkit/content"
	"github.com/m2tx/contentkit/internal/agent"
	"github.com/m2tx/contentkit/internal/model"
	"google.golang.org/genai"
)

type chatAgent interface {
	Send(ctx context.Context, sessionID string, prompt any) ([]model.Content, error)
	GetSession(ctx context.Context, sessionID string) ([]model.Content, error)
	ClearSession(ctx context.Context, sessionID string)
	Tools() []*genai.Tool
}

func newHandler(a chatAgent) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/history", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodDelete {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		sessionID := r.URL.Query().Get("session_id")
		if sessionID == "" {
			http.Error(w, "session_id is required", http.StatusBadRequest)
			return
		}

		if r.Method == http.MethodDelete {
			a.ClearSession(r.Context(), sessionID)
			w.WriteHeader(http.StatusNoContent)
			return
		}

		contents, err := a.GetSession(r.Context(), sessionID)
		if err != nil {
			http.Error(w, "get session", http.StatusInternalServerError)
			return
		}
		writeJSON(w, contents)
	})

	mux.HandleFunc("/tools", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		tools := a.Tools()
		if tools == nil {
			tools = []*genai.Tool{}
		}
		writeJSON(w, tools)
	})

	mux.HandleFunc("/prompt", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		// prompt is decoded without a fixed shape: a string, a list of
		// parts or a content mapping are all valid.
		var req struct {
			SessionID string `json:"session_id"`
			Prompt    any    `json:"prompt"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		if req.SessionID == "" {
			http.Error(w, "session_id is required", http.StatusBadRequest)
			return
		}

		if req.Prompt == nil || req.Prompt == "" {
			http.Error(w, "prompt is required", http.StatusBadRequest)
			return
		}

		resp, err := a.Send(r.Context(), req.SessionID, req.Prompt)
		if err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}

		writeJSON(w, resp)
	})

	return mux
}

// statusFor maps rejected prompts to 400.
func statusFor(err error) int {
	var typeErr *content.TypeConversionError
	var keyErr *content.KeyConversionError
	if errors.As(err, &typeErr) || errors.As(err, &keyErr) || errors.Is(err, agent.ErrPromptRole) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
