// Package api exposes the reminder service operations over HTTP.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"user-reminders/internal/service"
)

type actorCtxKey struct{}

// Server routes the reminder RPCs:
//
//	POST /api/v1/lists/{listID}/items           add_item
//	PUT  /api/v1/lists/{listID}/items/{uid}     update_item
//	POST /api/v1/lists/{listID}/items/remove    remove_item
//	GET  /api/v1/lists/{listID}/items[?uid=..]  get_items
type Server struct {
	reminders *service.ReminderService
	logger    *slog.Logger
	router    chi.Router
}

func NewServer(reminders *service.ReminderService, logger *slog.Logger) *Server {
	s := &Server{
		reminders: reminders,
		logger:    logger.With("component", "api"),
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.actorMiddleware)

	r.Route("/api/v1/lists/{listID}/items", func(r chi.Router) {
		r.Post("/", s.handleAddItem)
		r.Get("/", s.handleGetItems)
		r.Post("/remove", s.handleRemoveItems)
		r.Put("/{uid}", s.handleUpdateItem)
	})

	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// actorMiddleware resolves the acting user from the X-User-ID header,
// or from X-User-Name for automation-driven calls.
func (s *Server) actorMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor := service.Actor{
			UserID:   r.Header.Get("X-User-ID"),
			UserName: r.Header.Get("X-User-Name"),
		}
		if actor.UserID == "" && actor.UserName == "" {
			writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "Missing X-User-ID or X-User-Name header"})
			return
		}
		ctx := context.WithValue(r.Context(), actorCtxKey{}, actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func actorFrom(r *http.Request) service.Actor {
	actor, _ := r.Context().Value(actorCtxKey{}).(service.Actor)
	return actor
}

func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	item, err := s.reminders.Create(r.Context(), actorFrom(r), service.CreateInput{
		UID:     req.UID,
		ListID:  chi.URLParam(r, "listID"),
		Summary: req.Summary,
		Due:     req.Due,
	})
	if err != nil {
		s.logger.Warn("add_item failed", "error", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toItemResponse(item))
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	var req UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	patch := service.ItemPatch{
		UID:     chi.URLParam(r, "uid"),
		Summary: req.Summary,
		Due:     req.Due,
	}
	if req.LastFired != "" {
		t, err := time.Parse(time.RFC3339, req.LastFired)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Malformed last_fired"})
			return
		}
		patch.LastFired = &t
	}

	if err := s.reminders.Update(r.Context(), actorFrom(r), chi.URLParam(r, "listID"), patch); err != nil {
		s.logger.Warn("update_item failed", "error", err)
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveItems(w http.ResponseWriter, r *http.Request) {
	var req RemoveItemsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	if err := s.reminders.Remove(r.Context(), actorFrom(r), chi.URLParam(r, "listID"), req.UIDs); err != nil {
		s.logger.Warn("remove_item failed", "error", err)
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetItems(w http.ResponseWriter, r *http.Request) {
	uids := r.URL.Query()["uid"]

	items, err := s.reminders.Get(r.Context(), actorFrom(r), chi.URLParam(r, "listID"), uids)
	if err != nil {
		s.logger.Warn("get_items failed", "error", err)
		writeError(w, err)
		return
	}

	resp := GetItemsResponse{Reminders: make([]ItemResponse, 0, len(items))}
	for _, item := range items {
		resp.Reminders = append(resp.Reminders, toItemResponse(item))
	}
	writeJSON(w, http.StatusOK, resp)
}
