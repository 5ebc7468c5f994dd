// Package http exposes the ops surface: a health probe and a read-only
// listing of live tickets.
package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/ctxlog"
	"github.com/wicket-bot/wicket/pkg/domain/model"
	"github.com/wicket-bot/wicket/pkg/domain/types"
)

// TicketLister is the slice of the ticket use case the ops surface reads
type TicketLister interface {
	List() []*model.Ticket
}

// Server is the ops HTTP server
type Server struct {
	*http.Server
	router  chi.Router
	tickets TicketLister
}

// NewServer builds the ops server bound to addr
func NewServer(ctx context.Context, addr string, tickets TicketLister) *Server {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	router.Use(middleware.Recoverer)

	s := &Server{
		Server: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
		},
		router:  router,
		tickets: tickets,
	}

	router.Get("/health", handleHealth)
	router.Route("/api", func(r chi.Router) {
		r.Get("/tickets", s.handleTickets)
	})
	return s
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"service": "wicket",
	}); err != nil {
		ctxlog.From(r.Context()).Error("Failed to encode health response", "error", err)
	}
}

// ticketView is the wire shape of one live ticket
type ticketView struct {
	ChannelID types.ChannelID `json:"channelID"`
	OwnerID   types.UserID    `json:"ownerID,omitempty"`
	ClaimedBy types.UserID    `json:"claimedBy,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	ExpiresAt *time.Time      `json:"expiresAt,omitempty"`
	Remaining string          `json:"remaining,omitempty"`
}

func (s *Server) handleTickets(w http.ResponseWriter, r *http.Request) {
	tickets := s.tickets.List()
	views := make([]ticketView, 0, len(tickets))
	for _, t := range tickets {
		view := ticketView{
			ChannelID: t.ChannelID,
			OwnerID:   t.OwnerID,
			ClaimedBy: t.ClaimedBy,
			CreatedAt: t.CreatedAt,
		}
		if !t.ExpiresAt.IsZero() {
			expires := t.ExpiresAt
			view.ExpiresAt = &expires
			view.Remaining = model.RemainingTimeText(time.Until(expires))
		}
		views = append(views, view)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]any{
		"tickets": views,
		"count":   len(views),
	}); err != nil {
		ctxlog.From(r.Context()).Error("Failed to encode ticket listing", "error", err)
	}
}
