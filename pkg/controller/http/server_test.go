package http_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	server "github.com/wicket-bot/wicket/pkg/controller/http"
	"github.com/wicket-bot/wicket/pkg/domain/model"
)

type staticLister struct {
	tickets []*model.Ticket
}

func (l *staticLister) List() []*model.Ticket { return l.tickets }

func TestHealthEndpoint(t *testing.T) {
	srv := server.NewServer(context.Background(), "127.0.0.1:0", &staticLister{})

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

	gt.Equal(t, rec.Code, 200)
	var body map[string]string
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	gt.Equal(t, body["status"], "healthy")
}

func TestTicketListing(t *testing.T) {
	now := time.Now()
	lister := &staticLister{tickets: []*model.Ticket{
		{
			ChannelID: "C1",
			OwnerID:   "U1",
			CreatedAt: now,
			ExpiresAt: now.Add(2 * time.Hour),
		},
		{ChannelID: "C2", CreatedAt: now},
	}}
	srv := server.NewServer(context.Background(), "127.0.0.1:0", lister)

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/tickets", nil))

	gt.Equal(t, rec.Code, 200)
	var body struct {
		Count   int `json:"count"`
		Tickets []struct {
			ChannelID string `json:"channelID"`
			OwnerID   string `json:"ownerID"`
			ExpiresAt string `json:"expiresAt"`
			Remaining string `json:"remaining"`
		} `json:"tickets"`
	}
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	gt.Equal(t, body.Count, 2)
	gt.Equal(t, body.Tickets[0].ChannelID, "C1")
	gt.Equal(t, body.Tickets[0].OwnerID, "U1")
	gt.True(t, body.Tickets[0].Remaining != "")
	// a ticket without first activity has no expiry yet
	gt.Equal(t, body.Tickets[1].ExpiresAt, "")
}
