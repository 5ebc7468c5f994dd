package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/wicket-bot/wicket/pkg/domain/interfaces"
	"github.com/wicket-bot/wicket/pkg/domain/interfaces/mocks"
	"github.com/wicket-bot/wicket/pkg/domain/model"
	"github.com/wicket-bot/wicket/pkg/domain/types"
	"github.com/wicket-bot/wicket/pkg/repository"
	"github.com/wicket-bot/wicket/pkg/usecase"
)

func newResponderEnv(t *testing.T, mock *mocks.PlatformMock) (*usecase.Autoresponder, interfaces.SettingsStore) {
	t.Helper()
	ctx := context.Background()

	store := repository.NewMemory()
	gt.NoError(t, store.Update(ctx, func(s *model.Settings) {
		s.LogsChannelID = "LOGS"
		s.Autoresponders = map[string]string{
			"index": "send your index, {user}.",
			"trade": "trades happen in the trade channel.",
		}
	}))

	audit := usecase.NewAudit(store, mock)
	return usecase.NewAutoresponder(store, mock, audit), store
}

func msg(ch types.ChannelID, author types.UserID, content string) *model.InboundMessage {
	return &model.InboundMessage{
		ID:         "M1",
		ChannelID:  ch,
		AuthorID:   author,
		AuthorName: "user",
		Content:    content,
	}
}

func TestAutoresponderMatchesTrigger(t *testing.T) {
	ctx := context.Background()
	mock := &mocks.PlatformMock{}
	responder, _ := newResponderEnv(t, mock)

	gt.True(t, responder.HandleMessage(ctx, msg("C1", "U1", "how do I INDEX this?")))

	texts := mock.SendTextCalls()
	gt.Equal(t, len(texts), 1)
	gt.Equal(t, texts[0].Ch, types.ChannelID("C1"))
	gt.Equal(t, texts[0].Text, "send your index, <@U1>.")

	// the use is logged with the trigger and the offending message
	var logged *model.Embed
	for _, call := range mock.SendEmbedCalls() {
		if call.Ch == "LOGS" && call.Embed.Title == "autoresponder used" {
			logged = call.Embed
		}
	}
	gt.NotNil(t, logged)
}

func TestAutoresponderSingleResponse(t *testing.T) {
	ctx := context.Background()
	mock := &mocks.PlatformMock{}
	responder, _ := newResponderEnv(t, mock)

	// both triggers match; only the first in sorted order answers
	gt.True(t, responder.HandleMessage(ctx, msg("C1", "U1", "index trade")))
	gt.Equal(t, len(mock.SendTextCalls()), 1)
}

func TestAutoresponderNoMatch(t *testing.T) {
	ctx := context.Background()
	mock := &mocks.PlatformMock{}
	responder, _ := newResponderEnv(t, mock)

	gt.False(t, responder.HandleMessage(ctx, msg("C1", "U1", "hello there")))
	gt.Equal(t, len(mock.SendTextCalls()), 0)
}

func TestMatchTrigger(t *testing.T) {
	cases := []struct {
		content string
		trigger string
		want    bool
	}{
		{"please index me", "index", true},
		{"indexing away", "index", true},
		{"no match here", "index", false},
		// any word of a multi-word trigger matches on its own
		{"i want to trade", "trade help", true},
		{"short words only", "go up", false},
		{"in the middle", "mid", true},
	}
	for _, tc := range cases {
		gt.Equal(t, usecase.MatchTrigger(tc.content, tc.trigger), tc.want)
	}
}

func TestAutoSendOnChannelCreate(t *testing.T) {
	ctx := context.Background()
	mock := &mocks.PlatformMock{}
	mock.RoleExistsFunc = func(ctx context.Context, role types.RoleID) bool { return true }
	mock.ChannelViewersFunc = func(ctx context.Context, ch types.ChannelID) ([]*model.Member, error) {
		return []*model.Member{
			{ID: "U1"},
			{ID: "B1", IsBot: true},
			{ID: "A1", IsAdmin: true},
		}, nil
	}
	responder, store := newResponderEnv(t, mock)
	gt.NoError(t, store.Update(ctx, func(s *model.Settings) {
		s.AutoSendTrigger = "index"
		s.AutoSendCategoryID = "SENDCAT"
		s.NotifyRoleID = "R9"
	}))

	responder.HandleChannelCreated(ctx, &model.ChannelInfo{ID: "C5", ParentID: "SENDCAT"})

	texts := mock.SendTextCalls()
	gt.Equal(t, len(texts), 2)
	// the {user} placeholder is dropped for auto-send
	gt.Equal(t, texts[0].Text, "send your index, .")
	// role plus the one human non-admin viewer
	gt.Equal(t, texts[1].Text, "<@&R9> <@U1>")
}

func TestAutoSendIgnoresOtherCategories(t *testing.T) {
	ctx := context.Background()
	mock := &mocks.PlatformMock{}
	responder, store := newResponderEnv(t, mock)
	gt.NoError(t, store.Update(ctx, func(s *model.Settings) {
		s.AutoSendTrigger = "index"
		s.AutoSendCategoryID = "SENDCAT"
	}))

	responder.HandleChannelCreated(ctx, &model.ChannelInfo{ID: "C5", ParentID: "OTHER"})
	gt.Equal(t, len(mock.SendTextCalls()), 0)
}
