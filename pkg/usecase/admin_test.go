package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/goerr/v2"
	"github.com/wicket-bot/wicket/pkg/domain/interfaces"
	"github.com/wicket-bot/wicket/pkg/domain/interfaces/mocks"
	"github.com/wicket-bot/wicket/pkg/domain/model"
	"github.com/wicket-bot/wicket/pkg/domain/types"
	"github.com/wicket-bot/wicket/pkg/repository"
	"github.com/wicket-bot/wicket/pkg/usecase"
)

func newAdminEnv(t *testing.T, mock *mocks.PlatformMock) (*usecase.Admin, interfaces.SettingsStore) {
	t.Helper()
	ctx := context.Background()

	store := repository.NewMemory()
	gt.NoError(t, store.Update(ctx, func(s *model.Settings) {
		s.LogsChannelID = "LOGS"
	}))

	audit := usecase.NewAudit(store, mock)
	auth := usecase.NewAuth(store, []types.UserID{"dev"})
	return usecase.NewAdmin(store, mock, audit, auth), store
}

func TestSetMainCategory(t *testing.T) {
	ctx := context.Background()
	mock := &mocks.PlatformMock{}
	admin, store := newAdminEnv(t, mock)

	name, err := admin.SetMainCategory(ctx, "CAT1")
	gt.NoError(t, err)
	gt.Equal(t, name, "CAT1")

	s := store.Settings()
	gt.Equal(t, s.MainCategoryID, types.CategoryID("CAT1"))
	gt.Equal(t, s.TicketCategoryIDs[0], types.CategoryID("CAT1"))

	// a known category regaining main status keeps its list position; only
	// unseen categories are prepended
	_, err = admin.SetMainCategory(ctx, "CAT2")
	gt.NoError(t, err)
	_, err = admin.SetMainCategory(ctx, "CAT1")
	gt.NoError(t, err)
	s = store.Settings()
	gt.Equal(t, s.MainCategoryID, types.CategoryID("CAT1"))
	gt.Equal(t, s.TicketCategoryIDs, []types.CategoryID{"CAT2", "CAT1"})
}

func TestSetMainCategoryRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	mock := &mocks.PlatformMock{}
	mock.CategoryInfoFunc = func(ctx context.Context, cat types.CategoryID) (*model.CategoryInfo, error) {
		return nil, goerr.New("not a category")
	}
	admin, store := newAdminEnv(t, mock)

	_, err := admin.SetMainCategory(ctx, "TEXTCHAN")
	gt.True(t, errors.Is(err, model.ErrInvalidArgument))
	gt.Equal(t, store.Settings().MainCategoryID, types.CategoryID(""))
}

func TestBlacklistRoundTrip(t *testing.T) {
	ctx := context.Background()
	mock := &mocks.PlatformMock{}
	admin, store := newAdminEnv(t, mock)

	gt.NoError(t, admin.BlacklistAdd(ctx, "U1"))
	gt.True(t, store.Settings().IsBlacklisted("U1"))

	err := admin.BlacklistAdd(ctx, "U1")
	gt.True(t, errors.Is(err, model.ErrInvalidArgument))

	gt.Equal(t, admin.BlacklistList(), []types.UserID{"U1"})

	gt.NoError(t, admin.BlacklistRemove(ctx, "U1"))
	gt.False(t, store.Settings().IsBlacklisted("U1"))

	err = admin.BlacklistRemove(ctx, "U1")
	gt.True(t, errors.Is(err, model.ErrInvalidArgument))
}

func TestAutoresponderConfig(t *testing.T) {
	ctx := context.Background()
	mock := &mocks.PlatformMock{}
	admin, store := newAdminEnv(t, mock)

	gt.NoError(t, admin.SetAutoresponder(ctx, " Index ", "send your index"))
	gt.Equal(t, store.Settings().Autoresponders["index"], "send your index")

	gt.NoError(t, admin.SetAutoSendTrigger(ctx, "index"))
	gt.Equal(t, store.Settings().AutoSendTrigger, "index")

	err := admin.SetAutoSendTrigger(ctx, "missing")
	gt.True(t, errors.Is(err, model.ErrInvalidArgument))

	gt.Equal(t, admin.ListAutoresponders(), []string{"index"})

	// deleting the trigger also clears the auto-send selection
	gt.NoError(t, admin.DeleteAutoresponder(ctx, "index"))
	s := store.Settings()
	gt.Equal(t, len(s.Autoresponders), 0)
	gt.Equal(t, s.AutoSendTrigger, "")

	err = admin.DeleteAutoresponder(ctx, "index")
	gt.True(t, errors.Is(err, model.ErrInvalidArgument))
}

func TestSetAutoDelay(t *testing.T) {
	ctx := context.Background()
	mock := &mocks.PlatformMock{}
	admin, store := newAdminEnv(t, mock)

	gt.NoError(t, admin.SetAutoDelay(ctx, 2.5))
	gt.Equal(t, store.Settings().AutoDelaySeconds, 2.5)

	err := admin.SetAutoDelay(ctx, -1)
	gt.True(t, errors.Is(err, model.ErrInvalidArgument))
}

func TestSetCommandAlias(t *testing.T) {
	ctx := context.Background()
	mock := &mocks.PlatformMock{}
	admin, store := newAdminEnv(t, mock)

	gt.NoError(t, admin.SetCommandAlias(ctx, "panel", "ticketpanel"))
	gt.Equal(t, store.Settings().CanonicalCommand("ticketpanel"), "panel")

	// unknown base commands cannot be renamed
	err := admin.SetCommandAlias(ctx, "aaa", "boom")
	gt.True(t, errors.Is(err, model.ErrInvalidArgument))

	// an alias can serve one base command at a time
	err = admin.SetCommandAlias(ctx, "nuke", "ticketpanel")
	gt.True(t, errors.Is(err, model.ErrInvalidArgument))

	// remapping the same base is fine
	gt.NoError(t, admin.SetCommandAlias(ctx, "panel", "tp"))
	gt.Equal(t, store.Settings().CanonicalCommand("tp"), "panel")
}

func TestMoveToMainCategory(t *testing.T) {
	ctx := context.Background()
	mock := &mocks.PlatformMock{}
	admin, store := newAdminEnv(t, mock)

	err := admin.MoveToMainCategory(ctx, "C1", "staff", "alice")
	gt.True(t, errors.Is(err, model.ErrCategoryNotConfigured))

	gt.NoError(t, store.Update(ctx, func(s *model.Settings) {
		s.SetMainCategory("CAT1")
	}))

	gt.NoError(t, admin.MoveToMainCategory(ctx, "C1", "staff", "alice"))
	moves := mock.SetParentCalls()
	gt.Equal(t, len(moves), 1)
	gt.Equal(t, moves[0].Ch, types.ChannelID("C1"))
	gt.Equal(t, moves[0].Parent, types.CategoryID("CAT1"))
}

func TestMarkImportant(t *testing.T) {
	ctx := context.Background()
	mock := &mocks.PlatformMock{}
	admin, store := newAdminEnv(t, mock)

	gt.NoError(t, store.Update(ctx, func(s *model.Settings) {
		s.ImportantCategoryID = "IMP"
	}))

	gt.NoError(t, admin.MarkImportant(ctx, "C1", "staff", "alice"))
	moves := mock.SetParentCalls()
	gt.Equal(t, len(moves), 1)
	gt.Equal(t, moves[0].Parent, types.CategoryID("IMP"))
}

func TestRenameFromText(t *testing.T) {
	ctx := context.Background()
	mock := &mocks.PlatformMock{}
	admin, _ := newAdminEnv(t, mock)

	name, err := admin.RenameFromText(ctx, "C123456789", "Héllo, World! Ticket #42", "staff", "alice")
	gt.NoError(t, err)
	gt.Equal(t, name, "hello-world-ticket-42")

	renames := mock.SetNameCalls()
	gt.Equal(t, len(renames), 1)
	gt.Equal(t, renames[0].Name, "hello-world-ticket-42")
}

func TestNormalizeChannelName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello-world"},
		{"Crème brûlée!!", "creme-brulee"},
		{"***", "chan-6789"},
		{"", "chan-6789"},
		{"already-fine", "already-fine"},
	}
	for _, tc := range cases {
		gt.Equal(t, usecase.NormalizeChannelName(tc.in, "chan-6789"), tc.want)
	}
}

func TestDeleteChannelRequiresDeveloper(t *testing.T) {
	ctx := context.Background()
	mock := &mocks.PlatformMock{}
	admin, store := newAdminEnv(t, mock)
	gt.NoError(t, store.Update(ctx, func(s *model.Settings) {
		s.AdminIDs = []types.UserID{"staff"}
	}))

	// a plain admin is not enough
	err := admin.DeleteChannel(ctx, "C1", "staff", "alice")
	gt.True(t, errors.Is(err, model.ErrUnauthorized))
	gt.Equal(t, len(mock.DeleteChannelCalls()), 0)

	gt.NoError(t, admin.DeleteChannel(ctx, "C1", "dev", "devname"))
	deletes := mock.DeleteChannelCalls()
	gt.Equal(t, len(deletes), 1)
	gt.Equal(t, deletes[0].Ch, types.ChannelID("C1"))
}

func TestSendOpenPanel(t *testing.T) {
	ctx := context.Background()
	mock := &mocks.PlatformMock{}
	var gotButtons []model.Button
	mock.SendPanelFunc = func(ctx context.Context, ch types.ChannelID, embed *model.Embed, buttons []model.Button) (types.MessageID, error) {
		gotButtons = buttons
		return "P1", nil
	}
	admin, _ := newAdminEnv(t, mock)

	gt.NoError(t, admin.SendOpenPanel(ctx, "C1"))
	gt.Equal(t, len(gotButtons), 1)
	gt.Equal(t, gotButtons[0].ActionID, model.ActionOpenTicket)
}
