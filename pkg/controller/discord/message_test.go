package discord_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/m-mizutani/gt"
	controller "github.com/wicket-bot/wicket/pkg/controller/discord"
	"github.com/wicket-bot/wicket/pkg/domain/interfaces"
	"github.com/wicket-bot/wicket/pkg/domain/interfaces/mocks"
	"github.com/wicket-bot/wicket/pkg/domain/model"
	"github.com/wicket-bot/wicket/pkg/domain/types"
	"github.com/wicket-bot/wicket/pkg/repository"
	"github.com/wicket-bot/wicket/pkg/service/directory"
	"github.com/wicket-bot/wicket/pkg/service/scheduler"
	"github.com/wicket-bot/wicket/pkg/usecase"
)

type handlerEnv struct {
	store   interfaces.SettingsStore
	mock    *mocks.PlatformMock
	handler *controller.Handler
	ticket  *usecase.Ticket
}

func newHandlerEnv(t *testing.T, mock *mocks.PlatformMock) *handlerEnv {
	t.Helper()
	ctx := context.Background()

	store := repository.NewMemory()
	gt.NoError(t, store.Update(ctx, func(s *model.Settings) {
		s.SetMainCategory("CAT1")
		s.AdminIDs = []types.UserID{"staff"}
		s.LogsChannelID = "LOGS"
	}))

	sched := scheduler.New(ctx,
		scheduler.WithCountdownTick(time.Hour),
		scheduler.WithReminderDelay(time.Hour),
	)
	t.Cleanup(sched.Stop)

	auth := usecase.NewAuth(store, []types.UserID{"dev"})
	audit := usecase.NewAudit(store, mock)
	alloc := usecase.NewAllocator(store, mock)
	dir := directory.New()
	ticket := usecase.NewTicket(store, mock, dir, sched, alloc, audit, auth,
		usecase.WithCloseGrace(time.Millisecond))
	admin := usecase.NewAdmin(store, mock, audit, auth)
	resp := usecase.NewAutoresponder(store, mock, audit)
	mod := usecase.NewModeration(mock, audit, auth)

	handler := controller.New(ctx, store, mock, ticket, admin, resp, mod, auth, "G1", ".")
	return &handlerEnv{store: store, mock: mock, handler: handler, ticket: ticket}
}

func guildMsg(ch, author, content string) *discordgo.MessageCreate {
	return &discordgo.MessageCreate{Message: &discordgo.Message{
		ID:        "M1",
		GuildID:   "G1",
		ChannelID: ch,
		Content:   content,
		Author:    &discordgo.User{ID: author, Username: author},
	}}
}

func repliesTo(mock *mocks.PlatformMock, ch types.ChannelID) []string {
	var texts []string
	for _, call := range mock.SendTextCalls() {
		if call.Ch == ch {
			texts = append(texts, call.Text)
		}
	}
	return texts
}

func TestCommandsRequireStaff(t *testing.T) {
	ctx := context.Background()
	mock := &mocks.PlatformMock{}
	env := newHandlerEnv(t, mock)

	env.handler.HandleMessage(ctx, guildMsg("C1", "rando", ".setlogs <#123456789012345678>"))
	gt.Equal(t, len(mock.SendTextCalls()), 0)
	gt.Equal(t, env.store.Settings().LogsChannelID, types.ChannelID("LOGS"))
}

func TestSetLogsCommand(t *testing.T) {
	ctx := context.Background()
	mock := &mocks.PlatformMock{
		ChannelInfoFunc: func(ctx context.Context, ch types.ChannelID) (*model.ChannelInfo, error) {
			return &model.ChannelInfo{ID: ch, Name: "mod-logs"}, nil
		},
	}
	env := newHandlerEnv(t, mock)

	env.handler.HandleMessage(ctx, guildMsg("C1", "staff", ".setlogs <#123456789012345678>"))

	gt.Equal(t, env.store.Settings().LogsChannelID, types.ChannelID("123456789012345678"))
	replies := repliesTo(mock, "C1")
	gt.Equal(t, len(replies), 1)
	gt.True(t, strings.Contains(replies[0], "mod-logs"))
}

func TestBlacklistCommandFlow(t *testing.T) {
	ctx := context.Background()
	mock := &mocks.PlatformMock{}
	env := newHandlerEnv(t, mock)
	target := "123456789012345678"

	env.handler.HandleMessage(ctx, guildMsg("C1", "staff", ".blacklist "+target))
	gt.Equal(t, env.store.Settings().Blacklist, []types.UserID{types.UserID(target)})

	env.handler.HandleMessage(ctx, guildMsg("C1", "staff", ".blacklist list"))
	replies := repliesTo(mock, "C1")
	gt.True(t, strings.Contains(replies[len(replies)-1], target))

	env.handler.HandleMessage(ctx, guildMsg("C1", "staff", ".blacklist remove "+target))
	gt.Equal(t, len(env.store.Settings().Blacklist), 0)
}

func TestAutoresponderCommandAndMatch(t *testing.T) {
	ctx := context.Background()
	mock := &mocks.PlatformMock{}
	env := newHandlerEnv(t, mock)

	env.handler.HandleMessage(ctx, guildMsg("C1", "staff", ".ar set index, send your index please"))
	gt.Equal(t, env.store.Settings().Autoresponders["index"], "send your index please")

	// a plain message from anyone now triggers the responder
	env.handler.HandleMessage(ctx, guildMsg("C2", "rando", "where do i put my index?"))
	replies := repliesTo(mock, "C2")
	gt.Equal(t, len(replies), 1)
	gt.Equal(t, replies[0], "send your index please")
}

func TestTicketActivityStartsOnTicketCategoryMessage(t *testing.T) {
	ctx := context.Background()
	mock := &mocks.PlatformMock{
		ChannelInfoFunc: func(ctx context.Context, ch types.ChannelID) (*model.ChannelInfo, error) {
			return &model.ChannelInfo{ID: ch, Name: "ticket-700", ParentID: "CAT1"}, nil
		},
	}
	env := newHandlerEnv(t, mock)

	env.handler.HandleMessage(ctx, guildMsg("T1", "rando", "hello, i need help"))

	embeds := mock.SendEmbedCalls()
	gt.Equal(t, len(embeds), 1)
	gt.True(t, strings.Contains(embeds[0].Embed.Title, "READ BEFORE"))
}

func TestReasonMessageIsConsumed(t *testing.T) {
	ctx := context.Background()
	mock := &mocks.PlatformMock{}
	env := newHandlerEnv(t, mock)
	gt.NoError(t, env.store.Update(ctx, func(s *model.Settings) {
		s.Autoresponders["spam"] = "do not spam"
	}))

	got := make(chan string, 1)
	ready := make(chan struct{})
	go func() {
		close(ready)
		reason, ok := env.ticket.AwaitReason(ctx, "C1", "staff")
		if ok {
			got <- reason
		}
	}()
	<-ready
	time.Sleep(20 * time.Millisecond)

	env.handler.HandleMessage(ctx, guildMsg("C1", "staff", "spam in the channel"))

	select {
	case reason := <-got:
		gt.Equal(t, reason, "spam in the channel")
	case <-time.After(time.Second):
		t.Fatal("reason was not delivered")
	}
	// the consumed message must not reach the autoresponder
	gt.Equal(t, len(mock.SendTextCalls()), 0)
}

func TestDoneClosesTicket(t *testing.T) {
	ctx := context.Background()
	mock := &mocks.PlatformMock{
		CreateTicketChannelFunc: func(ctx context.Context, name string, parent types.CategoryID, access model.ChannelAccess) (types.ChannelID, error) {
			return "T1", nil
		},
	}
	env := newHandlerEnv(t, mock)

	ch, err := env.ticket.Open(ctx, "U1")
	gt.NoError(t, err)

	env.handler.HandleMessage(ctx, guildMsg(ch.String(), "staff", ".done"))

	deletes := mock.DeleteChannelCalls()
	gt.Equal(t, len(deletes), 1)
	gt.Equal(t, deletes[0].Ch, ch)
	gt.Equal(t, len(env.ticket.List()), 0)
}

func TestCommandAliasRoundTrip(t *testing.T) {
	ctx := context.Background()
	mock := &mocks.PlatformMock{}
	env := newHandlerEnv(t, mock)

	env.handler.HandleMessage(ctx, guildMsg("C1", "staff", ".setcmd blacklist bl"))
	gt.Equal(t, env.store.Settings().CommandAliases["blacklist"], "bl")

	target := "123456789012345678"
	env.handler.HandleMessage(ctx, guildMsg("C1", "staff", ".bl "+target))
	gt.Equal(t, env.store.Settings().Blacklist, []types.UserID{types.UserID(target)})
}

func TestModerationRemovesFlaggedMessage(t *testing.T) {
	ctx := context.Background()
	mock := &mocks.PlatformMock{}
	env := newHandlerEnv(t, mock)

	env.handler.HandleMessage(ctx, guildMsg("C1", "rando", "this guy is a SCAMMER"))

	deletes := mock.DeleteMessageCalls()
	gt.Equal(t, len(deletes), 1)
	gt.Equal(t, deletes[0].Msg, types.MessageID("M1"))
}

func TestRenameFromReply(t *testing.T) {
	ctx := context.Background()
	mock := &mocks.PlatformMock{
		MessageFunc: func(ctx context.Context, ch types.ChannelID, msg types.MessageID) (*model.InboundMessage, error) {
			return &model.InboundMessage{ID: msg, ChannelID: ch, Content: "Trading Help Needed!"}, nil
		},
	}
	env := newHandlerEnv(t, mock)

	ev := guildMsg("C1", "staff", ".hi")
	ev.MessageReference = &discordgo.MessageReference{MessageID: "M0", ChannelID: "C1"}
	env.handler.HandleMessage(ctx, ev)

	renames := mock.SetNameCalls()
	gt.Equal(t, len(renames), 1)
	gt.Equal(t, renames[0].Name, "trading-help-needed")
	// the invoking command message is cleaned up
	gt.Equal(t, len(mock.DeleteMessageCalls()), 1)
}
