package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/wicket-bot/wicket/pkg/domain/interfaces"
	"github.com/wicket-bot/wicket/pkg/domain/model"
	"github.com/wicket-bot/wicket/pkg/domain/types"
	"github.com/wicket-bot/wicket/pkg/service/directory"
	"github.com/wicket-bot/wicket/pkg/service/scheduler"
	"github.com/wicket-bot/wicket/pkg/utils/apperr"
)

// Ticket runs the ticket lifecycle: open, info-sent, claim, close, expiry
// and nuke. It owns no platform state beyond the directory and the timer
// registry; every platform failure is logged and the flow continues where
// the behavior allows it.
type Ticket struct {
	store    interfaces.SettingsStore
	platform interfaces.Platform
	dir      *directory.Directory
	sched    *scheduler.Registry
	alloc    *Allocator
	audit    *Audit
	auth     *Auth

	lifetime   time.Duration
	closeGrace time.Duration
	reasonWait time.Duration

	waitMu  sync.Mutex
	waiters map[waiterKey]chan string
}

type waiterKey struct {
	ch   types.ChannelID
	user types.UserID
}

// TicketOption configures a Ticket use case
type TicketOption func(*Ticket)

// WithLifetime overrides the ticket window
func WithLifetime(d time.Duration) TicketOption {
	return func(t *Ticket) { t.lifetime = d }
}

// WithCloseGrace overrides the delay between the close log and the channel
// deletion
func WithCloseGrace(d time.Duration) TicketOption {
	return func(t *Ticket) { t.closeGrace = d }
}

// WithReasonWait overrides how long a close-with-reason waits for the reason
// message
func WithReasonWait(d time.Duration) TicketOption {
	return func(t *Ticket) { t.reasonWait = d }
}

// NewTicket creates the ticket lifecycle use case
func NewTicket(store interfaces.SettingsStore, platform interfaces.Platform, dir *directory.Directory, sched *scheduler.Registry, alloc *Allocator, audit *Audit, auth *Auth, opts ...TicketOption) *Ticket {
	t := &Ticket{
		store:      store,
		platform:   platform,
		dir:        dir,
		sched:      sched,
		alloc:      alloc,
		audit:      audit,
		auth:       auth,
		lifetime:   model.TicketLifetime,
		closeGrace: model.CloseGrace,
		reasonWait: model.ReasonWait,
		waiters:    make(map[waiterKey]chan string),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Open creates a ticket for userID: a fresh channel under an allocated
// category, visible to the owner, staff and the bot only, with the pinned
// control panel. The one-ticket-per-user rule is enforced twice, once before
// the channel is created and once when registering it, so a racing second
// open cleans up after itself.
func (u *Ticket) Open(ctx context.Context, userID types.UserID) (types.ChannelID, error) {
	s := u.store.Settings()
	if s.IsBlacklisted(userID) {
		return "", goerr.Wrap(model.ErrBlacklisted, "open rejected",
			goerr.V("userID", userID.String()))
	}
	if existing, ok := u.dir.ActiveChannelOf(userID); ok {
		return "", goerr.Wrap(model.ErrDuplicateTicket, "open rejected",
			goerr.V("channelID", existing.String()))
	}

	category, err := u.alloc.Pick(ctx)
	if err != nil {
		return "", err
	}

	var number int
	if err := u.store.Update(ctx, func(s *model.Settings) {
		number = s.TicketCounter
		s.TicketCounter = number + 1
	}); err != nil {
		return "", goerr.Wrap(err, "failed to advance ticket counter")
	}

	access := model.ChannelAccess{
		OwnerID:  userID,
		StaffIDs: u.auth.StaffIDs(),
	}
	channelID, err := u.platform.CreateTicketChannel(ctx, fmt.Sprintf("ticket-%d", number), category.ID, access)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create ticket channel")
	}

	if _, err := u.dir.Assign(channelID, userID, time.Now()); err != nil {
		if derr := u.platform.DeleteChannel(ctx, channelID, "duplicate ticket"); derr != nil {
			apperr.Handle(ctx, derr)
		}
		return "", err
	}

	// first message: spoiler-wrapped staff role ping
	if s.NotifyRoleID != "" {
		if _, err := u.platform.SendText(ctx, channelID, "|| "+s.NotifyRoleID.Mention()+" ||"); err != nil {
			apperr.Handle(ctx, err)
		}
	}

	panel := &model.Embed{
		Title:       "thank you for opening a ticket.",
		Description: "please wait for a staff member to contact you.",
		Color:       model.EmbedColorNeutral,
	}
	buttons := []model.Button{
		{ActionID: model.ActionTicketClose, Label: "Close", Style: model.ButtonDanger},
		{ActionID: model.ActionTicketCloseReason, Label: "Close With Reason", Style: model.ButtonSecondary},
		{ActionID: model.ActionTicketClaim, Label: "Claim", Style: model.ButtonSuccess},
	}
	if msgID, err := u.platform.SendPanel(ctx, channelID, panel, buttons); err != nil {
		apperr.Handle(ctx, err)
	} else if err := u.platform.PinMessage(ctx, channelID, msgID); err != nil {
		apperr.Handle(ctx, err)
	}

	u.HandleActivity(ctx, channelID)
	return channelID, nil
}

// HandleActivity drives a ticket channel on any message or creation event.
// The first call wins the info-sent transition: it posts the rules embed,
// pings the owner, and arms the countdown and deletion timers. Every call,
// first or not, re-arms the inactivity reminder. Channels that entered a
// ticket category without going through Open are adopted ownerless.
func (u *Ticket) HandleActivity(ctx context.Context, channelID types.ChannelID) {
	now := time.Now()
	if _, ok := u.dir.Get(channelID); !ok {
		u.dir.Adopt(channelID, now)
	}

	ticket, won := u.dir.MarkInfoSent(channelID, now, u.lifetime)
	if won {
		if !u.sendTicketInfo(ctx, ticket) {
			return
		}
	}

	u.sched.ResetReminder(channelID, func(ctx context.Context) {
		u.sendReminder(ctx, channelID)
	})
}

func (u *Ticket) sendTicketInfo(ctx context.Context, ticket *model.Ticket) bool {
	channelID := ticket.ChannelID

	msgID, err := u.platform.SendEmbed(ctx, channelID, rulesEmbed(u.lifetime))
	if err != nil {
		apperr.Handle(ctx, err)
		return false
	}

	// owner ping goes under the embed, never before it
	if ticket.OwnerID != "" {
		if _, err := u.platform.SendText(ctx, channelID, ticket.OwnerID.Mention()); err != nil {
			apperr.Handle(ctx, err)
		}
	}

	expiresAt := ticket.ExpiresAt
	u.sched.StartCountdown(channelID, func(ctx context.Context) bool {
		return u.updateCountdown(ctx, channelID, msgID, expiresAt)
	})
	u.sched.ScheduleDeletion(channelID, expiresAt, func(ctx context.Context) {
		u.expire(ctx, channelID)
	})
	return true
}

func (u *Ticket) updateCountdown(ctx context.Context, channelID types.ChannelID, msgID types.MessageID, expiresAt time.Time) bool {
	if _, ok := u.dir.Get(channelID); !ok {
		return false
	}
	remaining := time.Until(expiresAt)
	if remaining <= 0 {
		return false
	}
	if err := u.platform.EditEmbed(ctx, channelID, msgID, rulesEmbed(remaining)); err != nil {
		apperr.Handle(ctx, err)
		return false
	}
	return true
}

func (u *Ticket) sendReminder(ctx context.Context, channelID types.ChannelID) {
	embed := &model.Embed{
		Title:       "ticket reminder",
		Description: "this ticket has been inactive for a while. please reply with the requested information.\nif nothing is sent, this ticket will auto-close soon.",
		Color:       model.EmbedColorNeutral,
	}
	if _, err := u.platform.SendEmbed(ctx, channelID, embed); err != nil {
		apperr.Handle(ctx, err)
	}
}

// Claim records userID as the ticket handler. First staff member wins; the
// pinned control panel footer is updated to show the holder.
func (u *Ticket) Claim(ctx context.Context, channelID types.ChannelID, userID types.UserID, userName string) error {
	if !u.auth.IsStaff(userID) {
		return goerr.Wrap(model.ErrUnauthorized, "only staff can claim tickets")
	}
	if err := u.dir.Claim(channelID, userID); err != nil {
		return err
	}

	if panel := u.findControlPanel(ctx, channelID); panel != nil {
		embed := panel.Embed
		embed.FooterText = "claimed by " + userName
		if err := u.platform.EditEmbed(ctx, channelID, panel.ID, &embed); err != nil {
			apperr.Handle(ctx, err)
		}
	}
	return nil
}

// findControlPanel locates the pinned panel this bot posted at open time
func (u *Ticket) findControlPanel(ctx context.Context, channelID types.ChannelID) *model.PinnedMessage {
	pins, err := u.platform.PinnedMessages(ctx, channelID)
	if err != nil {
		apperr.Handle(ctx, err)
		return nil
	}
	botID := u.platform.BotUserID()
	for _, pin := range pins {
		if pin.AuthorID != botID {
			continue
		}
		for _, id := range pin.ActionIDs {
			if id == model.ActionTicketClose {
				return pin
			}
		}
	}
	return nil
}

// Close tears a ticket channel down: timers and directory state are purged
// first so nothing fires against a dead channel, the removal is logged, and
// the channel itself is deleted after a short grace period.
func (u *Ticket) Close(ctx context.Context, channelID types.ChannelID, by types.UserID, byName, reason string) error {
	if !u.auth.IsStaff(by) {
		return goerr.Wrap(model.ErrUnauthorized, "only staff can close tickets")
	}

	channelName := channelID.String()
	if info, err := u.platform.ChannelInfo(ctx, channelID); err == nil {
		channelName = info.Name
	}

	u.sched.Clear(channelID)
	u.dir.Release(channelID)

	embed := &model.Embed{
		Title: "channel closed by staff",
		Color: model.EmbedColorNeutral,
		Fields: []model.EmbedField{
			{Name: "channel", Value: fmt.Sprintf("%s (%s)", channelName, channelID), Inline: true},
			{Name: "by", Value: memberTag(byName, by), Inline: true},
		},
		Timestamp: true,
	}
	if reason != "" {
		embed.Fields = append(embed.Fields, model.EmbedField{Name: "reason", Value: truncate(reason, 400)})
	}
	u.audit.Log(ctx, embed)

	select {
	case <-ctx.Done():
	case <-time.After(u.closeGrace):
	}
	if err := u.platform.DeleteChannel(ctx, channelID, "ticket closed by staff"); err != nil {
		apperr.Handle(ctx, err)
	}
	return nil
}

// AwaitReason blocks until userID posts a message in channelID, the wait
// window lapses, or ctx is canceled. The reason text and whether one arrived
// are returned; timeout means close without a reason.
func (u *Ticket) AwaitReason(ctx context.Context, channelID types.ChannelID, userID types.UserID) (string, bool) {
	key := waiterKey{ch: channelID, user: userID}
	reasonCh := make(chan string, 1)

	u.waitMu.Lock()
	u.waiters[key] = reasonCh
	u.waitMu.Unlock()

	defer func() {
		u.waitMu.Lock()
		if u.waiters[key] == reasonCh {
			delete(u.waiters, key)
		}
		u.waitMu.Unlock()
	}()

	select {
	case <-ctx.Done():
		return "", false
	case <-time.After(u.reasonWait):
		return "", false
	case text := <-reasonCh:
		return text, true
	}
}

// OfferReason feeds a channel message to a pending AwaitReason call. Returns
// whether the message was consumed as a close reason.
func (u *Ticket) OfferReason(channelID types.ChannelID, userID types.UserID, text string) bool {
	key := waiterKey{ch: channelID, user: userID}

	u.waitMu.Lock()
	defer u.waitMu.Unlock()

	reasonCh, ok := u.waiters[key]
	if !ok {
		return false
	}
	delete(u.waiters, key)
	reasonCh <- text
	return true
}

// expire runs when the deletion timer fires. A channel that vanished before
// the timer is purged quietly.
func (u *Ticket) expire(ctx context.Context, channelID types.ChannelID) {
	info, err := u.platform.ChannelInfo(ctx, channelID)

	u.sched.Clear(channelID)
	u.dir.Release(channelID)

	if err != nil {
		return
	}
	channelName := info.Name

	u.audit.Log(ctx, &model.Embed{
		Title:       "ticket closed (expired)",
		Description: "this ticket reached its time limit and has been closed.",
		Color:       model.EmbedColorNeutral,
		Fields: []model.EmbedField{
			{Name: "channel", Value: fmt.Sprintf("%s (%s)", channelName, channelID)},
		},
		Timestamp: true,
	})

	if err := u.platform.DeleteChannel(ctx, channelID, "ticket expired"); err != nil {
		apperr.Handle(ctx, err)
	}
}

// Nuke clones the current channel, moves any live ticket state onto the
// clone with a fresh window, and deletes the original. Works on ordinary
// channels too; only ticket-category channels restart the ticket flow.
func (u *Ticket) Nuke(ctx context.Context, channelID types.ChannelID, by types.UserID, byName string) (types.ChannelID, error) {
	if !u.auth.IsStaff(by) {
		return "", goerr.Wrap(model.ErrUnauthorized, "only staff can nuke channels")
	}

	info, err := u.platform.ChannelInfo(ctx, channelID)
	if err != nil {
		apperr.Handle(ctx, err)
	}

	newID, err := u.platform.CloneChannel(ctx, channelID)
	if err != nil {
		return "", goerr.Wrap(err, "failed to clone channel")
	}

	u.sched.Clear(channelID)
	u.dir.Transfer(channelID, newID)

	s := u.store.Settings()
	isTicketChannel := false
	if info != nil {
		for _, cat := range s.TicketCategoryIDs {
			if info.ParentID == cat {
				isTicketChannel = true
				break
			}
		}
	}
	if isTicketChannel {
		u.HandleActivity(ctx, newID)
	}

	reason := fmt.Sprintf("nuked by %s (%s)", byName, by)
	if err := u.platform.DeleteChannel(ctx, channelID, reason); err != nil {
		apperr.Handle(ctx, err)
		if _, serr := u.platform.SendText(ctx, newID, "new channel created, but the old one could not be deleted."); serr != nil {
			apperr.Handle(ctx, serr)
		}
		return newID, nil
	}

	if _, err := u.platform.SendText(ctx, newID, "done"); err != nil {
		apperr.Handle(ctx, err)
	}
	return newID, nil
}

// PingOwners mentions the opener in every live ticket channel and returns
// how many were reached
func (u *Ticket) PingOwners(ctx context.Context) int {
	pinged := 0
	for _, t := range u.dir.List() {
		if t.OwnerID == "" {
			continue
		}
		if _, err := u.platform.SendText(ctx, t.ChannelID, t.OwnerID.Mention()); err != nil {
			apperr.Handle(ctx, err)
			continue
		}
		pinged++
	}
	return pinged
}

// List returns the live tickets
func (u *Ticket) List() []*model.Ticket {
	return u.dir.List()
}

func rulesEmbed(remaining time.Duration) *model.Embed {
	lines := []string{
		"describe your issue in as much detail as you can and attach any",
		"screenshots or evidence that support it. staff will not act on a",
		"ticket until the required details are in this channel.",
		"",
		fmt.Sprintf("if nothing valid is sent within %s, this ticket will be deleted.", model.RemainingTimeText(remaining)),
		"",
		"please wait patiently while staff reviews your ticket.",
	}
	return &model.Embed{
		Title:       "READ BEFORE DOING ANYTHING ELSE",
		Description: strings.Join(lines, "\n"),
		Color:       model.EmbedColorNeutral,
	}
}
