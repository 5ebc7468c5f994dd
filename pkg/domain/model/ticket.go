package model

import (
	"fmt"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/wicket-bot/wicket/pkg/domain/types"
)

// Ticket lifecycle constants. The 6 hour window is fixed at the info-sent
// transition and never extended.
const (
	TicketLifetime = 6 * time.Hour
	ReminderDelay  = 4 * time.Hour
	CountdownTick  = time.Minute
	CloseGrace     = 500 * time.Millisecond
	ReasonWait     = 2 * time.Minute

	// TicketCounterSeed is the first ticket number of a fresh installation.
	TicketCounterSeed = 659

	// CategoryChannelCeiling is the host platform's per-category channel
	// limit. The allocator overflows into a new category before hitting it.
	CategoryChannelCeiling = 50
)

// Ticket represents one support ticket bound to a dedicated channel
type Ticket struct {
	ChannelID types.ChannelID
	OwnerID   types.UserID
	ClaimedBy types.UserID // empty until claimed
	Status    types.TicketStatus
	CreatedAt time.Time
	ExpiresAt time.Time // CreatedAt + TicketLifetime once info is sent
}

// NewTicket creates a ticket record in its initial state
func NewTicket(channelID types.ChannelID, ownerID types.UserID, now time.Time) (*Ticket, error) {
	if channelID == "" {
		return nil, goerr.New("channel ID is required")
	}
	if ownerID == "" {
		return nil, goerr.New("owner ID is required")
	}
	return &Ticket{
		ChannelID: channelID,
		OwnerID:   ownerID,
		Status:    types.TicketStatusCreated,
		CreatedAt: now,
	}, nil
}

// Remaining returns the time left until expiry, floored at zero
func (t *Ticket) Remaining(now time.Time) time.Duration {
	if t.ExpiresAt.IsZero() {
		return TicketLifetime
	}
	remaining := t.ExpiresAt.Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// RemainingTimeText renders a remaining duration the way the countdown
// message shows it: hours and minutes, zero components omitted, with a
// "0 minutes" floor.
func RemainingTimeText(remaining time.Duration) string {
	if remaining < 0 {
		remaining = 0
	}

	hours := int(remaining / time.Hour)
	minutes := int((remaining % time.Hour) / time.Minute)

	switch {
	case hours <= 0 && minutes <= 0:
		return "0 minutes"
	case hours <= 0:
		return fmt.Sprintf("%d minutes", minutes)
	case minutes == 0:
		return fmt.Sprintf("%d hours", hours)
	default:
		return fmt.Sprintf("%d hours %d minutes", hours, minutes)
	}
}
