// Package directory tracks live ticket state: which channel belongs to which
// owner, who claimed it, and where it is in its lifecycle. All state is
// in-memory and lost on restart, which is an accepted limitation.
package directory

import (
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/wicket-bot/wicket/pkg/domain/model"
	"github.com/wicket-bot/wicket/pkg/domain/types"
)

// Directory holds the bidirectional ticket maps. The uniqueness check of
// Assign and its registration happen under one lock so two near-simultaneous
// opens can never hand the same user two tickets.
type Directory struct {
	mu      sync.Mutex
	tickets map[types.ChannelID]*model.Ticket
	byOwner map[types.UserID]types.ChannelID
}

// New creates an empty directory
func New() *Directory {
	return &Directory{
		tickets: make(map[types.ChannelID]*model.Ticket),
		byOwner: make(map[types.UserID]types.ChannelID),
	}
}

// Assign records a new ticket for ownerID on channelID. It fails with
// ErrDuplicateTicket when the owner already has an open ticket; the
// conflicting channel is attached as the "channelID" error value.
func (d *Directory) Assign(channelID types.ChannelID, ownerID types.UserID, now time.Time) (*model.Ticket, error) {
	ticket, err := model.NewTicket(channelID, ownerID, now)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if existing, ok := d.byOwner[ownerID]; ok {
		return nil, goerr.Wrap(model.ErrDuplicateTicket, "assign rejected",
			goerr.V("channelID", existing.String()))
	}
	if _, ok := d.tickets[channelID]; ok {
		return nil, goerr.New("channel already has a ticket",
			goerr.V("channelID", channelID.String()))
	}

	d.tickets[channelID] = ticket
	d.byOwner[ownerID] = channelID
	return copyTicket(ticket), nil
}

// Adopt registers an ownerless ticket record for a channel that entered the
// ticket flow without going through Assign, such as a channel moved into a
// ticket category by hand. Returns the existing record when one is already
// present.
func (d *Directory) Adopt(channelID types.ChannelID, now time.Time) (*model.Ticket, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if existing, ok := d.tickets[channelID]; ok {
		return copyTicket(existing), false
	}

	ticket := &model.Ticket{
		ChannelID: channelID,
		Status:    types.TicketStatusCreated,
		CreatedAt: now,
	}
	d.tickets[channelID] = ticket
	return copyTicket(ticket), true
}

// Claim records the first claimant of a ticket. First writer wins; a second
// attempt fails with ErrAlreadyClaimed carrying the holder as "claimedBy".
func (d *Directory) Claim(channelID types.ChannelID, userID types.UserID) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	ticket, ok := d.tickets[channelID]
	if !ok {
		return goerr.Wrap(model.ErrTicketNotFound, "claim rejected",
			goerr.V("channelID", channelID.String()))
	}
	if ticket.ClaimedBy != "" {
		return goerr.Wrap(model.ErrAlreadyClaimed, "claim rejected",
			goerr.V("claimedBy", ticket.ClaimedBy.String()))
	}

	ticket.ClaimedBy = userID
	if ticket.Status == types.TicketStatusInfoSent {
		ticket.Status = types.TicketStatusClaimed
	}
	return nil
}

// Release removes all state for a channel: ticket record, claimant, and the
// owner's active-ticket pointer. Idempotent.
func (d *Directory) Release(channelID types.ChannelID) {
	d.mu.Lock()
	defer d.mu.Unlock()

	ticket, ok := d.tickets[channelID]
	if !ok {
		return
	}
	if ticket.OwnerID != "" {
		if current, ok := d.byOwner[ticket.OwnerID]; ok && current == channelID {
			delete(d.byOwner, ticket.OwnerID)
		}
	}
	delete(d.tickets, channelID)
}

// MarkInfoSent performs the info-sent transition exactly once per channel.
// The first call fixes the expiry window and returns won=true; later calls
// return the current record with won=false.
func (d *Directory) MarkInfoSent(channelID types.ChannelID, now time.Time, lifetime time.Duration) (*model.Ticket, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	ticket, ok := d.tickets[channelID]
	if !ok {
		return nil, false
	}
	if ticket.Status != types.TicketStatusCreated {
		return copyTicket(ticket), false
	}

	ticket.Status = types.TicketStatusInfoSent
	ticket.CreatedAt = now
	ticket.ExpiresAt = now.Add(lifetime)
	if ticket.ClaimedBy != "" {
		ticket.Status = types.TicketStatusClaimed
	}
	return copyTicket(ticket), true
}

// Transfer moves a ticket to a fresh channel id, carrying owner and claimant
// over but resetting the lifecycle so the new channel gets a fresh window.
// Used by nuke.
func (d *Directory) Transfer(oldID, newID types.ChannelID) (*model.Ticket, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	ticket, ok := d.tickets[oldID]
	if !ok {
		return nil, false
	}

	delete(d.tickets, oldID)
	ticket.ChannelID = newID
	ticket.Status = types.TicketStatusCreated
	ticket.CreatedAt = time.Now()
	ticket.ExpiresAt = time.Time{}
	d.tickets[newID] = ticket
	if ticket.OwnerID != "" {
		d.byOwner[ticket.OwnerID] = newID
	}
	return copyTicket(ticket), true
}

// OwnerOf returns the owner of a ticket channel
func (d *Directory) OwnerOf(channelID types.ChannelID) (types.UserID, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	ticket, ok := d.tickets[channelID]
	if !ok {
		return "", false
	}
	return ticket.OwnerID, true
}

// ActiveChannelOf returns the open ticket channel of a user
func (d *Directory) ActiveChannelOf(userID types.UserID) (types.ChannelID, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	ch, ok := d.byOwner[userID]
	return ch, ok
}

// Get returns a copy of the ticket record for a channel
func (d *Directory) Get(channelID types.ChannelID) (*model.Ticket, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	ticket, ok := d.tickets[channelID]
	if !ok {
		return nil, false
	}
	return copyTicket(ticket), true
}

// List returns copies of all live tickets ordered by channel id
func (d *Directory) List() []*model.Ticket {
	d.mu.Lock()
	defer d.mu.Unlock()

	tickets := make([]*model.Ticket, 0, len(d.tickets))
	for _, t := range d.tickets {
		tickets = append(tickets, copyTicket(t))
	}
	sort.Slice(tickets, func(i, j int) bool {
		return tickets[i].ChannelID < tickets[j].ChannelID
	})
	return tickets
}

func copyTicket(t *model.Ticket) *model.Ticket {
	c := *t
	return &c
}
