package directory_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/wicket-bot/wicket/pkg/domain/model"
	"github.com/wicket-bot/wicket/pkg/domain/types"
	"github.com/wicket-bot/wicket/pkg/service/directory"
)

func TestAssignRejectsSecondTicket(t *testing.T) {
	d := directory.New()
	now := time.Now()

	_, err := d.Assign("C1", "U1", now)
	gt.NoError(t, err)

	_, err = d.Assign("C2", "U1", now)
	gt.True(t, errors.Is(err, model.ErrDuplicateTicket))

	// The conflicting channel is reported as error detail
	values := goerr.Values(err)
	gt.Equal(t, values["channelID"], "C1")

	// After release the user may open again
	d.Release("C1")
	_, err = d.Assign("C2", "U1", now)
	gt.NoError(t, err)
}

func TestClaimFirstWriterWins(t *testing.T) {
	d := directory.New()
	_, err := d.Assign("C1", "U1", time.Now())
	gt.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, staff := range []types.UserID{"S1", "S2"} {
		wg.Add(1)
		go func(i int, staff types.UserID) {
			defer wg.Done()
			errs[i] = d.Claim("C1", staff)
		}(i, staff)
	}
	wg.Wait()

	var won, lost int
	for _, err := range errs {
		if err == nil {
			won++
		} else {
			gt.True(t, errors.Is(err, model.ErrAlreadyClaimed))
			lost++
		}
	}
	gt.Equal(t, won, 1)
	gt.Equal(t, lost, 1)

	ticket, ok := d.Get("C1")
	gt.True(t, ok)
	gt.True(t, ticket.ClaimedBy == "S1" || ticket.ClaimedBy == "S2")
}

func TestClaimUnknownChannel(t *testing.T) {
	d := directory.New()
	err := d.Claim("C404", "S1")
	gt.True(t, errors.Is(err, model.ErrTicketNotFound))
}

func TestReleaseIdempotent(t *testing.T) {
	d := directory.New()
	_, err := d.Assign("C1", "U1", time.Now())
	gt.NoError(t, err)

	d.Release("C1")
	d.Release("C1") // second call is a no-op

	_, ok := d.Get("C1")
	gt.False(t, ok)
	_, ok = d.ActiveChannelOf("U1")
	gt.False(t, ok)
}

func TestMarkInfoSentOnce(t *testing.T) {
	d := directory.New()
	now := time.Now()
	_, err := d.Assign("C1", "U1", now)
	gt.NoError(t, err)

	ticket, won := d.MarkInfoSent("C1", now, model.TicketLifetime)
	gt.True(t, won)
	gt.Equal(t, ticket.Status, types.TicketStatusInfoSent)
	gt.Equal(t, ticket.ExpiresAt, now.Add(model.TicketLifetime))

	// Redundant trigger (creation hook plus first message) must not win twice
	again, won := d.MarkInfoSent("C1", now.Add(time.Minute), model.TicketLifetime)
	gt.False(t, won)
	gt.Equal(t, again.ExpiresAt, now.Add(model.TicketLifetime))
}

func TestTransferCarriesOwnerAndClaim(t *testing.T) {
	d := directory.New()
	now := time.Now()
	_, err := d.Assign("CA", "U1", now)
	gt.NoError(t, err)
	_, won := d.MarkInfoSent("CA", now, model.TicketLifetime)
	gt.True(t, won)
	gt.NoError(t, d.Claim("CA", "U2"))

	ticket, ok := d.Transfer("CA", "CB")
	gt.True(t, ok)
	gt.Equal(t, ticket.ChannelID, types.ChannelID("CB"))
	gt.Equal(t, ticket.OwnerID, types.UserID("U1"))
	gt.Equal(t, ticket.ClaimedBy, types.UserID("U2"))
	gt.Equal(t, ticket.Status, types.TicketStatusCreated)

	// Old channel is gone, the owner's pointer follows the new channel
	_, ok = d.Get("CA")
	gt.False(t, ok)
	ch, ok := d.ActiveChannelOf("U1")
	gt.True(t, ok)
	gt.Equal(t, ch, types.ChannelID("CB"))

	// The transferred record starts a fresh window
	_, won = d.MarkInfoSent("CB", now.Add(time.Hour), model.TicketLifetime)
	gt.True(t, won)
}

// One open ticket per user must hold through arbitrary interleavings of
// open, close and nuke.
func TestOneTicketPerUserInvariant(t *testing.T) {
	d := directory.New()
	now := time.Now()
	users := []types.UserID{"U1", "U2", "U3"}

	checkInvariant := func() {
		seen := map[types.UserID]int{}
		for _, ticket := range d.List() {
			seen[ticket.OwnerID]++
		}
		for user, n := range seen {
			if n > 1 {
				t.Fatalf("user %s owns %d open tickets", user, n)
			}
		}
	}

	step := 0
	for round := 0; round < 50; round++ {
		for _, u := range users {
			step++
			switch step % 4 {
			case 0, 1:
				ch := types.ChannelID(fmt.Sprintf("C-%d", step))
				if _, err := d.Assign(ch, u, now); err != nil {
					gt.True(t, errors.Is(err, model.ErrDuplicateTicket))
				}
			case 2:
				if ch, ok := d.ActiveChannelOf(u); ok {
					d.Release(ch)
				}
			case 3:
				if ch, ok := d.ActiveChannelOf(u); ok {
					d.Transfer(ch, types.ChannelID(fmt.Sprintf("C-%d-nuked", step)))
				}
			}
			checkInvariant()
		}
	}
}
