package repository_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/wicket-bot/wicket/pkg/domain/model"
	"github.com/wicket-bot/wicket/pkg/domain/types"
	"github.com/wicket-bot/wicket/pkg/repository"
)

func TestFileRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "settings.yml")

	store, err := repository.NewFile(ctx, path)
	gt.NoError(t, err)

	err = store.Update(ctx, func(s *model.Settings) {
		s.SetMainCategory("100")
		s.AdminIDs = append(s.AdminIDs, "U1")
		s.Autoresponders["index"] = "send your index, {user}"
		s.Blacklist = append(s.Blacklist, "U9")
		s.TicketCounter++
	})
	gt.NoError(t, err)

	// A second store over the same file sees the persisted snapshot
	reloaded, err := repository.NewFile(ctx, path)
	gt.NoError(t, err)

	s := reloaded.Settings()
	gt.Equal(t, s.MainCategoryID, types.CategoryID("100"))
	gt.Equal(t, s.TicketCategoryIDs, []types.CategoryID{"100"})
	gt.True(t, s.IsAdmin("U1"))
	gt.True(t, s.IsBlacklisted("U9"))
	gt.Equal(t, s.Autoresponders["index"], "send your index, {user}")
	gt.Equal(t, s.TicketCounter, model.TicketCounterSeed+1)
}

func TestFileMissingStartsWithDefaults(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "does-not-exist.yml")

	store, err := repository.NewFile(ctx, path)
	gt.NoError(t, err)

	s := store.Settings()
	gt.Equal(t, s.TicketCounter, model.TicketCounterSeed)
	gt.Equal(t, s.CommandAliases["panel"], "panel")
	gt.Equal(t, len(s.Blacklist), 0)
}

func TestFileCorruptFallsBackToDefaults(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "settings.yml")
	gt.NoError(t, os.WriteFile(path, []byte("{{{ not yaml"), 0600))

	store, err := repository.NewFile(ctx, path)
	gt.NoError(t, err)

	s := store.Settings()
	gt.Equal(t, s.TicketCounter, model.TicketCounterSeed)
}

func TestFileBackfillsAliases(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "settings.yml")
	// Snapshot written by an older version: one custom alias, others absent
	gt.NoError(t, os.WriteFile(path, []byte("commandAliases:\n  panel: ticketpanel\n"), 0600))

	store, err := repository.NewFile(ctx, path)
	gt.NoError(t, err)

	s := store.Settings()
	gt.Equal(t, s.CommandAliases["panel"], "ticketpanel")
	gt.Equal(t, s.CommandAliases["nuke"], "nuke")
	gt.Equal(t, s.CanonicalCommand("ticketpanel"), "panel")
}

func TestSettingsCloneIsolation(t *testing.T) {
	store := repository.NewMemory()

	a := store.Settings()
	a.Autoresponders["x"] = "y"
	a.Blacklist = append(a.Blacklist, "U1")

	b := store.Settings()
	gt.Equal(t, len(b.Autoresponders), 0)
	gt.Equal(t, len(b.Blacklist), 0)
}
