package usecase

import (
	"context"
	"fmt"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/wicket-bot/wicket/pkg/domain/interfaces"
	"github.com/wicket-bot/wicket/pkg/domain/model"
	"github.com/wicket-bot/wicket/pkg/utils/apperr"
)

// Allocator picks the ticket category a new channel goes into, creating an
// overflow category when every candidate is at the platform's per-category
// channel ceiling.
type Allocator struct {
	store    interfaces.SettingsStore
	platform interfaces.Platform
}

// NewAllocator creates an Allocator
func NewAllocator(store interfaces.SettingsStore, platform interfaces.Platform) *Allocator {
	return &Allocator{store: store, platform: platform}
}

// Pick returns the first configured category with spare capacity. When all
// candidates are full it creates "<firstName>-<n+1>", appends it to the
// configured list, persists, and returns it; if that creation fails, Pick
// falls back to the first candidate rather than failing the open.
func (a *Allocator) Pick(ctx context.Context) (*model.CategoryInfo, error) {
	s := a.store.Settings()

	var valid []*model.CategoryInfo
	for _, id := range s.TicketCategoryIDs {
		info, err := a.platform.CategoryInfo(ctx, id)
		if err != nil {
			ctxlog.From(ctx).Debug("Skipping invalid ticket category",
				"categoryID", id,
				"error", err)
			continue
		}
		valid = append(valid, info)
	}
	if len(valid) == 0 {
		return nil, goerr.Wrap(model.ErrCategoryNotConfigured, "no usable ticket category")
	}

	for _, cat := range valid {
		count, err := a.platform.CountCategoryChannels(ctx, cat.ID)
		if err != nil {
			apperr.Handle(ctx, err)
			continue
		}
		if count < model.CategoryChannelCeiling {
			return cat, nil
		}
	}

	base := valid[0]
	name := fmt.Sprintf("%s-%d", base.Name, len(valid)+1)
	newID, err := a.platform.CreateCategory(ctx, name)
	if err != nil {
		apperr.Handle(ctx, goerr.Wrap(err, "failed to create overflow category"))
		return base, nil
	}

	if err := a.store.Update(ctx, func(s *model.Settings) {
		s.TicketCategoryIDs = append(s.TicketCategoryIDs, newID)
	}); err != nil {
		apperr.Handle(ctx, err)
	}

	ctxlog.From(ctx).Info("Created overflow ticket category",
		"categoryID", newID,
		"name", name)
	return &model.CategoryInfo{ID: newID, Name: name}, nil
}
