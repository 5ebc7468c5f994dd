package usecase

import (
	"sort"

	"github.com/wicket-bot/wicket/pkg/domain/interfaces"
	"github.com/wicket-bot/wicket/pkg/domain/types"
)

// Auth answers the elevated-privilege question: developers are baked into
// the deployment, admins come from the settings snapshot. Developers are
// implicitly staff but never written back into the persisted admin list.
type Auth struct {
	store      interfaces.SettingsStore
	developers map[types.UserID]struct{}
}

// NewAuth creates an Auth with the deployment's developer ids
func NewAuth(store interfaces.SettingsStore, developerIDs []types.UserID) *Auth {
	devs := make(map[types.UserID]struct{}, len(developerIDs))
	for _, id := range developerIDs {
		devs[id] = struct{}{}
	}
	return &Auth{store: store, developers: devs}
}

// IsDeveloper reports whether the user is a deployment developer
func (a *Auth) IsDeveloper(id types.UserID) bool {
	_, ok := a.developers[id]
	return ok
}

// IsStaff reports whether the user holds elevated privileges
func (a *Auth) IsStaff(id types.UserID) bool {
	if a.IsDeveloper(id) {
		return true
	}
	return a.store.Settings().IsAdmin(id)
}

// StaffIDs returns all staff identities (admins plus developers), sorted
// for stable channel permission lists
func (a *Auth) StaffIDs() []types.UserID {
	seen := make(map[types.UserID]struct{})
	var ids []types.UserID
	for _, id := range a.store.Settings().AdminIDs {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	for id := range a.developers {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
