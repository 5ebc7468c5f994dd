package model

import (
	"slices"

	"github.com/wicket-bot/wicket/pkg/domain/types"
)

// DefaultAliases maps every base command to its default trigger word.
// Installations may remap triggers, but only for these base commands.
var DefaultAliases = map[string]string{
	"panel":             "panel",
	"useless":           "useless",
	"important":         "important",
	"done":              "done",
	"nuke":              "nuke",
	"hi":                "hi",
	"pingtickets":       "pingtickets",
	"help":              "help",
	"setlogs":           "setlogs",
	"pingrole":          "pingrole",
	"ar":                "ar",
	"send":              "send",
	"sendcategory":      "sendcategory",
	"delayset":          "delayset",
	"admin":             "admin",
	"blacklist":         "blacklist",
	"setcmd":            "setcmd",
	"setticketcategory": "setticketcategory",
}

// Settings is the persisted configuration snapshot. It is owned by the
// settings store; every other component reads a copy and routes mutations
// through the store so they are persisted.
type Settings struct {
	MainCategoryID      types.CategoryID   `yaml:"mainCategoryID,omitempty"`
	TicketCategoryIDs   []types.CategoryID `yaml:"ticketCategoryIDs"`
	AdminIDs            []types.UserID     `yaml:"adminIDs"`
	ImportantCategoryID types.CategoryID   `yaml:"importantCategoryID,omitempty"`
	LogsChannelID       types.ChannelID    `yaml:"logsChannelID,omitempty"`
	Autoresponders      map[string]string  `yaml:"autoresponders"`
	AutoSendTrigger     string             `yaml:"autoSendTrigger,omitempty"`
	AutoSendCategoryID  types.CategoryID   `yaml:"autoSendCategoryID,omitempty"`
	AutoDelaySeconds    float64            `yaml:"autoDelaySeconds"`
	NotifyRoleID        types.RoleID       `yaml:"notifyRoleID,omitempty"`
	TicketCounter       int                `yaml:"ticketCounter"`
	Blacklist           []types.UserID     `yaml:"blacklist"`
	CommandAliases      map[string]string  `yaml:"commandAliases"`
}

// DefaultSettings returns a fresh settings snapshot with built-in defaults
func DefaultSettings() *Settings {
	s := &Settings{
		Autoresponders: map[string]string{},
		CommandAliases: map[string]string{},
		TicketCounter:  TicketCounterSeed,
	}
	s.Normalize()
	return s
}

// Normalize repairs a loaded snapshot: nil maps become empty, missing
// aliases are backfilled with their defaults, the main category is kept at
// the head of the candidate list, and the counter never regresses below the
// seed.
func (s *Settings) Normalize() {
	if s.Autoresponders == nil {
		s.Autoresponders = map[string]string{}
	}
	if s.CommandAliases == nil {
		s.CommandAliases = map[string]string{}
	}
	for base, alias := range DefaultAliases {
		if s.CommandAliases[base] == "" {
			s.CommandAliases[base] = alias
		}
	}
	if s.MainCategoryID != "" && !slices.Contains(s.TicketCategoryIDs, s.MainCategoryID) {
		s.TicketCategoryIDs = append([]types.CategoryID{s.MainCategoryID}, s.TicketCategoryIDs...)
	}
	if s.TicketCounter < TicketCounterSeed {
		s.TicketCounter = TicketCounterSeed
	}
}

// Clone returns a deep copy. Stores hand out clones so callers can never
// mutate the authoritative snapshot in place.
func (s *Settings) Clone() *Settings {
	c := *s
	c.TicketCategoryIDs = slices.Clone(s.TicketCategoryIDs)
	c.AdminIDs = slices.Clone(s.AdminIDs)
	c.Blacklist = slices.Clone(s.Blacklist)
	c.Autoresponders = make(map[string]string, len(s.Autoresponders))
	for k, v := range s.Autoresponders {
		c.Autoresponders[k] = v
	}
	c.CommandAliases = make(map[string]string, len(s.CommandAliases))
	for k, v := range s.CommandAliases {
		c.CommandAliases[k] = v
	}
	return &c
}

// IsBlacklisted reports whether the user is blocked from opening tickets
func (s *Settings) IsBlacklisted(id types.UserID) bool {
	return slices.Contains(s.Blacklist, id)
}

// IsAdmin reports whether the user is in the configured admin list
func (s *Settings) IsAdmin(id types.UserID) bool {
	return slices.Contains(s.AdminIDs, id)
}

// SetMainCategory sets the main ticket category and keeps it at the head of
// the candidate list
func (s *Settings) SetMainCategory(id types.CategoryID) {
	s.MainCategoryID = id
	if !slices.Contains(s.TicketCategoryIDs, id) {
		s.TicketCategoryIDs = append([]types.CategoryID{id}, s.TicketCategoryIDs...)
	}
}

// CanonicalCommand resolves a typed trigger word to its base command name.
// Unknown words pass through unchanged.
func (s *Settings) CanonicalCommand(name string) string {
	for base, alias := range s.CommandAliases {
		if alias == name {
			return base
		}
	}
	return name
}
