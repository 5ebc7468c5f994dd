package model

import "github.com/wicket-bot/wicket/pkg/domain/types"

// Embed is a platform-neutral rich message. The platform adapter renders it
// into the host platform's embed format.
type Embed struct {
	Title       string
	Description string
	Color       int
	Fields      []EmbedField
	FooterText  string
	Timestamp   bool
}

// EmbedField is one name/value pair of an embed
type EmbedField struct {
	Name   string
	Value  string
	Inline bool
}

// EmbedColorNeutral is the default embed accent used across the bot
const EmbedColorNeutral = 0x2b2d31

// EmbedColorAlert is the accent used for moderation and destructive actions
const EmbedColorAlert = 0xff0000

// ButtonStyle selects the visual style of an interactive button
type ButtonStyle int

const (
	ButtonPrimary ButtonStyle = iota
	ButtonSecondary
	ButtonSuccess
	ButtonDanger
)

// Button is one interactive button attached to a message
type Button struct {
	ActionID string
	Label    string
	Style    ButtonStyle
}

// InboundMessage is a received chat message as seen by the use cases
type InboundMessage struct {
	ID         types.MessageID
	ChannelID  types.ChannelID
	AuthorID   types.UserID
	AuthorName string
	Content    string
	Bot        bool
}

// PinnedMessage is a pinned message with enough detail to recognize the
// ticket control panel
type PinnedMessage struct {
	ID        types.MessageID
	AuthorID  types.UserID
	ActionIDs []string
	Embed     Embed
}

// ChannelInfo describes a live channel
type ChannelInfo struct {
	ID       types.ChannelID
	GuildID  types.GuildID
	Name     string
	ParentID types.CategoryID
	Position int
}

// CategoryInfo describes a live category
type CategoryInfo struct {
	ID   types.CategoryID
	Name string
}

// Member is a guild member visible in some channel
type Member struct {
	ID          types.UserID
	DisplayName string
	IsBot       bool
	IsAdmin     bool // has the platform's administrator-equivalent permission
}

// ChannelAccess describes who may see a freshly created ticket channel
// besides the bot itself
type ChannelAccess struct {
	OwnerID  types.UserID
	StaffIDs []types.UserID
}
