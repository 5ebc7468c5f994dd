package types

import (
	"fmt"

	"github.com/google/uuid"
)

// UserID represents a Discord user identifier
type UserID string

// String returns the string representation
func (id UserID) String() string {
	return string(id)
}

// Mention returns the chat mention form of the user
func (id UserID) Mention() string {
	return fmt.Sprintf("<@%s>", string(id))
}

// ChannelID represents a Discord channel identifier
type ChannelID string

// String returns the string representation
func (id ChannelID) String() string {
	return string(id)
}

// Mention returns the chat mention form of the channel
func (id ChannelID) Mention() string {
	return fmt.Sprintf("<#%s>", string(id))
}

// CategoryID represents a Discord category identifier. Categories are
// channels on the wire, but the two are never interchangeable here.
type CategoryID string

// String returns the string representation
func (id CategoryID) String() string {
	return string(id)
}

// MessageID represents a Discord message identifier
type MessageID string

// String returns the string representation
func (id MessageID) String() string {
	return string(id)
}

// RoleID represents a Discord role identifier
type RoleID string

// String returns the string representation
func (id RoleID) String() string {
	return string(id)
}

// Mention returns the chat mention form of the role
func (id RoleID) Mention() string {
	return fmt.Sprintf("<@&%s>", string(id))
}

// GuildID represents a Discord guild (server) identifier
type GuildID string

// String returns the string representation
func (id GuildID) String() string {
	return string(id)
}

// EventID correlates log records of one inbound platform event
type EventID string

// String returns the string representation
func (id EventID) String() string {
	return string(id)
}

// NewEventID creates a new EventID
func NewEventID() EventID {
	return EventID(uuid.New().String())
}
