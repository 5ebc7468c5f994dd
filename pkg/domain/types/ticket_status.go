package types

// TicketStatus represents the lifecycle state of a ticket
type TicketStatus string

const (
	TicketStatusCreated  TicketStatus = "created"
	TicketStatusInfoSent TicketStatus = "info_sent"
	TicketStatusClaimed  TicketStatus = "claimed"
	TicketStatusClosed   TicketStatus = "closed"
	TicketStatusExpired  TicketStatus = "expired"
)

// String returns the string representation of the status
func (s TicketStatus) String() string {
	return string(s)
}

// IsValid checks if the status is valid
func (s TicketStatus) IsValid() bool {
	switch s {
	case TicketStatusCreated, TicketStatusInfoSent, TicketStatusClaimed, TicketStatusClosed, TicketStatusExpired:
		return true
	default:
		return false
	}
}

// IsOpen reports whether a ticket in this state still occupies its owner's
// one-ticket-per-user slot
func (s TicketStatus) IsOpen() bool {
	switch s {
	case TicketStatusCreated, TicketStatusInfoSent, TicketStatusClaimed:
		return true
	default:
		return false
	}
}
