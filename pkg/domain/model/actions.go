package model

// Button action identifiers shared between the panel builders and the
// interaction controller
const (
	ActionOpenTicket        = "open_ticket"
	ActionTicketClose       = "ticket_close"
	ActionTicketCloseReason = "ticket_close_reason"
	ActionTicketClaim       = "ticket_claim"
	ActionHelpPage1         = "help_1"
	ActionHelpPage2         = "help_2"
	ActionHelpPage3         = "help_3"
	ActionHelpClose         = "help_close"
)
