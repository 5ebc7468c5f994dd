package model

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for domain operations. Callers distinguish policy
// violations from operational failures by errors.Is against these.
var (
	ErrBlacklisted           = goerr.New("user is blacklisted from opening tickets")
	ErrDuplicateTicket       = goerr.New("user already has an open ticket")
	ErrAlreadyClaimed        = goerr.New("ticket is already claimed")
	ErrUnauthorized          = goerr.New("operation requires staff privileges")
	ErrTicketNotFound        = goerr.New("ticket not found")
	ErrCategoryNotConfigured = goerr.New("no valid ticket category is configured")
	ErrInvalidArgument       = goerr.New("invalid argument")
)
