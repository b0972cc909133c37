package domain

import "errors"

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrEmptyUser is returned when an inbound event carries no user identity.
var ErrEmptyUser = errors.New("event has no user id")

// ErrUnknownCategory is returned when a category code is not part of the configured set.
var ErrUnknownCategory = errors.New("unknown category")

// Catalog failure classes. They never reach the user; the catalog adapter logs them
// and degrades to an empty result.
var (
	// ErrTransport covers network failures and timeouts reaching the catalog.
	ErrTransport = errors.New("catalog transport failure")
	// ErrUpstream covers non-success statuses returned by the catalog.
	ErrUpstream = errors.New("catalog upstream error")
	// ErrDecode covers catalog responses that are not the expected JSON shape.
	ErrDecode = errors.New("catalog response decode error")
)
