package constants

import "time"

const (
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 10
	DatabaseConnMaxLifetime = 5 // minutes
)

// Context keys set by middleware.
const (
	ContextTokenData = "token_data"
)

// Keys owned by the key/value store (core/cache).
const (
	CacheKeyRemovedEventIDs = "removedEventIds"
	CacheKeyEditedEvents    = "editedEvents"
)

const (
	DateLayout        = "2006-01-02"
	DefaultBestTimes  = 3
	MaxNotifyAttempts = 5
)

// NotifyClaimTimeout is how long a notification may sit in "sending" before
// another dispatcher may claim it again.
const NotifyClaimTimeout = 10 * time.Minute
