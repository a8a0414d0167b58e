package events

import "time"

// Event types
const (
	AccountRegistered    = "account.registered"
	AccountUpdated       = "account.updated"
	AccountDeleted       = "account.deleted"
	AccountRoleChanged   = "account.role_changed"
	AccountStatusChanged = "account.status_changed"
)

// Stream names
const (
	AccountEventsStream = "account.events"
)

// Base event structure
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

type AccountRegisteredEvent struct {
	AccountID string `json:"accountId"`
	UserName  string `json:"userName"`
	Email     string `json:"email"`
}

type AccountUpdatedEvent struct {
	AccountID string `json:"accountId"`
	UserName  string `json:"userName"`
	Email     string `json:"email"`
}

type AccountDeletedEvent struct {
	UserName string `json:"userName"`
}

type AccountRoleChangedEvent struct {
	UserName    string   `json:"userName"`
	Authorities []string `json:"authorities"`
}

type AccountStatusChangedEvent struct {
	UserName string `json:"userName"`
	Enabled  bool   `json:"enabled"`
}
