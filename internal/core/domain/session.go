package domain

import (
	"errors"
	"time"
)

// ErrRecordNotFound is returned by session storage when a profile has no
// durable record.
var ErrRecordNotFound = errors.New("session record not found")

// SessionRecordPrefix prefixes every durable session key; the profile id follows.
const SessionRecordPrefix = "visioncare_user"

// SessionRecordKey returns the storage key of a profile's session record.
func SessionRecordKey(profile string) string {
	if profile == "" {
		return SessionRecordPrefix
	}
	return SessionRecordPrefix + ":" + profile
}

// SessionAction classifies an audit entry.
type SessionAction string

const (
	ActionLogin        SessionAction = "login"
	ActionLoginFailed  SessionAction = "login_failed"
	ActionLogout       SessionAction = "logout"
	ActionAccessDenied SessionAction = "access_denied"
)

// SessionEvent is one entry of the session audit trail shown on the logs view.
type SessionEvent struct {
	ID        string        `json:"id"                bson:"_id"`
	Profile   string        `json:"profile"           bson:"profile"`
	Action    SessionAction `json:"action"            bson:"action"`
	Email     string        `json:"email,omitempty"   bson:"email,omitempty"`
	Role      Role          `json:"role,omitempty"    bson:"role,omitempty"`
	Path      string        `json:"path,omitempty"    bson:"path,omitempty"`
	Timestamp time.Time     `json:"timestamp"         bson:"timestamp"`
}
