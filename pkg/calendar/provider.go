package calendar

import (
	"context"
	"time"
)

// Window is a busy interval reported by the provider.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Entry is what gets pushed to the provider.
type Entry struct {
	Title       string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
}

// Provider is an external calendar. Implementations return
// googleauth.ErrNotConnected when no credentials are stored.
type Provider interface {
	Busy(ctx context.Context, from, to time.Time) ([]Window, error)
	Insert(ctx context.Context, e Entry) (string, error)
}
