// Package provider defines the metadata provider contract and its yt-dlp backed implementation.
package provider

import (
	"context"

	"github.com/link2vid/link2vid/source"
	"github.com/samber/mo"
)

// Options carries the per-request authentication state of a provider call.
// The cookie escalation ladder swaps only these fields between attempts.
type Options struct {
	// Optional username/password pair forwarded to the provider.
	Credentials mo.Option[source.Credentials]
	// Path to a Netscape-format cookies.txt file.
	CookieFile string
	// Browser profile to extract live session cookies from. Mutually
	// exclusive with CookieFile for a single attempt.
	CookiesFromBrowser string
}

// Provider resolves a page URL into structured media entries.
type Provider interface {
	// GetInfo returns the playable entries discovered at url, or an *Error.
	GetInfo(ctx context.Context, url string, opts Options) ([]*source.MediaEntry, error)
}

// Error is a metadata provider failure. The raw provider message is retained
// for downstream classification against authentication-wall signals.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "provider error"
}

func (e *Error) Unwrap() error {
	return e.Err
}
