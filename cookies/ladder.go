// Package cookies implements the three-rung escalation ladder used to retry
// provider calls against authentication walls.
package cookies

import (
	"context"
	"runtime"
	"strings"

	"github.com/link2vid/link2vid/constant"
	"github.com/link2vid/link2vid/log"
	"github.com/link2vid/link2vid/provider"
)

// Rung is one escalation level of the retry ladder.
type Rung int

const (
	// RungCookieFile requests with the previously-stored cookie file, if any.
	RungCookieFile Rung = iota
	// RungBrowser retries using session state extracted live from a local browser profile.
	RungBrowser
	// RungManual asks the user for a cookie file and retries once with it exclusively.
	RungManual
)

func (r Rung) String() string {
	switch r {
	case RungCookieFile:
		return "cookie file"
	case RungBrowser:
		return "browser session"
	case RungManual:
		return "manual cookie file"
	default:
		return "unknown"
	}
}

// Hooks are the caller-supplied interaction points of the ladder. All are
// synchronous from the ladder's viewpoint even when backed by an async UI.
type Hooks struct {
	// CookieFile returns the currently configured cookie-file path, or "".
	CookieFile func() string
	// PickCookieFile prompts the user to choose a cookie file; "" declines.
	PickCookieFile func() string
	// Confirm asks the user a yes/no question.
	Confirm func(prompt string) bool
}

// Attempt is one full provider call with only the authentication fields swapped.
type Attempt func(ctx context.Context, opts provider.Options) error

// Ladder drives the escalation rungs for a single logical provider call.
type Ladder struct {
	hooks   Hooks
	browser string
	notify  func(string)
}

// NewLadder builds a ladder. An empty browser selects the platform default;
// a nil notify discards progress messages.
func NewLadder(hooks Hooks, browser string, notify func(string)) *Ladder {
	if browser == "" {
		browser = DefaultBrowser()
	}
	if notify == nil {
		notify = func(string) {}
	}
	if hooks.CookieFile == nil {
		hooks.CookieFile = func() string { return "" }
	}
	if hooks.PickCookieFile == nil {
		hooks.PickCookieFile = func() string { return "" }
	}
	if hooks.Confirm == nil {
		hooks.Confirm = func(string) bool { return false }
	}
	return &Ladder{hooks: hooks, browser: browser, notify: notify}
}

// DefaultBrowser resolves the platform default profile for live cookie extraction.
func DefaultBrowser() string {
	if runtime.GOOS == constant.Windows {
		return "edge"
	}
	return "chrome"
}

// CookieFile exposes the configured cookie-file path for direct (non-ladder) attempts.
func (l *Ladder) CookieFile() string {
	return l.hooks.CookieFile()
}

// Run executes the escalation ladder around attempt. base supplies the
// non-authentication request fields carried unchanged through every rung.
func (l *Ladder) Run(ctx context.Context, base provider.Options, attempt Attempt) error {
	// Rung 0: stored cookie file only.
	opts := base
	opts.CookieFile = l.hooks.CookieFile()
	opts.CookiesFromBrowser = ""
	firstErr := attempt(ctx, opts)
	if firstErr == nil {
		return nil
	}
	log.Warnf("cookie ladder rung %q failed: %v", RungCookieFile, firstErr)

	// Rung 1: live browser session.
	l.notify("Retrying with cookies from browser " + l.browser + "…")
	opts = base
	opts.CookieFile = ""
	opts.CookiesFromBrowser = l.browser
	secondErr := attempt(ctx, opts)
	if secondErr == nil {
		return nil
	}
	log.Warnf("cookie ladder rung %q failed: %v", RungBrowser, secondErr)

	// Rung 2 is conditional: a platform credential-store failure always
	// escalates, anything else needs the caller's approval.
	if !IsCredentialStoreFailure(secondErr) &&
		!l.hooks.Confirm("Browser cookies failed. Retry with a cookies.txt file?") {
		return &EscalationError{Rung: RungBrowser, Err: secondErr, Origin: firstErr}
	}

	cookieFile := l.hooks.CookieFile()
	if cookieFile == "" {
		cookieFile = l.hooks.PickCookieFile()
	}
	if cookieFile == "" {
		return &EscalationError{Rung: RungBrowser, Err: secondErr, Origin: firstErr}
	}

	// The browser-session option is cleared for this attempt: the picked
	// cookie file is used exclusively.
	l.notify("Retrying with cookie file " + cookieFile + "…")
	opts = base
	opts.CookieFile = cookieFile
	opts.CookiesFromBrowser = ""
	if err := attempt(ctx, opts); err != nil {
		log.Warnf("cookie ladder rung %q failed: %v", RungManual, err)
		return &EscalationError{Rung: RungManual, Err: secondErr, Origin: firstErr}
	}
	return nil
}

// CredentialStoreSignals are the case-insensitive substrings identifying a
// platform credential-store failure in a rung-1 error message. The set is a
// variable, not a constant, so callers can tune the heuristic.
var CredentialStoreSignals = []string{
	"dpapi",
	"keyring",
	"credential",
	"secret service",
}

// IsCredentialStoreFailure classifies an error message against CredentialStoreSignals.
func IsCredentialStoreFailure(err error) bool {
	if err == nil {
		return false
	}
	message := strings.ToLower(err.Error())
	for _, signal := range CredentialStoreSignals {
		if strings.Contains(message, signal) {
			return true
		}
	}
	return false
}
