// Package download coordinates provider calls with the cookie escalation
// ladder for both metadata fetches and full downloads.
package download

import (
	"context"
	"strings"

	"github.com/link2vid/link2vid/cookies"
	"github.com/link2vid/link2vid/fetcher"
	"github.com/link2vid/link2vid/provider"
	"github.com/link2vid/link2vid/source"
	"github.com/samber/mo"
)

// Runner is the provider surface the manager drives: metadata extraction
// plus actual downloads.
type Runner interface {
	provider.Provider
	Download(ctx context.Context, url, formatID, outPath string, opts provider.Options, progress func(float64)) error
}

// Manager wraps a Runner with the escalation policy. Authentication-sensitive
// hosts go through the full ladder; everything else gets a single direct
// attempt, escalating only when the failure looks like a cookie wall.
type Manager struct {
	runner Runner
	ladder *cookies.Ladder
	hosts  []string
}

// Option configures a Manager.
type Option func(*Manager)

// WithHosts replaces the authentication-sensitive host family.
func WithHosts(hosts []string) Option {
	return func(m *Manager) { m.hosts = hosts }
}

// NewManager builds a Manager around runner and ladder.
func NewManager(runner Runner, ladder *cookies.Ladder, opts ...Option) *Manager {
	m := &Manager{
		runner: runner,
		ladder: ladder,
		hosts:  fetcher.CookieHosts,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// GetInfo resolves url into media entries. Hosts in the sensitive family run
// the whole ladder up front; others attempt once with the stored cookie file
// and surface the raw error for the orchestrator to classify.
func (m *Manager) GetInfo(ctx context.Context, url string, creds mo.Option[source.Credentials]) ([]*source.MediaEntry, error) {
	base := provider.Options{Credentials: creds}

	var entries []*source.MediaEntry
	attempt := func(ctx context.Context, opts provider.Options) error {
		var err error
		entries, err = m.runner.GetInfo(ctx, url, opts)
		return err
	}

	if m.hostInFamily(url) {
		if err := m.ladder.Run(ctx, base, attempt); err != nil {
			return nil, err
		}
		return entries, nil
	}

	opts := base
	opts.CookieFile = m.ladder.CookieFile()
	if err := attempt(ctx, opts); err != nil {
		return nil, err
	}
	return entries, nil
}

// Download fetches url into outPath. A first attempt runs with the stored
// cookie file; a failure that reads like an authentication wall rolls the
// whole ladder.
func (m *Manager) Download(ctx context.Context, url, formatID, outPath string, creds mo.Option[source.Credentials], progress func(float64)) error {
	base := provider.Options{Credentials: creds}

	attempt := func(ctx context.Context, opts provider.Options) error {
		return m.runner.Download(ctx, url, formatID, outPath, opts, progress)
	}

	opts := base
	opts.CookieFile = m.ladder.CookieFile()
	err := attempt(ctx, opts)
	if err == nil {
		return nil
	}
	if !m.hostInFamily(url) && !cookieWall(err) {
		return err
	}
	return m.ladder.Run(ctx, base, attempt)
}

func (m *Manager) hostInFamily(url string) bool {
	lowered := strings.ToLower(url)
	for _, host := range m.hosts {
		if strings.Contains(lowered, host) {
			return true
		}
	}
	return false
}

// cookieWall checks the error message against the same signal tokens the
// orchestrator's classifier uses, without the host restriction.
func cookieWall(err error) bool {
	message := strings.ToLower(err.Error())
	for _, signal := range fetcher.CookieSignals {
		if strings.Contains(message, signal) {
			return true
		}
	}
	return false
}
