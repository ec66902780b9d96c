// Package fetcher orchestrates the multi-strategy resolution of a page URL
// into a structured fetch outcome.
package fetcher

import (
	"context"
	"errors"
	"fmt"

	"github.com/link2vid/link2vid/cookies"
	"github.com/link2vid/link2vid/extractor"
	"github.com/link2vid/link2vid/log"
	"github.com/link2vid/link2vid/source"
	"github.com/samber/mo"
)

// InfoFn performs the primary metadata fetch. It is injected rather than a
// concrete provider so the escalation ladder can be composed underneath it.
type InfoFn func(ctx context.Context, url string, creds mo.Option[source.Credentials]) ([]*source.MediaEntry, error)

// SiteScrapeFn is the site-specific markup scraper strategy.
type SiteScrapeFn func(ctx context.Context, url string, notify extractor.LogFn) []*source.MediaEntry

// HlsScanFn is the generic playlist sniffer strategy.
type HlsScanFn func(ctx context.Context, url string, notify extractor.LogFn) *source.HlsScanResult

// Fetcher owns the decision of which strategy to try next and classifies
// failures to decide whether cookies are required. Strategies run strictly
// in order, each at most once per call.
type Fetcher struct {
	getInfo    InfoFn
	classifier Classifier
	scrapeSite SiteScrapeFn
	scanHLS    HlsScanFn
	notify     func(string)
}

// Option configures optional Fetcher collaborators.
type Option func(*Fetcher)

// WithClassifier replaces the default cookie classifier.
func WithClassifier(c Classifier) Option {
	return func(f *Fetcher) { f.classifier = c }
}

// WithSiteScraper replaces the site-specific scrape strategy.
func WithSiteScraper(fn SiteScrapeFn) Option {
	return func(f *Fetcher) { f.scrapeSite = fn }
}

// WithHlsScanner replaces the generic playlist sniffer strategy.
func WithHlsScanner(fn HlsScanFn) Option {
	return func(f *Fetcher) { f.scanHLS = fn }
}

// WithNotify sets the human-readable progress sink.
func WithNotify(notify func(string)) Option {
	return func(f *Fetcher) { f.notify = notify }
}

// New builds a Fetcher around the primary metadata fetch function.
func New(getInfo InfoFn, opts ...Option) *Fetcher {
	f := &Fetcher{
		getInfo:    getInfo,
		classifier: DefaultClassifier,
		scrapeSite: extractor.ExtractLinkedInVideos,
		scanHLS:    extractor.ScanDirectM3U8,
		notify:     func(string) {},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch resolves url into exactly one outcome variant. The step-1 provider
// error is retained and becomes the warning or cause of whichever outcome is
// eventually returned.
func (f *Fetcher) Fetch(ctx context.Context, url string, creds mo.Option[source.Credentials]) source.FetchOutcome {
	f.notify("Fetching metadata…")

	entries, providerErr := f.getInfo(ctx, url, creds)
	if providerErr == nil && len(entries) > 0 {
		return &source.Results{Entries: entries}
	}

	if providerErr != nil {
		f.notify(fmt.Sprintf("Metadata fetch failed: %v", providerErr))
		log.Warnf("provider failed for %s: %v", url, providerErr)

		// An exhausted escalation ladder is an authentication wall by
		// definition; anything else goes through the classifier.
		var escErr *cookies.EscalationError
		if errors.As(providerErr, &escErr) {
			return &source.NeedsCookies{Cause: providerErr}
		}
		if f.classifier(url, providerErr) {
			f.notify("This content appears to sit behind an authentication wall.")
			return &source.NeedsCookies{Cause: providerErr}
		}
	}

	f.notify("Trying site-specific extraction…")
	if scraped := f.scrapeSite(ctx, url, f.notify); len(scraped) > 0 {
		return &source.Results{Entries: scraped, Warning: providerErr}
	}

	f.notify("Scanning for a direct HLS playlist…")
	if result := f.scanHLS(ctx, url, f.notify); result != nil {
		return &source.DirectHlsFound{Result: result, Warning: providerErr}
	}

	if providerErr != nil {
		f.notify("All automatic strategies failed; browser automation remains.")
		return &source.NeedsSelenium{Cause: providerErr}
	}

	return &source.Failure{Cause: errors.New("fetch failed without details")}
}
