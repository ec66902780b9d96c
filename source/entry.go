// Package source defines the domain models for media discovery and retrieval.
package source

import (
	"fmt"

	"github.com/samber/mo"
)

// FormatOption represents one downloadable encoding of a media entry.
type FormatOption struct {
	// Provider-side format identifier (e.g. "137", "best").
	ID string `json:"id"`
	// Container extension (e.g. "mp4", "m3u8").
	Ext string `json:"ext"`
	// Size estimate in bytes. Absent when the provider reports none.
	Size mo.Option[int64] `json:"size"`
}

// SizeString returns the size estimate for display, or "N/A" when unknown.
func (f *FormatOption) SizeString() string {
	if size, ok := f.Size.Get(); ok {
		return fmt.Sprint(size)
	}
	return "N/A"
}

// MediaEntry represents one discovered playable item.
type MediaEntry struct {
	Title string `json:"title"`
	// Format options ordered worst to best, provider order preserved.
	Formats []*FormatOption `json:"formats"`
	// Preview image URL, empty when the provider exposes none.
	Thumbnail string `json:"thumbnail,omitempty"`
	// Source site tag (e.g. "Youtube", "LinkedIn").
	Site string `json:"site,omitempty"`
	// Canonical page URL of the item.
	PageURL string `json:"page_url"`
}

// BestFormat returns the highest-quality format option, or nil when none exist.
// Providers order formats worst to best, so best is last.
func (e *MediaEntry) BestFormat() *FormatOption {
	if len(e.Formats) == 0 {
		return nil
	}
	return e.Formats[len(e.Formats)-1]
}

// String returns a fixed-width table row for CLI listings.
func (e *MediaEntry) String() string {
	title := e.Title
	if title == "" {
		title = "No Title"
	}
	if best := e.BestFormat(); best != nil {
		return fmt.Sprintf("%-50.50s %6s %4s %10s", title, best.ID, best.Ext, best.SizeString())
	}
	return fmt.Sprintf("%-50.50s %6s %4s %10s", title, "", "", "")
}

// Credentials carries an optional username/password pair for authenticated fetches.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
