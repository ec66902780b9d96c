// Package extractor provides pure, stateless page scrapers for special-case sites.
//
// Extractors tolerate total failure: every error degrades to an empty result
// plus a log line and never reaches the caller.
package extractor

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/link2vid/link2vid/constant"
	"github.com/link2vid/link2vid/log"
	"github.com/link2vid/link2vid/network"
	"github.com/link2vid/link2vid/source"
	"github.com/samber/lo"
)

// LogFn receives human-readable progress notifications.
type LogFn func(string)

// Ordered URL patterns: open-graph video meta tags, inline JSON playback
// keys, then bare HLS playlist URLs.
var (
	ogVideoPattern    = regexp.MustCompile(`(?i)<meta[^>]+property="og:video(?:[:_][^"]+)?"[^>]+content="([^"]+)"`)
	jsonVideoPattern  = regexp.MustCompile(`"(?:progressiveUrl|playbackUrl)":"(https:[^"]+?\.mp4[^"]*)"`)
	inlineM3U8Pattern = regexp.MustCompile(`(https:[^"]+?\.m3u8[^"]*)`)
)

// ExtractLinkedInVideos scrapes direct video URLs out of a LinkedIn post page.
// Each surviving URL becomes a synthetic single-format entry. Applicable only
// to linkedin.com URLs; anything else returns nil immediately.
func ExtractLinkedInVideos(ctx context.Context, pageURL string, notify LogFn) []*source.MediaEntry {
	if notify == nil {
		notify = func(string) {}
	}
	if !strings.Contains(strings.ToLower(pageURL), "linkedin.com") {
		return nil
	}
	notify("[LinkedIn] Scanning page for direct video links…")

	html, err := network.FetchPage(ctx, pageURL, map[string]string{"User-Agent": constant.UserAgent})
	if err != nil {
		notify(fmt.Sprintf("[LinkedIn] %v", err))
		log.Warnf("linkedin page fetch failed: %v", err)
		return nil
	}

	// LinkedIn embeds its URLs inside JSON blobs with unicode escapes.
	html = unescapeUnicode(html)

	var candidates []string
	for _, match := range ogVideoPattern.FindAllStringSubmatch(html, -1) {
		candidates = append(candidates, match[1])
	}
	for _, match := range jsonVideoPattern.FindAllStringSubmatch(html, -1) {
		candidates = append(candidates, match[1])
	}
	for _, match := range inlineM3U8Pattern.FindAllStringSubmatch(html, -1) {
		candidates = append(candidates, match[1])
	}

	// Double-escaped payloads leave literal \u002F text behind after one
	// round of unescaping.
	candidates = lo.Map(candidates, func(u string, _ int) string {
		return strings.ReplaceAll(u, `\u002F`, "/")
	})
	videoURLs := lo.Uniq(candidates)

	if len(videoURLs) == 0 {
		notify("[LinkedIn] No direct video links found.")
		return nil
	}

	entries := make([]*source.MediaEntry, 0, len(videoURLs))
	for i, videoURL := range videoURLs {
		ext := "mp4"
		if strings.HasSuffix(videoURL, ".m3u8") {
			ext = "m3u8"
		}
		entries = append(entries, &source.MediaEntry{
			Title:   fmt.Sprintf("LinkedIn video %d", i+1),
			Site:    "LinkedIn",
			PageURL: videoURL,
			Formats: []*source.FormatOption{{ID: "best", Ext: ext}},
		})
	}
	return entries
}

// unicodeEscape matches JSON-style \uXXXX escape sequences.
var unicodeEscape = regexp.MustCompile(`\\u[0-9a-fA-F]{4}`)

// unescapeUnicode reverses JSON unicode-escaping in raw markup.
func unescapeUnicode(s string) string {
	return unicodeEscape.ReplaceAllStringFunc(s, func(esc string) string {
		code, err := strconv.ParseUint(esc[2:], 16, 32)
		if err != nil {
			return esc
		}
		return string(rune(code))
	})
}
