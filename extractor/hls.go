package extractor

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/grafov/m3u8"
	"github.com/link2vid/link2vid/constant"
	"github.com/link2vid/link2vid/log"
	"github.com/link2vid/link2vid/network"
	"github.com/link2vid/link2vid/source"
	"github.com/link2vid/link2vid/util"
	"github.com/samber/mo"
)

var (
	// Embedded players of the known streaming provider are followed one
	// iframe deep before scanning.
	iframePattern     = regexp.MustCompile(`(?i)<iframe[^>]+src="([^"]+blazestreaming[^"]+)"`)
	playlistPattern   = regexp.MustCompile(`https?://[^"']+\.m3u8`)
	resolutionPattern = regexp.MustCompile(`^(?P<width>\d+)x(?P<height>\d+)$`)
)

// ScanDirectM3U8 searches a page for the first absolute HLS playlist URL and
// parses its variant list. Returns nil when no playlist is found or any step
// fails; failures never propagate.
func ScanDirectM3U8(ctx context.Context, pageURL string, notify LogFn) *source.HlsScanResult {
	if notify == nil {
		notify = func(string) {}
	}
	notify("[HLS] Scanning page for .m3u8…")

	headers := map[string]string{
		"User-Agent": constant.UserAgent,
		"Referer":    pageURL,
	}

	html, err := network.FetchPage(ctx, pageURL, headers)
	if err != nil {
		notify(fmt.Sprintf("[HLS] %v", err))
		log.Warnf("hls page fetch failed: %v", err)
		return nil
	}

	if iframe := iframePattern.FindStringSubmatch(html); iframe != nil {
		iframeURL := resolveURL(pageURL, iframe[1])
		framed, err := network.FetchPage(ctx, iframeURL, headers)
		if err != nil {
			notify(fmt.Sprintf("[HLS] %v", err))
			log.Warnf("hls iframe fetch failed: %v", err)
			return nil
		}
		html = framed
	}

	match := playlistPattern.FindString(html)
	if match == "" {
		notify("[HLS] No playlist text found.")
		return nil
	}
	notify("[HLS] Found playlist:\n" + match)

	result := &source.HlsScanResult{
		PlaylistURL: match,
		Headers:     headers,
	}

	body, err := network.FetchPage(ctx, match, headers)
	if err != nil {
		notify(fmt.Sprintf("[HLS] %v", err))
		log.Warnf("hls playlist fetch failed: %v", err)
		return nil
	}

	playlist, listType, err := m3u8.DecodeFrom(strings.NewReader(body), false)
	if err != nil {
		notify(fmt.Sprintf("[HLS] %v", err))
		log.Warnf("hls playlist parse failed: %v", err)
		return nil
	}

	// Variants exist only for master manifests; a media playlist yields an
	// empty variant list.
	if listType == m3u8.MASTER {
		master := playlist.(*m3u8.MasterPlaylist)
		notify("Available variants:")
		for _, variant := range master.Variants {
			if variant == nil {
				continue
			}
			v := mapVariant(variant)
			notify(" • " + v.String())
			result.Variants = append(result.Variants, v)
		}
	}

	return result
}

func mapVariant(variant *m3u8.Variant) source.HlsVariant {
	v := source.HlsVariant{URI: variant.URI}
	if variant.Bandwidth > 0 {
		v.Bandwidth = mo.Some(int(variant.Bandwidth) / 1000)
	}
	if groups := util.ReGroups(resolutionPattern, variant.Resolution); len(groups) > 0 {
		v.Resolution = mo.Some(source.Resolution{
			Width:  atoi(groups["width"]),
			Height: atoi(groups["height"]),
		})
	}
	return v
}

func atoi(s string) int {
	var n int
	_, _ = fmt.Sscanf(s, "%d", &n)
	return n
}

// resolveURL resolves ref against base, falling back to ref verbatim.
func resolveURL(base, ref string) string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return ref
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return baseURL.ResolveReference(refURL).String()
}
