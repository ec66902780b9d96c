package source

import (
	"fmt"

	"github.com/samber/mo"
)

// Resolution is a video frame size in pixels.
type Resolution struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (r Resolution) String() string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

// HlsVariant describes a single sub-playlist of a master HLS manifest.
type HlsVariant struct {
	// Bandwidth in kbps. Absent when the manifest omits it.
	Bandwidth mo.Option[int] `json:"bandwidth"`
	// Frame size. Absent when the manifest omits it.
	Resolution mo.Option[Resolution] `json:"resolution"`
	// Playlist URI, relative to the master playlist.
	URI string `json:"uri"`
}

func (v *HlsVariant) String() string {
	bandwidth := "?"
	if b, ok := v.Bandwidth.Get(); ok {
		bandwidth = fmt.Sprintf("%d kbps", b)
	}
	resolution := "?"
	if r, ok := v.Resolution.Get(); ok {
		resolution = r.String()
	}
	return fmt.Sprintf("%s  %s  →  %s", bandwidth, resolution, v.URI)
}

// HlsScanResult is the immutable result of one direct playlist scan.
type HlsScanResult struct {
	// Absolute URL of the located playlist.
	PlaylistURL string `json:"playlist_url"`
	// HTTP headers required to fetch the playlist (User-Agent, Referer).
	Headers map[string]string `json:"headers"`
	// Variant list, populated only when the playlist is a master manifest.
	Variants []HlsVariant `json:"variants"`
}
