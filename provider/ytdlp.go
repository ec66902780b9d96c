package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"github.com/link2vid/link2vid/log"
	"github.com/link2vid/link2vid/source"
	"github.com/samber/mo"
)

// YtDlp shells out to the yt-dlp binary for metadata extraction and downloads.
type YtDlp struct {
	// Binary is the executable name or path; "yt-dlp" when empty.
	Binary string
}

// NewYtDlp returns a provider backed by the yt-dlp binary.
func NewYtDlp() *YtDlp {
	return &YtDlp{Binary: "yt-dlp"}
}

// ytdlpFormat matches the relevant subset of yt-dlp's per-format JSON output.
type ytdlpFormat struct {
	FormatID       string `json:"format_id"`
	Ext            string `json:"ext"`
	Filesize       *int64 `json:"filesize"`
	FilesizeApprox *int64 `json:"filesize_approx"`
}

// ytdlpInfo matches yt-dlp's -J output for a single video or a playlist.
type ytdlpInfo struct {
	Title        string        `json:"title"`
	Thumbnail    string        `json:"thumbnail"`
	ExtractorKey string        `json:"extractor_key"`
	WebpageURL   string        `json:"webpage_url"`
	Formats      []ytdlpFormat `json:"formats"`
	Entries      []ytdlpInfo   `json:"entries"`
}

func (y *YtDlp) binary() string {
	if y.Binary == "" {
		return "yt-dlp"
	}
	return y.Binary
}

// authArgs maps the per-request authentication state to yt-dlp flags.
func authArgs(opts Options) []string {
	var args []string
	if creds, ok := opts.Credentials.Get(); ok {
		args = append(args, "--username", creds.Username, "--password", creds.Password)
	}
	if opts.CookieFile != "" {
		args = append(args, "--cookies", opts.CookieFile)
	}
	if opts.CookiesFromBrowser != "" {
		args = append(args, "--cookies-from-browser", opts.CookiesFromBrowser)
	}
	return args
}

// GetInfo runs yt-dlp in metadata-only mode and maps its JSON output.
// A playlist page yields one entry per contained video.
func (y *YtDlp) GetInfo(ctx context.Context, url string, opts Options) ([]*source.MediaEntry, error) {
	args := []string{"-J", "--no-warnings"}
	args = append(args, authArgs(opts)...)
	args = append(args, url)

	cmd := exec.CommandContext(ctx, y.binary(), args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		message := strings.TrimSpace(stderr.String())
		if message == "" {
			message = err.Error()
		}
		log.Errorf("yt-dlp metadata fetch failed for %s: %s", url, message)
		return nil, &Error{Message: message, Err: err}
	}

	var info ytdlpInfo
	if err := json.Unmarshal(stdout.Bytes(), &info); err != nil {
		return nil, &Error{Message: fmt.Sprintf("parse yt-dlp output: %v", err), Err: err}
	}

	if len(info.Entries) > 0 {
		entries := make([]*source.MediaEntry, 0, len(info.Entries))
		for i := range info.Entries {
			entries = append(entries, mapEntry(&info.Entries[i]))
		}
		return entries, nil
	}
	return []*source.MediaEntry{mapEntry(&info)}, nil
}

func mapEntry(info *ytdlpInfo) *source.MediaEntry {
	entry := &source.MediaEntry{
		Title:     info.Title,
		Thumbnail: info.Thumbnail,
		Site:      info.ExtractorKey,
		PageURL:   info.WebpageURL,
	}
	for _, f := range info.Formats {
		size := mo.None[int64]()
		if f.Filesize != nil {
			size = mo.Some(*f.Filesize)
		} else if f.FilesizeApprox != nil {
			size = mo.Some(*f.FilesizeApprox)
		}
		entry.Formats = append(entry.Formats, &source.FormatOption{
			ID:   f.FormatID,
			Ext:  f.Ext,
			Size: size,
		})
	}
	return entry
}

// Download runs a full yt-dlp download of url into outPath.
// Progress reports fractional completion parsed from yt-dlp's output lines.
func (y *YtDlp) Download(ctx context.Context, url, formatID, outPath string, opts Options, progress func(float64)) error {
	args := []string{"--newline", "-o", outPath}
	if formatID != "" {
		args = append(args, "-f", formatID)
	}
	args = append(args, authArgs(opts)...)
	args = append(args, url)

	cmd := exec.CommandContext(ctx, y.binary(), args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return &Error{Message: err.Error(), Err: err}
	}
	if err := cmd.Start(); err != nil {
		return &Error{Message: err.Error(), Err: err}
	}

	scanProgress(stdout, progress)

	if err := cmd.Wait(); err != nil {
		message := strings.TrimSpace(stderr.String())
		if message == "" {
			message = err.Error()
		}
		log.Errorf("yt-dlp download failed for %s: %s", url, message)
		return &Error{Message: message, Err: err}
	}
	if progress != nil {
		progress(1)
	}
	return nil
}

// Version reports the installed yt-dlp version, or "unknown".
func (y *YtDlp) Version(ctx context.Context) string {
	out, err := exec.CommandContext(ctx, y.binary(), "--version").Output()
	if err != nil {
		return "unknown"
	}
	return strings.TrimSpace(string(out))
}
