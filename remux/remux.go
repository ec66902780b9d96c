// Package remux converts an HLS playlist into a local media file by driving
// ffmpeg in stream-copy mode.
package remux

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Job describes one playlist-to-file conversion.
type Job struct {
	// PlaylistURL is the absolute .m3u8 URL to read.
	PlaylistURL string

	// Headers are forwarded verbatim to ffmpeg's HTTP reader. The
	// User-Agent key gets its dedicated flag; everything else goes
	// through -headers.
	Headers map[string]string

	// OutPath is the output media file. Its extension picks the container.
	OutPath string
}

// Args builds the ffmpeg argument vector for job. Split out from Run so the
// flag mapping stays testable without an ffmpeg binary.
func Args(job Job) []string {
	args := []string{"-y", "-hide_banner", "-loglevel", "error"}

	if ua, ok := job.Headers["User-Agent"]; ok {
		args = append(args, "-user_agent", ua)
	}

	var extra []string
	for name, value := range job.Headers {
		if name == "User-Agent" {
			continue
		}
		extra = append(extra, fmt.Sprintf("%s: %s", name, value))
	}
	if len(extra) > 0 {
		args = append(args, "-headers", strings.Join(extra, "\r\n")+"\r\n")
	}

	args = append(args,
		"-i", job.PlaylistURL,
		"-c", "copy",
		"-bsf:a", "aac_adtstoasc",
		job.OutPath,
	)
	return args
}

// Run executes the conversion and blocks until ffmpeg exits.
func Run(ctx context.Context, job Job) error {
	cmd := exec.CommandContext(ctx, "ffmpeg", Args(job)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		message := strings.TrimSpace(stderr.String())
		if message == "" {
			message = err.Error()
		}
		return fmt.Errorf("ffmpeg: %s", message)
	}
	return nil
}
