package provider

import (
	"bufio"
	"io"
	"regexp"
	"strconv"
)

// downloadLine matches yt-dlp's per-line progress output, e.g.
// "[download]  42.3% of 10.00MiB at 1.00MiB/s ETA 00:05".
var downloadLine = regexp.MustCompile(`\[download\]\s+(\d+(?:\.\d+)?)%`)

// scanProgress streams yt-dlp output lines and reports fractional completion.
func scanProgress(r io.Reader, progress func(float64)) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if progress == nil {
			continue
		}
		match := downloadLine.FindStringSubmatch(scanner.Text())
		if match == nil {
			continue
		}
		percent, err := strconv.ParseFloat(match[1], 64)
		if err != nil {
			continue
		}
		progress(percent / 100)
	}
}
