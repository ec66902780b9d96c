// Package cmd implements the command-line interface for link2vid.
package cmd

import (
	"fmt"
	neturl "net/url"

	"github.com/link2vid/link2vid/cookies"
	"github.com/link2vid/link2vid/download"
	"github.com/link2vid/link2vid/headless"
	"github.com/link2vid/link2vid/icon"
	"github.com/link2vid/link2vid/key"
	"github.com/link2vid/link2vid/provider"
	"github.com/link2vid/link2vid/style"
	"github.com/link2vid/link2vid/thumbnail"
	"github.com/spf13/viper"
)

// progressNotify prints orchestration progress lines to the terminal.
func progressNotify(message string) {
	fmt.Printf("%s %s\n", icon.Get(icon.Progress), style.Faint(message))
}

// newManager wires the yt-dlp runner to the interactive cookie ladder using
// the current configuration.
func newManager(notify func(string)) *download.Manager {
	ladder := cookies.NewLadder(cookies.Hooks{
		CookieFile:     func() string { return viper.GetString(key.CookiesFile) },
		PickCookieFile: promptCookieFile,
		Confirm:        promptConfirm,
	}, viper.GetString(key.CookiesBrowser), notify)

	return download.NewManager(
		provider.NewYtDlp(),
		ladder,
		download.WithHosts(viper.GetStringSlice(key.CookiesHosts)),
	)
}

// newThumbnailLoader builds a preview image cache from the current configuration.
func newThumbnailLoader() *thumbnail.Loader {
	return thumbnail.New(thumbnail.Config{
		MaxItems: viper.GetInt(key.ThumbnailsMaxItems),
		MaxBytes: viper.GetInt64(key.ThumbnailsMaxBytes),
		Workers:  viper.GetInt(key.ThumbnailsWorkers),
	})
}

// headlessConfig reads the browser automation knobs from the current configuration.
func headlessConfig() headless.Config {
	return headless.Config{
		LoginURL:      viper.GetString(key.HeadlessLoginURL),
		EmailField:    viper.GetString(key.HeadlessEmailField),
		PasswordField: viper.GetString(key.HeadlessPasswordField),
	}
}

// hostOf extracts the hostname of rawURL for keyring lookups, falling back
// to the raw string when it does not parse.
func hostOf(rawURL string) string {
	parsed, err := neturl.Parse(rawURL)
	if err != nil || parsed.Hostname() == "" {
		return rawURL
	}
	return parsed.Hostname()
}
