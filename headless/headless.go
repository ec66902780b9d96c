// Package headless drives a real browser session to reach pages that defeat
// every scraping strategy, typically ones behind a scripted login form.
package headless

import (
	"context"
	"fmt"
	"regexp"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"
	"github.com/link2vid/link2vid/log"
	"github.com/link2vid/link2vid/source"
)

// Config holds the login automation knobs. The selectors address the login
// form fields on LoginURL.
type Config struct {
	LoginURL      string
	EmailField    string
	PasswordField string
}

var playlistPattern = regexp.MustCompile(`https?://[^"'\\]+\.m3u8`)

// ResolvePlaylist logs in with creds, renders pageURL in a real browser and
// scans the resulting markup for an HLS playlist URL. An empty string with a
// nil error means the page rendered but exposed no playlist.
func ResolvePlaylist(ctx context.Context, cfg Config, pageURL string, creds source.Credentials) (string, error) {
	browser := rod.New().Context(ctx)
	if err := browser.Connect(); err != nil {
		return "", fmt.Errorf("connect browser: %w", err)
	}
	defer browser.Close()

	page, err := browser.Page(proto.TargetCreateTarget{URL: cfg.LoginURL})
	if err != nil {
		return "", fmt.Errorf("open login page: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", fmt.Errorf("load login page: %w", err)
	}

	if err := fill(page, cfg.EmailField, creds.Username); err != nil {
		return "", err
	}
	if err := fill(page, cfg.PasswordField, creds.Password); err != nil {
		return "", err
	}

	field, err := page.Element(cfg.PasswordField)
	if err != nil {
		return "", fmt.Errorf("find %s: %w", cfg.PasswordField, err)
	}
	if err := field.Type(input.Enter); err != nil {
		return "", fmt.Errorf("submit login form: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", fmt.Errorf("complete login: %w", err)
	}

	if err := page.Navigate(pageURL); err != nil {
		return "", fmt.Errorf("navigate to %s: %w", pageURL, err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", fmt.Errorf("render %s: %w", pageURL, err)
	}

	html, err := page.HTML()
	if err != nil {
		return "", fmt.Errorf("read rendered markup: %w", err)
	}

	playlist := playlistPattern.FindString(html)
	if playlist == "" {
		log.Warnf("rendered %s but found no playlist reference", pageURL)
	}
	return playlist, nil
}

func fill(page *rod.Page, selector, value string) error {
	el, err := page.Element(selector)
	if err != nil {
		return fmt.Errorf("find %s: %w", selector, err)
	}
	if err := el.Input(value); err != nil {
		return fmt.Errorf("fill %s: %w", selector, err)
	}
	return nil
}
