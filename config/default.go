// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"encoding/json"
	"strings"

	"github.com/link2vid/link2vid/color"
	"github.com/link2vid/link2vid/constant"
	"github.com/link2vid/link2vid/key"
	"github.com/link2vid/link2vid/style"
	"github.com/link2vid/link2vid/where"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Field represents a configuration field definition.
type Field struct {
	Key         string
	Value       any
	Description string
}

// Pretty returns a colored string representation of the field for display.
func (f *Field) Pretty() string {
	var b strings.Builder
	b.WriteString(style.Faint(f.Description))
	b.WriteString("\n")
	b.WriteString(style.Fg(color.Blue)("Key:") + "     " + style.Fg(color.Purple)(f.Key) + "\n")
	b.WriteString(style.Fg(color.Blue)("Env:") + "     " + f.Env() + "\n")
	b.WriteString(style.Fg(color.Blue)("Value:") + "   " + style.Fg(color.Yellow)(toString(viper.Get(f.Key))) + "\n")
	b.WriteString(style.Fg(color.Blue)("Default:") + " " + style.Fg(color.Yellow)(toString(f.Value)))
	return b.String()
}

// Env returns the environment variable name for this field.
func (f *Field) Env() string {
	env := strings.ToUpper(EnvKeyReplacer.Replace(f.Key))
	prefix := strings.ToUpper(constant.Link2Vid + "_")
	if strings.HasPrefix(env, prefix) {
		return env
	}
	return prefix + env
}

func toString(v any) string {
	return string(lo.Must(json.Marshal(v)))
}

// Default holds the map of all configuration fields.
var Default = make(map[string]Field)

// EnvExposed holds keys that are bound to environment variables.
var EnvExposed []string

func init() {
	// register validates and adds a new configuration field to the global registry.
	register := func(k string, v any, desc string) {
		if _, exists := Default[k]; exists {
			panic("Duplicate config key: " + k)
		}
		f := Field{Key: k, Value: v, Description: desc}
		Default[k] = f
		EnvExposed = append(EnvExposed, k)
	}

	register(key.DownloadsPath, where.Downloads(), "Default output directory for resolved media files")
	register(key.DownloadsFormat, "bestvideo+bestaudio/best", "Format selector passed to the metadata provider when none is given explicitly")
	register(key.CookiesFile, "", "Path to a Netscape-format cookies.txt file.\nUsed as the first rung of the cookie escalation ladder")
	register(key.CookiesBrowser, "", "Browser profile to extract live session cookies from.\nEmpty selects the platform default (edge on Windows, chrome elsewhere)")
	register(key.CookiesHosts, []string{"twitter.com", "x.com"}, "Host family considered authentication-sensitive.\nOnly these hosts trigger the cookie escalation ladder")
	register(key.ThumbnailsMaxItems, 120, "Maximum number of decoded preview images held in memory")
	register(key.ThumbnailsMaxBytes, 5*1024*1024, "Maximum size in bytes of a single preview image download")
	register(key.ThumbnailsWorkers, 4, "Concurrency limit of the preview image fetch pool")
	register(key.HeadlessLoginURL, "https://gdcvault.com/login", "Login page driven by the headless browser fallback")
	register(key.HeadlessEmailField, "email", "Name attribute of the login form's email input")
	register(key.HeadlessPasswordField, "password", "Name attribute of the login form's password input")
	register(key.IconsVariant, "plain", "Icons variant.\nAvailable options are: emoji, plain, nerd (nerd-font required)")
	register(key.LogsWrite, false, "Write logs")
	register(key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace")
	register(key.LogsJson, false, "Use json format for logs")
	register(key.CliColored, true, "Enable colored CLI output")
	register(key.CliVersionCheck, true, "Enable automatic version check")
}
