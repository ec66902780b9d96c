// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Download Behavior - these keys govern where and how resolved media is written to disk.
const (
	DownloadsPath   = "downloads.path"
	DownloadsFormat = "downloads.format"
)

// Cookie Escalation - these keys configure the retry ladder used against authentication walls.
const (
	CookiesFile    = "cookies.file"
	CookiesBrowser = "cookies.browser"
	CookiesHosts   = "cookies.hosts"
)

// Thumbnail Cache - these keys bound the in-memory and network footprint of preview images.
const (
	ThumbnailsMaxItems = "thumbnails.max_items"
	ThumbnailsMaxBytes = "thumbnails.max_bytes"
	ThumbnailsWorkers  = "thumbnails.workers"
)

// Headless Fallback - these keys describe the login flow driven when every automatic strategy fails.
const (
	HeadlessLoginURL      = "headless.login_url"
	HeadlessEmailField    = "headless.email_field"
	HeadlessPasswordField = "headless.password_field"
)

// Iconography - these keys manage the visual rendering of CLI symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these settings govern general CLI behavior.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
