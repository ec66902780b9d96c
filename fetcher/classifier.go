package fetcher

import "strings"

// Classifier decides whether a provider failure for a URL is an
// authentication wall that cookies could clear.
type Classifier func(url string, err error) bool

// CookieHosts is the default authentication-sensitive domain family.
var CookieHosts = []string{"twitter.com", "x.com"}

// CookieSignals are the case-insensitive substrings that mark a provider
// error message as cookie-related. Matching is plain substring containment,
// so it can both over- and under-trigger.
var CookieSignals = []string{
	"dpapi",
	"cookie",
	"cookies",
	"consent",
	"sign in",
	"signin",
	"login",
	"age",
	"403",
	"forbidden",
	"bot",
}

// NewClassifier builds a substring classifier over a host family and signal
// set. A URL matches when it contains any host token and the error message
// contains any signal token, both case-insensitively.
func NewClassifier(hosts, signals []string) Classifier {
	return func(url string, err error) bool {
		if err == nil {
			return false
		}
		lowered := strings.ToLower(url)
		hostMatch := false
		for _, host := range hosts {
			if strings.Contains(lowered, host) {
				hostMatch = true
				break
			}
		}
		if !hostMatch {
			return false
		}
		message := strings.ToLower(err.Error())
		for _, signal := range signals {
			if strings.Contains(message, signal) {
				return true
			}
		}
		return false
	}
}

// DefaultClassifier matches the built-in host family and signal set.
var DefaultClassifier = NewClassifier(CookieHosts, CookieSignals)
