package telemetry

import (
	"regexp"

	"github.com/tphakala/potability-go/internal/logger"
)

var (
	urlQueryRe  = regexp.MustCompile(`(https?://[^?\s]+)\?\S*`)
	urlUserRe   = regexp.MustCompile(`([a-z][a-z0-9+.-]*://)[^/@\s]+@`)
	ipAddressRe = regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`)
)

// ScrubMessage removes credentials, URL query strings, URL user info and IPv4
// addresses from a message before it leaves the process.
func ScrubMessage(message string) string {
	scrubbed := logger.RedactSensitiveData(message)
	scrubbed = urlQueryRe.ReplaceAllString(scrubbed, "$1?[REDACTED]")
	scrubbed = urlUserRe.ReplaceAllString(scrubbed, "$1[REDACTED]@")
	return ipAddressRe.ReplaceAllString(scrubbed, "[IP]")
}
