package logger

import (
	"regexp"
	"strings"
)

var sensitivePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(bearer\s+)([A-Za-z0-9-._~+/]+=*)`),
	regexp.MustCompile(`(?i)((api|access|auth|token|secret|passw(or)?d)[0-9a-z\-_\.]*[\s:=]+)([^;,&\s]{3,})`),
	// user:password@tcp(host) MySQL DSNs
	regexp.MustCompile(`([A-Za-z0-9_.-]+:)([^@\s/]+)(@(?:tcp|unix)\()`),
}

var sensitiveKeywords = []string{"password", "passwd", "secret", "token", "dsn", "api_key", "apikey"}

// RedactSensitiveData masks credentials embedded in free-form strings such as
// DSNs, URLs and header values.
func RedactSensitiveData(input string) string {
	if input == "" {
		return input
	}
	for i, pattern := range sensitivePatterns {
		if i == len(sensitivePatterns)-1 {
			input = pattern.ReplaceAllString(input, "${1}[REDACTED]${3}")
			continue
		}
		input = pattern.ReplaceAllString(input, "${1}[REDACTED]")
	}
	return input
}

// IsSensitiveKey reports whether a field or setting name is likely to hold a secret.
func IsSensitiveKey(key string) bool {
	k := strings.ToLower(key)
	for _, kw := range sensitiveKeywords {
		if strings.Contains(k, kw) {
			return true
		}
	}
	return false
}
