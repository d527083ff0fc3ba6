package logging

import "regexp"

// RedactedText is the replacement text for sensitive data.
const RedactedText = "[REDACTED]"

var (
	// Personal access tokens and API keys that providers embed in error
	// messages. Airtable PATs start with "pat"; generic key=value pairs
	// cover HubSpot and Zapier.
	patTokenPattern = regexp.MustCompile(`\bpat[A-Za-z0-9._-]{10,}`)
	apiKeyPattern   = regexp.MustCompile(`(?i)(api[_-]?key|apikey|token|key)=[A-Za-z0-9-_]{16,}`)
	bearerPattern   = regexp.MustCompile(`Bearer\s+[A-Za-z0-9-_.]+`)
	basicAuthURL    = regexp.MustCompile(`://[^:/\s]+:[^@/\s]+@`)
)

// SanitizeError strips credentials from an error message before logging.
// Remote providers echo request headers and URLs back in their errors, so
// every provider-originated error goes through here.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return Sanitize(err.Error())
}

// Sanitize strips credential material from an arbitrary string.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	out := patTokenPattern.ReplaceAllString(s, RedactedText)
	out = apiKeyPattern.ReplaceAllString(out, "${1}="+RedactedText)
	out = bearerPattern.ReplaceAllString(out, "Bearer "+RedactedText)
	out = basicAuthURL.ReplaceAllString(out, "://"+RedactedText+"@")
	return out
}

// MaskKey renders a credential for log output: first four characters
// followed by an ellipsis, or empty if unset.
func MaskKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 4 {
		return "****"
	}
	return key[:4] + "..."
}
