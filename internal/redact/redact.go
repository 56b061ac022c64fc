// Package redact removes credentials, SQL values and stack traces from text
// before it is logged or printed.
package redact

import "regexp"

// Placeholders substituted for redacted fragments.
const (
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedStackTracePlaceholder = "[STACK_TRACE_REDACTED]"
	RedactedSQLValuesPlaceholder  = "[SQL_VALUES_REDACTED]"
	RedactedSQLWherePlaceholder   = "[SQL_WHERE_REDACTED]"
)

type rule struct {
	pattern     *regexp.Regexp
	replacement string
}

// Rules run in order; the replacement may reference capture groups.
var rules = []rule{
	// userinfo in connection URLs
	{
		regexp.MustCompile(`(?i)(postgres|postgresql)://[^@\s/]+@`),
		"${1}://" + RedactedCredentialPlaceholder + "@",
	},
	// key=value passwords in DSNs
	{
		regexp.MustCompile(`(?i)(password|passwd|pwd)=[^&\s'"]+`),
		"${1}=" + RedactedCredentialPlaceholder,
	},
	{
		regexp.MustCompile(`(?is)goroutine \d+ \[[^\]]*\]:.*`),
		RedactedStackTracePlaceholder,
	},
	{
		regexp.MustCompile(`(?i)\bVALUES\s*\(.*\)`),
		"VALUES " + RedactedSQLValuesPlaceholder,
	},
	{
		regexp.MustCompile(`(?i)\bWHERE\b.*`),
		"WHERE " + RedactedSQLWherePlaceholder,
	},
}

// String redacts sensitive information from the input string
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, r := range rules {
		result = r.pattern.ReplaceAllString(result, r.replacement)
	}
	return result
}

// Error redacts sensitive information from an error's Error() output
func Error(err error) string {
	if err == nil {
		return ""
	}

	return String(err.Error())
}
