package token

import (
	"strconv"
	"strings"
)

var plainKeywords = map[string]bool{
	"null": true, "Null": true, "NULL": true, "~": true,
	"true": true, "True": true, "TRUE": true,
	"false": true, "False": true, "FALSE": true,
	"yes": true, "Yes": true, "YES": true, "no": true, "No": true, "NO": true,
	"on": true, "On": true, "ON": true, "off": true, "Off": true, "OFF": true,
	".inf": true, "-.inf": true, "+.inf": true, ".Inf": true, ".INF": true,
	".nan": true, ".NaN": true, ".NAN": true,
	"???": true,
}

// NeedsQuote reports whether a string would not read back as the same
// string when written as a plain YAML scalar.
func NeedsQuote(v string) bool {
	if v == "" || plainKeywords[v] {
		return true
	}
	if v != strings.TrimSpace(v) {
		return true
	}
	if strings.ContainsAny(v[:1], "-?:,[]{}#&*!|>'\"%@`") {
		// "-" alone or followed by space is a sequence entry, other
		// indicators are unsafe anywhere at the start.
		if v[0] != '-' || len(v) == 1 || v[1] == ' ' || looksNumeric(v) {
			return true
		}
	}
	if strings.HasSuffix(v, ":") || strings.Contains(v, ": ") || strings.Contains(v, " #") {
		return true
	}
	for _, r := range v {
		if r < ' ' || r == 0x7f || r == '\ufeff' {
			return true
		}
	}
	return looksNumeric(v)
}

func looksNumeric(v string) bool {
	s := strings.ReplaceAll(v, "_", "")
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return true
	}
	if _, err := strconv.ParseInt(s, 0, 64); err == nil {
		return true
	}
	return false
}

// KPathQuoteField reports whether a field name must be quoted inside a
// dot-path.
func KPathQuoteField(v string) bool {
	if v == "" || v == "*" {
		return true
	}
	return strings.ContainsAny(v, ".[]'\" \t\n${}")
}

// Quote returns v as a double quoted string usable in YAML, JSON (for
// valid UTF-8 input) and dot-paths.
func Quote(v string) string {
	return strconv.Quote(v)
}

// Unquote removes double or single quotes. In single quoted strings a
// quote is escaped by doubling it or with a backslash.
func Unquote(v string) (string, error) {
	if len(v) < 2 {
		return "", ErrBadQuote
	}
	switch {
	case v[0] == '"' && v[len(v)-1] == '"':
		return strconv.Unquote(v)
	case v[0] == '\'' && v[len(v)-1] == '\'':
		body := v[1 : len(v)-1]
		body = strings.ReplaceAll(body, "''", "'")
		body = strings.ReplaceAll(body, `\'`, "'")
		return body, nil
	}
	return "", ErrBadQuote
}
