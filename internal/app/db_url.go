package app

import (
	"net/url"
	"strings"
)

// normalizeDatabaseURL appends disable_prepared_binary_result=yes unless
// the URL already pins a value. Some poolers mangle binary result rows
// for prepared statements; the text protocol is the safe default.
func normalizeDatabaseURL(raw string, disablePreparedBinaryResult bool) string {
	if !disablePreparedBinaryResult {
		return raw
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed == nil {
		return raw
	}

	query := parsed.Query()
	if query.Get("disable_prepared_binary_result") == "" {
		query.Set("disable_prepared_binary_result", "yes")
		parsed.RawQuery = query.Encode()
	}

	return parsed.String()
}

// databaseNameFromURL extracts the database name from either URL-style
// or key=value DSN-style connection strings. Empty when undeterminable.
func databaseNameFromURL(raw string) string {
	trimmed := strings.TrimSpace(raw)

	parsed, err := url.Parse(trimmed)
	if err == nil && parsed != nil && parsed.Scheme != "" {
		if name := strings.TrimSpace(strings.TrimPrefix(parsed.Path, "/")); name != "" {
			return name
		}
	}

	for _, token := range strings.Fields(trimmed) {
		if !strings.HasPrefix(token, "dbname=") {
			continue
		}
		name := strings.Trim(strings.TrimPrefix(token, "dbname="), `"'`)
		if name != "" {
			return name
		}
	}

	return ""
}
