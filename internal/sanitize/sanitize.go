// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package sanitize strips markup from untrusted request fields before
// they reach validation or persistence.
package sanitize

import (
	"net/mail"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// policy drops all HTML elements and attributes, including script tags
// and event handlers. Shared and safe for concurrent use.
var policy = bluemonday.StrictPolicy()

// String removes all markup from a single value.
func String(s string) string {
	return policy.Sanitize(s)
}

// Fields sanitizes every string value of a decoded JSON object in place
// and returns it. Non-string values pass through unchanged. A field named
// "email" is additionally replaced with the empty string when it does not
// survive a strict address check after sanitization, so a borderline
// string cannot reach validation disguised as an email.
func Fields(fields map[string]any) map[string]any {
	for key, value := range fields {
		s, ok := value.(string)
		if !ok {
			continue
		}
		s = String(s)
		if key == "email" && !ValidEmail(s) {
			s = ""
		}
		fields[key] = s
	}
	return fields
}

// ValidEmail reports whether s is a plain, well-formed address of
// acceptable length. Display-name forms ("Alice <a@b.com>") and
// addresses without a dotted domain are rejected.
func ValidEmail(s string) bool {
	if len(s) < 5 || len(s) > 255 {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}
	at := strings.LastIndex(s, "@")
	if at < 1 {
		return false
	}
	return strings.Contains(s[at+1:], ".")
}
