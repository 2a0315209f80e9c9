// Package normalize canonicalises user-supplied strings before they are
// stored or compared.
package normalize

import "strings"

// Email trims and lowercases an email address.
func Email(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// Name trims a display name, preserving case.
func Name(s string) string { return strings.TrimSpace(s) }

// Status trims and lowercases an account status.
func Status(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// Role trims and lowercases a role.
func Role(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// QueryParam trims a query-string value, preserving case.
func QueryParam(s string) string { return strings.TrimSpace(s) }
