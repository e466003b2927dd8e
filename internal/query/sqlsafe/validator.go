// Package sqlsafe is the safety gate for SQL that did not originate from a
// pre-vetted template, i.e. anything produced by the language model.
// It guarantees safety (single statement, SELECT only, bounded result size),
// not semantic correctness.
package sqlsafe

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// DefaultLimit is the system-wide cap appended to statements without one.
const DefaultLimit = 100

var (
	ErrEmptyStatement = errors.New("empty sql statement")

	// ErrMultipleStatements - a semicolon anywhere except as the final
	// character is treated as a multi-statement injection attempt.
	ErrMultipleStatements = errors.New("multiple sql statements")
)

// Substring match on the lowered text. This also rejects legitimate SELECTs
// that merely mention a forbidden word inside a string literal or identifier;
// that imprecision is accepted in favor of a simpler, conservative gate.
var forbiddenKeywords = []string{
	"insert", "update", "delete", "drop", "alter", "create",
	"truncate", "grant", "revoke", "comment", "merge",
}

var (
	selectStartRe = regexp.MustCompile(`(?i)^select\b`)
	limitRe       = regexp.MustCompile(`(?i)\blimit\s+\d+`)
)

// Normalize trims the statement and strips a single trailing semicolon.
// Any other semicolon fails normalization.
func Normalize(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrEmptyStatement
	}

	if i := strings.Index(trimmed, ";"); i != -1 && i != len(trimmed)-1 {
		return "", ErrMultipleStatements
	}

	trimmed = strings.TrimSpace(strings.TrimSuffix(trimmed, ";"))
	if trimmed == "" {
		return "", ErrEmptyStatement
	}
	return trimmed, nil
}

// IsSafeSelect reports whether the statement starts with SELECT and contains
// none of the forbidden keywords.
func IsSafeSelect(sql string) bool {
	if !selectStartRe.MatchString(sql) {
		return false
	}

	lowered := strings.ToLower(sql)
	for _, keyword := range forbiddenKeywords {
		if strings.Contains(lowered, keyword) {
			return false
		}
	}
	return true
}

// HasLimit reports whether the statement already carries a `limit <n>` token.
func HasLimit(sql string) bool {
	return limitRe.MatchString(sql)
}

// EnsureLimit appends a LIMIT when the statement has none, to bound result
// size and response cost.
func EnsureLimit(sql string, defaultLimit int) string {
	if HasLimit(sql) {
		return sql
	}
	return fmt.Sprintf("%s LIMIT %d", sql, defaultLimit)
}
