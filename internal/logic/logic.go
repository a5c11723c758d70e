// Package logic defines the compact logic notation attached to definitions
// at the highest ad-hoc granularity:
//
//	logic:check(stock>0);action(deduct_balance);return(order)
//
// Steps are separated by ';' and each starts with one of Keywords. Content
// after the prefix is bounded by MaxLength.
package logic

import (
	"strings"
	"unicode/utf8"
)

// Prefix introduces a logic field.
const Prefix = "logic:"

// MaxLength bounds the content after Prefix, in bytes.
const MaxLength = 200

const ellipsis = "..."

// Keywords are the step keywords, in display order.
var Keywords = []string{"check", "action", "return", "match", "get"}

// Truncate bounds content to MaxLength bytes. Longer content is cut to
// MaxLength-3 bytes, backed off to a rune boundary, and suffixed with "...".
func Truncate(content string) string {
	if len(content) <= MaxLength {
		return content
	}
	cut := MaxLength - len(ellipsis)
	for cut > 0 && !utf8.RuneStart(content[cut]) {
		cut--
	}
	return content[:cut] + ellipsis
}

// Render prefixes steps joined by ';' and applies Truncate. It reports
// false when there are no steps.
func Render(steps []string) (string, bool) {
	if len(steps) == 0 {
		return "", false
	}
	return Prefix + Truncate(strings.Join(steps, ";")), true
}

// StepKeyword returns the keyword of one trimmed step: the text before '('.
// A step without '(' that ends in "..." is a truncation remnant and has no
// keyword; ok is false for it. Any other step without '(' is its own
// keyword.
func StepKeyword(step string) (keyword string, ok bool) {
	if i := strings.IndexByte(step, '('); i >= 0 {
		return step[:i], true
	}
	if strings.HasSuffix(step, ellipsis) {
		return "", false
	}
	return step, true
}

// IsKeyword reports whether kw is one of Keywords.
func IsKeyword(kw string) bool {
	for _, k := range Keywords {
		if k == kw {
			return true
		}
	}
	return false
}

// InvalidKeyword scans the ';'-separated steps of content and returns the
// first keyword that is not in Keywords. Empty steps and truncation
// remnants are skipped.
func InvalidKeyword(content string) (string, bool) {
	for _, step := range strings.Split(content, ";") {
		step = strings.TrimSpace(step)
		if step == "" {
			continue
		}
		kw, ok := StepKeyword(step)
		if ok && !IsKeyword(kw) {
			return kw, true
		}
	}
	return "", false
}

// Valid reports whether field is a well-formed logic field: Prefix, content
// within MaxLength, and only known keywords.
func Valid(field string) bool {
	content, ok := strings.CutPrefix(field, Prefix)
	if !ok || len(content) > MaxLength {
		return false
	}
	_, bad := InvalidKeyword(content)
	return !bad
}
