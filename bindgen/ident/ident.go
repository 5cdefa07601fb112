// Package ident is the single source of truth for identifier derivation.
//
// Every generator (WIT, Python wrapper, TypeScript bindings) derives names
// through this package; none may re-implement any transform inline. A drifted
// copy of these rules is the system's single largest correctness risk: a name
// disagreement between generators only surfaces much later, at component
// compilation time.
//
// Kebab produces the canonical form used in the IDL. Snake, Camel, and Pascal
// convert that canonical form for a specific target language.
package ident

import (
	"strings"
	"unicode"
)

// Fallback is substituted when canonicalization consumes the entire
// identifier (e.g. an all-punctuation name).
const Fallback = "unnamed"

// digitGuard is inserted before a digit that would otherwise directly follow
// a separator or start the identifier; the IDL grammar forbids both.
const digitGuard = 'n'

// Kebab converts a raw identifier (snake_case, camelCase, PascalCase, or
// free text) to the canonical kebab-case form used in the IDL.
//
// Word boundaries are a lowercase letter followed by an uppercase letter, or
// a letter run of length at least two followed by a digit. Multi-letter
// acronyms are not split specially ("HTTPServer" stays "httpserver"); this is
// a documented limitation. The length-two rule keeps the function idempotent:
// the single guard letter inserted before a digit never re-splits.
func Kebab(raw string) string {
	var b strings.Builder
	b.Grow(len(raw) + 4)

	runes := []rune(raw)
	letterRun := 0
	for i, r := range runes {
		switch {
		case r == '_' || (!unicode.IsLetter(r) && !unicode.IsDigit(r)):
			b.WriteByte('-')
			letterRun = 0
		case unicode.IsUpper(r):
			if i > 0 && unicode.IsLower(runes[i-1]) {
				b.WriteByte('-')
				letterRun = 0
			}
			b.WriteRune(unicode.ToLower(r))
			letterRun++
		case unicode.IsDigit(r):
			if letterRun >= 2 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			letterRun = 0
		default:
			b.WriteRune(r)
			letterRun++
		}
	}

	out := collapse(b.String())
	out = guardDigits(out)
	if out == "" {
		return Fallback
	}
	return out
}

// collapse squeezes separator runs and strips leading/trailing separators.
func collapse(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevSep := true // swallow leading separators
	for _, r := range s {
		if r == '-' {
			if !prevSep {
				b.WriteByte('-')
			}
			prevSep = true
			continue
		}
		b.WriteRune(r)
		prevSep = false
	}
	return strings.TrimSuffix(b.String(), "-")
}

// guardDigits enforces the IDL grammar rules that an identifier never starts
// with a digit and a digit never directly follows a separator.
func guardDigits(s string) string {
	if s == "" {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 2)
	for i, r := range s {
		if unicode.IsDigit(r) && (i == 0 || s[i-1] == '-') {
			b.WriteRune(digitGuard)
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Snake converts a canonical kebab-case identifier to snake_case.
func Snake(kebab string) string {
	return strings.ReplaceAll(kebab, "-", "_")
}

// Pascal converts a kebab-case or snake_case identifier to PascalCase.
func Pascal(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '-' || r == '_'
	})

	var b strings.Builder
	for _, part := range parts {
		runes := []rune(part)
		b.WriteRune(unicode.ToUpper(runes[0]))
		b.WriteString(string(runes[1:]))
	}
	return b.String()
}

// Camel converts a kebab-case or snake_case identifier to camelCase.
func Camel(s string) string {
	pascal := Pascal(s)
	if pascal == "" {
		return pascal
	}
	runes := []rune(pascal)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}
