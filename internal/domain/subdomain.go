package domain

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Subdomain length bounds follow DNS label rules.
const (
	SubdomainMinLen = 3
	SubdomainMaxLen = 63
)

// subdomainPattern matches a valid subdomain: lowercase alphanumeric
// groups separated by single hyphens, no leading or trailing hyphen.
var subdomainPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// ValidSubdomain reports whether s satisfies the subdomain syntax and
// length constraints.
func ValidSubdomain(s string) bool {
	return len(s) >= SubdomainMinLen && len(s) <= SubdomainMaxLen && subdomainPattern.MatchString(s)
}

// NormalizeName lowercases a display name, collapses whitespace runs to
// single hyphens, and strips everything outside [a-z0-9-]. Hyphen runs
// are collapsed and leading/trailing hyphens trimmed, so the result is
// either empty or a valid slug fragment.
func NormalizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case unicode.IsSpace(r), r == '-', r == '_':
			b.WriteByte('-')
		}
	}

	out := b.String()
	for strings.Contains(out, "--") {
		out = strings.ReplaceAll(out, "--", "-")
	}
	return strings.Trim(out, "-")
}

// GenerateSubdomain derives a candidate subdomain from two display names.
// Attempt 0 yields the bare "primary-secondary" slug; attempt n > 0
// appends "-N" with N = n+1, so each attempt produces a distinct
// candidate while keeping the name prefix recognizable. The counter is
// deterministic on purpose: provisioning retries need no hidden
// randomness to cover.
//
// Returns ErrNameEmpty when either name normalizes to nothing.
func GenerateSubdomain(primaryName, secondaryName string, attempt int) (string, error) {
	primary := NormalizeName(primaryName)
	secondary := NormalizeName(secondaryName)
	if primary == "" || secondary == "" {
		return "", ErrNameEmpty
	}

	var suffix string
	if attempt > 0 {
		suffix = "-" + strconv.Itoa(attempt+1)
	}

	// Truncate the name halves, never the suffix: the suffix is what
	// keeps retry candidates distinct.
	budget := SubdomainMaxLen - len(suffix)
	base := truncateSlug(primary+"-"+secondary, budget)

	return base + suffix, nil
}

// truncateSlug cuts a slug to at most max bytes without leaving a
// trailing hyphen.
func truncateSlug(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return strings.TrimRight(s[:max], "-")
}
