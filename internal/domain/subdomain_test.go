package domain_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/lunaria-app/lunaria/internal/domain"
)

func TestNormalizeName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"John", "john"},
		{"  Mary  ", "mary"},
		{"Anna Sofía", "anna-sofa"},
		{"Jean-Luc", "jean-luc"},
		{"O'Brien", "obrien"},
		{"von   Trapp", "von-trapp"},
		{"John\nSmith", "john-smith"},
		{"John\r\nSmith", "john-smith"},
		{"John Smith", "john-smith"},
		{"María José", "mara-jos"},
		{"--weird--", "weird"},
		{"!!!", ""},
		{"", ""},
	}

	for _, tc := range cases {
		if got := domain.NormalizeName(tc.in); got != tc.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestGenerateSubdomain_FirstAttempt(t *testing.T) {
	got, err := domain.GenerateSubdomain("John", "Mary", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "john-mary" {
		t.Errorf("got %q, want %q", got, "john-mary")
	}
}

func TestGenerateSubdomain_Deterministic(t *testing.T) {
	for attempt := range 5 {
		a, err := domain.GenerateSubdomain("John", "Mary", attempt)
		if err != nil {
			t.Fatalf("attempt %d: %v", attempt, err)
		}
		b, _ := domain.GenerateSubdomain("John", "Mary", attempt)
		if a != b {
			t.Errorf("attempt %d not deterministic: %q vs %q", attempt, a, b)
		}
		if !domain.ValidSubdomain(a) {
			t.Errorf("attempt %d produced invalid subdomain %q", attempt, a)
		}
		if !strings.HasPrefix(a, "john-mary") {
			t.Errorf("attempt %d lost the name prefix: %q", attempt, a)
		}
	}
}

func TestGenerateSubdomain_DistinctPerAttempt(t *testing.T) {
	seen := make(map[string]int)
	for attempt := range 5 {
		got, err := domain.GenerateSubdomain("John", "Mary", attempt)
		if err != nil {
			t.Fatalf("attempt %d: %v", attempt, err)
		}
		if prev, dup := seen[got]; dup {
			t.Errorf("attempts %d and %d both produced %q", prev, attempt, got)
		}
		seen[got] = attempt
	}
}

func TestGenerateSubdomain_EmptyNames(t *testing.T) {
	cases := []struct{ primary, secondary string }{
		{"", "Mary"},
		{"John", ""},
		{"!!!", "Mary"},
		{"John", "   "},
	}

	for _, tc := range cases {
		_, err := domain.GenerateSubdomain(tc.primary, tc.secondary, 0)
		if !errors.Is(err, domain.ErrNameEmpty) {
			t.Errorf("GenerateSubdomain(%q, %q) err = %v, want ErrNameEmpty", tc.primary, tc.secondary, err)
		}
	}
}

func TestGenerateSubdomain_TruncatesNamesNotSuffix(t *testing.T) {
	long := strings.Repeat("a", 80)

	for attempt := range 5 {
		got, err := domain.GenerateSubdomain(long, long, attempt)
		if err != nil {
			t.Fatalf("attempt %d: %v", attempt, err)
		}
		if len(got) > domain.SubdomainMaxLen {
			t.Errorf("attempt %d: len = %d, exceeds %d", attempt, len(got), domain.SubdomainMaxLen)
		}
		if !domain.ValidSubdomain(got) {
			t.Errorf("attempt %d: invalid subdomain %q", attempt, got)
		}
		if attempt > 0 && !strings.HasSuffix(got, "-"+string(rune('0'+attempt+1))) {
			t.Errorf("attempt %d: suffix truncated in %q", attempt, got)
		}
	}
}

func TestValidSubdomain(t *testing.T) {
	valid := []string{"abc", "john-mary", "a1-b2-c3", strings.Repeat("a", 63)}
	for _, s := range valid {
		if !domain.ValidSubdomain(s) {
			t.Errorf("ValidSubdomain(%q) = false, want true", s)
		}
	}

	invalid := []string{"", "ab", "-abc", "abc-", "ab--cd", "John-Mary", "a.b", strings.Repeat("a", 64)}
	for _, s := range invalid {
		if domain.ValidSubdomain(s) {
			t.Errorf("ValidSubdomain(%q) = true, want false", s)
		}
	}
}
