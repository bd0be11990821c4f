package domain

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	whitespaceRun = regexp.MustCompile(`[\s\v\p{Z}\x{FEFF}]+`)
	slugInvalid   = regexp.MustCompile(`[^a-z0-9-]`)
)

// GuestLink is a personalised invitation link. It is never persisted.
type GuestLink struct {
	DisplayName string `json:"displayName"`
	Slug        string `json:"slug"`
	URL         string `json:"url"`
}

// Slugify turns a display name into a URL-safe slug.
// Distinct names may produce the same slug.
func Slugify(name string) string {
	s := strings.TrimFunc(strings.ToLower(name), isSpace)
	s = whitespaceRun.ReplaceAllString(s, "-")
	return slugInvalid.ReplaceAllString(s, "")
}

// Deslugify turns a slug back into a display name ("uncle-rajan" -> "Uncle Rajan").
// It is not the inverse of Slugify: case and punctuation are lost.
// The second return value is false for an empty slug.
func Deslugify(slug string) (string, bool) {
	if slug == "" {
		return "", false
	}

	parts := strings.Split(slug, "-")
	for i, p := range parts {
		parts[i] = capitalize(p)
	}
	return strings.Join(parts, " "), true
}

// isSpace matches the separators browsers treat as whitespace, including
// no-break and ideographic spaces pasted from chat apps.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || unicode.Is(unicode.Zs, r) || r == '\u2028' || r == '\u2029' || r == '\uFEFF'
}

func capitalize(word string) string {
	if word == "" {
		return word
	}
	r, size := utf8.DecodeRuneInString(word)
	return string(unicode.ToUpper(r)) + strings.ToLower(word[size:])
}

// NewGuestLink builds the invitation link for name under baseURL
func NewGuestLink(baseURL, name string) GuestLink {
	slug := Slugify(name)
	return GuestLink{
		DisplayName: strings.TrimSpace(name),
		Slug:        slug,
		URL:         strings.TrimRight(baseURL, "/") + "/invite/" + slug,
	}
}
