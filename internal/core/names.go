package core

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// Zero-width, control, and bidi-override characters are stripped before
// names are compared, so "Alice" and "Ali​ce" collide.
var nameStripper = transform.Chain(
	runes.Remove(runes.In(unicode.Cf)),
	runes.Remove(runes.In(unicode.Cc)),
)

// idPattern matches names that already look like a user id ("@x:y"). Such
// names are always disambiguated so nobody can impersonate an id.
var idPattern = regexp.MustCompile(`@.+:.+`)

// Right-to-left override and embedding runes allow visually reordering a
// name; any name containing one is always disambiguated.
const rtlOverrides = "‫‮⁧"

func cleanName(name string) string {
	clean, _, err := transform.String(nameStripper, name)
	if err != nil {
		return name
	}
	return clean
}

func suspiciousName(name string) bool {
	return idPattern.MatchString(name) || strings.ContainsAny(name, rtlOverrides)
}

// DisambiguateNames computes the display name for each concurrently visible
// membership. Members whose cleaned names collide, and members whose names
// contain id-like patterns or RTL overrides, get the full sender id appended
// as "Name (@sender:domain)". A missing name falls back to the bare id.
func DisambiguateNames(members []Membership) map[MemberKey]string {
	counts := make(map[string]int, len(members))
	for _, m := range members {
		if m.DisplayName == "" {
			continue
		}
		counts[cleanName(m.DisplayName)]++
	}

	names := make(map[MemberKey]string, len(members))
	for _, m := range members {
		name := m.DisplayName
		if name == "" {
			names[m.Key()] = m.SenderID
			continue
		}
		if counts[cleanName(name)] > 1 || suspiciousName(name) {
			name = fmt.Sprintf("%s (%s)", name, m.SenderID)
		}
		names[m.Key()] = name
	}
	return names
}
