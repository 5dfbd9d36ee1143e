package sanitizer

import (
	"strings"
	"unicode"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

func truncateRunes(limit int) Strategy {
	return func(s string) string {
		runes := []rune(s)
		if len(runes) <= limit {
			return s
		}
		return strings.TrimSpace(string(runes[:limit]))
	}
}

// SanitizeTitle cleans a meeting title. Control characters are removed and
// whitespace runs collapse to a single space.
func SanitizeTitle(input string) string {
	p := Pipeline{
		stripControl,
		TrimAndNormalize,
		truncateRunes(200),
	}
	return p.Apply(input)
}

func SanitizeRoomName(input string) string {
	p := Pipeline{
		stripControl,
		TrimAndNormalize,
		truncateRunes(100),
	}
	return p.Apply(input)
}
