package travel

import (
	"fmt"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"
)

// Season selects the event templates and palette for a date.
type Season string

const (
	SeasonDefault   Season = "default"
	SeasonHalloween Season = "halloween"
	SeasonChristmas Season = "christmas"
	SeasonSummer    Season = "summer"
	SeasonSpring    Season = "spring"
)

// Seasons lists every season in display order.
var Seasons = []Season{SeasonDefault, SeasonHalloween, SeasonChristmas, SeasonSummer, SeasonSpring}

// SeasonFor maps a month to its season:
// October and November are halloween, December and January christmas,
// June to August summer, March to May spring.
func SeasonFor(t time.Time) Season {
	switch t.Month() {
	case time.October, time.November:
		return SeasonHalloween
	case time.December, time.January:
		return SeasonChristmas
	case time.June, time.July, time.August:
		return SeasonSummer
	case time.March, time.April, time.May:
		return SeasonSpring
	default:
		return SeasonDefault
	}
}

// ParseSeason accepts a season name, case-insensitively. An empty string
// yields the zero Season so callers can fall back to [SeasonFor].
func ParseSeason(s string) (Season, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", nil
	}
	for _, season := range Seasons {
		if string(season) == s {
			return season, nil
		}
	}
	return "", fmt.Errorf("unknown season %q", s)
}

// Palette is the two-stop gradient used for a season.
type Palette struct {
	Accent    colorful.Color
	Secondary colorful.Color
}

var palettes = map[Season][2]string{
	SeasonDefault:   {"#3B82F6", "#1E40AF"},
	SeasonHalloween: {"#FF6B00", "#7C2D12"},
	SeasonChristmas: {"#DC2626", "#15803D"},
	SeasonSummer:    {"#F59E0B", "#0EA5E9"},
	SeasonSpring:    {"#EC4899", "#10B981"},
}

// Palette returns the season's colors. Unknown seasons use the default.
func (s Season) Palette() Palette {
	hex, ok := palettes[s]
	if !ok {
		hex = palettes[SeasonDefault]
	}
	a, _ := colorful.Hex(hex[0])
	b, _ := colorful.Hex(hex[1])
	return Palette{Accent: a, Secondary: b}
}

// At blends the palette in Lab space; t=0 is Accent, t=1 Secondary.
func (p Palette) At(t float64) colorful.Color {
	if t <= 0 {
		return p.Accent
	}
	if t >= 1 {
		return p.Secondary
	}
	return p.Accent.BlendLab(p.Secondary, t).Clamped()
}
