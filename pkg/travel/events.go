package travel

import (
	"strings"
	"time"
)

// Event is a happening at a destination.
type Event struct {
	Name        string `json:"name"`
	Venue       string `json:"venue"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

// EventsFallback fills the season's templates for destination. Dates fall
// on the Saturdays following now, one week apart, so the list reads as
// upcoming. Seasons without templates use the default ones.
func (d *Data) EventsFallback(destination string, now time.Time) []Event {
	season := SeasonFor(now)
	templates := d.templates(season)
	if len(templates) == 0 {
		templates = d.templates(SeasonDefault)
	}

	name := DisplayName(destination)
	first := nextSaturday(now)
	events := make([]Event, 0, len(templates))
	for i, t := range templates {
		events = append(events, Event{
			Name:        strings.ReplaceAll(t.Name, "{destination}", name),
			Venue:       t.Venue,
			Date:        first.AddDate(0, 0, 7*i).Format("Jan 2, 2006"),
			Description: t.Description,
			Type:        t.Type,
		})
	}
	return events
}

func (d *Data) templates(s Season) []EventTemplate {
	var out []EventTemplate
	for _, t := range d.Events {
		if Season(t.Season) == s {
			out = append(out, t)
		}
	}
	return out
}

func nextSaturday(now time.Time) time.Time {
	days := (int(time.Saturday) - int(now.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	y, m, d := now.AddDate(0, 0, days).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}
