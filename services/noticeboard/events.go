package noticeboard

import (
	"net/url"
	"regexp"
	"strings"

	"noticeboard-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

const eventsMarker = "/events/"

// matches "Sat 26 Oct 2025 08:00" optionally followed by an em-dash
// and an end side that is either a bare time (same-day event) or a
// full repeated weekday/day/month/year + time (multi-day event)
var eventDateRe = regexp.MustCompile(
	`[A-Z][a-z]{2}\s+\d{1,2}\s+[A-Z][a-z]{2,8}\s+\d{4}\s+\d{1,2}:\d{2}` +
		`(?:\s*—\s*(?:(?:[A-Z][a-z]{2}\s+)?\d{1,2}\s+[A-Z][a-z]{2,8}\s+\d{4}\s+)?\d{1,2}:\d{2})?`,
)

var eventURLRe = regexp.MustCompile(`/events/(\d+)`)

// titles containing these are navigation chrome, not events
var eventNoiseWords = []string{"Download", "Past", "Calendar"}

// ExtractEvents pulls upcoming events out of the events listing page.
// Events are rendered as card components; the card text carries the
// date range and the venue as free text lines.
func ExtractEvents(doc *goquery.Document, base *url.URL) []Event {
	var events []Event
	doc.Find(".card.card-hover").Each(func(_ int, card *goquery.Selection) {
		link := card.Find(`a[href*="` + eventsMarker + `"]`).First()
		if link.Length() == 0 {
			return
		}

		title := htmlutil.CleanText(link.Text())
		href := htmlutil.AbsoluteURL(base, link.AttrOr("href", ""))
		cardText := card.Text()

		dateText := eventDateRe.FindString(cardText)
		location := extractEventLocation(cardText, title, dateText)

		if len(title) <= 5 {
			return
		}
		for _, noise := range eventNoiseWords {
			if strings.Contains(title, noise) {
				return
			}
		}
		groups := eventURLRe.FindStringSubmatch(href)
		if groups == nil {
			return
		}

		events = append(events, Event{
			Title:    title,
			Date:     dateText,
			Location: location,
			URL:      href,
			EventID:  groups[1],
			Type:     KindEvent,
		})
	})
	return events
}

// extractEventLocation picks the first card line that is neither the
// title, nor part of the date, nor the "Details" button label.
//
// This is purely positional: the platform renders cards as
// title / date / venue / Details, and there is nothing semantic to
// anchor on. A card with an extra line before the venue will
// misattribute it; kept as-is to stay faithful to the rendered
// layout this was tuned against.
func extractEventLocation(cardText, title, dateText string) string {
	for _, line := range htmlutil.Lines(cardText) {
		if line == title || strings.Contains(line, dateText) || line == "Details" {
			continue
		}
		if len(line) < 100 {
			return line
		}
	}
	return ""
}
