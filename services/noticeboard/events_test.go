package noticeboard

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractEventsSameDay(t *testing.T) {
	doc := parseDoc(t, `
		<div class="card card-hover">
			<h4><a href="/events/123">Winter Head Race</a></h4>
			<div>Sat 26 Oct 2025 08:00 — 17:00</div>
			<div>Summer Regatta Course, Lake Macquarie</div>
			<a href="/events/123">Details</a>
		</div>`)

	events := ExtractEvents(doc, testBase)

	require.Len(t, events, 1)
	event := events[0]
	require.Equal(t, "Winter Head Race", event.Title)
	require.Equal(t, "Sat 26 Oct 2025 08:00 — 17:00", event.Date)
	require.Equal(t, "Summer Regatta Course, Lake Macquarie", event.Location)
	require.Equal(t, "https://club.example.org/events/123", event.URL)
	require.Equal(t, "123", event.EventID)
	require.Equal(t, KindEvent, event.Type)
}

func TestExtractEventsMultiDay(t *testing.T) {
	doc := parseDoc(t, `
		<div class="card card-hover">
			<h4><a href="/events/200">State Championships</a></h4>
			<div>Sat 26 Oct 2025 08:00 — Sun 27 Oct 2025 17:00</div>
			<div>Grafton Rowing Club</div>
		</div>`)

	events := ExtractEvents(doc, testBase)

	require.Len(t, events, 1)
	require.Equal(t, "Sat 26 Oct 2025 08:00 — Sun 27 Oct 2025 17:00", events[0].Date)
	require.Equal(t, "Grafton Rowing Club", events[0].Location)
}

func TestExtractEventsWithoutDate(t *testing.T) {
	doc := parseDoc(t, `
		<div class="card card-hover">
			<h4><a href="/events/300">Come And Try Morning</a></h4>
			<div>Club Shed, Booragul</div>
		</div>`)

	events := ExtractEvents(doc, testBase)

	require.Len(t, events, 1)
	require.Empty(t, events[0].Date)
	// no date means no anchor for the positional venue scan, so the
	// location stays empty rather than guessing
	require.Empty(t, events[0].Location)
}

func TestExtractEventsFilters(t *testing.T) {
	doc := parseDoc(t, `
		<div class="card card-hover">
			<a href="/events/1">Short</a>
		</div>
		<div class="card card-hover">
			<a href="/events/2">Download Calendar Feed</a>
		</div>
		<div class="card card-hover">
			<a href="/events/3">Past Events Archive</a>
		</div>
		<div class="card card-hover">
			<a href="/events/winter-head">Winter Head Race</a>
		</div>
		<div class="card card-hover">
			<a href="/news/10">Not an event card</a>
		</div>`)

	require.Empty(t, ExtractEvents(doc, testBase))
}

func TestEventDateRe(t *testing.T) {
	for _, tc := range []struct {
		text string
		want string
	}{
		{"Sat 26 Oct 2025 08:00", "Sat 26 Oct 2025 08:00"},
		{"starts Sat 26 Oct 2025 08:00 — 17:00 sharp", "Sat 26 Oct 2025 08:00 — 17:00"},
		{"Fri 1 November 2025 6:30 — Sun 3 November 2025 18:00", "Fri 1 November 2025 6:30 — Sun 3 November 2025 18:00"},
		{"Sat 15 Nov 2025 09:00 — Sun 16 Nov 2025 16:00", "Sat 15 Nov 2025 09:00 — Sun 16 Nov 2025 16:00"},
		{"Sat 26 Oct 2025 08:00 — 26 Oct 2025 17:00", "Sat 26 Oct 2025 08:00 — 26 Oct 2025 17:00"},
		{"no date here", ""},
		{"26 Oct 2025 08:00", ""},
	} {
		require.Equal(t, tc.want, eventDateRe.FindString(tc.text), "input: %s", tc.text)
	}
}
