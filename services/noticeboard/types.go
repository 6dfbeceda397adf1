// Package noticeboard extracts structured club content (photo albums,
// events, news articles and sponsor logos) from the club's public web
// platform and normalizes it into the JSON snapshots consumed by the
// kiosk display.
package noticeboard

import "time"

const (
	KindEvent  = "event"
	KindNews   = "news"
	KindResult = "result"
)

// sentinel used when neither a detail page nor an excerpt yielded any
// article text
const ContentUnavailable = "Content not available"

type Photo struct {
	URL       string `json:"url"`
	Thumbnail string `json:"thumbnail"`
	Alt       string `json:"alt"`
	Source    string `json:"source"`
}

type Album struct {
	Title      string    `json:"title"`
	URL        string    `json:"url"`
	AlbumID    string    `json:"albumId"`
	Photos     []Photo   `json:"photos,omitempty"`
	PhotoCount int       `json:"photoCount,omitempty"`
	ScrapedAt  time.Time `json:"scrapedAt,omitempty"`
}

type Event struct {
	Title    string `json:"title"`
	Date     string `json:"date"`
	Location string `json:"location"`
	URL      string `json:"url"`
	EventID  string `json:"eventId"`
	Type     string `json:"type"`
}

type NewsItem struct {
	Title         string `json:"title"`
	URL           string `json:"url"`
	ArticleID     string `json:"articleId"`
	Date          string `json:"date"`
	Excerpt       string `json:"excerpt"`
	IsFeatured    bool   `json:"isFeatured"`
	Type          string `json:"type"`
	Content       string `json:"content,omitempty"`
	ContentLength int    `json:"contentLength,omitempty"`
}

type Sponsor struct {
	Name    string `json:"name"`
	LogoURL string `json:"logoUrl"`
	URL     string `json:"url"`
	Source  string `json:"source"`
}

// Section envelopes. Field names match the JSON files the kiosk
// serving layer has always consumed; they are written fresh on every
// run and never mutated afterwards.

type GalleryData struct {
	Albums      []Album   `json:"albums"`
	TotalAlbums int       `json:"totalAlbums"`
	ScrapedAt   time.Time `json:"scrapedAt"`
	Error       string    `json:"error,omitempty"`
}

type EventsData struct {
	Events      []Event   `json:"events"`
	TotalEvents int       `json:"totalEvents"`
	ScrapedAt   time.Time `json:"scrapedAt"`
	Error       string    `json:"error,omitempty"`
}

type NewsData struct {
	News          []NewsItem `json:"news"`
	TotalArticles int        `json:"totalArticles"`
	ScrapedAt     time.Time  `json:"scrapedAt"`
	Error         string     `json:"error,omitempty"`
}

type SponsorsData struct {
	Sponsors  []Sponsor `json:"sponsors"`
	ScrapedAt time.Time `json:"scrapedAt"`
	Error     string    `json:"error,omitempty"`
}
