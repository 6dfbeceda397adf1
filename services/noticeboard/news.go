package noticeboard

import (
	"net/url"
	"strings"

	"noticeboard-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

const newsMarker = "/news/"

var newsTitleStrategies = []Strategy{
	{
		Name: "anchor-text",
		Extract: func(card *goquery.Selection) string {
			link := card.Find(`a[href*="` + newsMarker + `"]`).First()
			return htmlutil.CleanText(link.Text())
		},
	},
	{
		Name: "heading",
		Extract: func(card *goquery.Selection) string {
			return htmlutil.CleanText(card.Find("h1, h2, h3, h4, h5").First().Text())
		},
	},
}

var newsDateStrategies = []Strategy{
	{
		Name: "date-element-text",
		Extract: func(card *goquery.Selection) string {
			return htmlutil.CleanText(card.Find(`[class*="date"], time, .text-muted`).First().Text())
		},
	},
	{
		Name: "datetime-attr",
		Extract: func(card *goquery.Selection) string {
			return card.Find(`[class*="date"], time, .text-muted`).First().AttrOr("datetime", "")
		},
	},
}

// ExtractNews pulls article entries out of the news listing page.
// kind is "result" when the title mentions results (race results are
// posted through the same news feed), otherwise "news".
func ExtractNews(doc *goquery.Document, base *url.URL) []NewsItem {
	var items []NewsItem
	doc.Find(`[class*="card"], [class*="article"], [class*="post"]`).Each(func(_ int, card *goquery.Selection) {
		link := card.Find(`a[href*="` + newsMarker + `"]`).First()
		if link.Length() == 0 {
			return
		}

		href := link.AttrOr("href", "")
		title, _ := firstMatch(card, newsTitleStrategies)
		articleID := idAfterMarker(href, newsMarker)

		if title == "" || articleID == "" || len(title) < 3 {
			return
		}

		isFeatured := strings.Contains(card.Text(), "Featured") ||
			card.Find(`[class*="featured"]`).Length() > 0

		date, _ := firstMatch(card, newsDateStrategies)
		excerpt := htmlutil.CleanText(
			card.Find(`p, [class*="excerpt"], [class*="description"]`).First().Text(),
		)

		kind := KindNews
		if strings.Contains(strings.ToLower(title), "result") {
			kind = KindResult
		}

		items = append(items, NewsItem{
			Title:      title,
			URL:        htmlutil.AbsoluteURL(base, href),
			ArticleID:  articleID,
			Date:       date,
			Excerpt:    excerpt,
			IsFeatured: isFeatured,
			Type:       kind,
		})
	})
	return Dedupe(items, func(n NewsItem) string { return n.ArticleID })
}

// ordered from the most specific article containers down to the whole
// body; the first candidate yielding enough text wins
var articleContainerSelectors = []string{
	`article [class*="content"]`,
	`article [class*="body"]`,
	`[class*="article-content"]`,
	"article",
	"main",
	"body",
}

const (
	// a primary container has to yield at least this much text to be
	// trusted, shorter results usually mean we grabbed a widget
	minContentLength = 100
	// the whole-body fallback gets a lower bar
	minFallbackContentLength = 50
	// paragraph fragments shorter than this are navigation crumbs
	minFragmentLength = 20
)

// ExtractArticleContent pulls the readable text of one article detail
// page: paragraphs, result tables (rows joined cell-by-cell) and
// lists, in document order, separated by blank lines.
func ExtractArticleContent(doc *goquery.Document) string {
	for _, selector := range articleContainerSelectors {
		container := doc.Find(selector).First()
		if container.Length() == 0 {
			continue
		}
		text := containerText(container)
		if len(text) >= minContentLength {
			return text
		}
	}

	// nothing specific was long enough, re-run against the body and
	// accept shorter output before giving up
	if text := containerText(doc.Find("body").First()); len(text) >= minFallbackContentLength {
		return text
	}
	return ContentUnavailable
}

func containerText(container *goquery.Selection) string {
	if container.Length() == 0 {
		return ""
	}

	cleaned := container.Clone()
	cleaned.Find(`script, style, nav, [class*="share"], [class*="social"]`).Remove()

	var fragments []string
	cleaned.Find("p, tr, li").Each(func(_ int, el *goquery.Selection) {
		var text string
		if el.Is("tr") {
			// race results come through as tables; keep rows readable
			var cells []string
			el.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
				if c := htmlutil.CleanText(cell.Text()); c != "" {
					cells = append(cells, c)
				}
			})
			text = strings.Join(cells, " | ")
		} else {
			text = htmlutil.CleanText(el.Text())
		}
		if len(text) >= minFragmentLength {
			fragments = append(fragments, text)
		}
	})

	if len(fragments) == 0 {
		return htmlutil.CleanText(cleaned.Text())
	}
	return strings.Join(fragments, "\n\n")
}
