package noticeboard

import (
	"net/url"
	"strings"

	"noticeboard-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

const sponsorMarker = "/sponsor/"

const sponsorFallbackName = "Sponsor"

// ExtractSponsors pulls sponsor logos off the home page carousel.
// Linked logos are collected first; standalone sponsor images are then
// swept up separately, skipping any image already captured through its
// sponsor-link ancestor so carousel clones don't double-count.
func ExtractSponsors(doc *goquery.Document, base *url.URL) []Sponsor {
	var sponsors []Sponsor

	doc.Find(`a[href*="` + sponsorMarker + `"]`).Each(func(_ int, link *goquery.Selection) {
		img := link.Find("img").First()
		if img.Length() == 0 {
			return
		}
		src, _ := firstMatch(img, imageSourceStrategies)
		if src == "" {
			return
		}

		name := htmlutil.CleanText(img.AttrOr("alt", ""))
		if name == "" {
			name = htmlutil.CleanText(link.AttrOr("title", ""))
		}
		if name == "" {
			name = sponsorFallbackName
		}

		sponsors = append(sponsors, Sponsor{
			Name:    name,
			LogoURL: htmlutil.AbsoluteURL(base, src),
			URL:     htmlutil.AbsoluteURL(base, link.AttrOr("href", "")),
			Source:  "sponsor-link",
		})
	})

	doc.Find("img").Each(func(_ int, img *goquery.Selection) {
		// already captured through the link pass
		if img.ParentsFiltered(`a[href*="`+sponsorMarker+`"]`).Length() > 0 {
			return
		}
		src, _ := firstMatch(img, imageSourceStrategies)
		alt := htmlutil.CleanText(img.AttrOr("alt", ""))

		if !isSponsorImage(src, alt) {
			return
		}

		name := alt
		if name == "" {
			name = sponsorFallbackName
		}
		sponsors = append(sponsors, Sponsor{
			Name:    name,
			LogoURL: htmlutil.AbsoluteURL(base, src),
			URL:     "",
			Source:  "standalone-image",
		})
	})

	return Dedupe(sponsors, func(s Sponsor) string { return s.LogoURL })
}

func isSponsorImage(src, alt string) bool {
	if src == "" {
		return false
	}
	return strings.Contains(src, "/sponsors/") ||
		strings.Contains(strings.ToLower(alt), "sponsor")
}
