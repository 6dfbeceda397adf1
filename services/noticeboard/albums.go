package noticeboard

import (
	"net/url"
	"regexp"
	"strings"

	"noticeboard-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

const galleryMarker = "/gallery/"

var imageExtRe = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|gif|webp)`)

// tolerates single, double and missing quotes around the url
var backgroundImageRe = regexp.MustCompile(`background-image:\s*url\(['"]?([^'"]+)['"]?\)`)

// idAfterMarker extracts the path segment following marker with any
// query string stripped, e.g. "/gallery/album-123?view=grid" -> "album-123".
func idAfterMarker(href, marker string) string {
	idx := strings.Index(href, marker)
	if idx < 0 {
		return ""
	}
	id := href[idx+len(marker):]
	if q := strings.IndexByte(id, '?'); q >= 0 {
		id = id[:q]
	}
	return id
}

// ExtractAlbums pulls album entries out of the gallery listing page.
// An anchor becomes an album iff its visible text is at least two
// characters and an album id can be derived from its href; duplicates
// by album id collapse to the first occurrence.
func ExtractAlbums(doc *goquery.Document, base *url.URL) []Album {
	var albums []Album
	doc.Find(`a[href*="` + galleryMarker + `"]`).Each(func(_ int, link *goquery.Selection) {
		href := link.AttrOr("href", "")
		title := htmlutil.CleanText(link.Text())
		albumID := idAfterMarker(href, galleryMarker)

		if title == "" || albumID == "" || len(title) < 2 {
			return
		}

		albums = append(albums, Album{
			Title:   title,
			URL:     htmlutil.AbsoluteURL(base, href),
			AlbumID: albumID,
		})
	})
	return Dedupe(albums, func(a Album) string { return a.AlbumID })
}

var photoThumbnailStrategies = []Strategy{
	{
		Name: "background-image-span",
		Extract: func(link *goquery.Selection) string {
			style := link.Find(`span[style*="background-image"]`).First().AttrOr("style", "")
			groups := backgroundImageRe.FindStringSubmatch(style)
			if len(groups) < 2 {
				return ""
			}
			return groups[1]
		},
	},
	attrStrategy("anchor-href", "href"),
}

// ExtractAlbumPhotos pulls the photos of one album detail page. The
// primary selector targets the platform's gallery-item anchors; when
// it matches nothing a container-based fallback handles the alternate
// layout some older albums still use.
func ExtractAlbumPhotos(doc *goquery.Document, base *url.URL, maxPhotos int) []Photo {
	photos := collectPhotos(
		doc.Find(`a.cs-gallery-item, a[class*="gallery-item"]`),
		base, "cs-gallery-item",
	)
	if len(photos) == 0 {
		container := doc.Find(`.cs-gallery, [class*="cs-gallery"]`).First()
		photos = collectPhotos(
			container.Find(`a[href*=".jpg"], a[href*=".jpeg"], a[href*=".png"]`),
			base, "cs-gallery-fallback",
		)
	}

	photos = Dedupe(photos, func(p Photo) string { return p.URL })
	if maxPhotos > 0 && len(photos) > maxPhotos {
		photos = photos[:maxPhotos]
	}
	return photos
}

func collectPhotos(links *goquery.Selection, base *url.URL, source string) []Photo {
	var photos []Photo
	links.Each(func(_ int, link *goquery.Selection) {
		href := link.AttrOr("href", "")
		if href == "" || !imageExtRe.MatchString(href) {
			return
		}

		thumb, _ := firstMatch(link, photoThumbnailStrategies)

		photos = append(photos, Photo{
			URL:       htmlutil.AbsoluteURL(base, href),
			Thumbnail: htmlutil.AbsoluteURL(base, thumb),
			Alt:       link.AttrOr("data-sub-html", ""),
			Source:    source,
		})
	})
	return photos
}
