package noticeboard

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractAlbums(t *testing.T) {
	doc := parseDoc(t, `
		<div>
			<a href="/gallery/regatta-2025?view=grid">Regatta 2025</a>
			<a href="/gallery/presentation-night">Presentation Night</a>
			<a href="/gallery/regatta-2025">Regatta 2025 duplicate card</a>
			<a href="/gallery/x">X</a>
			<a href="/news/42">Not an album</a>
		</div>`)

	albums := ExtractAlbums(doc, testBase)

	require.Len(t, albums, 2)
	require.Equal(t, "Regatta 2025", albums[0].Title)
	require.Equal(t, "regatta-2025", albums[0].AlbumID)
	require.Equal(t, "https://club.example.org/gallery/regatta-2025?view=grid", albums[0].URL)
	require.Equal(t, "presentation-night", albums[1].AlbumID)
}

func TestExtractAlbumsRejectsShortTitles(t *testing.T) {
	doc := parseDoc(t, `<a href="/gallery/only-icon">+</a>`)
	require.Empty(t, ExtractAlbums(doc, testBase))
}

func TestIDAfterMarker(t *testing.T) {
	require.Equal(t, "album-123", idAfterMarker("/gallery/album-123?view=grid", "/gallery/"))
	require.Equal(t, "album-123", idAfterMarker("https://x.com/gallery/album-123", "/gallery/"))
	require.Empty(t, idAfterMarker("/events/99", "/gallery/"))
}

func TestExtractAlbumPhotosPrimaryLayout(t *testing.T) {
	doc := parseDoc(t, `
		<div>
			<a class="cs-gallery-item" href="/photos/one.jpg" data-sub-html="Crew at the start">
				<span style="background-image: url('/thumbs/one.jpg')"></span>
			</a>
			<a class="cs-gallery-item" href="/photos/two.JPG"></a>
			<a class="cs-gallery-item" href="/photos/one.jpg"></a>
			<a class="cs-gallery-item" href="/not-an-image"></a>
		</div>`)

	photos := ExtractAlbumPhotos(doc, testBase, 30)

	require.Len(t, photos, 2)
	require.Equal(t, "https://club.example.org/photos/one.jpg", photos[0].URL)
	require.Equal(t, "https://club.example.org/thumbs/one.jpg", photos[0].Thumbnail)
	require.Equal(t, "Crew at the start", photos[0].Alt)
	require.Equal(t, "cs-gallery-item", photos[0].Source)
	// no styled span, so the anchor href doubles as the thumbnail
	require.Equal(t, photos[1].URL, photos[1].Thumbnail)
}

func TestExtractAlbumPhotosFallbackLayout(t *testing.T) {
	doc := parseDoc(t, `
		<div class="cs-gallery">
			<a href="/photos/a.jpg"></a>
			<a href="/photos/b.png"></a>
			<a href="/elsewhere"></a>
		</div>`)

	photos := ExtractAlbumPhotos(doc, testBase, 30)

	require.Len(t, photos, 2)
	require.Equal(t, "cs-gallery-fallback", photos[0].Source)
}

func TestExtractAlbumPhotosCap(t *testing.T) {
	doc := parseDoc(t, `
		<div>
			<a class="cs-gallery-item" href="/p/1.jpg"></a>
			<a class="cs-gallery-item" href="/p/2.jpg"></a>
			<a class="cs-gallery-item" href="/p/3.jpg"></a>
		</div>`)

	photos := ExtractAlbumPhotos(doc, testBase, 2)
	require.Len(t, photos, 2)
}
