package noticeboard

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestExtractSponsors(t *testing.T) {
	doc := parseDoc(t, `
		<div class="carousel">
			<a href="/sponsor/acme" title="Acme Marine">
				<img data-src="/media/sponsors/acme.png" alt="Acme Boats">
			</a>
			<a href="/sponsor/no-logo">Text only sponsor link</a>
			<img src="/media/sponsors/bayside.png" alt="">
			<img src="/media/hero.jpg" alt="Rowers at dawn">
		</div>`)

	sponsors := ExtractSponsors(doc, testBase)

	expected := []Sponsor{
		{
			Name:    "Acme Boats",
			LogoURL: "https://club.example.org/media/sponsors/acme.png",
			URL:     "https://club.example.org/sponsor/acme",
			Source:  "sponsor-link",
		},
		{
			Name:    "Sponsor",
			LogoURL: "https://club.example.org/media/sponsors/bayside.png",
			URL:     "",
			Source:  "standalone-image",
		},
	}
	if diff := cmp.Diff(expected, sponsors); diff != "" {
		t.Fatal(diff)
	}
}

func TestExtractSponsorsNameFallsBackToLinkTitle(t *testing.T) {
	doc := parseDoc(t, `
		<a href="/sponsor/acme" title="Acme Marine">
			<img src="/media/sponsors/acme.png" alt="">
		</a>`)

	sponsors := ExtractSponsors(doc, testBase)
	require.Len(t, sponsors, 1)
	require.Equal(t, "Acme Marine", sponsors[0].Name)
}

func TestExtractSponsorsSkipsImagesAlreadyLinked(t *testing.T) {
	// carousel clones render the same logo linked and unlinked
	doc := parseDoc(t, `
		<a href="/sponsor/acme"><img src="/media/sponsors/acme.png" alt="Acme"></a>
		<img src="/media/sponsors/acme.png" alt="Acme clone">`)

	sponsors := ExtractSponsors(doc, testBase)
	require.Len(t, sponsors, 1)
	require.Equal(t, "Acme", sponsors[0].Name)
	require.Equal(t, "sponsor-link", sponsors[0].Source)
}

func TestIsSponsorImage(t *testing.T) {
	require.True(t, isSponsorImage("/media/sponsors/logo.png", ""))
	require.True(t, isSponsorImage("/media/logo.png", "Gold Sponsor 2025"))
	require.False(t, isSponsorImage("/media/hero.jpg", "Rowers at dawn"))
	require.False(t, isSponsorImage("", "sponsor"))
}
