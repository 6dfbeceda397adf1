package noticeboard

type PathsConfig struct {
	Gallery  string `json:"gallery"`
	Events   string `json:"events"`
	News     string `json:"news"`
	Sponsors string `json:"sponsors"`
}

type Config struct {
	BaseUrl string      `json:"base_url"`
	Paths   PathsConfig `json:"paths"`

	TimeoutSeconds int `json:"timeout_seconds"`

	// detail-page fan-out bounds
	MaxAlbumDetails   int `json:"max_album_details"`
	MaxPhotosPerAlbum int `json:"max_photos_per_album"`
	MaxArticleDetails int `json:"max_article_details"`

	// randomized pause between sections, politeness against the
	// single upstream site
	ThrottleMinMs int `json:"throttle_min_ms"`
	ThrottleMaxMs int `json:"throttle_max_ms"`
	// fixed pause between detail-page fetches, 0 disables
	DetailDelayMs int `json:"detail_delay_ms"`

	DebugDir string `json:"debug_dir"`
}

// DefaultConfig matches the production deployment against the club's
// hosting platform.
func DefaultConfig() Config {
	return Config{
		BaseUrl: "https://www.lakemacquarierowingclub.org.au",
		Paths: PathsConfig{
			Gallery:  "/gallery",
			Events:   "/events/list",
			News:     "/news",
			Sponsors: "/home",
		},
		TimeoutSeconds:    30,
		MaxAlbumDetails:   10,
		MaxPhotosPerAlbum: 30,
		MaxArticleDetails: 20,
		ThrottleMinMs:     2000,
		ThrottleMaxMs:     5000,
		DetailDelayMs:     500,
		DebugDir:          ".debug",
	}
}
