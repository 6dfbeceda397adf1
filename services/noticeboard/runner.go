package noticeboard

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"noticeboard-backend/lib/htmlutil"
	"noticeboard-backend/services/noticeboard/snapshot"

	"github.com/PuerkitoBio/goquery"
	"github.com/mazen160/go-random"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/noticeboard")

// snapshot file names, fixed since the serving layer reads them by name
const (
	GalleryFile  = "gallery-data.json"
	EventsFile   = "events-data.json"
	NewsFile     = "news-data.json"
	SponsorsFile = "sponsors-data.json"
)

// PageFetcher retrieves the raw HTML of one page.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Runner walks the four content sections in sequence, turning each
// listing page (plus a bounded number of detail pages) into a section
// envelope and handing it to the snapshot store. A section failing
// never aborts the others; the failure is recorded in that section's
// envelope instead.
//
// Runner does not guard against concurrent invocations, the calling
// scheduler owns the running flag.
type Runner struct {
	cfg     Config
	fetcher PageFetcher
	store   snapshot.Store
	base    *url.URL
}

func NewRunner(cfg Config, fetcher PageFetcher, store snapshot.Store) (*Runner, error) {
	base, err := url.Parse(cfg.BaseUrl)
	if err != nil {
		return nil, err
	}
	return &Runner{cfg: cfg, fetcher: fetcher, store: store, base: base}, nil
}

type SectionResult struct {
	Section string
	Items   int
	// listing-page failure recorded in the envelope, nil when the
	// section extracted normally
	Err error
}

// sectionOutcome is what one section produced: the item count and the
// contained listing-page failure, if any. Snapshot write errors travel
// separately since only those abort the run.
type sectionOutcome struct {
	items      int
	sectionErr error
}

type RunReport struct {
	Started  time.Time
	Finished time.Time
	Sections []SectionResult
}

// SectionsOK counts sections that completed without a recorded error.
func (r RunReport) SectionsOK() int {
	n := 0
	for _, s := range r.Sections {
		if s.Err == nil {
			n++
		}
	}
	return n
}

// Run performs one full scrape. The returned error is non-nil only
// when a snapshot could not be written; upstream fetch and parse
// problems are contained per-section.
func (r *Runner) Run(ctx context.Context) (RunReport, error) {
	ctx, span := tracer.Start(ctx, "Runner.Run")
	defer span.End()

	report := RunReport{Started: time.Now().UTC()}

	sections := []struct {
		name string
		run  func(context.Context) (sectionOutcome, error)
	}{
		{"gallery", r.runGallery},
		{"events", r.runEvents},
		{"news", r.runNews},
		{"sponsors", r.runSponsors},
	}

	for i, section := range sections {
		if i > 0 {
			r.throttle()
		}

		outcome, err := section.run(ctx)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to persist section snapshot")
			return report, err
		}
		if outcome.sectionErr != nil {
			slog.WarnContext(ctx, "section failed", "section", section.name, "err", outcome.sectionErr)
		} else {
			slog.InfoContext(ctx, "section scraped", "section", section.name, "items", outcome.items)
		}
		report.Sections = append(report.Sections, SectionResult{
			Section: section.name,
			Items:   outcome.items,
			Err:     outcome.sectionErr,
		})
	}

	report.Finished = time.Now().UTC()
	return report, nil
}

// RunSection scrapes and persists a single named section. Unknown
// names are an error.
func (r *Runner) RunSection(ctx context.Context, name string) (SectionResult, error) {
	var run func(context.Context) (sectionOutcome, error)
	switch name {
	case "gallery":
		run = r.runGallery
	case "events":
		run = r.runEvents
	case "news":
		run = r.runNews
	case "sponsors":
		run = r.runSponsors
	default:
		return SectionResult{}, fmt.Errorf("unknown section %q", name)
	}

	outcome, err := run(ctx)
	if err != nil {
		return SectionResult{}, err
	}
	return SectionResult{Section: name, Items: outcome.items, Err: outcome.sectionErr}, nil
}

func (r *Runner) pageURL(path string) string {
	return htmlutil.AbsoluteURL(r.base, path)
}

func (r *Runner) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	html, err := r.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

// throttle pauses a random interval between sections so runs don't
// hit the upstream site in bursts.
func (r *Runner) throttle() {
	if r.cfg.ThrottleMaxMs <= 0 {
		return
	}
	ms := r.cfg.ThrottleMinMs
	if r.cfg.ThrottleMaxMs > r.cfg.ThrottleMinMs {
		if v, err := random.IntRange(r.cfg.ThrottleMinMs, r.cfg.ThrottleMaxMs); err == nil {
			ms = v
		}
	}
	time.Sleep(time.Duration(ms) * time.Millisecond)
}

func (r *Runner) detailDelay() {
	if r.cfg.DetailDelayMs > 0 {
		time.Sleep(time.Duration(r.cfg.DetailDelayMs) * time.Millisecond)
	}
}

func (r *Runner) runGallery(ctx context.Context) (sectionOutcome, error) {
	ctx, span := tracer.Start(ctx, "runGallery")
	defer span.End()

	data := GalleryData{Albums: []Album{}, ScrapedAt: time.Now().UTC()}

	doc, err := r.fetchDocument(ctx, r.pageURL(r.cfg.Paths.Gallery))
	if err != nil {
		span.RecordError(err)
		data.Error = err.Error()
		return sectionOutcome{sectionErr: err}, r.store.Save(GalleryFile, data)
	}

	albums := ExtractAlbums(doc, r.base)
	data.TotalAlbums = len(albums)

	limit := min(len(albums), r.cfg.MaxAlbumDetails)
	for i := 0; i < limit; i++ {
		if i > 0 {
			r.detailDelay()
		}
		album := albums[i]

		detail, err := r.fetchDocument(ctx, album.URL)
		if err != nil {
			// the album is simply left out of this run's snapshot
			slog.WarnContext(ctx, "failed to fetch album detail",
				"album", album.AlbumID, "err", err)
			continue
		}
		photos := ExtractAlbumPhotos(detail, r.base, r.cfg.MaxPhotosPerAlbum)
		if len(photos) == 0 {
			continue
		}

		album.Photos = photos
		album.PhotoCount = len(photos)
		album.ScrapedAt = time.Now().UTC()
		data.Albums = append(data.Albums, album)
	}

	return sectionOutcome{items: len(data.Albums)}, r.store.Save(GalleryFile, data)
}

func (r *Runner) runEvents(ctx context.Context) (sectionOutcome, error) {
	ctx, span := tracer.Start(ctx, "runEvents")
	defer span.End()

	data := EventsData{Events: []Event{}, ScrapedAt: time.Now().UTC()}

	doc, err := r.fetchDocument(ctx, r.pageURL(r.cfg.Paths.Events))
	if err != nil {
		span.RecordError(err)
		data.Error = err.Error()
		return sectionOutcome{sectionErr: err}, r.store.Save(EventsFile, data)
	}

	if events := ExtractEvents(doc, r.base); len(events) > 0 {
		data.Events = events
	}
	data.TotalEvents = len(data.Events)
	return sectionOutcome{items: len(data.Events)}, r.store.Save(EventsFile, data)
}

func (r *Runner) runNews(ctx context.Context) (sectionOutcome, error) {
	ctx, span := tracer.Start(ctx, "runNews")
	defer span.End()

	data := NewsData{News: []NewsItem{}, ScrapedAt: time.Now().UTC()}

	doc, err := r.fetchDocument(ctx, r.pageURL(r.cfg.Paths.News))
	if err != nil {
		span.RecordError(err)
		data.Error = err.Error()
		return sectionOutcome{sectionErr: err}, r.store.Save(NewsFile, data)
	}

	items := ExtractNews(doc, r.base)
	data.TotalArticles = len(items)

	limit := min(len(items), r.cfg.MaxArticleDetails)
	for i := 0; i < limit; i++ {
		if i > 0 {
			r.detailDelay()
		}
		item := items[i]

		detail, err := r.fetchDocument(ctx, item.URL)
		if err != nil {
			slog.WarnContext(ctx, "failed to fetch article detail",
				"article", item.ArticleID, "err", err)
			item.Content = item.Excerpt
			if item.Content == "" {
				item.Content = ContentUnavailable
			}
		} else {
			item.Content = ExtractArticleContent(detail)
		}
		item.ContentLength = len(item.Content)
		data.News = append(data.News, item)
	}

	return sectionOutcome{items: len(data.News)}, r.store.Save(NewsFile, data)
}

func (r *Runner) runSponsors(ctx context.Context) (sectionOutcome, error) {
	ctx, span := tracer.Start(ctx, "runSponsors")
	defer span.End()

	data := SponsorsData{Sponsors: []Sponsor{}, ScrapedAt: time.Now().UTC()}

	doc, err := r.fetchDocument(ctx, r.pageURL(r.cfg.Paths.Sponsors))
	if err != nil {
		span.RecordError(err)
		data.Error = err.Error()
		return sectionOutcome{sectionErr: err}, r.store.Save(SponsorsFile, data)
	}

	if sponsors := ExtractSponsors(doc, r.base); len(sponsors) > 0 {
		data.Sponsors = sponsors
	}
	return sectionOutcome{items: len(data.Sponsors)}, r.store.Save(SponsorsFile, data)
}
