package fetch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"noticeboard-backend/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

// markers that identify an anti-automation interstitial; both have to
// be present in the body before we treat a response as a challenge.
var challengeMarkers = [2]string{"checking your browser", "cloudflare"}

type Options struct {
	BaseURL string
	// per-request timeout, defaults to 30s
	Timeout time.Duration
	// directory where challenge bodies are preserved for postmortem,
	// empty disables the artifact dump
	DebugDir string
}

type Client struct {
	BaseURL  *url.URL
	http     *resty.Client
	timeout  time.Duration
	debugDir string
}

func NewClient(opts Options) (*Client, error) {
	baseURL, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, err
	}
	if opts.Timeout <= 0 {
		opts.Timeout = time.Second * 30
	}

	client := resty.New()
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", userAgent)
	client.SetHeader("accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	client.SetHeader("accept-language", "en-AU,en;q=0.9")
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseURL.Hostname()))
	client.SetTimeout(opts.Timeout)

	telemetry.InstrumentResty(client, "noticeboard/fetch")

	return &Client{
		BaseURL:  baseURL,
		http:     client,
		timeout:  opts.Timeout,
		debugDir: opts.DebugDir,
	}, nil
}

// Fetch retrieves the raw HTML of pageURL. It fails with *FetchError
// on a bad status, *TimeoutError when the timeout elapses and
// *ChallengeError when the body is an anti-automation interstitial.
func (c *Client) Fetch(ctx context.Context, pageURL string) (string, error) {
	req := c.http.R().SetContext(ctx)

	// a plausible referer for non-root pages keeps the site's bot
	// heuristics from tripping on direct deep-link requests
	if u, err := url.Parse(pageURL); err == nil && u.Path != "" && u.Path != "/" {
		req.SetHeader("referer", c.BaseURL.String())
	}

	res, err := req.Get(pageURL)
	if err != nil {
		if isTimeout(err) {
			return "", &TimeoutError{URL: pageURL, Timeout: c.timeout}
		}
		return "", err
	}

	body := res.String()
	if c.isChallenge(body) {
		artifact := c.preserveChallengeBody(pageURL, body)
		return "", &ChallengeError{URL: pageURL, ArtifactPath: artifact}
	}
	if !res.IsSuccess() {
		return "", &FetchError{URL: pageURL, Status: res.StatusCode()}
	}

	return body, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func (c *Client) isChallenge(body string) bool {
	lower := strings.ToLower(body)
	return strings.Contains(lower, challengeMarkers[0]) &&
		strings.Contains(lower, challengeMarkers[1])
}

func (c *Client) preserveChallengeBody(pageURL, body string) string {
	if c.debugDir == "" {
		return ""
	}
	if err := os.MkdirAll(c.debugDir, 0755); err != nil {
		slog.Warn("failed to create debug dir", "dir", c.debugDir, "err", err)
		return ""
	}
	path := filepath.Join(c.debugDir, fmt.Sprintf("challenge-%d.html", time.Now().UnixNano()))
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		slog.Warn("failed to preserve challenge body", "url", pageURL, "err", err)
		return ""
	}
	slog.Info("preserved challenge body", "url", pageURL, "artifact", path)
	return path
}
