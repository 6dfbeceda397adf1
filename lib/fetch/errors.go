package fetch

import (
	"fmt"
	"time"
)

// FetchError is returned when the upstream site answers with a
// non-2xx status.
type FetchError struct {
	URL    string
	Status int
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.Status)
}

// TimeoutError is returned when no response arrives within the
// client's configured timeout.
type TimeoutError struct {
	URL     string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("fetch %s: no response within %s", e.URL, e.Timeout)
}

// ChallengeError is returned when the response body looks like an
// anti-automation interstitial rather than the requested page. The
// offending body is preserved under ArtifactPath for postmortem.
type ChallengeError struct {
	URL          string
	ArtifactPath string
}

func (e *ChallengeError) Error() string {
	return fmt.Sprintf("fetch %s: anti-automation challenge detected", e.URL)
}
