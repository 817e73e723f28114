package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/obsidianstack/enpal-exporter/internal/config"
)

// DeviceMessagesPath is the status page served by the box.
const DeviceMessagesPath = "/deviceMessages"

const userAgent = "enpal-exporter"

// ErrEmptyBody is returned when the device answers 2xx without content.
var ErrEmptyBody = errors.New("empty response body")

// StatusError reports a non-2xx answer from the device. The upstream body
// is kept verbatim because it is the only diagnostic the box provides.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if body := strings.TrimSpace(e.Body); body != "" {
		return body
	}
	return fmt.Sprintf("unexpected status %d", e.Code)
}

// Fetcher downloads the device status page. It is safe for concurrent use.
type Fetcher struct {
	url    string
	client *http.Client
}

// New returns a Fetcher for the configured device. It builds the HTTP client
// once and reuses it across fetches.
func New(dev config.Device) (*Fetcher, error) {
	base, err := dev.BaseURL()
	if err != nil {
		return nil, fmt.Errorf("scraper: %w", err)
	}
	return &Fetcher{
		url:    deviceMessagesURL(base),
		client: buildHTTPClient(),
	}, nil
}

// URL returns the fully resolved status page address.
func (f *Fetcher) URL() string {
	return f.url
}

// Fetch performs one GET against the status page and returns the body.
// There is no retry; the caller decides what a failure means.
func (f *Fetcher) Fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("http get: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{Code: resp.StatusCode, Body: string(body)}
	}
	if len(body) == 0 {
		return "", ErrEmptyBody
	}
	return string(body), nil
}

// headerRoundTripper stamps identifying headers onto every outgoing request.
type headerRoundTripper struct {
	base http.RoundTripper
}

func (t *headerRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html")
	return t.base.RoundTrip(req)
}

// buildHTTPClient uses transport defaults; no client timeout is set, the
// request context bounds each fetch.
func buildHTTPClient() *http.Client {
	return &http.Client{
		Transport: &headerRoundTripper{base: http.DefaultTransport},
	}
}

func deviceMessagesURL(base *url.URL) string {
	u := *base
	u.Path = strings.TrimRight(u.Path, "/") + DeviceMessagesPath
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}
