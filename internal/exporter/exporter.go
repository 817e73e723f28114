// Package exporter runs one scrape of the box: fetch the status page,
// extract the readings and render them as exposition text.
package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/obsidianstack/enpal-exporter/internal/exposition"
	"github.com/obsidianstack/enpal-exporter/internal/extract"
)

// Fetcher returns the raw status page. *scraper.Fetcher implements it.
type Fetcher interface {
	Fetch(ctx context.Context) (string, error)
}

// Exporter composes the scrape pipeline. It holds no mutable state, so a
// single Exporter serves concurrent requests.
type Exporter struct {
	fetcher Fetcher
	box     string
}

// New returns an Exporter that labels every series with box.
func New(f Fetcher, box string) *Exporter {
	return &Exporter{fetcher: f, box: box}
}

// Export performs a single fetch-and-convert. Fetch and structural parse
// failures are returned; no partial output is produced.
func (e *Exporter) Export(ctx context.Context) (string, error) {
	start := time.Now()

	page, err := e.fetcher.Fetch(ctx)
	if err != nil {
		return "", fmt.Errorf("fetch device messages: %w", err)
	}

	records, err := extract.Parse(strings.NewReader(page))
	if err != nil {
		return "", fmt.Errorf("extract device messages: %w", err)
	}

	out := exposition.Render(records, e.box)

	slog.Debug("exporter: scrape complete",
		"box", e.box,
		"records", len(records),
		"bytes", len(out),
		"duration", time.Since(start),
	)
	return out, nil
}
