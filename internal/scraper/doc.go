// Package scraper fetches the box's status page.
//
// New(config.Device) resolves the base address once and returns a Fetcher;
// Fetch(ctx) performs a single GET against <base>/deviceMessages and returns
// the HTML body as text. Success is exactly a 2xx status with a non-empty
// body. Any other status yields a *StatusError carrying the upstream body;
// an empty 2xx body yields ErrEmptyBody. Nothing is retried.
package scraper
