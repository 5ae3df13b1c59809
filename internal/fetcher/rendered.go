package fetcher

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"
)

// fetchRendered loads url in a headless browser and returns the DOM after
// scripts have run. Doc sites built with Swagger UI, Docusaurus and similar
// frameworks render their content client-side, so a plain GET returns an
// empty shell.
func (f *Fetcher) fetchRendered(ctx context.Context, url string) (*Content, error) {
	start := time.Now()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	browserCtx, timeoutCancel := context.WithTimeout(browserCtx, f.client.Timeout)
	defer timeoutCancel()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.Sleep(1*time.Second),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		f.logger.Error().Str("url", url).Str("error", err.Error()).Msg("rendered fetch failed")
		return nil, &FetchError{URL: url, Err: err}
	}

	f.logger.Debug().Str("url", url).Int("bytes", len(html)).Int64("duration_ms", time.Since(start).Milliseconds()).Msg("documentation rendered")

	return &Content{Body: []byte(html), ContentType: "text/html"}, nil
}
