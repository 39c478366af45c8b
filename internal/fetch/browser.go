// Package fetch - browser.go provides headless browser rendering for SPA sites.
package fetch

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

// MinContentLength is the minimum extracted text length to consider HTTP fetch successful.
// If content is shorter, we should fall back to browser rendering.
const MinContentLength = 500

// cookieClickTimeout bounds best-effort banner dismissal.
const cookieClickTimeout = 2 * time.Second

// runBounded runs an action under its own deadline so a selector that
// never matches cannot block for the parent context's full timeout.
func runBounded(ctx context.Context, d time.Duration, action chromedp.Action) error {
	boundedCtx, cancel := context.WithTimeout(ctx, d)
	defer cancel()
	return action.Do(boundedCtx)
}

// ShouldUseBrowser returns true if the extracted text is too short,
// indicating the page is likely a JavaScript-rendered SPA.
func ShouldUseBrowser(extractedText string) bool {
	return len(strings.TrimSpace(extractedText)) < MinContentLength
}

// WithBrowser renders a page in a headless browser and returns the rendered HTML.
// Requires Chrome/Chromium to be installed on the system.
func WithBrowser(ctx context.Context, url string, timeout time.Duration, verbose bool) (string, error) {
	if verbose {
		log.Printf("[BROWSER] Starting headless browser for: %s", url)
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, timeout)
	defer cancel()

	var html string

	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		// Give client-side rendering a moment to populate the page
		chromedp.Sleep(3*time.Second),
		chromedp.ActionFunc(func(ctx context.Context) error {
			// Dismiss common cookie banners. Click waits for a visible match,
			// so it runs under a short deadline of its own; pages without a
			// banner must not eat the whole rendering timeout.
			_ = runBounded(ctx, cookieClickTimeout,
				chromedp.Click(`button[id*="accept"], button[class*="accept"]`, chromedp.NodeVisible))
			return nil
		}),
		chromedp.Sleep(1*time.Second),
		chromedp.OuterHTML("html", &html),
	)

	if err != nil {
		return "", fmt.Errorf("browser rendering failed: %w", err)
	}

	if verbose {
		log.Printf("[BROWSER] Rendered HTML: %d bytes", len(html))
	}

	return html, nil
}

// Page fetches a URL and returns its content as Markdown. It tries a plain
// HTTP fetch first and, when allowBrowser is set and the extracted text is
// too short, falls back to headless browser rendering.
func Page(ctx context.Context, url string, allowBrowser, verbose bool) (string, error) {
	result, err := URL(ctx, url, nil)
	var markdown string
	if err == nil {
		markdown, err = ExtractMarkdown(result.HTML)
	}

	if err != nil || ShouldUseBrowser(markdown) {
		if !allowBrowser {
			if err != nil {
				return "", err
			}
			return markdown, nil
		}
		if verbose {
			log.Printf("[FETCH] Falling back to browser rendering for: %s", url)
		}
		html, browserErr := WithBrowser(ctx, url, DefaultTimeout, verbose)
		if browserErr != nil {
			if err != nil {
				return "", err
			}
			return "", browserErr
		}
		rendered, extractErr := ExtractMarkdown(html)
		if extractErr != nil {
			return "", extractErr
		}
		if len(rendered) > len(markdown) {
			markdown = rendered
		}
	}

	return markdown, nil
}
