package rendering

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// PDFEngine converts rendered HTML into PDF bytes. The production engine
// drives headless Chrome; tests substitute a stub.
type PDFEngine interface {
	RenderHTMLToPDF(ctx context.Context, html string) ([]byte, error)
}

// ChromeEngine renders PDFs with headless Chrome via the DevTools
// protocol. Requires Chrome/Chromium on the system; CHROME_PATH
// overrides the binary location.
type ChromeEngine struct{}

// NewChromeEngine creates a ChromeEngine.
func NewChromeEngine() *ChromeEngine { return &ChromeEngine{} }

// RenderHTMLToPDF renders the HTML document to an A4 PDF.
func (e *ChromeEngine) RenderHTMLToPDF(ctx context.Context, html string) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if p := os.Getenv("CHROME_PATH"); p != "" {
		opts = append(opts, chromedp.ExecPath(p))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	browserCtx, cancelCtx := chromedp.NewContext(allocCtx)
	defer cancelCtx()

	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, 60*time.Second)
	defer cancelTimeout()

	// Chrome needs a file URL; styles are inlined in the document
	tmpDir, err := os.MkdirTemp("", "resume-")
	if err != nil {
		return nil, &Error{Message: "failed to create temp dir", Cause: err}
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()

	htmlPath := filepath.Join(tmpDir, "index.html")
	if err := os.WriteFile(htmlPath, []byte(html), 0o644); err != nil {
		return nil, &Error{Message: "failed to write temp HTML", Cause: err}
	}

	var pdfBuf []byte
	err = chromedp.Run(browserCtx,
		chromedp.Navigate("file://"+htmlPath),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			// A4: 210mm x 297mm -> inches: 8.27 x 11.69
			pdfBuf, _, err = page.PrintToPDF().WithPrintBackground(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, &Error{Message: "PDF generation failed", Cause: err}
	}
	return pdfBuf, nil
}
