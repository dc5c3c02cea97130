package render

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/yuin/goldmark"
)

// letterHTMLTemplate wraps the converted markdown in a printable page.
const letterHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
body { font-family: Georgia, 'Times New Roman', serif; font-size: 11.5pt;
       line-height: 1.5; color: #1a1a1a; margin: 1in; }
h1 { font-size: 16pt; margin-bottom: 0.2em; }
h1, h2, h3 { color: #111; }
p { margin: 0.6em 0; }
</style>
</head>
<body>
%s
</body>
</html>`

// SavePDF writes the letter as a PDF, degrading gracefully: rendered
// markdown via headless Chrome, then a builtin plain-paragraph PDF, then the
// raw bytes. Only a failure of the last resort returns an error.
func SavePDF(ctx context.Context, markdown, path string, verbose bool) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &SaveError{Path: path, Message: "creating output directory", Cause: err}
	}

	if pdf, err := renderMarkdownPDF(ctx, markdown); err == nil {
		if err := os.WriteFile(path, pdf, 0o644); err == nil {
			return nil
		} else if verbose {
			log.Printf("[VERBOSE] Writing rendered PDF failed: %v", err)
		}
	} else if verbose {
		log.Printf("[VERBOSE] Markdown PDF rendering failed, using basic renderer: %v", err)
	}

	if err := os.WriteFile(path, renderBasicPDF(stripMarkdown(markdown)), 0o644); err == nil {
		return nil
	} else if verbose {
		log.Printf("[VERBOSE] Basic PDF rendering failed, writing raw bytes: %v", err)
	}

	if err := os.WriteFile(path, []byte(markdown), 0o644); err != nil {
		return &SaveError{Path: path, Message: "writing raw letter bytes", Cause: err}
	}
	return nil
}

// renderMarkdownPDF converts markdown to HTML and prints it with headless
// Chrome. Fails when Chrome is unavailable on the host.
func renderMarkdownPDF(ctx context.Context, markdown string) ([]byte, error) {
	var body bytes.Buffer
	if err := goldmark.Convert([]byte(markdown), &body); err != nil {
		return nil, fmt.Errorf("markdown conversion failed: %w", err)
	}
	html := fmt.Sprintf(letterHTMLTemplate, body.String())

	tmpDir, err := os.MkdirTemp("", "cover-letter-")
	if err != nil {
		return nil, fmt.Errorf("creating temp dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()

	htmlPath := filepath.Join(tmpDir, "letter.html")
	if err := os.WriteFile(htmlPath, []byte(html), 0o644); err != nil {
		return nil, fmt.Errorf("writing temp HTML: %w", err)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if execPath := os.Getenv("CHROME_PATH"); execPath != "" {
		opts = append(opts, chromedp.ExecPath(execPath))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()
	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()
	browserCtx, cancel = context.WithTimeout(browserCtx, 60*time.Second)
	defer cancel()

	var pdf []byte
	err = chromedp.Run(browserCtx,
		chromedp.Navigate("file://"+htmlPath),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var printErr error
			// US Letter, 8.5 x 11 inches.
			pdf, _, printErr = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.5).
				WithPaperHeight(11).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return printErr
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("printing to PDF: %w", err)
	}
	return pdf, nil
}
