package report

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

const analysisRunes = 500

//go:embed report.html.tmpl
var reportTemplate string

var tmpl = template.Must(template.New("report").Parse(reportTemplate))

// Data is what the per-resume report shows.
type Data struct {
	VacancyID int64
	Score     float64
	Analysis  string
}

type view struct {
	VacancyID int64
	Score     string
	Analysis  string
}

// HTML renders the fixed report layout.
func HTML(d Data) (string, error) {
	analysis := d.Analysis
	if r := []rune(analysis); len(r) > analysisRunes {
		analysis = string(r[:analysisRunes])
	}
	var buf bytes.Buffer
	err := tmpl.Execute(&buf, view{
		VacancyID: d.VacancyID,
		Score:     fmt.Sprintf("%.1f", d.Score),
		Analysis:  analysis,
	})
	if err != nil {
		return "", fmt.Errorf("render report html: %w", err)
	}
	return buf.String(), nil
}

// ChromedpRenderer prints the report to PDF with headless Chrome.
type ChromedpRenderer struct {
	chromePath string
	timeout    time.Duration
}

// NewChromedpRenderer uses chromePath when set, otherwise the Chrome found on PATH.
func NewChromedpRenderer(chromePath string) *ChromedpRenderer {
	return &ChromedpRenderer{chromePath: chromePath, timeout: 60 * time.Second}
}

func (r *ChromedpRenderer) Render(ctx context.Context, d Data) ([]byte, error) {
	html, err := HTML(d)
	if err != nil {
		return nil, err
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if r.chromePath != "" {
		opts = append(opts, chromedp.ExecPath(r.chromePath))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	cctx, cancelCtx := chromedp.NewContext(allocCtx)
	defer cancelCtx()

	runCtx, cancelRun := context.WithTimeout(cctx, r.timeout)
	defer cancelRun()

	tmpDir, err := os.MkdirTemp("", "hrbot-report-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tmpDir)

	htmlPath := filepath.Join(tmpDir, "index.html")
	if err := os.WriteFile(htmlPath, []byte(html), 0o600); err != nil {
		return nil, err
	}

	var pdfBuf []byte
	err = chromedp.Run(runCtx,
		chromedp.Navigate("file://"+htmlPath),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			// US Letter, 8.5 x 11 inches
			pdfBuf, _, err = page.PrintToPDF().WithPrintBackground(true).
				WithPaperWidth(8.5).
				WithPaperHeight(11).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("print report: %w", err)
	}
	return pdfBuf, nil
}
