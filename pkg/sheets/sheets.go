package sheets

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const (
	DefaultRange = "Sheet1!A:D"
	excerptRunes = 100
)

// Row is one scored resume as exported to the spreadsheet.
type Row struct {
	VacancyID  int64
	ResumeText string
	Score      float64
	Analysis   string
}

// Values renders the row as [vacancy_id, text[:100], score, analysis[:100]].
func (r Row) Values() []any {
	return []any{r.VacancyID, excerpt(r.ResumeText), r.Score, excerpt(r.Analysis)}
}

type appender interface {
	Append(ctx context.Context, spreadsheetID, writeRange string, vr *sheets.ValueRange) error
}

type serviceAppender struct {
	service *sheets.Service
}

func (a serviceAppender) Append(ctx context.Context, spreadsheetID, writeRange string, vr *sheets.ValueRange) error {
	_, err := a.service.Spreadsheets.Values.Append(spreadsheetID, writeRange, vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	return err
}

// Exporter appends scored resumes to a Google spreadsheet.
type Exporter struct {
	api           appender
	spreadsheetID string
	writeRange    string
}

// NewExporter authenticates with a service account credentials file.
func NewExporter(ctx context.Context, credentialsFile, spreadsheetID, writeRange string) (*Exporter, error) {
	if spreadsheetID == "" {
		return nil, errors.New("spreadsheet id is required")
	}
	service, err := sheets.NewService(ctx, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("create sheets client: %w", err)
	}
	return newExporter(serviceAppender{service: service}, spreadsheetID, writeRange), nil
}

func newExporter(api appender, spreadsheetID, writeRange string) *Exporter {
	if writeRange == "" {
		writeRange = DefaultRange
	}
	return &Exporter{api: api, spreadsheetID: spreadsheetID, writeRange: writeRange}
}

func (e *Exporter) Append(ctx context.Context, row Row) error {
	vr := &sheets.ValueRange{Values: [][]any{row.Values()}}
	if err := e.api.Append(ctx, e.spreadsheetID, e.writeRange, vr); err != nil {
		return fmt.Errorf("append to spreadsheet %s: %w", e.spreadsheetID, err)
	}
	return nil
}

func excerpt(s string) string {
	r := []rune(s)
	if len(r) <= excerptRunes {
		return s
	}
	return string(r[:excerptRunes])
}
