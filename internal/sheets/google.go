package sheets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2/google"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"github.com/ginjaninja78/sales-master/internal/types"
)

// GoogleReader reads branch tabs through the Google Sheets API. Per-tab value
// fetches are paced by a limiter to stay under the API read quota.
type GoogleReader struct {
	svc     *gsheet.Service
	limiter *rate.Limiter
}

// NewGoogleReader builds a reader authenticated with a service-account key
// file, restricted to read-only access.
func NewGoogleReader(ctx context.Context, credentialsFile string, tabDelay time.Duration) (*GoogleReader, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read credentials file: %w", err)
	}

	cfg, err := google.JWTConfigFromJSON(data, gsheet.SpreadsheetsReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}

	svc, err := gsheet.NewService(ctx, option.WithHTTPClient(cfg.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return NewGoogleReaderFromService(svc, tabDelay), nil
}

// NewGoogleReaderFromService wraps an existing Sheets service. A tabDelay of
// zero disables pacing.
func NewGoogleReaderFromService(svc *gsheet.Service, tabDelay time.Duration) *GoogleReader {
	limit := rate.Inf
	if tabDelay > 0 {
		limit = rate.Every(tabDelay)
	}
	return &GoogleReader{
		svc:     svc,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// ListTabs implements Reader. Every worksheet of the spreadsheet becomes a
// tab, in the spreadsheet's tab order.
func (g *GoogleReader) ListTabs(ctx context.Context, sourceRef string) ([]types.RawTab, error) {
	id := SpreadsheetID(sourceRef)
	if id == "" {
		return nil, fmt.Errorf("no spreadsheet id in %q: %w", sourceRef, types.ErrSourceUnavailable)
	}

	ss, err := g.svc.Spreadsheets.Get(id).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet %s: %w: %w", id, types.ErrSourceUnavailable, err)
	}

	var (
		tabs []types.RawTab
		errs []error
	)
	for _, sh := range ss.Sheets {
		if sh.Properties == nil {
			continue
		}
		title := sh.Properties.Title

		if err := g.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		resp, err := g.svc.Spreadsheets.Values.Get(id, quoteSheetTitle(title)).Context(ctx).Do()
		if err != nil {
			errs = append(errs, fmt.Errorf("tab %q: %w: %w", title, types.ErrSourceUnavailable, err))
			continue
		}

		tabs = append(tabs, types.RawTab{Title: title, Rows: toStringRows(resp.Values)})
	}

	return tabs, errors.Join(errs...)
}

// SpreadsheetID extracts the spreadsheet ID from a sheet URL of the form
// https://docs.google.com/spreadsheets/d/<id>/edit. Anything without "/d/"
// is taken as a bare ID.
func SpreadsheetID(sourceRef string) string {
	ref := strings.TrimSpace(sourceRef)
	_, after, found := strings.Cut(ref, "/d/")
	if !found {
		return ref
	}
	id, _, _ := strings.Cut(after, "/")
	return id
}

// quoteSheetTitle turns a tab title into an A1 range covering the whole tab.
func quoteSheetTitle(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

func toStringRows(values [][]interface{}) [][]string {
	rows := make([][]string, len(values))
	for i, row := range values {
		cells := make([]string, len(row))
		for j, v := range row {
			if v != nil {
				cells[j] = fmt.Sprint(v)
			}
		}
		rows[i] = cells
	}
	return rows
}
