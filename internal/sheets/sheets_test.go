package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"github.com/ginjaninja78/sales-master/internal/types"
)

// =============================================================================
// CLASSIFICATION
// =============================================================================

func TestClassify(t *testing.T) {
	tests := map[string]SourceKind{
		"https://docs.google.com/spreadsheets/d/abc/edit#gid=0": KindSpreadsheet,
		"1AbCdEfGhIjKlMnOpQrStUvWxYz":                           KindSpreadsheet,
		"./branches/north.xlsx":                                 KindWorkbook,
		"North.XLSM":                                            KindWorkbook,
		"./branches/north":                                      KindCSVDir,
		"/srv/exports/south":                                    KindCSVDir,
	}
	for ref, want := range tests {
		assert.Equal(t, want, Classify(ref), ref)
	}

	assert.True(t, Uses(KindSpreadsheet, "./a", "https://x/d/y/edit"))
	assert.False(t, Uses(KindSpreadsheet, "./a", "b.xlsx"))
}

func TestSpreadsheetID(t *testing.T) {
	assert.Equal(t, "abc123", SpreadsheetID("https://docs.google.com/spreadsheets/d/abc123/edit#gid=0"))
	assert.Equal(t, "abc123", SpreadsheetID("https://docs.google.com/spreadsheets/d/abc123"))
	assert.Equal(t, "abc123", SpreadsheetID("  abc123 "))
}

func TestQuoteSheetTitle(t *testing.T) {
	assert.Equal(t, "'2024-01-01'", quoteSheetTitle("2024-01-01"))
	assert.Equal(t, "'Bob''s tab'", quoteSheetTitle("Bob's tab"))
}

// =============================================================================
// GOOGLE READER
// =============================================================================

// fakeSheetsAPI serves the two Sheets endpoints the reader uses.
func fakeSheetsAPI(t *testing.T, tabs map[string][][]string, order []string, failing string) *gsheet.Service {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		path := r.URL.Path

		if _, rng, ok := strings.Cut(path, "/values/"); ok {
			title := strings.Trim(rng, "'")
			if title == failing {
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(`{"error":{"code":403,"message":"denied"}}`))
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"range": rng, "values": tabs[title]})
			return
		}

		if !strings.HasSuffix(path, "/v4/spreadsheets/sheet-1") {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":{"code":404,"message":"not found"}}`))
			return
		}

		var sheets []map[string]any
		for _, title := range order {
			sheets = append(sheets, map[string]any{"properties": map[string]any{"title": title}})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"sheets": sheets})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	svc, err := gsheet.NewService(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return svc
}

func TestGoogleReaderListTabs(t *testing.T) {
	tabs := map[string][][]string{
		"2024-01-01": {{"CUSTOMER NAME", "ITEM"}, {"Alice", "Phone"}},
		"2024-01-02": {{"CUSTOMER NAME", "ITEM"}, {"Bob", "Case"}},
	}
	svc := fakeSheetsAPI(t, tabs, []string{"2024-01-01", "2024-01-02"}, "")
	reader := NewGoogleReaderFromService(svc, 0)

	got, err := reader.ListTabs(context.Background(), "https://docs.google.com/spreadsheets/d/sheet-1/edit")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2024-01-01", got[0].Title)
	assert.Equal(t, [][]string{{"CUSTOMER NAME", "ITEM"}, {"Alice", "Phone"}}, got[0].Rows)
	assert.Equal(t, "2024-01-02", got[1].Title)
}

func TestGoogleReaderPartialFailure(t *testing.T) {
	tabs := map[string][][]string{
		"good": {{"CUSTOMER NAME"}, {"Alice"}},
	}
	svc := fakeSheetsAPI(t, tabs, []string{"bad", "good"}, "bad")
	reader := NewGoogleReaderFromService(svc, 0)

	got, err := reader.ListTabs(context.Background(), "sheet-1")
	assert.ErrorIs(t, err, types.ErrSourceUnavailable)
	require.Len(t, got, 1)
	assert.Equal(t, "good", got[0].Title)
}

func TestGoogleReaderUnknownSpreadsheet(t *testing.T) {
	svc := fakeSheetsAPI(t, nil, nil, "")
	reader := NewGoogleReaderFromService(svc, 0)

	got, err := reader.ListTabs(context.Background(), "other-sheet")
	assert.ErrorIs(t, err, types.ErrSourceUnavailable)
	assert.Nil(t, got)
}

func TestGoogleReaderPacesTabFetches(t *testing.T) {
	tabs := map[string][][]string{"a": {{"x"}}, "b": {{"x"}}, "c": {{"x"}}}
	svc := fakeSheetsAPI(t, tabs, []string{"a", "b", "c"}, "")
	reader := NewGoogleReaderFromService(svc, 50*time.Millisecond)

	start := time.Now()
	got, err := reader.ListTabs(context.Background(), "sheet-1")
	require.NoError(t, err)
	assert.Len(t, got, 3)
	assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
}

func TestNewGoogleReaderMissingCredentials(t *testing.T) {
	_, err := NewGoogleReader(context.Background(), filepath.Join(t.TempDir(), "none.json"), 0)
	assert.Error(t, err)
}

// =============================================================================
// WORKBOOK READER
// =============================================================================

func TestWorkbookReader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "north.xlsx")

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", "2024-01-01"))
	require.NoError(t, f.SetSheetRow("2024-01-01", "A1", &[]interface{}{"CUSTOMER NAME", "SERIAL NUMBER / IMEI"}))
	require.NoError(t, f.SetSheetRow("2024-01-01", "A2", &[]interface{}{"Alice", "IMEI1"}))
	_, err := f.NewSheet("_2024-01-03")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("_2024-01-03", "A1", &[]interface{}{"CUSTOMER NAME", "SERIAL NUMBER / IMEI"}))
	require.NoError(t, f.SetSheetRow("_2024-01-03", "A2", &[]interface{}{"Bob", "IMEI2"}))
	_, err = f.NewSheet("2024-01-02")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("2024-01-02", "A1", &[]interface{}{"CUSTOMER NAME"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	tabs, err := NewWorkbookReader().ListTabs(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, tabs, 3)
	assert.Equal(t, "2024-01-01", tabs[0].Title)
	assert.Equal(t, [][]string{{"CUSTOMER NAME", "SERIAL NUMBER / IMEI"}, {"Alice", "IMEI1"}}, tabs[0].Rows)

	// Underscore-prefixed sheets are ordinary tabs.
	assert.Equal(t, "_2024-01-03", tabs[1].Title)
	assert.Equal(t, [][]string{{"CUSTOMER NAME", "SERIAL NUMBER / IMEI"}, {"Bob", "IMEI2"}}, tabs[1].Rows)
	assert.Equal(t, "2024-01-02", tabs[2].Title)
}

func TestWorkbookReaderMissingFile(t *testing.T) {
	_, err := NewWorkbookReader().ListTabs(context.Background(), filepath.Join(t.TempDir(), "nope.xlsx"))
	assert.ErrorIs(t, err, types.ErrSourceUnavailable)
}

// =============================================================================
// CSV DIRECTORY READER
// =============================================================================

func TestCSVDirReader(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	write("2024-01-02.csv", "CUSTOMER NAME,ITEM\nBob,Case\n")
	write("2024-01-01.csv", "\uFEFFTitle\nCUSTOMER NAME,ITEM,EXTRA\nAlice,\"Phone, 64GB\"\n")
	write("notes.txt", "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "old.csv"), 0o755))

	tabs, err := NewCSVDirReader().ListTabs(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, tabs, 2)

	assert.Equal(t, "2024-01-01", tabs[0].Title)
	assert.Equal(t, [][]string{
		{"Title"},
		{"CUSTOMER NAME", "ITEM", "EXTRA"},
		{"Alice", "Phone, 64GB"},
	}, tabs[0].Rows)
	assert.Equal(t, "2024-01-02", tabs[1].Title)
}

func TestCSVDirReaderMissingDir(t *testing.T) {
	_, err := NewCSVDirReader().ListTabs(context.Background(), filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, types.ErrSourceUnavailable)
}

// =============================================================================
// ROUTER
// =============================================================================

func TestRouterDispatch(t *testing.T) {
	var gotRef string
	router := NewRouter().Handle(KindSpreadsheet, ReaderFunc(func(_ context.Context, ref string) ([]types.RawTab, error) {
		gotRef = ref
		return []types.RawTab{{Title: "t"}}, nil
	}))

	tabs, err := router.ListTabs(context.Background(), "https://docs.google.com/spreadsheets/d/x/edit")
	require.NoError(t, err)
	assert.Len(t, tabs, 1)
	assert.Equal(t, "https://docs.google.com/spreadsheets/d/x/edit", gotRef)

	_, err = router.ListTabs(context.Background(), "./does/not/exist")
	assert.ErrorIs(t, err, types.ErrSourceUnavailable)
}

func TestRouterWithoutSpreadsheetReader(t *testing.T) {
	_, err := NewRouter().ListTabs(context.Background(), "abc123")
	assert.True(t, errors.Is(err, types.ErrSourceUnavailable))
}
