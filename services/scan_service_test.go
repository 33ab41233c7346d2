package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"scan2know/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type extractorFunc func(ctx context.Context, path string) ([]string, error)

func (f extractorFunc) Extract(ctx context.Context, path string) ([]string, error) { return f(ctx, path) }

type summarizerFunc func(ctx context.Context, text string) (string, error)

func (f summarizerFunc) Summarize(ctx context.Context, text string) (string, error) { return f(ctx, text) }

type recordingListener struct{ events []models.ScanEvent }

func (l *recordingListener) OnScan(ctx context.Context, ev *models.ScanEvent) {
	l.events = append(l.events, *ev)
}

type stubArchive struct {
	url     string
	err     error
	sawFile bool
	userID  uint
}

func (a *stubArchive) Archive(ctx context.Context, userID uint, path string) (string, error) {
	_, statErr := os.Stat(path)
	a.sawFile = statErr == nil
	a.userID = userID
	return a.url, a.err
}

type scanFixture struct {
	dir      string
	history  *memHistory
	listener *recordingListener
	deps     ScanDeps
}

func newScanFixture(t *testing.T, extractor TextExtractor, summarizer Summarizer) *scanFixture {
	t.Helper()
	f := &scanFixture{
		dir:      t.TempDir(),
		history:  &memHistory{},
		listener: &recordingListener{},
	}
	f.deps = ScanDeps{
		UploadDir:      f.dir,
		UploadMaxBytes: 1 << 20,
		Extractor:      extractor,
		Matcher:        NewMatcher(&memCatalog{items: testCatalog()}, TieBreakFirst),
		Summaries:      NewSummaryGenerator(summarizer),
		History:        f.history,
		Listeners:      []ScanListener{f.listener},
	}
	return f
}

func (f *scanFixture) service() *ScanService { return NewScanService(f.deps) }

func (f *scanFixture) assertUploadDirEmpty(t *testing.T) {
	t.Helper()
	entries, err := os.ReadDir(f.dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "temporary upload was not removed")
}

func fixedTexts(texts ...string) TextExtractor {
	return extractorFunc(func(ctx context.Context, path string) ([]string, error) {
		return texts, nil
	})
}

func jpeg() ScanInput {
	return ScanInput{UserID: 7, Filename: "label.jpg", Image: strings.NewReader("jpeg-bytes")}
}

func requireScanError(t *testing.T, err error, kind ErrorKind) *ScanError {
	t.Helper()
	require.Error(t, err)
	var se *ScanError
	require.True(t, errors.As(err, &se), "expected *ScanError, got %T", err)
	assert.Equal(t, kind, se.Kind)
	return se
}

func TestScanSingleMatch(t *testing.T) {
	f := newScanFixture(t, fixedTexts("Aspartame", "xy"), summarizerFunc(func(ctx context.Context, text string) (string, error) {
		assert.Contains(t, text, "The Aspartame is linked to headaches")
		return "Contains aspartame.", nil
	}))

	res, err := f.service().Scan(context.Background(), jpeg())
	require.NoError(t, err)

	require.Len(t, res.Ingredients, 1)
	assert.Equal(t, "Aspartame", res.Ingredients[0].Name)
	assert.Equal(t, models.SeverityCounts{High: 1}, res.SeverityCounts)
	assert.Equal(t, models.SeverityLow, res.OverallRating)
	assert.Equal(t, []string{"nervous_system"}, res.OrgansAffected)
	assert.Equal(t, "Contains aspartame.", res.Summary)
	assert.Equal(t, uint(1), res.ScanID)

	require.Len(t, f.history.events, 1)
	ev := f.history.events[0]
	assert.Equal(t, uint(7), ev.UserID)
	assert.Equal(t, "Scanned Product", ev.ProductName)
	assert.Equal(t, []string{"Aspartame", "xy"}, []string(ev.ScannedIngredients))
	assert.Equal(t, len(ev.Ingredients), ev.SeverityCounts.Total())

	require.Len(t, f.listener.events, 1)
	assert.Equal(t, res.ScanID, f.listener.events[0].ID)
	f.assertUploadDirEmpty(t)
}

func TestScanKeepsProductName(t *testing.T) {
	f := newScanFixture(t, fixedTexts("E211"), nil)
	in := jpeg()
	in.ProductName = "Cola"

	_, err := f.service().Scan(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "Cola", f.history.events[0].ProductName)
}

func TestScanOCRConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	f := newScanFixture(t, NewHTTPExtractor(url, time.Second), nil)
	_, err := f.service().Scan(context.Background(), jpeg())

	se := requireScanError(t, err, KindServiceUnavailable)
	assert.Contains(t, se.Message, "OCR service is not running")
	assert.Empty(t, f.history.events)
	assert.Empty(t, f.listener.events)
	f.assertUploadDirEmpty(t)
}

func TestScanOCRUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":false,"message":"image too blurry"}`))
	}))
	defer srv.Close()

	f := newScanFixture(t, NewHTTPExtractor(srv.URL, time.Second), nil)
	_, err := f.service().Scan(context.Background(), jpeg())

	se := requireScanError(t, err, KindUpstream)
	assert.Equal(t, "image too blurry", se.Message)
	f.assertUploadDirEmpty(t)
}

func TestScanOCRGenericFailure(t *testing.T) {
	f := newScanFixture(t, extractorFunc(func(ctx context.Context, path string) ([]string, error) {
		return nil, errors.New("boom")
	}), nil)

	_, err := f.service().Scan(context.Background(), jpeg())
	se := requireScanError(t, err, KindUpstream)
	assert.Equal(t, "OCR service request failed", se.Message)
}

func TestScanSummarizerTimeoutFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	f := newScanFixture(t, fixedTexts("Aspartame"), NewHTTPSummarizer(srv.URL, 50*time.Millisecond))
	res, err := f.service().Scan(context.Background(), jpeg())
	require.NoError(t, err)

	assert.Equal(t, "The Aspartame is linked to headaches and will affect the nervous_system, use stevia instead of Aspartame.", res.Summary)
	require.Len(t, f.history.events, 1)
	assert.Equal(t, res.Summary, f.history.events[0].Summary)
	f.assertUploadDirEmpty(t)
}

func TestScanRejections(t *testing.T) {
	testCases := []struct {
		name      string
		extractor TextExtractor
		input     ScanInput
		message   string
	}{
		{"no image", fixedTexts("Aspartame"), ScanInput{UserID: 7}, "No image uploaded"},
		{"unsupported type", fixedTexts("Aspartame"),
			ScanInput{UserID: 7, Filename: "label.gif", Image: strings.NewReader("gif")}, ""},
		{"no text", fixedTexts(), jpeg(), "No text found in image. Please try again with a clearer image."},
		{"no match", fixedTexts("water", "xy"), jpeg(),
			"No matching ingredients found in our database. The product may be too new or regional."},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newScanFixture(t, tc.extractor, nil)
			_, err := f.service().Scan(context.Background(), tc.input)

			se := requireScanError(t, err, KindBadRequest)
			if tc.message != "" {
				assert.Equal(t, tc.message, se.Message)
			}
			assert.Empty(t, f.history.events)
			f.assertUploadDirEmpty(t)
		})
	}
}

func TestScanTooLarge(t *testing.T) {
	f := newScanFixture(t, fixedTexts("Aspartame"), nil)
	f.deps.UploadMaxBytes = 4

	_, err := f.service().Scan(context.Background(), jpeg())
	requireScanError(t, err, KindBadRequest)
	f.assertUploadDirEmpty(t)
}

func TestScanHistoryFailure(t *testing.T) {
	f := newScanFixture(t, fixedTexts("Aspartame"), nil)
	f.history.err = errors.New("db down")

	_, err := f.service().Scan(context.Background(), jpeg())
	requireScanError(t, err, KindInternal)
	assert.Empty(t, f.listener.events)
	f.assertUploadDirEmpty(t)
}

func TestScanCatalogFailure(t *testing.T) {
	f := newScanFixture(t, fixedTexts("Aspartame"), nil)
	f.deps.Matcher = NewMatcher(&memCatalog{err: errors.New("db down")}, TieBreakFirst)

	_, err := f.service().Scan(context.Background(), jpeg())
	requireScanError(t, err, KindInternal)
	f.assertUploadDirEmpty(t)
}

func TestScanArchivesBeforeCleanup(t *testing.T) {
	archive := &stubArchive{url: "https://cdn.example.com/scans/7/a.jpg"}
	f := newScanFixture(t, fixedTexts("Aspartame"), nil)
	f.deps.Archive = archive

	_, err := f.service().Scan(context.Background(), jpeg())
	require.NoError(t, err)
	assert.True(t, archive.sawFile)
	assert.Equal(t, uint(7), archive.userID)
	assert.Equal(t, archive.url, f.history.events[0].ImageURL)
	f.assertUploadDirEmpty(t)
}

func TestScanArchiveFailureIsNotFatal(t *testing.T) {
	f := newScanFixture(t, fixedTexts("Aspartame"), nil)
	f.deps.Archive = &stubArchive{err: errors.New("access denied")}

	_, err := f.service().Scan(context.Background(), jpeg())
	require.NoError(t, err)
	assert.Empty(t, f.history.events[0].ImageURL)
}

func TestScanRatingAndOrgans(t *testing.T) {
	f := newScanFixture(t, fixedTexts("aspartame", "nitrite", "E211", "E951", "nitrite"), nil)

	res, err := f.service().Scan(context.Background(), jpeg())
	require.NoError(t, err)

	assert.Len(t, res.Ingredients, 5)
	assert.Equal(t, models.SeverityCounts{Medium: 1, High: 4}, res.SeverityCounts)
	assert.Equal(t, models.SeverityHigh, res.OverallRating)
	assert.Equal(t, []string{"nervous_system", "liver"}, res.OrgansAffected)
	assert.Equal(t, len(res.Ingredients), res.SeverityCounts.Total())
}
