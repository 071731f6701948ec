package services

import (
	"context"
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/qrdoc-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/qrdoc-cli/internal/core/domain"
	"github.com/custodia-labs/qrdoc-cli/internal/core/ports/driving"
)

// scanFixture seeds a page store with one pending page per ref.
func scanFixture(t *testing.T, refs ...string) *memory.PageStore {
	t.Helper()
	store := memory.NewPageStore()
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	for i, ref := range refs {
		page := domain.NewPageItem("p"+ref, ref, int64(i+1), now)
		page.SourceName = ref + ".png"
		require.NoError(t, store.Save(context.Background(), &page))
	}
	return store
}

// refDecoder returns the payload encoded as the top-left gray value.
func refDecoder(payloads map[uint8]string) *funcDecoder {
	return &funcDecoder{fn: func(img *image.NRGBA) (string, error) {
		if p, ok := payloads[img.Pix[0]]; ok {
			return p, nil
		}
		return "", errNoCode
	}}
}

func TestScanService_ScanAll(t *testing.T) {
	store := scanFixture(t, "a", "b", "c", "d")
	raster := &stubRasterizer{images: map[string]*image.NRGBA{
		"a": pattern(1, 1),
		"b": pattern(2, 2),
		"c": pattern(99, 99),
		// d is missing: unreadable
	}}
	engine := NewDecodeEngine(refDecoder(map[uint8]string{1: "DOC1", 2: " DOC2 "}), domain.DefaultDecodeSettings())
	svc := NewScanService(store, raster, engine)

	var progress []driving.ScanProgress
	summary, err := svc.ScanAll(context.Background(), func(p driving.ScanProgress) {
		progress = append(progress, p)
	})
	require.NoError(t, err)

	assert.Equal(t, &driving.ScanSummary{Total: 4, Decoded: 2, Unresolved: 2}, summary)

	require.Len(t, progress, 4)
	for i, p := range progress {
		assert.True(t, p.Running)
		assert.Equal(t, i+1, p.Processed)
		assert.Equal(t, 4, p.Total)
		require.NotNil(t, p.Last)
	}
	assert.Equal(t, 100, progress[3].Percent())

	ctx := context.Background()
	a, _ := store.Get(ctx, "pa")
	assert.Equal(t, domain.PageStateDecoded, a.State)
	assert.Equal(t, "DOC1", a.Payload)
	assert.Equal(t, domain.StageRaw, a.Stage)

	b, _ := store.Get(ctx, "pb")
	assert.Equal(t, "DOC2", b.Payload)

	c, _ := store.Get(ctx, "pc")
	assert.Equal(t, domain.PageStateUnresolved, c.State)

	d, _ := store.Get(ctx, "pd")
	assert.Equal(t, domain.PageStateUnresolved, d.State)

	assert.False(t, svc.Status().Running)
	assert.Equal(t, 4, svc.Status().Processed)
}

func TestScanService_ScanAllSkipsDecoded(t *testing.T) {
	store := scanFixture(t, "a", "b")
	raster := &stubRasterizer{images: map[string]*image.NRGBA{"a": pattern(1, 1), "b": pattern(9, 9)}}
	decoder := refDecoder(map[uint8]string{1: "DOC1"})
	svc := NewScanService(store, raster, NewDecodeEngine(decoder, domain.DefaultDecodeSettings()))

	_, err := svc.ScanAll(context.Background(), nil)
	require.NoError(t, err)
	calls := decoder.Calls()

	summary, err := svc.ScanAll(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 1, summary.Unresolved)
	// only the unresolved page is retried, through all five stages
	assert.Equal(t, calls+5, decoder.Calls())
}

func TestScanService_Rescan(t *testing.T) {
	store := scanFixture(t, "a")
	raster := &stubRasterizer{images: map[string]*image.NRGBA{"a": pattern(7, 7)}}
	payloads := map[uint8]string{}
	svc := NewScanService(store, raster, NewDecodeEngine(refDecoder(payloads), domain.DefaultDecodeSettings()))
	ctx := context.Background()

	page, err := svc.Rescan(ctx, "pa")
	require.NoError(t, err)
	assert.Equal(t, domain.PageStateUnresolved, page.State)

	// same input, same outcome
	page, err = svc.Rescan(ctx, "pa")
	require.NoError(t, err)
	assert.Equal(t, domain.PageStateUnresolved, page.State)

	payloads[7] = "DOC7"
	page, err = svc.Rescan(ctx, "pa")
	require.NoError(t, err)
	assert.Equal(t, domain.PageStateDecoded, page.State)
	assert.Equal(t, "DOC7", page.Payload)

	_, err = svc.Rescan(ctx, "pa")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestScanService_RescanUnknownPage(t *testing.T) {
	svc := NewScanService(memory.NewPageStore(), &stubRasterizer{}, NewDecodeEngine(refDecoder(nil), domain.DefaultDecodeSettings()))

	_, err := svc.Rescan(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestScanService_Cancelled(t *testing.T) {
	store := scanFixture(t, "a", "b")
	svc := NewScanService(store, &stubRasterizer{}, NewDecodeEngine(refDecoder(nil), domain.DefaultDecodeSettings()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := svc.ScanAll(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, summary)
	assert.Zero(t, summary.Decoded+summary.Unresolved)

	page, _ := store.Get(context.Background(), "pa")
	assert.Equal(t, domain.PageStatePending, page.State)
	assert.False(t, svc.Status().Running)
}

func TestScanService_ProgressCanTriggerOverlap(t *testing.T) {
	store := scanFixture(t, "a", "b")
	svc := NewScanService(store, &stubRasterizer{}, NewDecodeEngine(refDecoder(nil), domain.DefaultDecodeSettings()))

	var nested error
	_, err := svc.ScanAll(context.Background(), func(driving.ScanProgress) {
		_, nested = svc.ScanAll(context.Background(), nil)
	})
	require.NoError(t, err)
	assert.ErrorIs(t, nested, domain.ErrScanInProgress)
}

func TestScanService_DecodeImage(t *testing.T) {
	svc := NewScanService(memory.NewPageStore(), &stubRasterizer{}, NewDecodeEngine(refDecoder(map[uint8]string{5: "X"}), domain.DefaultDecodeSettings()))

	result := svc.DecodeImage(context.Background(), pattern(5, 5))
	assert.True(t, result.Found)
	assert.Equal(t, "X", result.Payload)
}
