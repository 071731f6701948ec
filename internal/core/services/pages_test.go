package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/qrdoc-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/qrdoc-cli/internal/core/domain"
)

type pageFixture struct {
	svc    *PageService
	pages  *memory.PageStore
	images *memory.ImageStore
}

func newPageFixture(files map[string][]byte) *pageFixture {
	pages := memory.NewPageStore()
	images := memory.NewImageStore()
	svc := NewPageService(pages, images, &stubReader{files: files}, stubRegistry{})

	n := 0
	svc.newID = func() string {
		n++
		return fmt.Sprintf("id%02d", n)
	}
	svc.now = func() time.Time { return time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC) }
	return &pageFixture{svc: svc, pages: pages, images: images}
}

func TestPageService_ImportNaturalOrder(t *testing.T) {
	f := newPageFixture(map[string][]byte{
		"in/scan10.png": []byte("ten"),
		"in/scan2.png":  []byte("two"),
		"in/scan1.png":  []byte("one"),
	})

	report, err := f.svc.Import(context.Background(), []string{"in"})
	require.NoError(t, err)
	require.Len(t, report.Pages, 3)
	assert.Empty(t, report.Skipped)

	var names []string
	for i, p := range report.Pages {
		names = append(names, p.SourceName)
		assert.Equal(t, int64(i+1), p.Sequence)
		assert.Equal(t, domain.PageStatePending, p.State)
	}
	assert.Equal(t, []string{"scan1.png", "scan2.png", "scan10.png"}, names)
	assert.Equal(t, 3, f.images.Count())
}

func TestPageService_ImportPDFPages(t *testing.T) {
	f := newPageFixture(map[string][]byte{"batch.pdf": []byte("p1|p2|p3")})

	report, err := f.svc.Import(context.Background(), []string{"batch.pdf"})
	require.NoError(t, err)
	require.Len(t, report.Pages, 3)
	assert.Equal(t, "batch.pdf#2", report.Pages[1].Label())

	blob, err := f.images.Get(context.Background(), report.Pages[2].ImageRef)
	require.NoError(t, err)
	assert.Equal(t, []byte("p3"), blob.Data)
}

func TestPageService_ImportSkipsFailures(t *testing.T) {
	f := newPageFixture(map[string][]byte{
		"a.png": []byte("good"),
		"b.png": []byte("bad data"),
	})

	report, err := f.svc.Import(context.Background(), []string{"a.png", "b.png", "missing.png"})
	require.NoError(t, err)
	assert.Len(t, report.Pages, 1)
	require.Len(t, report.Skipped, 2)
	assert.Equal(t, "missing.png", report.Skipped[0].Path)
	assert.Equal(t, "b.png", report.Skipped[1].Path)
}

func TestPageService_SequenceContinuesAcrossImports(t *testing.T) {
	f := newPageFixture(map[string][]byte{"a.png": []byte("a"), "b.png": []byte("b")})
	ctx := context.Background()

	_, err := f.svc.Import(ctx, []string{"a.png"})
	require.NoError(t, err)
	report, err := f.svc.Import(ctx, []string{"b.png"})
	require.NoError(t, err)

	assert.Equal(t, int64(2), report.Pages[0].Sequence)
}

func seedPage(t *testing.T, f *pageFixture, id string, state domain.PageState, payload string) {
	t.Helper()
	p := page(id, int64(len(id)), state, payload)
	require.NoError(t, f.pages.Save(context.Background(), &p))
}

func TestPageService_AssignPayload(t *testing.T) {
	f := newPageFixture(nil)
	seedPage(t, f, "u", domain.PageStateUnresolved, "")
	ctx := context.Background()

	got, err := f.svc.AssignPayload(ctx, "u", "  DOC1 \t")
	require.NoError(t, err)
	assert.Equal(t, "DOC1", got.Payload)
	assert.Equal(t, domain.PageStateDecoded, got.State)
	assert.True(t, got.Manual)

	stored, _ := f.pages.Get(ctx, "u")
	assert.Equal(t, "DOC1", stored.Payload)
}

func TestPageService_AssignBlankIsNoOp(t *testing.T) {
	f := newPageFixture(nil)
	seedPage(t, f, "d", domain.PageStateDecoded, "DOC1")
	ctx := context.Background()

	for _, blank := range []string{"", "   ", "\n\t"} {
		_, err := f.svc.AssignPayload(ctx, "d", blank)
		assert.ErrorIs(t, err, domain.ErrInvalidPayload)
	}

	stored, _ := f.pages.Get(ctx, "d")
	assert.Equal(t, "DOC1", stored.Payload)
	assert.False(t, stored.Manual)
}

func TestPageService_AssignPendingRejected(t *testing.T) {
	f := newPageFixture(nil)
	seedPage(t, f, "p", domain.PageStatePending, "")

	_, err := f.svc.AssignPayload(context.Background(), "p", "DOC1")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestPageService_AssignUnknownPage(t *testing.T) {
	_, err := newPageFixture(nil).svc.AssignPayload(context.Background(), "nope", "DOC1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPageService_RenameGroup(t *testing.T) {
	f := newPageFixture(nil)
	seedPage(t, f, "a", domain.PageStateDecoded, "DOC1")
	seedPage(t, f, "bb", domain.PageStateDecoded, "DOC1")
	seedPage(t, f, "ccc", domain.PageStateDecoded, "DOC2")
	ctx := context.Background()

	n, err := f.svc.RenameGroup(ctx, "DOC1", " DOC2 ")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	grouping := GroupPages(mustList(t, f))
	require.Len(t, grouping.Groups, 1)
	assert.Equal(t, []string{"a", "bb", "ccc"}, ids(grouping.Groups[0].Pages))
}

func TestPageService_RenameGroupErrors(t *testing.T) {
	f := newPageFixture(nil)
	seedPage(t, f, "a", domain.PageStateDecoded, "DOC1")
	ctx := context.Background()

	_, err := f.svc.RenameGroup(ctx, "DOC1", "  ")
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)

	_, err = f.svc.RenameGroup(ctx, "DOC9", "DOC1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	n, err := f.svc.RenameGroup(ctx, "DOC1", "DOC1")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPageService_Clear(t *testing.T) {
	f := newPageFixture(map[string][]byte{"a.png": []byte("a"), "b.png": []byte("b")})
	ctx := context.Background()
	_, err := f.svc.Import(ctx, []string{"a.png", "b.png"})
	require.NoError(t, err)

	require.NoError(t, f.svc.Clear(ctx))

	assert.Empty(t, mustList(t, f))
	assert.Zero(t, f.images.Count())

	// clearing an empty session is fine
	require.NoError(t, f.svc.Clear(ctx))
}

func TestPageService_Stats(t *testing.T) {
	f := newPageFixture(nil)
	seedPage(t, f, "a", domain.PageStateDecoded, "DOC1")
	seedPage(t, f, "bb", domain.PageStateDecoded, "DOC1")
	seedPage(t, f, "ccc", domain.PageStateDecoded, "DOC2")
	seedPage(t, f, "dddd", domain.PageStateUnresolved, "")
	seedPage(t, f, "eeeee", domain.PageStatePending, "")

	stats, err := f.svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &domain.Stats{Total: 5, Decoded: 3, Unresolved: 1, Pending: 1, Groups: 2}, stats)
	assert.Equal(t, 80, stats.Percent())
}

func mustList(t *testing.T, f *pageFixture) []domain.PageItem {
	t.Helper()
	pages, err := f.svc.List(context.Background())
	require.NoError(t, err)
	return pages
}
