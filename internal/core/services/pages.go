package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/qrdoc-cli/internal/core/domain"
	"github.com/custodia-labs/qrdoc-cli/internal/core/ports/driven"
	"github.com/custodia-labs/qrdoc-cli/internal/core/ports/driving"
	"github.com/custodia-labs/qrdoc-cli/internal/logger"
)

// Ensure PageService implements the interface.
var _ driving.PageService = (*PageService)(nil)

// PageService manages the session's page collection.
type PageService struct {
	pages    driven.PageStore
	images   driven.ImageStore
	reader   driven.ScanReader
	registry driven.NormaliserRegistry

	seq   atomic.Int64
	now   func() time.Time
	newID func() string
}

// NewPageService creates a new page service.
func NewPageService(
	pages driven.PageStore,
	images driven.ImageStore,
	reader driven.ScanReader,
	registry driven.NormaliserRegistry,
) *PageService {
	return &PageService{
		pages:    pages,
		images:   images,
		reader:   reader,
		registry: registry,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Import reads files and directories into pending pages.
// Files are ordered by name with numbers compared by value, so scan2
// precedes scan10. Failing files are reported and skipped.
func (s *PageService) Import(ctx context.Context, paths []string) (*driving.ImportReport, error) {
	report := &driving.ImportReport{}

	var files []string
	for _, p := range paths {
		listed, err := s.reader.List(ctx, p)
		if err != nil {
			report.Skipped = append(report.Skipped, driving.SkippedFile{Path: p, Reason: err.Error()})
			continue
		}
		files = append(files, listed...)
	}
	sortFileNames(files)

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		created, err := s.importFile(ctx, f)
		if err != nil {
			logger.Warn("Import %s: %v", f, err)
			report.Skipped = append(report.Skipped, driving.SkippedFile{Path: f, Reason: err.Error()})
			continue
		}
		report.Pages = append(report.Pages, created...)
	}

	logger.Info("Imported %d pages from %d files", len(report.Pages), len(files)-len(report.Skipped))
	return report, nil
}

func (s *PageService) importFile(ctx context.Context, path string) ([]domain.PageItem, error) {
	raw, err := s.reader.Read(ctx, path)
	if err != nil {
		return nil, err
	}

	blobs, err := s.registry.Normalise(ctx, raw)
	if err != nil {
		return nil, err
	}
	if len(blobs) == 0 {
		return nil, fmt.Errorf("%w: no pages found", domain.ErrImageUnreadable)
	}

	created := make([]domain.PageItem, 0, len(blobs))
	for i := range blobs {
		ref, err := s.images.Put(ctx, &blobs[i])
		if err != nil {
			return created, fmt.Errorf("store page image: %w", err)
		}

		page := domain.NewPageItem(s.newID(), ref, s.seq.Add(1), s.now())
		page.SourceName = raw.Name
		page.SourcePage = blobs[i].Page
		if err := s.pages.Save(ctx, &page); err != nil {
			return created, fmt.Errorf("save page: %w", err)
		}
		logger.Debug("Imported %s as %s", page.Label(), page.ID)
		created = append(created, page)
	}
	return created, nil
}

// List returns all pages in import order.
func (s *PageService) List(ctx context.Context) ([]domain.PageItem, error) {
	return s.pages.List(ctx)
}

// Get retrieves a page by ID.
func (s *PageService) Get(ctx context.Context, id string) (*domain.PageItem, error) {
	return s.pages.Get(ctx, id)
}

// AssignPayload applies a manual payload. The input is trimmed; blank
// input returns domain.ErrInvalidPayload and leaves the page untouched.
func (s *PageService) AssignPayload(ctx context.Context, id, payload string) (*domain.PageItem, error) {
	page, err := s.pages.Update(ctx, id, func(p *domain.PageItem) error {
		return p.Override(payload, s.now())
	})
	if err != nil {
		return nil, err
	}
	logger.Info("Assigned %q to %s", page.Payload, page.Label())
	return page, nil
}

// RenameGroup moves every page of group from onto payload to.
func (s *PageService) RenameGroup(ctx context.Context, from, to string) (int, error) {
	to = strings.TrimSpace(to)
	if to == "" {
		return 0, domain.ErrInvalidPayload
	}

	pages, err := s.pages.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list pages: %w", err)
	}

	var ids []string
	for _, p := range pages {
		if p.Payload == from {
			ids = append(ids, p.ID)
		}
	}
	if len(ids) == 0 {
		return 0, fmt.Errorf("group %q: %w", from, domain.ErrNotFound)
	}
	if to == from {
		return 0, nil
	}

	changed := 0
	for _, id := range ids {
		_, err := s.pages.Update(ctx, id, func(p *domain.PageItem) error {
			if p.Payload != from {
				return errSkipPage
			}
			return p.Override(to, s.now())
		})
		if errors.Is(err, errSkipPage) {
			continue
		}
		if err != nil {
			return changed, fmt.Errorf("rename page %s: %w", id, err)
		}
		changed++
	}

	logger.Info("Renamed group %q to %q (%d pages)", from, to, changed)
	return changed, nil
}

// errSkipPage aborts an Update without writing.
var errSkipPage = errors.New("skip page")

// Clear removes every page and releases its image.
func (s *PageService) Clear(ctx context.Context) error {
	pages, err := s.pages.List(ctx)
	if err != nil {
		return fmt.Errorf("list pages: %w", err)
	}

	refs := make([]string, 0, len(pages))
	for _, p := range pages {
		refs = append(refs, p.ImageRef)
	}
	if err := s.images.Release(ctx, refs...); err != nil {
		return fmt.Errorf("release images: %w", err)
	}
	if err := s.pages.Clear(ctx); err != nil {
		return fmt.Errorf("clear pages: %w", err)
	}

	logger.Info("Cleared %d pages", len(pages))
	return nil
}

// Stats summarises the page collection.
func (s *PageService) Stats(ctx context.Context) (*domain.Stats, error) {
	pages, err := s.pages.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}

	stats := &domain.Stats{Total: len(pages)}
	payloads := make(map[string]struct{})
	for _, p := range pages {
		switch p.State {
		case domain.PageStateDecoded:
			stats.Decoded++
		case domain.PageStateUnresolved:
			stats.Unresolved++
		default:
			stats.Pending++
		}
		if p.HasPayload() {
			payloads[p.Payload] = struct{}{}
		}
	}
	stats.Groups = len(payloads)
	return stats, nil
}

// sortFileNames orders paths by base name in natural order, then by full path.
func sortFileNames(files []string) {
	order := newNaturalOrder()
	slices.SortStableFunc(files, func(a, b string) int {
		if c := order.Compare(filepath.Base(a), filepath.Base(b)); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})
}
