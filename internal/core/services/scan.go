package services

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/custodia-labs/qrdoc-cli/internal/core/domain"
	"github.com/custodia-labs/qrdoc-cli/internal/core/ports/driven"
	"github.com/custodia-labs/qrdoc-cli/internal/core/ports/driving"
	"github.com/custodia-labs/qrdoc-cli/internal/logger"
)

// Ensure ScanService implements the interface.
var _ driving.ScanService = (*ScanService)(nil)

// ScanService runs the decode chain over the session's pages.
// Pages are decoded strictly one at a time.
type ScanService struct {
	pages      driven.PageStore
	rasterizer driven.Rasterizer
	engine     *DecodeEngine
	now        func() time.Time

	// pageMu serialises per-page decoding across batch and single rescans
	pageMu sync.Mutex

	// Status tracking
	mu     sync.RWMutex
	status driving.ScanProgress
}

// NewScanService creates a new scan service.
func NewScanService(pages driven.PageStore, rasterizer driven.Rasterizer, engine *DecodeEngine) *ScanService {
	return &ScanService{
		pages:      pages,
		rasterizer: rasterizer,
		engine:     engine,
		now:        time.Now,
	}
}

// ScanAll decodes every page not yet decoded, in store order.
// Already decoded pages are counted as processed and left untouched.
// Cancellation is honoured between pages.
func (s *ScanService) ScanAll(ctx context.Context, onProgress func(driving.ScanProgress)) (*driving.ScanSummary, error) {
	pages, err := s.pages.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}

	if err := s.begin(len(pages)); err != nil {
		return nil, err
	}
	defer s.finish()

	logger.Section("Scan")
	logger.Info("Scanning %d pages", len(pages))

	summary := &driving.ScanSummary{Total: len(pages)}
	for i := range pages {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		page, err := s.scanPage(ctx, pages[i].ID)
		switch {
		case errors.Is(err, domain.ErrInvalidTransition):
			summary.Skipped++
			logger.Debug("Skipping %s: %v", pages[i].Label(), err)
		case err != nil:
			// page vanished or the store failed; the batch carries on
			summary.Skipped++
			logger.Warn("Scan %s: %v", pages[i].Label(), err)
		case page.State == domain.PageStateDecoded:
			summary.Decoded++
		default:
			summary.Unresolved++
		}

		if page == nil {
			page = &pages[i]
		}
		progress := s.advance(page)
		if onProgress != nil {
			onProgress(progress)
		}
	}

	logger.Info("Scan complete: %d decoded, %d unresolved, %d skipped",
		summary.Decoded, summary.Unresolved, summary.Skipped)
	return summary, nil
}

// Rescan runs the decode chain for a single page.
// Decoded pages are terminal and return domain.ErrInvalidTransition.
func (s *ScanService) Rescan(ctx context.Context, id string) (*domain.PageItem, error) {
	page, err := s.scanPage(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("rescan %s: %w", id, err)
	}
	return page, nil
}

// DecodeImage runs the decode chain on an image outside the session.
func (s *ScanService) DecodeImage(_ context.Context, img image.Image) domain.DecodeResult {
	return s.engine.Scan(img)
}

// Status returns the progress of the running batch.
func (s *ScanService) Status() driving.ScanProgress {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyProgress(s.status)
}

// scanPage moves one page through in_progress to decoded or unresolved.
func (s *ScanService) scanPage(ctx context.Context, id string) (*domain.PageItem, error) {
	s.pageMu.Lock()
	defer s.pageMu.Unlock()

	page, err := s.pages.Update(ctx, id, func(p *domain.PageItem) error {
		return p.Begin(s.now())
	})
	if err != nil {
		return nil, err
	}

	result := s.decode(ctx, page)

	return s.pages.Update(ctx, id, func(p *domain.PageItem) error {
		if result.Found {
			return p.Resolve(result.Payload, result.Stage, s.now())
		}
		return p.Fail(s.now())
	})
}

// decode loads the page raster and runs the chain. An unreadable image
// is a normal miss, never an error.
func (s *ScanService) decode(ctx context.Context, page *domain.PageItem) domain.DecodeResult {
	img, err := s.rasterizer.Rasterize(ctx, page.ImageRef)
	if err != nil {
		logger.Warn("Page %s: %v", page.Label(), err)
		return domain.DecodeResult{}
	}

	result := s.engine.Scan(img)
	if result.Found {
		logger.WithFields(logger.Fields{
			"page":  page.Label(),
			"stage": result.Stage.String(),
		}).Debugf("decoded %q", result.Payload)
	} else {
		logger.WithFields(logger.Fields{
			"page":     page.Label(),
			"attempts": result.Attempts,
		}).Debug(domain.ErrDecodeExhausted.Error())
	}
	return result
}

func (s *ScanService) begin(total int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status.Running {
		return domain.ErrScanInProgress
	}
	s.status = driving.ScanProgress{Running: true, Total: total}
	return nil
}

func (s *ScanService) advance(page *domain.PageItem) driving.ScanProgress {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.Processed++
	last := *page
	s.status.Last = &last
	return copyProgress(s.status)
}

func (s *ScanService) finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.Running = false
}

func copyProgress(p driving.ScanProgress) driving.ScanProgress {
	out := p
	if p.Last != nil {
		last := *p.Last
		out.Last = &last
	}
	return out
}
