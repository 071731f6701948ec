package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/qrdoc-cli/internal/core/domain"
	"github.com/custodia-labs/qrdoc-cli/internal/core/ports/driven"
	"github.com/custodia-labs/qrdoc-cli/internal/core/ports/driving"
	"github.com/custodia-labs/qrdoc-cli/internal/logger"
)

// Ensure ExportService implements the interface.
var _ driving.ExportService = (*ExportService)(nil)

// ExportService writes one assembled document per group.
type ExportService struct {
	grouping  driving.GroupingService
	images    driven.ImageStore
	assembler driven.DocumentAssembler
	workers   int
}

// NewExportService creates a new export service.
// workers bounds how many groups are assembled at once.
func NewExportService(
	grouping driving.GroupingService,
	images driven.ImageStore,
	assembler driven.DocumentAssembler,
	workers int,
) *ExportService {
	if workers < 1 {
		workers = 1
	}
	return &ExportService{
		grouping:  grouping,
		images:    images,
		assembler: assembler,
		workers:   workers,
	}
}

// ExportAll writes every group into dir, in group order.
func (s *ExportService) ExportAll(ctx context.Context, dir string) ([]domain.ExportedDocument, error) {
	grouping, err := s.grouping.Groups(ctx)
	if err != nil {
		return nil, err
	}
	if len(grouping.Groups) == 0 {
		return nil, domain.ErrNothingToExport
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	names := uniqueFileNames(grouping.Groups, s.assembler.Extension())
	results := make([]domain.ExportedDocument, len(grouping.Groups))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i := range grouping.Groups {
		group := grouping.Groups[i]
		path := filepath.Join(dir, names[i])
		g.Go(func() error {
			doc, err := s.write(gctx, group, path)
			if err != nil {
				return fmt.Errorf("export %q: %w", group.Payload, err)
			}
			results[i] = *doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// ExportGroup writes a single group into dir.
func (s *ExportService) ExportGroup(ctx context.Context, payload, dir string) (*domain.ExportedDocument, error) {
	grouping, err := s.grouping.Groups(ctx)
	if err != nil {
		return nil, err
	}
	group, ok := grouping.Find(payload)
	if !ok {
		return nil, fmt.Errorf("group %q: %w", payload, domain.ErrNotFound)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	path := filepath.Join(dir, SafeFileName(payload)+s.assembler.Extension())
	return s.write(ctx, *group, path)
}

// write assembles a group into a temporary file and renames it into place.
func (s *ExportService) write(ctx context.Context, group domain.Group, path string) (*domain.ExportedDocument, error) {
	blobs := make([]domain.ImageBlob, 0, len(group.Pages))
	for _, p := range group.Pages {
		blob, err := s.images.Get(ctx, p.ImageRef)
		if err != nil {
			return nil, fmt.Errorf("page %s: %w", p.Label(), err)
		}
		blobs = append(blobs, *blob)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".qrdoc-*")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := s.assembler.Assemble(ctx, group.Payload, blobs, tmp); err != nil {
		tmp.Close()
		return nil, err
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return nil, fmt.Errorf("move document into place: %w", err)
	}

	logger.Info("Exported %q (%d pages) to %s", group.Payload, len(blobs), path)
	return &domain.ExportedDocument{Payload: group.Payload, Path: path, Pages: len(blobs)}, nil
}

// maxFileNameBytes caps a sanitised name, leaving room for a -N suffix
// and the extension under the usual 255 byte NAME_MAX.
const maxFileNameBytes = 200

// SafeFileName turns a payload into a portable file name of at most
// maxFileNameBytes bytes.
func SafeFileName(payload string) string {
	var b strings.Builder
	for _, r := range payload {
		switch {
		case r < 0x20 || r == 0x7f:
			b.WriteRune('_')
		case strings.ContainsRune(`/\<>:"|?*`, r):
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}
	name := strings.Trim(truncateUTF8(b.String(), maxFileNameBytes), ". ")
	if name == "" {
		return "document"
	}
	return name
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// uniqueFileNames assigns each group a distinct file name, adding -N
// suffixes when different payloads sanitise to the same name.
func uniqueFileNames(groups []domain.Group, ext string) []string {
	used := make(map[string]bool, len(groups))
	names := make([]string, len(groups))
	for i, g := range groups {
		base := SafeFileName(g.Payload)
		name := base
		// case-insensitive filesystems would merge DOC and doc
		for n := 2; used[strings.ToLower(name)]; n++ {
			name = fmt.Sprintf("%s-%d", base, n)
		}
		used[strings.ToLower(name)] = true
		names[i] = name + ext
	}
	return names
}
