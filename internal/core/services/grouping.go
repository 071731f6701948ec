package services

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/arbovm/levenshtein"

	"github.com/custodia-labs/qrdoc-cli/internal/core/domain"
	"github.com/custodia-labs/qrdoc-cli/internal/core/ports/driven"
	"github.com/custodia-labs/qrdoc-cli/internal/core/ports/driving"
)

// Ensure GroupingService implements the interface.
var _ driving.GroupingService = (*GroupingService)(nil)

const (
	suggestMaxDistance = 2
	suggestMinLength   = 4
)

// GroupingService derives groups from the page store.
type GroupingService struct {
	pages driven.PageStore
}

// NewGroupingService creates a new grouping service.
func NewGroupingService(pages driven.PageStore) *GroupingService {
	return &GroupingService{pages: pages}
}

// Groups recomputes the grouping from a snapshot of the store.
func (s *GroupingService) Groups(ctx context.Context) (*domain.Grouping, error) {
	pages, err := s.pages.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	return GroupPages(pages), nil
}

// Suggest returns existing group payloads within a small edit distance
// of payload, excluding an exact match. Short payloads get no suggestions.
func (s *GroupingService) Suggest(ctx context.Context, payload string) ([]string, error) {
	payload = strings.TrimSpace(payload)
	if len([]rune(payload)) < suggestMinLength {
		return nil, nil
	}

	grouping, err := s.Groups(ctx)
	if err != nil {
		return nil, err
	}

	var out []string
	for _, g := range grouping.Groups {
		if g.Payload == payload {
			continue
		}
		if levenshtein.Distance(payload, g.Payload) <= suggestMaxDistance {
			out = append(out, g.Payload)
		}
	}
	return out, nil
}

// GroupPages partitions pages into groups, unresolved and pending.
// It is a pure function of its input: every page lands in exactly one view.
func GroupPages(pages []domain.PageItem) *domain.Grouping {
	byPayload := make(map[string][]domain.PageItem)
	result := &domain.Grouping{}

	for _, p := range pages {
		switch {
		case p.HasPayload():
			byPayload[p.Payload] = append(byPayload[p.Payload], p)
		case p.State == domain.PageStateUnresolved:
			result.Unresolved = append(result.Unresolved, p)
		default:
			// pending, and in-progress pages whose attempt has not finished
			result.Pending = append(result.Pending, p)
		}
	}

	keys := make([]string, 0, len(byPayload))
	for k := range byPayload {
		keys = append(keys, k)
	}
	order := newNaturalOrder()
	slices.SortFunc(keys, order.Compare)

	result.Groups = make([]domain.Group, 0, len(keys))
	for _, k := range keys {
		members := byPayload[k]
		sortBySequence(members)
		result.Groups = append(result.Groups, domain.Group{Payload: k, Pages: members})
	}
	sortBySequence(result.Unresolved)
	sortBySequence(result.Pending)

	return result
}

func sortBySequence(pages []domain.PageItem) {
	slices.SortStableFunc(pages, func(a, b domain.PageItem) int {
		if c := cmp.Compare(a.Sequence, b.Sequence); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}
