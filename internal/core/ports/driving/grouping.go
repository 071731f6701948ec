package driving

import (
	"context"

	"github.com/custodia-labs/qrdoc-cli/internal/core/domain"
)

// GroupingService derives groups from the current page collection.
type GroupingService interface {
	// Groups recomputes the grouping from a snapshot of the pages.
	Groups(ctx context.Context) (*domain.Grouping, error)

	// Suggest returns existing group payloads close to payload.
	Suggest(ctx context.Context, payload string) ([]string, error)
}
