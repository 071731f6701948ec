package driven

import (
	"context"
	"image"
)

// Rasterizer loads a stored page image into a pixel buffer.
type Rasterizer interface {
	// Rasterize decodes the image behind ref.
	// Unreadable or corrupt input returns an error wrapping domain.ErrImageUnreadable.
	Rasterize(ctx context.Context, ref string) (*image.NRGBA, error)
}
