package services

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/qrdoc-cli/internal/core/domain"
	"github.com/custodia-labs/qrdoc-cli/internal/core/ports/driven"
)

// --- Fakes shared by the service tests ---

var errNoCode = errors.New("no code")

var testTime = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

// funcDecoder implements driven.QRDecoder with a function.
type funcDecoder struct {
	mu    sync.Mutex
	calls int
	fn    func(img *image.NRGBA) (string, error)
}

func (d *funcDecoder) Decode(img image.Image) (string, error) {
	d.mu.Lock()
	d.calls++
	d.mu.Unlock()
	return d.fn(img.(*image.NRGBA))
}

func (d *funcDecoder) Calls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

// binaryDecoder finds payload only in strictly black and white images
// whose top-left pixel is black, mimicking a decoder that needs clean
// dark-on-light modules.
func binaryDecoder(payload string) *funcDecoder {
	return &funcDecoder{fn: func(img *image.NRGBA) (string, error) {
		for i := 0; i < len(img.Pix); i += 4 {
			for _, c := range img.Pix[i : i+3] {
				if c != 0 && c != 255 {
					return "", errNoCode
				}
			}
		}
		if img.NRGBAAt(img.Rect.Min.X, img.Rect.Min.Y).R != 0 {
			return "", errNoCode
		}
		return payload, nil
	}}
}

// pattern returns a checkerboard of two gray levels, dark first.
func pattern(first, second uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			v := second
			if (x+y)%2 == 0 {
				v = first
			}
			img.SetNRGBA(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return img
}

// stubRasterizer implements driven.Rasterizer from a map of refs.
type stubRasterizer struct {
	images map[string]*image.NRGBA
}

func (r *stubRasterizer) Rasterize(_ context.Context, ref string) (*image.NRGBA, error) {
	img, ok := r.images[ref]
	if !ok || img == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrImageUnreadable, ref)
	}
	return img, nil
}

// stubReader implements driven.ScanReader over in-memory files.
// Keys ending in "/" are directories listing the files beneath them.
type stubReader struct {
	files map[string][]byte
}

func (r *stubReader) List(_ context.Context, p string) ([]string, error) {
	if _, ok := r.files[p]; ok {
		return []string{p}, nil
	}
	prefix := strings.TrimSuffix(p, "/") + "/"
	var out []string
	for name := range r.files {
		if strings.HasPrefix(name, prefix) {
			out = append(out, name)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, p)
	}
	return out, nil
}

func (r *stubReader) Read(_ context.Context, p string) (*domain.RawScan, error) {
	content, ok := r.files[p]
	if !ok {
		return nil, domain.ErrNotFound
	}
	mimeType := "image/png"
	if strings.HasSuffix(p, ".pdf") {
		mimeType = "application/pdf"
	}
	return &domain.RawScan{URI: p, Name: path.Base(p), MIMEType: mimeType, Content: content}, nil
}

// stubRegistry splits "pdf" content on '|' into one blob per page and
// rejects content starting with "bad".
type stubRegistry struct{}

func (stubRegistry) Normalise(_ context.Context, raw *domain.RawScan) ([]domain.ImageBlob, error) {
	if strings.HasPrefix(string(raw.Content), "bad") {
		return nil, domain.ErrImageUnreadable
	}
	if raw.MIMEType != "application/pdf" {
		return []domain.ImageBlob{{Name: raw.Name, Format: domain.FormatPNG, Data: raw.Content}}, nil
	}
	var blobs []domain.ImageBlob
	for i, part := range strings.Split(string(raw.Content), "|") {
		blobs = append(blobs, domain.ImageBlob{Name: raw.Name, Format: domain.FormatPNG, Data: []byte(part), Page: i + 1})
	}
	return blobs, nil
}

func (stubRegistry) Register(driven.Normaliser) {}

func (stubRegistry) SupportedMIMETypes() []string {
	return []string{"application/pdf", "image/png"}
}

// recordingAssembler implements driven.DocumentAssembler by writing the
// page data of each blob on its own line.
type recordingAssembler struct {
	mu    sync.Mutex
	calls map[string]int
	err   error
}

func (a *recordingAssembler) Assemble(_ context.Context, name string, pages []domain.ImageBlob, w io.Writer) error {
	a.mu.Lock()
	if a.calls == nil {
		a.calls = make(map[string]int)
	}
	a.calls[name]++
	a.mu.Unlock()

	if a.err != nil {
		return a.err
	}
	for _, p := range pages {
		if _, err := fmt.Fprintf(w, "%s\n", p.Data); err != nil {
			return err
		}
	}
	return nil
}

func (a *recordingAssembler) Extension() string { return ".pdf" }
