package domain

// ImageFormat is the encoding of an ImageBlob.
type ImageFormat string

// Supported image formats.
const (
	FormatJPEG ImageFormat = "jpeg"
	FormatPNG  ImageFormat = "png"
	FormatGIF  ImageFormat = "gif"
	FormatTIFF ImageFormat = "tiff"
	FormatBMP  ImageFormat = "bmp"
	FormatWebP ImageFormat = "webp"
)

// MaxPagePixels bounds the pixel count of any page buffer, about 256 MB
// as NRGBA. A4 scanned at 600 dpi needs roughly half of it.
const MaxPagePixels = 64 << 20

// FitsPixelBudget reports whether a w by h buffer is non-empty and
// within MaxPagePixels.
func FitsPixelBudget(w, h int) bool {
	return w > 0 && h > 0 && int64(w)*int64(h) <= MaxPagePixels
}

// ImageBlob holds the encoded bytes of one page image.
type ImageBlob struct {
	// Name is a display name such as "scan.pdf#2".
	Name string

	// Format is the encoding of Data.
	Format ImageFormat

	// Data is the encoded image.
	Data []byte

	// Page is the 1-based page number inside a PDF, 0 for plain images.
	Page int
}

// RawScan is an imported file before it is split into page images.
type RawScan struct {
	// URI is the original file path.
	URI string

	// Name is the file base name.
	Name string

	// MIMEType is the sniffed content type (e.g., "application/pdf").
	MIMEType string

	// Content is the raw bytes.
	Content []byte
}
