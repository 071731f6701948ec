package driven

import "image"

// QRDecoder performs one raw QR decode attempt.
// Implementations must not try polarity inversion on their own;
// the decode chain controls inversion explicitly.
type QRDecoder interface {
	// Decode returns the untrimmed payload, or an error if no code was found.
	Decode(img image.Image) (string, error)
}
