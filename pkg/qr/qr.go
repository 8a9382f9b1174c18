package qr

import qrcode "github.com/skip2/go-qrcode"

// Encoder renders a payload string into an image. The payload string itself
// is the stored contract; the image is presentation only.
type Encoder interface {
	Encode(payload string) ([]byte, error)
}

type pngEncoder struct{ size int }

// NewPNGEncoder returns an Encoder producing size×size PNG images.
func NewPNGEncoder(size int) Encoder {
	if size <= 0 {
		size = 256
	}
	return &pngEncoder{size: size}
}

func (e *pngEncoder) Encode(payload string) ([]byte, error) {
	return qrcode.Encode(payload, qrcode.Medium, e.size)
}
