package services

import (
	"image"

	"github.com/disintegration/imaging"
	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
)

// QRDecoder decodes QR payloads from camera frames using the zxing port.
// Frames are grayscaled first; binarization works noticeably better on the
// flattened image than on raw camera color.
type QRDecoder struct {
	reader gozxing.Reader
}

// NewQRDecoder creates a new QR decoder
func NewQRDecoder() *QRDecoder {
	return &QRDecoder{reader: qrcode.NewQRCodeReader()}
}

// Decode attempts to read a QR code out of one frame. A frame without a
// readable code returns ("", nil); the scan loop just moves on to the next
// frame.
func (d *QRDecoder) Decode(img image.Image) (string, error) {
	if img == nil {
		return "", nil
	}

	gray := imaging.Grayscale(img)
	bmp, err := gozxing.NewBinaryBitmapFromImage(gray)
	if err != nil {
		return "", nil
	}

	result, err := d.reader.Decode(bmp, nil)
	if err != nil {
		// NotFound/Checksum/Format all mean the same thing here: this frame
		// has no readable code.
		return "", nil
	}
	return result.GetText(), nil
}
