package render

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"os"

	_ "golang.org/x/image/bmp"  // register decoder
	_ "golang.org/x/image/tiff" // register decoder
	_ "golang.org/x/image/webp" // register decoder
)

// Image is a decoded image together with the channel count of its source
// encoding, which decides the texture storage format.
type Image struct {
	Width    int
	Height   int
	Channels int
	Pixels   image.Image
}

// ImageReader decodes image files.
type ImageReader interface {
	ReadImage(path string) (*Image, error)
}

// ImageReaderFunc adapts a function to ImageReader.
type ImageReaderFunc func(path string) (*Image, error)

// ReadImage calls f.
func (f ImageReaderFunc) ReadImage(path string) (*Image, error) {
	return f(path)
}

// FileImageReader decodes files with the registered image decoders.
var FileImageReader ImageReader = ImageReaderFunc(ReadImage)

// ReadImage decodes a PNG, JPEG, BMP, TIFF or WebP file.
func ReadImage(path string) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	return DecodeImage(data)
}

// DecodeImage decodes an encoded image held in memory.
func DecodeImage(data []byte) (*Image, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	b := img.Bounds()
	return &Image{
		Width:    b.Dx(),
		Height:   b.Dy(),
		Channels: channelCount(data, format, img),
		Pixels:   img,
	}, nil
}

// channelCount reports how many channels the encoded file stores.
func channelCount(data []byte, format string, img image.Image) int {
	// PNG keeps the color type in the IHDR chunk right after the bit depth.
	const pngColorType = 25
	if format == "png" && len(data) > pngColorType {
		switch data[pngColorType] {
		case 0:
			return 1
		case 2:
			return 3
		case 4:
			return 2
		case 6:
			return 4
		}
	}
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		return 1
	case *image.YCbCr, *image.CMYK:
		return 3
	}
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		return 3
	}
	return 4
}
