package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
)

var ErrNotAnImage = errors.New("content is not a decodable image")

// ImageProcessor produces fixed-size thumbnails for uploaded pictures.
type ImageProcessor struct {
	width   int
	height  int
	quality int
}

func NewImageProcessor(width, height int) *ImageProcessor {
	return &ImageProcessor{width: width, height: height, quality: 80}
}

// Decode reads an image, honouring EXIF orientation.
func (p *ImageProcessor) Decode(content io.Reader) (image.Image, error) {
	img, err := imaging.Decode(content, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotAnImage, err)
	}
	return img, nil
}

// GenerateThumbnail crops to the centre and scales to exactly width x height, encoded as JPEG.
func (p *ImageProcessor) GenerateThumbnail(img image.Image) (io.Reader, error) {
	thumbnail := imaging.Fill(img, p.width, p.height, imaging.Center, imaging.Lanczos)

	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, thumbnail, imaging.JPEG, imaging.JPEGQuality(p.quality)); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}

	return buf, nil
}
