// Package media stores uploaded catalog images, re-encoding them to bounded
// JPEGs with a thumbnail variant.
package media

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

const (
	maxSizeFull   = 800
	maxSizeThumb  = 300
	qualityFull   = 75
	qualityThumb  = 60
	maxUploadSize = 5 << 20
)

// Buckets mirror the storage areas images are grouped under.
const (
	BucketDresses = "dress_images"
	BucketShops   = "shop_images"
	BucketAvatars = "avatars"
)

var validBuckets = map[string]bool{
	BucketDresses: true,
	BucketShops:   true,
	BucketAvatars: true,
}

type Store struct {
	Dir string // media root; buckets are subdirectories
}

func NewStore(dir string) *Store { return &Store{Dir: dir} }

// Save decodes raw upload bytes, stores the bounded full-size JPEG and a
// thumbnail, and returns the bucket-relative path of the full image
// ("dress_images/<id>.jpg"). The thumbnail sits next to it with a _thumb
// suffix.
func (s *Store) Save(bucket, id string, data []byte) (string, error) {
	if !validBuckets[bucket] {
		return "", fmt.Errorf("unknown media bucket %q", bucket)
	}
	if len(data) == 0 || len(data) > maxUploadSize {
		return "", fmt.Errorf("upload size %d out of range", len(data))
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	dir := filepath.Join(s.Dir, bucket)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	if err := s.writeJPEG(filepath.Join(dir, id+".jpg"), bound(img, maxSizeFull), qualityFull); err != nil {
		return "", err
	}
	if err := s.writeJPEG(filepath.Join(dir, id+"_thumb.jpg"), bound(img, maxSizeThumb), qualityThumb); err != nil {
		return "", err
	}

	return bucket + "/" + id + ".jpg", nil
}

func (s *Store) writeJPEG(path string, img image.Image, quality int) error {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return fmt.Errorf("encode jpeg: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

// bound shrinks img so neither dimension exceeds maxDim, keeping aspect ratio.
func bound(img image.Image, maxDim int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxDim && h <= maxDim {
		return img
	}
	if w > h {
		return imaging.Resize(img, maxDim, 0, imaging.Lanczos)
	}
	return imaging.Resize(img, 0, maxDim, imaging.Lanczos)
}

// ThumbPath maps a stored image path to its thumbnail variant.
func ThumbPath(imagePath string) string {
	ext := filepath.Ext(imagePath)
	return strings.TrimSuffix(imagePath, ext) + "_thumb" + ext
}
