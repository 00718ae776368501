package imaging

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
)

// ImageCache keeps decoded input images keyed by path so repeated tool calls
// against the same photo do not decode it again.
//
// Images are keyed by the exact path string given to Load. Different paths to
// the same file (relative vs absolute) are cached separately. Nothing is
// evicted automatically; use Evict or Clear to release memory.
//
// ImageCache is safe for concurrent use by multiple goroutines.
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]image.Image
}

// NewImageCache returns an empty cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]image.Image),
	}
}

// Load returns the cached image for path, decoding it on first use.
//
// Parameters:
//   - path: File path to the image. PNG, JPEG, GIF, TIFF and BMP are
//     supported.
//
// Returns:
//   - image.Image: The decoded image. JPEG files are rotated according to
//     their EXIF orientation so tiles line up with what a viewer shows.
//   - error: Non-nil if the file cannot be opened or decoded.
//
// # Errors
//
//   - Returns error if the file does not exist or cannot be read
//   - Returns error if the format is not supported or the data is corrupt
func (c *ImageCache) Load(path string) (image.Image, error) {
	c.mu.RLock()
	if img, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	img, err := Open(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()

	return img, nil
}

// Evict removes path from the cache and reports whether it was cached.
func (c *ImageCache) Evict(path string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.images[path]
	delete(c.images, path)
	return ok
}

// Clear removes every cached image and returns how many were dropped.
func (c *ImageCache) Clear() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.images)
	c.images = make(map[string]image.Image)
	return n
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// Open decodes the image at path, applying EXIF auto-orientation.
func Open(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	return img, nil
}

// Save encodes img to path. The format follows the file extension
// (png, jpg/jpeg, gif, tif/tiff, bmp).
func Save(img image.Image, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := imaging.Save(img, path, imaging.JPEGQuality(95)); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	return nil
}

// ImageInfo contains metadata about a loaded input image.
type ImageInfo struct {
	// Width is the image width in pixels, after EXIF orientation.
	Width int `json:"width"`

	// Height is the image height in pixels, after EXIF orientation.
	Height int `json:"height"`

	// Format is the lowercase format name taken from the file extension,
	// or "unknown".
	Format string `json:"format"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads path through cache and reports its size and format.
// The format comes from the file extension.
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	format := "unknown"
	if f, err := imaging.FormatFromFilename(path); err == nil {
		format = strings.ToLower(f.String())
	}

	bounds := img.Bounds()
	return &ImageInfo{
		Width:         bounds.Dx(),
		Height:        bounds.Dy(),
		Format:        format,
		FileSizeBytes: stat.Size(),
	}, nil
}

// DimensionsResult holds the width and height of an image.
type DimensionsResult struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// GetDimensions returns the size of the image at path, loading it through
// cache.
func GetDimensions(cache *ImageCache, path string) (*DimensionsResult, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	return &DimensionsResult{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}
