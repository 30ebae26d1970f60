package imaging

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"path/filepath"
	"sync"
)

// ImageCache caches decoded images and their grayscale conversions by path.
//
// Matching an image against several others decodes it once. Entries stay in
// memory until Evict or Clear is called.
//
// # Example Usage
//
//	cache := imaging.NewImageCache()
//	gray, err := cache.LoadGray("/path/to/scene.png")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	smoothed := imaging.Smooth(gray, 2)
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]image.Image
	grays  map[string]*image.Gray
}

// NewImageCache creates an empty cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]image.Image),
		grays:  make(map[string]*image.Gray),
	}
}

// Load returns the decoded image at path, reading it from disk on first use.
//
// Supported formats are PNG, JPEG and GIF. The path string is the cache key,
// so a relative and an absolute path to one file are cached separately.
func (c *ImageCache) Load(path string) (image.Image, error) {
	c.mu.RLock()
	if img, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()

	return img, nil
}

// LoadGray returns the grayscale raster of the image at path. The
// conversion is cached alongside the decoded image.
func (c *ImageCache) LoadGray(path string) (*image.Gray, error) {
	c.mu.RLock()
	if gray, ok := c.grays[path]; ok {
		c.mu.RUnlock()
		return gray, nil
	}
	c.mu.RUnlock()

	img, err := c.Load(path)
	if err != nil {
		return nil, err
	}
	gray := ToGray(img)

	c.mu.Lock()
	c.grays[path] = gray
	c.mu.Unlock()

	return gray, nil
}

// Clear drops every cached image.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]image.Image)
	c.grays = make(map[string]*image.Gray)
	c.mu.Unlock()
}

// Evict drops the entries for one path. Unknown paths are ignored.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	delete(c.grays, path)
	c.mu.Unlock()
}

// ImageInfo describes a loaded image file.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is "png", "jpeg", "gif" or "unknown", taken from the extension.
	Format string `json:"format"`

	// Grayscale reports whether the file decodes to a single channel, in
	// which case no color conversion happens before detection.
	Grayscale bool `json:"grayscale"`

	// FileSizeBytes is the size of the file on disk.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads the image at path through cache and describes it.
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
	switch filepath.Ext(path) {
	case ".png":
		format = "png"
	case ".jpg", ".jpeg":
		format = "jpeg"
	case ".gif":
		format = "gif"
	}

	grayscale := false
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		grayscale = true
	}

	bounds := img.Bounds()
	return &ImageInfo{
		Width:         bounds.Dx(),
		Height:        bounds.Dy(),
		Format:        format,
		Grayscale:     grayscale,
		FileSizeBytes: stat.Size(),
	}, nil
}

// DimensionsResult contains the width and height of an image.
type DimensionsResult struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// GetDimensions returns the dimensions of the image at path.
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
