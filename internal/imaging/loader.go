package imaging

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Loader resolves an image path to a decoded image.
//
// A nil image or a non-nil error both mean the image is unavailable. Loaders are
// called synchronously from the goroutine that owns the overlay, so any caching
// or I/O strategy must be safe to run inline.
type Loader interface {
	GetImage(path string) (image.Image, error)
}

// ImageCache provides thread-safe caching of loaded images to avoid redundant disk reads.
//
// The cache stores decoded image.Image objects keyed by their file path. Once an image
// is loaded, subsequent Load() calls for the same path return the cached copy without
// disk I/O.
//
// Cached images are shared between callers and must be treated as read-only.
// The transform pipeline never modifies them; it always produces a new image.
//
// # File Monitoring
//
// After Watch() is called, the directory of every loaded image is monitored and a
// change to a cached file evicts it, so scripts see edits made on disk without
// restarting the server.
//
// # Example Usage
//
//	cache := imaging.NewImageCache()
//	img, err := cache.Load("/path/to/sprite.png")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cache.Evict("/path/to/sprite.png") // Optional: free memory
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]image.Image

	watcher *fsnotify.Watcher
	dirs    map[string]bool
}

// NewImageCache creates and initializes a new empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]image.Image),
		dirs:   make(map[string]bool),
	}
}

// Load retrieves an image from the cache or loads it from disk if not cached.
//
// Supported formats are PNG, JPEG, and GIF. Indexed PNG and GIF files decode to
// *image.Paletted, which keeps their color table available for palette remapping.
//
// The image is cached using the exact path string provided. Different paths to the
// same file (e.g., relative vs absolute) will result in separate cache entries.
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
	c.watchDirLocked(filepath.Dir(path))
	c.mu.Unlock()

	return img, nil
}

// GetImage implements Loader.
func (c *ImageCache) GetImage(path string) (image.Image, error) {
	return c.Load(path)
}

// Clear removes all images from the cache, freeing the associated memory.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]image.Image)
	c.mu.Unlock()
}

// Evict removes a specific image from the cache by its path.
//
// If the path is not in the cache, this method does nothing.
// After eviction, the next Load() call for this path will read from disk.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// Watch starts monitoring cached files for changes until ctx is cancelled or
// Close is called. Directories of images already in the cache are watched
// immediately; later loads add their directories as they happen.
func (c *ImageCache) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	c.mu.Lock()
	if c.watcher != nil {
		c.mu.Unlock()
		w.Close()
		return errors.New("image cache is already watching")
	}
	c.watcher = w
	c.dirs = make(map[string]bool)
	for path := range c.images {
		c.watchDirLocked(filepath.Dir(path))
	}
	c.mu.Unlock()

	go c.watchLoop(ctx, w)
	return nil
}

// Close stops file monitoring. It is safe to call when Watch was never started.
func (c *ImageCache) Close() error {
	c.mu.Lock()
	w := c.watcher
	c.watcher = nil
	c.mu.Unlock()
	if w == nil {
		return nil
	}
	return w.Close()
}

// watchDirLocked adds dir to the watcher. c.mu must be held for writing.
func (c *ImageCache) watchDirLocked(dir string) {
	if c.watcher == nil || c.dirs[dir] {
		return
	}
	if err := c.watcher.Add(dir); err != nil {
		log.Printf("image watcher: cannot watch %s: %v", dir, err)
		return
	}
	c.dirs[dir] = true
}

func (c *ImageCache) watchLoop(ctx context.Context, w *fsnotify.Watcher) {
	for {
		select {
		case <-ctx.Done():
			c.Close()
			return
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
				c.evictMatching(ev.Name)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			log.Printf("image watcher: %v", err)
		}
	}
}

// evictMatching drops every cache entry whose cleaned path equals name.
func (c *ImageCache) evictMatching(name string) {
	name = filepath.Clean(name)
	c.mu.Lock()
	defer c.mu.Unlock()
	for path := range c.images {
		if filepath.Clean(path) == name {
			delete(c.images, path)
		}
	}
}

// ImageInfo contains metadata about a loaded image file.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the detected image format: "png", "jpeg", "gif", or "unknown".
	// Detection is based on file extension, not file contents.
	Format string `json:"format"`

	// ColorDepth indicates the bit depth per channel: "8-bit" or "16-bit".
	ColorDepth string `json:"color_depth"`

	// HasAlpha indicates whether the image has an alpha (transparency) channel.
	HasAlpha bool `json:"has_alpha"`

	// Indexed is true when pixels are indices into a color table. Only indexed
	// images honor palette remapping and transparency injection.
	Indexed bool `json:"indexed"`

	// PaletteSize is the number of color table entries (0 when not indexed).
	PaletteSize int `json:"palette_size"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads an image through the cache and returns metadata about it.
//
// Color depth is determined by the Go image type:
//   - *image.RGBA64, *image.NRGBA64, *image.Gray16 -> "16-bit"
//   - All other types -> "8-bit"
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	ext := filepath.Ext(path)
	format := "unknown"
	switch ext {
	case ".png":
		format = "png"
	case ".jpg", ".jpeg":
		format = "jpeg"
	case ".gif":
		format = "gif"
	}

	info := &ImageInfo{
		Width:         bounds.Dx(),
		Height:        bounds.Dy(),
		Format:        format,
		ColorDepth:    "8-bit",
		FileSizeBytes: stat.Size(),
	}

	switch m := img.(type) {
	case *image.RGBA, *image.NRGBA:
		info.HasAlpha = true
	case *image.RGBA64, *image.NRGBA64:
		info.HasAlpha = true
		info.ColorDepth = "16-bit"
	case *image.Gray16:
		info.ColorDepth = "16-bit"
	case *image.Paletted:
		info.Indexed = true
		info.PaletteSize = len(m.Palette)
		for _, c := range m.Palette {
			if _, _, _, a := c.RGBA(); a != 0xffff {
				info.HasAlpha = true
				break
			}
		}
	}

	return info, nil
}
