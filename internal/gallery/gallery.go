// Package gallery indexes the photo gallery directory and renders thumbnails.
package gallery

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"seaview-backend/internal/domain"

	_ "golang.org/x/image/bmp"  // Register BMP decoder
	_ "golang.org/x/image/webp" // Register WebP decoder
	"golang.org/x/sync/errgroup"
)

// scanConcurrency bounds how many image headers are decoded at once
const scanConcurrency = 4

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".bmp":  true,
}

// Image is an indexed gallery file
type Image struct {
	Name    string
	Format  string
	Width   int
	Height  int
	ModTime time.Time
}

// Library holds the current index of the gallery directory
type Library struct {
	dir string
	log *slog.Logger

	mu     sync.RWMutex
	images []Image
	byName map[string]Image
}

func NewLibrary(dir string, log *slog.Logger) *Library {
	if log == nil {
		log = slog.Default()
	}
	return &Library{
		dir:    dir,
		log:    log,
		byName: map[string]Image{},
	}
}

// Dir returns the indexed directory
func (l *Library) Dir() string {
	return l.dir
}

// Refresh rescans the directory. Files that are not decodable images are
// skipped with a warning; only directory-level failures are returned.
func (l *Library) Refresh(ctx context.Context) error {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return fmt.Errorf("gallery: read %s: %w", l.dir, err)
	}

	var candidates []os.DirEntry
	for _, e := range entries {
		if e.Type().IsRegular() && imageExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			candidates = append(candidates, e)
		}
	}

	results := make([]*Image, len(candidates))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(scanConcurrency)
	for i, entry := range candidates {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			img, err := l.inspect(entry)
			if err != nil {
				l.log.Warn("skipping gallery file", "file", entry.Name(), "error", err)
				return nil
			}
			results[i] = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	images := make([]Image, 0, len(results))
	byName := make(map[string]Image, len(results))
	for _, img := range results {
		if img != nil {
			images = append(images, *img)
			byName[img.Name] = *img
		}
	}
	sort.Slice(images, func(i, j int) bool { return images[i].Name < images[j].Name })

	l.mu.Lock()
	l.images = images
	l.byName = byName
	l.mu.Unlock()

	l.log.Debug("gallery indexed", "dir", l.dir, "images", len(images))
	return nil
}

func (l *Library) inspect(entry os.DirEntry) (*Image, error) {
	info, err := entry.Info()
	if err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Join(l.dir, entry.Name()))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	return &Image{
		Name:    entry.Name(),
		Format:  format,
		Width:   cfg.Width,
		Height:  cfg.Height,
		ModTime: info.ModTime(),
	}, nil
}

// Images returns the indexed images sorted by name
func (l *Library) Images() []Image {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]Image(nil), l.images...)
}

// Lookup resolves a gallery file by name. Names that could escape the
// directory are rejected before the index is consulted.
func (l *Library) Lookup(name string) (Image, string, error) {
	if name == "" || name != filepath.Base(name) || strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		return Image{}, "", domain.ErrInvalidImageName
	}

	l.mu.RLock()
	img, ok := l.byName[name]
	l.mu.RUnlock()
	if !ok {
		return Image{}, "", domain.ErrImageNotFound
	}
	return img, filepath.Join(l.dir, name), nil
}

// AltText derives a readable caption from a file name,
// e.g. "garden_courtyard-2.jpg" -> "Garden courtyard 2".
func AltText(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	base = strings.Join(strings.Fields(strings.NewReplacer("_", " ", "-", " ").Replace(base)), " ")
	if base == "" {
		return name
	}
	r, size := utf8.DecodeRuneInString(base)
	return string(unicode.ToUpper(r)) + base[size:]
}
