package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/terraincognita07/pitlane/internal/cache"
	"github.com/terraincognita07/pitlane/internal/models"
	"go.uber.org/zap"
)

const galleryCacheKey = "gallery:listing"

var (
	galleryCampaigns = []string{"Promo X", "Promo Y", "Promo Z", "Promo Alpha", "Promo Beta"}
	galleryCourses   = []string{"Course A", "Course B"}
	galleryYears     = []string{"2019", "2020", "2021", "2022", "2023", "2024", "2025"}
)

// GalleryCatalog lists the files of the uploads directory with facet
// values assigned by position.
type GalleryCatalog struct {
	dir    string
	store  cache.Store
	ttl    time.Duration
	logger *zap.Logger
}

func NewGalleryCatalog(dir string, store cache.Store, ttl time.Duration, logger *zap.Logger) *GalleryCatalog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GalleryCatalog{dir: dir, store: store, ttl: ttl, logger: logger}
}

// Images returns the full listing, including files that cannot be
// displayed. A scan failure is logged and yields an empty list.
func (catalog *GalleryCatalog) Images(ctx context.Context) []models.GalleryImage {
	images, err := cache.Remember(ctx, catalog.store, catalog.logger, galleryCacheKey, catalog.ttl, func(context.Context) ([]models.GalleryImage, error) {
		return ScanGalleryDir(catalog.dir)
	})
	if err != nil {
		catalog.logger.Error("gallery scan failed", zap.String("dir", catalog.dir), zap.Error(err))
		return []models.GalleryImage{}
	}
	return images
}

// ScanGalleryDir reads dir in name order. Hidden files and directories
// are skipped.
func ScanGalleryDir(dir string) ([]models.GalleryImage, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read uploads directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	images := make([]models.GalleryImage, 0, len(names))
	for index, name := range names {
		images = append(images, models.GalleryImage{
			Name:     name,
			Ext:      strings.TrimPrefix(filepath.Ext(name), "."),
			Campaign: galleryCampaigns[index%len(galleryCampaigns)],
			Course:   galleryCourses[index%len(galleryCourses)],
			Year:     galleryYears[index%len(galleryYears)],
		})
	}
	return images, nil
}

// GalleryImageURL resolves the public URL of an uploaded file.
func GalleryImageURL(image models.GalleryImage) string {
	return "/uploads/" + image.Name
}
