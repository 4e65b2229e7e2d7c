package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/terraincognita07/pitlane/internal/cache"
	"github.com/terraincognita07/pitlane/internal/models"
	"go.uber.org/zap"
)

const coursesCacheKey = "courses:all"

var ErrCourseNotFound = errors.New("course not found")

// CourseSource returns every course in catalog order.
type CourseSource interface {
	ListCourses(ctx context.Context) ([]models.Course, error)
}

type CourseLister interface {
	ListAll() ([]models.Course, error)
}

type localCourseSource struct {
	courses CourseLister
}

// NewLocalCourseSource adapts the courses table to CourseSource.
func NewLocalCourseSource(courses CourseLister) CourseSource {
	return localCourseSource{courses: courses}
}

func (source localCourseSource) ListCourses(context.Context) ([]models.Course, error) {
	return source.courses.ListAll()
}

type CourseCatalog struct {
	source CourseSource
	store  cache.Store
	ttl    time.Duration
	logger *zap.Logger
}

func NewCourseCatalog(source CourseSource, store cache.Store, ttl time.Duration, logger *zap.Logger) *CourseCatalog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseCatalog{source: source, store: store, ttl: ttl, logger: logger}
}

func (catalog *CourseCatalog) All(ctx context.Context) ([]models.Course, error) {
	return cache.Remember(ctx, catalog.store, catalog.logger, coursesCacheKey, catalog.ttl, func(ctx context.Context) ([]models.Course, error) {
		courses, err := catalog.source.ListCourses(ctx)
		if err != nil {
			return nil, fmt.Errorf("list courses: %w", err)
		}
		return courses, nil
	})
}

// FindBySlug matches the slug of the title, falling back to a numeric id.
func (catalog *CourseCatalog) FindBySlug(ctx context.Context, slug string) (models.Course, error) {
	courses, err := catalog.All(ctx)
	if err != nil {
		return models.Course{}, err
	}

	wanted := strings.ToLower(strings.TrimSpace(slug))
	for _, course := range courses {
		if CourseSlug(course) == wanted {
			return course, nil
		}
	}
	if id, err := strconv.ParseUint(wanted, 10, 64); err == nil {
		for _, course := range courses {
			if uint64(course.ID) == id {
				return course, nil
			}
		}
	}
	return models.Course{}, ErrCourseNotFound
}

func CourseSlug(course models.Course) string {
	return Slugify(course.Title)
}

// FormatPrice renders a price with two decimals.
func FormatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', 2, 64)
}
