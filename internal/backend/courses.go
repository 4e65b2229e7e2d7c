package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/terraincognita07/pitlane/internal/models"
)

const (
	coursesPageSize = 100
	maxCoursePages  = 20
)

// flexiblePrice accepts both JSON numbers and numeric strings.
type flexiblePrice float64

func (price *flexiblePrice) UnmarshalJSON(raw []byte) error {
	trimmed := strings.Trim(string(bytes.TrimSpace(raw)), `"`)
	if trimmed == "" || trimmed == "null" {
		*price = 0
		return nil
	}
	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return fmt.Errorf("invalid price %q: %w", trimmed, err)
	}
	*price = flexiblePrice(value)
	return nil
}

type remoteCourse struct {
	ID          uint            `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       flexiblePrice   `json:"price"`
	Duration    json.RawMessage `json:"duration"`
	ImageURL    string          `json:"imageUrl"`
	ImageURLAlt string          `json:"image_url"`
	Image       string          `json:"image"`
}

func (course remoteCourse) model() models.Course {
	image := course.ImageURL
	if image == "" {
		image = course.ImageURLAlt
	}
	if image == "" {
		image = course.Image
	}
	return models.Course{
		ID:          course.ID,
		Title:       strings.TrimSpace(course.Title),
		Description: course.Description,
		Price:       float64(course.Price),
		Duration:    rawText(course.Duration),
		ImageURL:    image,
	}
}

type coursePage struct {
	Data     []remoteCourse `json:"data"`
	LastPage int            `json:"last_page"`
}

// ListCourses walks the paginated courses endpoint until a short page.
// The endpoint answers either with a bare array or a {"data": [...]} envelope.
func (client *Client) ListCourses(ctx context.Context) ([]models.Course, error) {
	courses := make([]models.Course, 0)
	for page := 1; page <= maxCoursePages; page++ {
		raw := json.RawMessage{}
		if err := client.do(ctx, http.MethodGet, "courses?"+pageQuery(page, coursesPageSize), nil, "", "", &raw); err != nil {
			return nil, err
		}

		batch, lastPage, err := decodeCoursePage(raw)
		if err != nil {
			return nil, err
		}
		for _, course := range batch {
			courses = append(courses, course.model())
		}

		if len(batch) < coursesPageSize || (lastPage > 0 && page >= lastPage) {
			break
		}
	}
	return courses, nil
}

func decodeCoursePage(raw json.RawMessage) ([]remoteCourse, int, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		list := []remoteCourse{}
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, 0, fmt.Errorf("decode courses: %w", err)
		}
		return list, 0, nil
	}

	page := coursePage{}
	if err := json.Unmarshal(trimmed, &page); err != nil {
		return nil, 0, fmt.Errorf("decode courses: %w", err)
	}
	return page.Data, page.LastPage, nil
}

func rawText(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return ""
	}
	var text string
	if err := json.Unmarshal(trimmed, &text); err == nil {
		return text
	}
	return string(trimmed)
}
