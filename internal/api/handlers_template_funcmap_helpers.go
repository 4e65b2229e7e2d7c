package api

import (
	"encoding/json"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/terraincognita07/pitlane/internal/models"
	"github.com/terraincognita07/pitlane/internal/services"
)

func formatTemplateDate(value time.Time, layout string) string {
	if value.IsZero() {
		return ""
	}
	return value.Format(layout)
}

func formatTemplatePrice(value float64) string {
	return services.FormatPrice(value)
}

func formatTemplateTime12h(value string) string {
	return services.FormatTime12h(value)
}

func templateTranslate(messages map[string]string, key string) string {
	return translateMessage(messages, key)
}

func templateTranslatef(messages map[string]string, key string, args ...any) string {
	return fmt.Sprintf(translateMessage(messages, key), args...)
}

func isActiveTemplateRoute(currentPath string, route string) bool {
	path := strings.TrimSpace(currentPath)
	if path == "" {
		return route == "/"
	}
	if route == "/" {
		return path == "/" || strings.HasPrefix(path, "/?")
	}
	return path == route || strings.HasPrefix(path, route+"?") || strings.HasPrefix(path, route+"/")
}

func templateToJSON(value any) template.JS {
	serialized, err := json.Marshal(value)
	if err != nil {
		return template.JS("null")
	}
	return template.JS(serialized)
}

func templateDict(values ...any) (map[string]any, error) {
	if len(values)%2 != 0 {
		return nil, fmt.Errorf("dict requires key-value pairs")
	}
	result := make(map[string]any, len(values)/2)
	for index := 0; index < len(values); index += 2 {
		key, ok := values[index].(string)
		if !ok {
			return nil, fmt.Errorf("dict key at index %d is not a string", index)
		}
		result[key] = values[index+1]
	}
	return result, nil
}

func templateAdd(left int, right int) int {
	return left + right
}

func templateImageURL(image models.GalleryImage) string {
	return services.GalleryImageURL(image)
}

func templateSlug(text string) string {
	return services.Slugify(text)
}

func templateCourseSlug(course models.Course) string {
	return services.CourseSlug(course)
}

func (handler *Handler) templateMonthYear(lang string, value time.Time) string {
	return handler.i18n.FormatMonthYear(lang, value)
}

func (handler *Handler) templateLongDate(lang string, value time.Time) string {
	return handler.i18n.FormatLongDate(lang, value)
}

func (handler *Handler) templateWeekdayShort(lang string, index int) string {
	return handler.i18n.WeekdayShortName(lang, time.Weekday(index%7))
}
