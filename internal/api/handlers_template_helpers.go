package api

import (
	"html/template"
)

func (handler *Handler) templateFuncMap() template.FuncMap {
	return template.FuncMap{
		"formatDate":    formatTemplateDate,
		"formatPrice":   formatTemplatePrice,
		"time12h":       formatTemplateTime12h,
		"t":             templateTranslate,
		"tf":            templateTranslatef,
		"errorText":     localizeError,
		"isActiveRoute": isActiveTemplateRoute,
		"toJSON":        templateToJSON,
		"dict":          templateDict,
		"add":           templateAdd,
		"imageURL":      templateImageURL,
		"slug":          templateSlug,
		"courseSlug":    templateCourseSlug,
		"monthYear":     handler.templateMonthYear,
		"longDate":      handler.templateLongDate,
		"weekdayShort":  handler.templateWeekdayShort,
	}
}
