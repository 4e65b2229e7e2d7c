package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/terraincognita07/pitlane/internal/services"
)

func (handler *Handler) ShowCourses(c *fiber.Ctx) error {
	courses, err := handler.courses.All(c.UserContext())
	if err != nil {
		return handler.serverError(c, "failed to load courses", err)
	}

	pagination, query, redirected, err := resolvePage(c, "/courses", len(courses))
	if redirected || err != nil {
		return err
	}

	messages := currentMessages(c)
	return handler.render(c, "courses", fiber.Map{
		"Title":      localizedPageTitle(messages, "meta.title.courses", "Courses | Pitlane"),
		"Courses":    services.PageSlice(courses, pagination),
		"Pagination": buildPaginationView("/courses", query, pagination),
	})
}

func (handler *Handler) ShowCourse(c *fiber.Ctx) error {
	course, err := handler.courses.FindBySlug(c.UserContext(), c.Params("slug"))
	if errors.Is(err, services.ErrCourseNotFound) {
		return handler.NotFound(c)
	}
	if err != nil {
		return handler.serverError(c, "failed to load course", err)
	}

	return handler.render(c, "course", fiber.Map{
		"Title":  course.Title + " | Pitlane",
		"Course": course,
	})
}

func (handler *Handler) CoursesJSON(c *fiber.Ctx) error {
	courses, err := handler.courses.All(c.UserContext())
	if err != nil {
		handler.logger.Sugar().Errorw("courses api failed", "error", err)
		return apiError(c, fiber.StatusBadGateway, "failed to load courses")
	}
	return c.JSON(courses)
}
