package api

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/terraincognita07/pitlane/internal/models"
)

const (
	homeRecentPosts    = 3
	homeFeaturedCourse = 3
)

// ShowHome renders the landing page with the current month calendar,
// recent posts and a few courses. A failing section is logged and left out.
func (handler *Handler) ShowHome(c *fiber.Ctx) error {
	data := fiber.Map{
		"Title":       localizedPageTitle(currentMessages(c), "meta.title.home", "Pitlane | Go-kart track"),
		"RecentPosts": handler.blog.Recent(homeRecentPosts, 0),
	}

	calendar, err := handler.loadCalendarView(c, "/")
	if err != nil {
		handler.logger.Error("home calendar failed", zap.Error(err))
	} else {
		data["Calendar"] = calendar
	}

	courses, err := handler.courses.All(c.UserContext())
	if err != nil {
		handler.logger.Error("home courses failed", zap.Error(err))
		courses = []models.Course{}
	}
	if len(courses) > homeFeaturedCourse {
		courses = courses[:homeFeaturedCourse]
	}
	data["Courses"] = courses

	return handler.render(c, "home", data)
}
