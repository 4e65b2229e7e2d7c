package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/terraincognita07/pitlane/internal/services"
)

const relatedPostsLimit = 3

func (handler *Handler) ShowBlog(c *fiber.Ctx) error {
	posts := handler.blog.List()
	pagination, query, redirected, err := resolvePage(c, "/blog", len(posts))
	if redirected || err != nil {
		return err
	}

	messages := currentMessages(c)
	return handler.render(c, "blog", fiber.Map{
		"Title":      localizedPageTitle(messages, "meta.title.blog", "Blog | Pitlane"),
		"Posts":      services.PageSlice(posts, pagination),
		"Pagination": buildPaginationView("/blog", query, pagination),
	})
}

func (handler *Handler) ShowBlogPost(c *fiber.Ctx) error {
	post, err := handler.blog.Find(c.Params("slug"))
	if errors.Is(err, services.ErrPostNotFound) {
		return handler.NotFound(c)
	}
	if err != nil {
		return handler.serverError(c, "failed to load post", err)
	}

	return handler.render(c, "blog_post", fiber.Map{
		"Title":   post.Title + " | Pitlane",
		"Post":    post,
		"Related": handler.blog.Recent(relatedPostsLimit, post.ID),
	})
}
