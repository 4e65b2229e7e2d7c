package models

import (
	"html/template"
	"time"
)

type Post struct {
	ID          int
	Slug        string
	Title       string
	Description string
	Date        time.Time
	Image       string
	Category    string
	AuthorName  string
	Body        template.HTML
}
