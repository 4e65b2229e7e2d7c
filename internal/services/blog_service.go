package services

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/terraincognita07/pitlane/internal/models"
	"github.com/yuin/goldmark"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var ErrPostNotFound = errors.New("post not found")

type postFrontMatter struct {
	ID          int    `yaml:"id"`
	Title       string `yaml:"title"`
	Image       string `yaml:"image"`
	Author      string `yaml:"author"`
	Date        string `yaml:"date"`
	Category    string `yaml:"category"`
	Description string `yaml:"description"`
}

var markdownRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkhtml.WithHardWraps(),
	),
)

func newPostHTMLPolicy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowElements("figure", "figcaption")
	policy.AllowAttrs("loading").OnElements("img")
	policy.RequireNoFollowOnLinks(true)
	return policy
}

// BlogService holds the posts parsed from the content directory, newest
// first. It is read-only after loading.
type BlogService struct {
	posts  []models.Post
	bySlug map[string]int
	byID   map[int]int
}

// LoadBlog parses every *.md file in dir. A missing directory yields an
// empty blog.
func LoadBlog(dir string, logger *zap.Logger) (*BlogService, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	entries, err := os.ReadDir(dir)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read blog directory: %w", err)
	}

	policy := newPostHTMLPolicy()
	posts := make([]models.Post, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".md") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read post %s: %w", entry.Name(), err)
		}
		post, err := parsePost(string(raw), policy)
		if err != nil {
			return nil, fmt.Errorf("parse post %s: %w", entry.Name(), err)
		}
		posts = append(posts, post)
	}

	blog := NewBlogService(posts)
	logger.Info("blog loaded", zap.String("dir", dir), zap.Int("posts", len(blog.posts)))
	return blog, nil
}

// NewBlogService indexes posts by slug and id. Later duplicates are dropped.
func NewBlogService(posts []models.Post) *BlogService {
	sorted := make([]models.Post, len(posts))
	copy(sorted, posts)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].Date.After(sorted[j].Date)
		}
		return sorted[i].ID > sorted[j].ID
	})

	blog := &BlogService{
		posts:  make([]models.Post, 0, len(sorted)),
		bySlug: make(map[string]int, len(sorted)),
		byID:   make(map[int]int, len(sorted)),
	}
	for _, post := range sorted {
		if _, taken := blog.bySlug[post.Slug]; taken {
			continue
		}
		if _, taken := blog.byID[post.ID]; taken {
			continue
		}
		blog.bySlug[post.Slug] = len(blog.posts)
		blog.byID[post.ID] = len(blog.posts)
		blog.posts = append(blog.posts, post)
	}
	return blog
}

func (blog *BlogService) List() []models.Post {
	posts := make([]models.Post, len(blog.posts))
	copy(posts, blog.posts)
	return posts
}

func (blog *BlogService) Count() int {
	return len(blog.posts)
}

// Find resolves a post by slug or numeric id.
func (blog *BlogService) Find(key string) (models.Post, error) {
	key = strings.TrimSpace(key)
	if index, ok := blog.bySlug[strings.ToLower(key)]; ok {
		return blog.posts[index], nil
	}
	if id, err := strconv.Atoi(key); err == nil {
		if index, ok := blog.byID[id]; ok {
			return blog.posts[index], nil
		}
	}
	return models.Post{}, ErrPostNotFound
}

// Recent returns up to limit newest posts excluding the given id.
func (blog *BlogService) Recent(limit int, excludeID int) []models.Post {
	recent := make([]models.Post, 0, limit)
	for _, post := range blog.posts {
		if len(recent) >= limit {
			break
		}
		if post.ID == excludeID {
			continue
		}
		recent = append(recent, post)
	}
	return recent
}

func parsePost(input string, policy *bluemonday.Policy) (models.Post, error) {
	frontMatter, body := splitFrontMatter(input)
	front := postFrontMatter{}
	if strings.TrimSpace(frontMatter) != "" {
		if err := yaml.Unmarshal([]byte(frontMatter), &front); err != nil {
			return models.Post{}, fmt.Errorf("front matter: %w", err)
		}
	}

	title := strings.TrimSpace(front.Title)
	if title == "" {
		return models.Post{}, errors.New("post title is required")
	}

	var rendered bytes.Buffer
	if err := markdownRenderer.Convert([]byte(body), &rendered); err != nil {
		return models.Post{}, fmt.Errorf("render markdown: %w", err)
	}

	return models.Post{
		ID:          front.ID,
		Slug:        Slugify(title),
		Title:       title,
		Description: strings.TrimSpace(front.Description),
		Date:        parseContentDate(front.Date),
		Image:       strings.TrimSpace(front.Image),
		Category:    strings.TrimSpace(front.Category),
		AuthorName:  strings.TrimSpace(front.Author),
		Body:        template.HTML(policy.SanitizeBytes(rendered.Bytes())),
	}, nil
}

func splitFrontMatter(input string) (string, string) {
	input = strings.TrimPrefix(input, "\ufeff")
	input = strings.ReplaceAll(input, "\r\n", "\n")
	lines := strings.Split(input, "\n")
	if strings.TrimSpace(lines[0]) != "---" {
		return "", input
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			frontMatter := strings.Join(lines[1:i], "\n")
			body := strings.Join(lines[i+1:], "\n")
			return frontMatter, strings.TrimLeft(body, "\n")
		}
	}
	return "", input
}

func parseContentDate(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, isoDateLayout, "2006/01/02", "2006-1-2"} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
