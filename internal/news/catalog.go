package news

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"ikit-news/internal/model"

	"github.com/gosimple/slug"
)

var (
	ErrNotFound         = errors.New("article not found")
	ErrDuplicateArticle = errors.New("duplicate article id")
)

// Categories are the sections an article can be filed under.
var Categories = []string{"Наука", "Достижения", "Учеба", "События"}

// Catalog is the read-only set of articles served by the portal.
type Catalog struct {
	articles []model.Article
	byID     map[string]int
}

// NewCatalog returns a catalog seeded with the built-in articles.
func NewCatalog() *Catalog {
	c := &Catalog{byID: make(map[string]int)}
	for _, a := range mockArticles() {
		c.add(a)
	}
	return c
}

func (c *Catalog) add(a model.Article) {
	c.byID[a.ID] = len(c.articles)
	c.articles = append(c.articles, a)
}

// List returns every article in declaration order.
func (c *Catalog) List() []model.Article {
	out := make([]model.Article, len(c.articles))
	copy(out, c.articles)
	return out
}

// Get looks up an article by id.
func (c *Catalog) Get(id string) (model.Article, error) {
	i, ok := c.byID[id]
	if !ok {
		return model.Article{}, ErrNotFound
	}
	return c.articles[i], nil
}

// Featured is the article shown on every detail page.
func (c *Catalog) Featured() model.Article {
	a, _ := c.Get(FeaturedID)
	return a
}

// LoadFile appends articles from a JSON array written by the importer.
// A missing file is not an error.
func (c *Catalog) LoadFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read articles file: %w", err)
	}

	var extra []model.Article
	if err := json.Unmarshal(data, &extra); err != nil {
		return 0, fmt.Errorf("parse articles file %s: %w", path, err)
	}

	for _, a := range extra {
		if _, dup := c.byID[a.ID]; dup {
			return 0, fmt.Errorf("%w: %s", ErrDuplicateArticle, a.ID)
		}
	}
	for _, a := range extra {
		c.add(a)
	}
	return len(extra), nil
}

// CategorySlug turns a category label into an ASCII CSS class suffix.
// Unknown categories map to "other".
func CategorySlug(category string) string {
	for _, known := range Categories {
		if known == category {
			return slug.Make(category)
		}
	}
	return "other"
}

// Paragraphs splits an article body on blank lines.
func Paragraphs(body string) []string {
	var out []string
	for _, p := range strings.Split(body, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
