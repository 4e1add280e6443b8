package importer

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"ikit-news/internal/model"
	"ikit-news/internal/news"

	"github.com/go-shiori/go-readability"
	"go.uber.org/zap"
)

var ErrEmptyArticle = errors.New("page has no readable title")

// DefaultAuthor is credited when a page names no byline or site.
const DefaultAuthor = "Редакция ИКИТ"

const excerptRunes = 200

// Scraper defines the interface for downloading web pages.
// This allows us to mock the "Download" step in tests.
type Scraper interface {
	Scrape(url string, timeout time.Duration) (*readability.Article, error)
}

// DefaultScraper is the real implementation that uses the internet
type DefaultScraper struct{}

func (s *DefaultScraper) Scrape(url string, timeout time.Duration) (*readability.Article, error) {
	art, err := readability.FromURL(url, timeout)
	return &art, err
}

// Importer turns web pages into catalog articles.
type Importer struct {
	scraper Scraper
	logger  *zap.Logger
	timeout time.Duration
	now     func() time.Time
}

// New creates an Importer backed by the DefaultScraper
func New(logger *zap.Logger) *Importer {
	return &Importer{
		scraper: &DefaultScraper{},
		logger:  logger,
		timeout: 30 * time.Second,
		now:     time.Now,
	}
}

// Import scrapes url and maps the readable content onto an Article.
// The returned article has no ID; AppendFile assigns one.
func (im *Importer) Import(url, category string) (model.Article, error) {
	logger := im.logger.With(zap.String("url", url))
	logger.Info("Downloading")

	page, err := im.scraper.Scrape(url, im.timeout)
	if err != nil {
		logger.Error("Scraping failed", zap.Error(err))
		return model.Article{}, fmt.Errorf("scrape %s: %w", url, err)
	}

	title := strings.TrimSpace(page.Title)
	if title == "" {
		return model.Article{}, ErrEmptyArticle
	}

	body := normalizeBody(page.TextContent)
	excerpt := strings.TrimSpace(page.Excerpt)
	if excerpt == "" {
		excerpt = truncate(body, excerptRunes)
	}

	author := strings.TrimSpace(page.Byline)
	if author == "" {
		author = strings.TrimSpace(page.SiteName)
	}
	if author == "" {
		author = DefaultAuthor
	}

	article := model.Article{
		Title:    title,
		Body:     body,
		Excerpt:  excerpt,
		Author:   author,
		Date:     im.now().In(news.Krasnoyarsk),
		Category: category,
		Image:    page.Image,
	}

	logger.Info("Import complete", zap.String("title", article.Title))
	return article, nil
}

// normalizeBody keeps one paragraph per non-empty line.
func normalizeBody(text string) string {
	var paras []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			paras = append(paras, line)
		}
	}
	return strings.Join(paras, "\n\n")
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:n])) + "..."
}

// AppendFile adds article to the JSON fixtures file at path, giving it the
// next free numeric id after the built-in catalog and the file's entries.
func AppendFile(path string, article model.Article) (model.Article, error) {
	var articles []model.Article
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return model.Article{}, fmt.Errorf("read %s: %w", path, err)
	default:
		if err := json.Unmarshal(data, &articles); err != nil {
			return model.Article{}, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	next := 0
	for _, a := range append(news.NewCatalog().List(), articles...) {
		if n, err := strconv.Atoi(a.ID); err == nil && n > next {
			next = n
		}
	}
	article.ID = strconv.Itoa(next + 1)
	articles = append(articles, article)

	out, err := json.MarshalIndent(articles, "", "  ")
	if err != nil {
		return model.Article{}, err
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return model.Article{}, fmt.Errorf("write %s: %w", path, err)
	}
	return article, nil
}
