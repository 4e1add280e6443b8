package importer

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ikit-news/internal/model"
	"ikit-news/internal/news"

	"github.com/go-shiori/go-readability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockScraper struct {
	Page       readability.Article
	ShouldFail bool
}

// Scrape simulates article scraping
func (m *MockScraper) Scrape(url string, timeout time.Duration) (*readability.Article, error) {
	if m.ShouldFail {
		return nil, fmt.Errorf("simulated 404 error")
	}
	page := m.Page
	return &page, nil
}

func newTestImporter(s Scraper) *Importer {
	im := New(zap.NewNop())
	im.scraper = s
	im.now = func() time.Time { return time.Date(2025, time.November, 1, 3, 0, 0, 0, time.UTC) }
	return im
}

func TestImporter_Import(t *testing.T) {
	im := newTestImporter(&MockScraper{Page: readability.Article{
		Title:       "  Хакатон ИКИТ  ",
		Byline:      "Петрова А.С.",
		Excerpt:     "A short summary",
		TextContent: "First line\n\n   \nSecond line\n",
		Image:       "https://example.com/cover.jpg",
	}})

	a, err := im.Import("http://fake-url.com", "Достижения")
	require.NoError(t, err)

	assert.Equal(t, "Хакатон ИКИТ", a.Title)
	assert.Equal(t, "Петрова А.С.", a.Author)
	assert.Equal(t, "A short summary", a.Excerpt)
	assert.Equal(t, "First line\n\nSecond line", a.Body)
	assert.Equal(t, "Достижения", a.Category)
	assert.Equal(t, "https://example.com/cover.jpg", a.Image)
	assert.Equal(t, 1, a.Date.Day())
	assert.Equal(t, 10, a.Date.Hour(), "date is in Krasnoyarsk time")
	assert.Empty(t, a.ID)
}

func TestImporter_Import_Fallbacks(t *testing.T) {
	long := strings.Repeat("слово ", 100)
	im := newTestImporter(&MockScraper{Page: readability.Article{
		Title:       "Title",
		TextContent: long,
	}})

	a, err := im.Import("http://fake-url.com", "Наука")
	require.NoError(t, err)
	assert.Equal(t, DefaultAuthor, a.Author)
	assert.True(t, strings.HasSuffix(a.Excerpt, "..."))
	assert.LessOrEqual(t, len([]rune(a.Excerpt)), excerptRunes+3)

	im = newTestImporter(&MockScraper{Page: readability.Article{Title: "T", SiteName: "sfu-kras.ru"}})
	a, err = im.Import("http://fake-url.com", "Наука")
	require.NoError(t, err)
	assert.Equal(t, "sfu-kras.ru", a.Author)
}

func TestImporter_Import_Errors(t *testing.T) {
	_, err := newTestImporter(&MockScraper{ShouldFail: true}).Import("http://bad-url.com", "Наука")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "simulated 404 error")

	_, err = newTestImporter(&MockScraper{}).Import("http://empty.com", "Наука")
	assert.ErrorIs(t, err, ErrEmptyArticle)
}

func TestAppendFile_AssignsIDsAndLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "articles.json")

	first, err := AppendFile(path, newsArticle("One"))
	require.NoError(t, err)
	assert.Equal(t, "6", first.ID, "ids continue after the built-in catalog")

	second, err := AppendFile(path, newsArticle("Two"))
	require.NoError(t, err)
	assert.Equal(t, "7", second.ID)

	c := news.NewCatalog()
	n, err := c.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got, err := c.Get("7")
	require.NoError(t, err)
	assert.Equal(t, "Two", got.Title)
}

func newsArticle(title string) model.Article {
	return model.Article{Title: title, Category: "События", Date: time.Now()}
}
