package content

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed pages.yaml
var pagesYAML []byte

// Site holds the site-wide copy shown on every page.
type Site struct {
	Title   string   `yaml:"title"`
	Tagline string   `yaml:"tagline"`
	Intro   []string `yaml:"intro"`
	Social  []Link   `yaml:"social"`
}

// Link is a titled URL.
type Link struct {
	Name  string `yaml:"name"`
	Label string `yaml:"label"`
	Title string `yaml:"title"`
	URL   string `yaml:"url"`
}

// Section is a headed list of links on a static page.
type Section struct {
	Heading string `yaml:"heading"`
	Icon    string `yaml:"icon"`
	Note    string `yaml:"note"`
	Items   []Link `yaml:"items"`
}

// Page is a static informational page.
type Page struct {
	Title       string    `yaml:"title"`
	Description string    `yaml:"description"`
	Paragraphs  []string  `yaml:"paragraphs"`
	Contact     *Link     `yaml:"contact"`
	Sections    []Section `yaml:"sections"`
}

// Pages is the static page catalog.
type Pages struct {
	Site  Site            `yaml:"site"`
	Pages map[string]Page `yaml:"pages"`
}

var (
	pagesOnce sync.Once
	pages     *Pages
	pagesErr  error
)

// ParsePages decodes a page catalog.
func ParsePages(data []byte) (*Pages, error) {
	var p Pages
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse pages: %w", err)
	}
	return &p, nil
}

// StaticPages returns the embedded page catalog, parsed once.
func StaticPages() (*Pages, error) {
	pagesOnce.Do(func() {
		pages, pagesErr = ParsePages(pagesYAML)
	})
	return pages, pagesErr
}

// Page returns the named page.
func (p *Pages) Page(name string) (Page, bool) {
	page, ok := p.Pages[name]
	return page, ok
}

//go:embed blogpost_model.json
var contentModelJSON []byte

// ContentModel returns the Contentful content type definition for blog posts,
// ready to import into a space.
func ContentModel() string {
	return string(contentModelJSON)
}
