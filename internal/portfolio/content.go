package portfolio

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"regexp"

	"horizonfolio/internal/domain"

	"gopkg.in/yaml.v3"
)

//go:embed content.yaml
var embeddedContent []byte

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Content is everything the portfolio renders besides live market data.
type Content struct {
	Profile  domain.Profile   `yaml:"profile"`
	Projects []domain.Project `yaml:"projects"`
}

// Load reads content from path, or the embedded copy when path is empty.
func Load(path string) (*Content, error) {
	if path == "" {
		return Parse(embeddedContent)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read portfolio content: %w", err)
	}
	return Parse(data)
}

// Default returns the embedded content. It panics if the embedded file is invalid.
func Default() *Content {
	c, err := Parse(embeddedContent)
	if err != nil {
		panic(err)
	}
	return c
}

func Parse(data []byte) (*Content, error) {
	var c Content
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse portfolio content: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Content) validate() error {
	if c.Profile.Name == "" {
		return errors.New("portfolio content: profile.name is required")
	}
	if len(c.Profile.Titles) == 0 {
		return errors.New("portfolio content: at least one title is required")
	}
	for _, t := range c.Profile.Titles {
		for _, col := range []string{t.Colors.Particle, t.Colors.Text, t.Colors.Border} {
			if !hexColor.MatchString(col) {
				return fmt.Errorf("portfolio content: title %q has invalid color %q", t.Text, col)
			}
		}
	}

	seen := make(map[int]bool, len(c.Projects))
	for _, p := range c.Projects {
		if p.Title == "" {
			return fmt.Errorf("portfolio content: project %d has no title", p.ID)
		}
		if seen[p.ID] {
			return fmt.Errorf("portfolio content: duplicate project id %d", p.ID)
		}
		seen[p.ID] = true
	}
	return nil
}

// TitleTexts lists the hero titles in display order.
func (c *Content) TitleTexts() []string {
	out := make([]string, len(c.Profile.Titles))
	for i, t := range c.Profile.Titles {
		out[i] = t.Text
	}
	return out
}

// ColorsFor returns the scheme for a title, falling back to the first title's.
func (c *Content) ColorsFor(title string) domain.TitleColors {
	for _, t := range c.Profile.Titles {
		if t.Text == title {
			return t.Colors
		}
	}
	return c.Profile.Titles[0].Colors
}

func (c *Content) Project(id int) (domain.Project, bool) {
	for _, p := range c.Projects {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Project{}, false
}
