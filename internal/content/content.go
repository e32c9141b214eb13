// Package content holds the copy shown on the portfolio and product pages.
package content

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"os"

	"github.com/yuin/goldmark"
	"gopkg.in/yaml.v3"
)

//go:embed content.yaml
var defaultContent []byte

type Link struct {
	Label string `yaml:"label"`
	URL   string `yaml:"url"`
}

type Profile struct {
	Name     string `yaml:"name"`
	Title    string `yaml:"title"`
	Image    string `yaml:"image"`
	Links    []Link `yaml:"links"`
	Socials  []Link `yaml:"socials"`
	Footer   string `yaml:"footer"`
	SiteName string `yaml:"site_name"`
}

type SkillGroup struct {
	Title  string   `yaml:"title"`
	Icon   string   `yaml:"icon"`
	Skills []string `yaml:"skills"`
}

type Job struct {
	Period       string   `yaml:"period"`
	Title        string   `yaml:"title"`
	Company      string   `yaml:"company"`
	Achievements []string `yaml:"achievements"`
}

type Project struct {
	Title        string   `yaml:"title"`
	Description  string   `yaml:"description"`
	Technologies []string `yaml:"technologies"`
	Links        []Link   `yaml:"links"`
}

type Feature struct {
	Icon        string `yaml:"icon"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

type Landing struct {
	Title       string    `yaml:"title"`
	Description string    `yaml:"description"`
	Tagline     string    `yaml:"tagline"`
	Benefits    []string  `yaml:"benefits"`
	Features    []Feature `yaml:"features"`
	Links       []Link    `yaml:"links"`
	DemoBefore  string    `yaml:"demo_before"`
	DemoAfter   string    `yaml:"demo_after"`
}

type Contact struct {
	Heading string `yaml:"heading"`
	Intro   string `yaml:"intro"`
	Outro   string `yaml:"outro"`
	Thanks  string `yaml:"thanks"`
	Expect  string `yaml:"expect"`
}

// Portfolio is all site copy. About paragraphs are markdown and rendered by
// Load into AboutHTML.
type Portfolio struct {
	Profile    Profile      `yaml:"profile"`
	Quote      string       `yaml:"quote"`
	About      []string     `yaml:"about"`
	Highlight  string       `yaml:"highlight"`
	Skills     []SkillGroup `yaml:"skills"`
	Experience []Job        `yaml:"experience"`
	Projects   []Project    `yaml:"projects"`
	Contact    Contact      `yaml:"contact"`
	ChainSafe  Landing      `yaml:"chainsafe"`

	AboutHTML []template.HTML `yaml:"-"`
}

// Load parses the embedded copy, or the file at path when path is not empty.
func Load(path string) (*Portfolio, error) {
	data := defaultContent
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read content file: %w", err)
		}
	}
	return Parse(data)
}

func Parse(data []byte) (*Portfolio, error) {
	var p Portfolio
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse content: %w", err)
	}
	if p.Profile.Name == "" {
		return nil, fmt.Errorf("content is missing profile.name")
	}

	md := goldmark.New()
	for _, para := range p.About {
		var buf bytes.Buffer
		if err := md.Convert([]byte(para), &buf); err != nil {
			return nil, fmt.Errorf("failed to render about text: %w", err)
		}
		p.AboutHTML = append(p.AboutHTML, template.HTML(buf.String()))
	}
	return &p, nil
}
