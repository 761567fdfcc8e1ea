package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"ai-blog-be/pkg/composer"

	"gopkg.in/yaml.v3"
)

// Plan describes one composition run, read from a YAML file.
type Plan struct {
	Server           string `yaml:"server"`
	GenerationURL    string `yaml:"generation_url"`
	SummarizationURL string `yaml:"summarization_url"`
	Username         string `yaml:"username"`
	Password         string `yaml:"password"`

	Topic string `yaml:"topic"`
	Words int    `yaml:"words"`
	Style string `yaml:"style"`
	Title string `yaml:"title"`
	Image string `yaml:"image"`

	// BodyFile replaces the generated body, as a manual edit would.
	BodyFile  string `yaml:"body_file"`
	Summarize bool   `yaml:"summarize"`
	DryRun    bool   `yaml:"dry_run"`

	dir string
}

func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	p := &Plan{
		Server:           "http://localhost:3000",
		GenerationURL:    "http://localhost:8501/generate_blog",
		SummarizationURL: "http://localhost:8501/summarize",
	}
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("parse plan %s: %w", path, err)
	}
	if p.Password == "" {
		p.Password = os.Getenv("COMPOSE_PASSWORD")
	}
	p.dir = filepath.Dir(path)
	return p, nil
}

func (p *Plan) Validate() error {
	var missing []string
	for name, v := range map[string]string{"topic": p.Topic, "style": p.Style, "title": p.Title, "image": p.Image} {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	if p.Words <= 0 {
		missing = append(missing, "words")
	}
	if !p.DryRun && strings.TrimSpace(p.Username) == "" {
		missing = append(missing, "username")
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("plan is missing: %s", strings.Join(missing, ", "))
	}
	if !composer.IsKnownStyle(p.Style) {
		return fmt.Errorf("unknown style %q, choose one of: %s", p.Style, strings.Join(composer.Styles, ", "))
	}
	return nil
}

func (p *Plan) resolve(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(p.dir, rel)
}

// LoadImage reads the cover image and sniffs its content type.
func (p *Plan) LoadImage() (*composer.Image, error) {
	data, err := os.ReadFile(p.resolve(p.Image))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	return &composer.Image{
		Filename:    filepath.Base(p.Image),
		ContentType: http.DetectContentType(data),
		Data:        data,
	}, nil
}

func (p *Plan) LoadBody() (string, error) {
	if p.BodyFile == "" {
		return "", nil
	}
	data, err := os.ReadFile(p.resolve(p.BodyFile))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	return string(data), nil
}
