package page

import (
	"embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultFS embed.FS

const DefaultFile = "default.yaml"

type Document struct {
	Title  string     `yaml:"title"`
	Layout LayoutSpec `yaml:"layout"`
	Cards  []CardSpec `yaml:"cards"`
}

type LayoutSpec struct {
	HeaderHeight float64 `yaml:"header_height"`
	Padding      float64 `yaml:"padding"`
	Gap          float64 `yaml:"gap"`
	MinCardWidth float64 `yaml:"min_card_width"`
	MaxColumns   int     `yaml:"max_columns"`
	CardHeight   float64 `yaml:"card_height"`
}

func (l LayoutSpec) withDefaults() LayoutSpec {
	if l.HeaderHeight <= 0 {
		l.HeaderHeight = 120
	}
	if l.Padding <= 0 {
		l.Padding = 32
	}
	if l.Gap <= 0 {
		l.Gap = 24
	}
	if l.MinCardWidth <= 0 {
		l.MinCardWidth = 280
	}
	if l.CardHeight <= 0 {
		l.CardHeight = 180
	}
	return l
}

type CardSpec struct {
	ID       string       `yaml:"id"`
	Title    string       `yaml:"title"`
	Text     string       `yaml:"text"`
	Color    string       `yaml:"color"`
	Height   float64      `yaml:"height"`
	Boundary BoundarySpec `yaml:"boundary"`
}

func (c CardSpec) card() Card {
	return Card{
		ID:       c.ID,
		Title:    c.Title,
		Text:     c.Text,
		Color:    c.Color,
		Height:   c.Height,
		Boundary: c.Boundary,
	}
}

// BoundarySpec describes how a card participates in the simulation. Zero
// values fall back to the engine defaults.
type BoundarySpec struct {
	Disabled          bool         `yaml:"disabled"`
	Type              string       `yaml:"type"`
	Shape             string       `yaml:"shape"`
	VelocityThreshold *float64     `yaml:"velocity_threshold"`
	Restitution       *float64     `yaml:"restitution"`
	Friction          *float64     `yaml:"friction"`
	Reaction          ReactionSpec `yaml:"reaction"`
}

type ReactionSpec struct {
	Scale      float64 `yaml:"scale"`
	Brightness float64 `yaml:"brightness"`
	Saturate   float64 `yaml:"saturate"`
	HueRotate  float64 `yaml:"hue_rotate"`
	Blur       float64 `yaml:"blur"`
	DropShadow string  `yaml:"drop_shadow"`
	DurationMS int     `yaml:"duration_ms"`
}

// Parse decodes a page document.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("page: unmarshal: %w", err)
	}
	return &doc, nil
}

// Load reads a page document from disk, falling back to the embedded
// default page when path is empty.
func Load(path string) (*Document, error) {
	if path == "" {
		data, err := defaultFS.ReadFile(DefaultFile)
		if err != nil {
			return nil, fmt.Errorf("page: load %s: %w", DefaultFile, err)
		}
		return Parse(data)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("page: load %s: %w", path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("page: load %s: %w", path, err)
	}
	return doc, nil
}
