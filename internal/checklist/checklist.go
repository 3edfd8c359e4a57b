// Package checklist serves the static departure checklist.
package checklist

import (
	_ "embed"
	"errors"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

//go:embed checklist.yaml
var embedded []byte

type Section struct {
	Title string   `yaml:"title" json:"title"`
	Items []string `yaml:"items" json:"items"`
}

// Checklist holds the household list and the visitor variant.
type Checklist struct {
	Live []Section `yaml:"live"`
	Demo []Section `yaml:"demo"`
}

func Load() (*Checklist, error) {
	return Parse(embedded)
}

func Parse(data []byte) (*Checklist, error) {
	var c Checklist
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("checklist: parsing: %w", err)
	}
	if len(c.Live) == 0 {
		return nil, errors.New("checklist: no live sections")
	}
	if len(c.Demo) == 0 {
		c.Demo = c.Live
	}
	return &c, nil
}

// Sections returns a copy of the demo or the live list.
func (c *Checklist) Sections(demo bool) []Section {
	src := c.Live
	if demo {
		src = c.Demo
	}
	out := make([]Section, len(src))
	for i, s := range src {
		out[i] = Section{Title: s.Title, Items: slices.Clone(s.Items)}
	}
	return out
}

// ItemCount is the number of tasks across all sections.
func ItemCount(sections []Section) int {
	n := 0
	for _, s := range sections {
		n += len(s.Items)
	}
	return n
}
