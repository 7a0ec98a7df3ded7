// Package taxonomy holds the curated genre hierarchy and the alias table
// that maps free-form genre strings onto its nodes.
package taxonomy

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed taxonomy.yaml
var defaultDocument []byte

// Taxonomy pairs an alias table with the graph built through it.
type Taxonomy struct {
	Aliases *Aliases
	Graph   *Graph
}

// New builds a Taxonomy from a curated table and raw alias pairs.
func New(table Table, aliases map[string]string) *Taxonomy {
	a := NewAliases(aliases)
	return &Taxonomy{Aliases: a, Graph: NewGraph(table, a)}
}

// Resolve returns the canonical id for a raw genre string.
func (t *Taxonomy) Resolve(raw string) string {
	return t.Aliases.Resolve(raw)
}

// Relationships resolves raw and returns its curated links.
func (t *Taxonomy) Relationships(raw string) Relationships {
	return t.Graph.Relationships(t.Resolve(raw))
}

type document struct {
	Aliases map[string]string `yaml:"aliases"`
	Genres  Table             `yaml:"genres"`
}

// Parse reads a YAML taxonomy document with top-level `aliases` and
// `genres` keys.
func Parse(data []byte) (*Taxonomy, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("error parsing taxonomy: %w", err)
	}
	if len(doc.Genres) == 0 {
		return nil, fmt.Errorf("taxonomy has no genres")
	}
	return New(doc.Genres, doc.Aliases), nil
}

// Load reads a taxonomy document from disk. An empty path loads the
// embedded default.
func Load(path string) (*Taxonomy, error) {
	if path == "" {
		return Parse(defaultDocument)
	}
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading taxonomy at '%s': %w", path, err)
	}
	tax, err := Parse(bs)
	if err != nil {
		return nil, fmt.Errorf("error loading taxonomy at '%s': %w", path, err)
	}
	return tax, nil
}

// Default returns the embedded curated taxonomy.
func Default() *Taxonomy {
	tax, err := Parse(defaultDocument)
	if err != nil {
		panic(err)
	}
	return tax
}
