// Package strategy loads the content strategy document: the audience
// segments the site targets and the search queries each segment needs
// covered.
package strategy

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Segment is one target audience with the queries that matter to it.
// Pain points, hiring criteria, and obstacles are all phrased as search
// queries a member of the segment would actually type.
type Segment struct {
	Name           string   `yaml:"name"`
	Description    string   `yaml:"description"`
	PainPoints     []string `yaml:"pain_points"`
	HiringCriteria []string `yaml:"hiring_criteria"`
	Obstacles      []string `yaml:"obstacles"`
}

// Strategy is the full strategy document.
type Strategy struct {
	Site     string    `yaml:"site"`
	Segments []Segment `yaml:"segments"`
}

// TargetQuery is one flattened query with its source cluster.
type TargetQuery struct {
	Text    string
	Cluster string
}

// Load reads and parses a strategy YAML file.
func Load(path string) (*Strategy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read strategy file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a strategy document from YAML.
func Parse(data []byte) (*Strategy, error) {
	var s Strategy
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse strategy yaml: %w", err)
	}
	if len(s.Segments) == 0 {
		return nil, fmt.Errorf("strategy has no segments")
	}
	for i, seg := range s.Segments {
		if strings.TrimSpace(seg.Name) == "" {
			return nil, fmt.Errorf("strategy segment %d has no name", i)
		}
	}
	return &s, nil
}

// Queries flattens every segment's query lists into one deduplicated list,
// preserving document order. The segment name becomes the query's cluster.
func (s *Strategy) Queries() []TargetQuery {
	seen := make(map[string]bool)
	var out []TargetQuery
	for _, seg := range s.Segments {
		for _, list := range [][]string{seg.PainPoints, seg.HiringCriteria, seg.Obstacles} {
			for _, q := range list {
				q = strings.TrimSpace(q)
				if q == "" {
					continue
				}
				key := strings.ToLower(q) + "|" + seg.Name
				if seen[key] {
					continue
				}
				seen[key] = true
				out = append(out, TargetQuery{Text: q, Cluster: seg.Name})
			}
		}
	}
	return out
}
