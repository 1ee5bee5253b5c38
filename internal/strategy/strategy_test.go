package strategy

import "testing"

const sampleYAML = `
site: thestarrconspiracy.com
segments:
  - name: hr-tech-marketing-leaders
    description: VP Marketing and CMOs at HR technology vendors
    pain_points:
      - how to market HR software to enterprise buyers
      - why is our demand gen not converting
    hiring_criteria:
      - what to look for in a b2b marketing agency
    obstacles:
      - marketing budget cut what to prioritize
  - name: workforce-tech-founders
    description: Founders at early workforce tech startups
    pain_points:
      - how to position a new HR tech product
      - how to market HR software to enterprise buyers
`

func TestParse(t *testing.T) {
	s, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(s.Segments) != 2 {
		t.Fatalf("Segments = %d, want 2", len(s.Segments))
	}
	if s.Segments[0].Name != "hr-tech-marketing-leaders" {
		t.Errorf("segment name = %q", s.Segments[0].Name)
	}
	if len(s.Segments[0].PainPoints) != 2 {
		t.Errorf("pain points = %v", s.Segments[0].PainPoints)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not yaml", "{{{"},
		{"no segments", "site: example.com"},
		{"unnamed segment", "segments:\n  - pain_points: [q]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data)); err == nil {
				t.Error("expected parse error")
			}
		})
	}
}

func TestQueries(t *testing.T) {
	s, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	queries := s.Queries()
	// 4 from the first segment, 2 from the second; the repeated query text
	// belongs to a different cluster so it is kept.
	if len(queries) != 6 {
		t.Fatalf("Queries() = %d entries, want 6: %v", len(queries), queries)
	}

	first := queries[0]
	if first.Text != "how to market HR software to enterprise buyers" || first.Cluster != "hr-tech-marketing-leaders" {
		t.Errorf("first query = %+v", first)
	}

	last := queries[len(queries)-1]
	if last.Cluster != "workforce-tech-founders" {
		t.Errorf("last cluster = %q", last.Cluster)
	}
}

func TestQueriesDedupWithinCluster(t *testing.T) {
	doc := `
segments:
  - name: one
    pain_points:
      - same query
    obstacles:
      - Same Query
`
	s, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if got := s.Queries(); len(got) != 1 {
		t.Errorf("Queries() = %v, want single entry", got)
	}
}
