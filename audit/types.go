package audit

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Verdict is the tri-state outcome of a single check.
// Neutral findings are informational and excluded from scoring.
type Verdict int

const (
	Neutral Verdict = iota
	Pass
	Fail
)

// Chart is the payload of a visual threshold finding.
// Kind is "range" (value should sit between the thresholds) or
// "decline" (lower is better, thresholds escalate).
type Chart struct {
	Kind       string  `json:"chartType"`
	Threshold1 float64 `json:"threshold1"`
	Threshold2 float64 `json:"threshold2"`
	Unit       string  `json:"thresholdUnit"`
	Value      float64 `json:"value"`
}

// Finding is one check's outcome plus explanatory text.
// A Finding with a chart payload is always Neutral. An improvement
// Finding is a distinguished Neutral entry carrying remediation advice.
type Finding struct {
	Verdict     Verdict
	Improvement bool
	Text        string
	Chart       *Chart
}

type findingJSON struct {
	Bool  any    `json:"bool"`
	Text  string `json:"text,omitempty"`
	Chart *Chart `json:"chart,omitempty"`
}

// MarshalJSON encodes the verdict as true, false, "" or "improvement",
// so the tri-state survives serialization instead of collapsing to a
// two-state boolean.
func (f Finding) MarshalJSON() ([]byte, error) {
	out := findingJSON{Text: f.Text, Chart: f.Chart}

	switch {
	case f.Improvement:
		out.Bool = "improvement"
	case f.Chart != nil:
		out.Bool = ""
	case f.Verdict == Pass:
		out.Bool = true
	case f.Verdict == Fail:
		out.Bool = false
	default:
		out.Bool = ""
	}

	return json.Marshal(out)
}

// UnmarshalJSON restores the tri-state verdict from its wire form.
func (f *Finding) UnmarshalJSON(data []byte) error {
	var raw struct {
		Bool  json.RawMessage `json:"bool"`
		Text  string          `json:"text"`
		Chart *Chart          `json:"chart"`
	}

	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	f.Text = raw.Text
	f.Chart = raw.Chart
	f.Improvement = false
	f.Verdict = Neutral

	switch strings.TrimSpace(string(raw.Bool)) {
	case "true":
		f.Verdict = Pass
	case "false":
		f.Verdict = Fail
	case `"improvement"`, `improvement`:
		f.Improvement = true
	case `""`, "", "null":
	default:
		return fmt.Errorf("invalid verdict %s", raw.Bool)
	}

	return nil
}

// Category is a named, append-only group of related findings.
// Insertion order is display order.
type Category struct {
	Name     string    `json:"category_name"`
	Findings []Finding `json:"content"`
}

// NewCategory creates an empty category.
func NewCategory(name string) *Category {
	return &Category{Name: name, Findings: []Finding{}}
}

// AddFinding appends a finding with the given verdict and text.
func (c *Category) AddFinding(verdict Verdict, text string) {
	c.Findings = append(c.Findings, Finding{Verdict: verdict, Text: text})
}

// AddImprovement appends a remediation finding. Improvements are
// neutral: they never contribute to scoring or the fail tally.
func (c *Category) AddImprovement(text string) {
	c.Findings = append(c.Findings, Finding{Verdict: Neutral, Improvement: true, Text: text})
}

// AddChartFinding appends a chart finding. Charts carry no verdict.
func (c *Category) AddChartFinding(kind string, threshold1, threshold2 float64, unit string, value float64) {
	c.Findings = append(c.Findings, Finding{
		Verdict: Neutral,
		Chart: &Chart{
			Kind:       kind,
			Threshold1: threshold1,
			Threshold2: threshold2,
			Unit:       unit,
			Value:      value,
		},
	})
}

// Card is one analysis domain: a named group of categories with a
// derived 0-100 score.
type Card struct {
	Name       string
	Score      float64
	Selectable bool
	Categories []*Category
}

// NewCard creates an empty card that counts toward the overall score.
func NewCard(name string) *Card {
	return &Card{Name: name, Selectable: true, Categories: []*Category{}}
}

// AddCategory registers a category under its lower-cased name.
// A name collision replaces the earlier category in place; callers are
// expected to keep names unique.
func (c *Card) AddCategory(category *Category) {
	key := strings.ToLower(category.Name)
	for i, existing := range c.Categories {
		if strings.ToLower(existing.Name) == key {
			c.Categories[i] = category
			return
		}
	}

	c.Categories = append(c.Categories, category)
}

// AddTo derives the card's score from its findings and inserts the
// card into the report at the given index.
func (c *Card) AddTo(report *Report, index int) {
	c.Score = c.computeScore()
	report.insert(index, c)
}

// AddToPinned inserts the card with a manually pinned score, bypassing
// derivation. Used by the unavailability policy.
func (c *Card) AddToPinned(report *Report, index int, score float64) {
	c.Score = score
	report.insert(index, c)
}
