package audit

import (
	"encoding/json"
	"sort"
	"time"
)

// Report is the full ordered collection of cards plus non-scored
// auxiliary sections. Cards are keyed by a stable integer index so the
// display order is deterministic regardless of which collaborator
// finished first. The summary fields are derived on demand, never
// cached.
type Report struct {
	URL         string
	GeneratedAt string
	Serp        *SERPPreview
	Metrics     *PageMetrics

	cards map[int]*Card
	index map[*Card]int
}

// NewReport creates an empty report for the given URL.
func NewReport(url string, now time.Time) *Report {
	return &Report{
		URL:         url,
		GeneratedAt: now.UTC().Format(time.RFC3339),
		cards:       map[int]*Card{},
		index:       map[*Card]int{},
	}
}

func (r *Report) insert(index int, card *Card) {
	if old, ok := r.cards[index]; ok {
		delete(r.index, old)
	}

	r.cards[index] = card
	r.index[card] = index
}

// Cards returns the cards sorted by index.
func (r *Report) Cards() []*Card {
	indices := make([]int, 0, len(r.cards))
	for idx := range r.cards {
		indices = append(indices, idx)
	}

	sort.Ints(indices)

	cards := make([]*Card, 0, len(indices))
	for _, idx := range indices {
		cards = append(cards, r.cards[idx])
	}

	return cards
}

// CardAt returns the card at the given index, if any.
func (r *Report) CardAt(index int) (*Card, bool) {
	card, ok := r.cards[index]
	return card, ok
}

type cardJSON struct {
	Index      int         `json:"index"`
	IsCard     bool        `json:"isCard"`
	Name       string      `json:"card_name"`
	Points     float64     `json:"points"`
	Categories []*Category `json:"categories"`
}

type reportJSON struct {
	URL              string       `json:"url"`
	GeneratedAt      string       `json:"generated_at"`
	Cards            []cardJSON   `json:"cards"`
	Serp             *SERPPreview `json:"serp_preview,omitempty"`
	Metrics          *PageMetrics `json:"page_metrics,omitempty"`
	OverallScore     int          `json:"overall_score"`
	ImprovementCount int          `json:"improvement_count"`
}

// MarshalJSON serializes the report as a nested mapping of primitives.
// The summary fields are computed at marshal time from the current
// card collection.
func (r *Report) MarshalJSON() ([]byte, error) {
	out := reportJSON{
		URL:              r.URL,
		GeneratedAt:      r.GeneratedAt,
		Cards:            []cardJSON{},
		Serp:             r.Serp,
		Metrics:          r.Metrics,
		OverallScore:     r.OverallScore(),
		ImprovementCount: r.ImprovementCount(),
	}

	for _, card := range r.Cards() {
		out.Cards = append(out.Cards, cardJSON{
			Index:      r.index[card],
			IsCard:     card.Selectable,
			Name:       card.Name,
			Points:     card.Score,
			Categories: card.Categories,
		})
	}

	return json.Marshal(out)
}

// UnmarshalJSON restores a persisted report. The tri-state verdicts of
// all findings survive the round trip.
func (r *Report) UnmarshalJSON(data []byte) error {
	var in reportJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	r.URL = in.URL
	r.GeneratedAt = in.GeneratedAt
	r.Serp = in.Serp
	r.Metrics = in.Metrics
	r.cards = map[int]*Card{}
	r.index = map[*Card]int{}

	for _, entry := range in.Cards {
		card := &Card{
			Name:       entry.Name,
			Score:      entry.Points,
			Selectable: entry.IsCard,
			Categories: entry.Categories,
		}
		r.insert(entry.Index, card)
	}

	return nil
}

func marshalReport(report *Report, indent bool) []byte {
	var (
		data []byte
		err  error
	)

	if indent {
		data, err = json.MarshalIndent(report, "", "  ")
	} else {
		data, err = json.Marshal(report)
	}

	if err != nil {
		data = []byte(`{"error":"failed to marshal report"}`)
	}

	return ensureNewline(data)
}

func ensureNewline(data []byte) []byte {
	if len(data) == 0 || data[len(data)-1] != '\n' {
		return append(data, '\n')
	}

	return data
}
