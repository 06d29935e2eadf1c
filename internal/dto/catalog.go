package dto

import (
	"fmt"
	"time"

	"github.com/aretw0/workshop/pkg/domain"
)

// Catalog is the on-disk shape of a catalog file.
type Catalog struct {
	Exercises []Exercise `json:"exercises" yaml:"exercises" mapstructure:"exercises"`
}

// Exercise is the on-disk shape of an exercise.
// It uses "mapstructure" tags to match standard Frontmatter/YAML keys.
type Exercise struct {
	ID          string `json:"id" yaml:"id" mapstructure:"id"`
	Title       string `json:"title" yaml:"title" mapstructure:"title"`
	Description string `json:"description" yaml:"description" mapstructure:"description"`
	Order       int    `json:"order" yaml:"order" mapstructure:"order"`

	// Kind selects a rule preset: matching, categories, connector or construction.
	Kind  string `json:"kind" yaml:"kind" mapstructure:"kind"`
	Rules *Rules `json:"rules,omitempty" yaml:"rules,omitempty" mapstructure:"rules"`

	Problems []Problem `json:"problems,omitempty" yaml:"problems,omitempty" mapstructure:"problems"`

	// Single-problem shorthand.
	Zones []Zone `json:"zones,omitempty" yaml:"zones,omitempty" mapstructure:"zones"`
	Items []Item `json:"items,omitempty" yaml:"items,omitempty" mapstructure:"items"`
}

// Rules overrides individual fields of the preset.
type Rules struct {
	Layout          string `json:"layout,omitempty" yaml:"layout,omitempty" mapstructure:"layout"`
	Verification    string `json:"verification,omitempty" yaml:"verification,omitempty" mapstructure:"verification"`
	Answer          string `json:"answer,omitempty" yaml:"answer,omitempty" mapstructure:"answer"`
	RevertDelayMS   *int   `json:"revert_delay_ms,omitempty" yaml:"revert_delay_ms,omitempty" mapstructure:"revert_delay_ms"`
	Shuffle         *bool  `json:"shuffle,omitempty" yaml:"shuffle,omitempty" mapstructure:"shuffle"`
	ExplanationFrom string `json:"explanation_from,omitempty" yaml:"explanation_from,omitempty" mapstructure:"explanation_from"`
}

type Problem struct {
	ID          string   `json:"id" yaml:"id" mapstructure:"id"`
	Prompt      string   `json:"prompt,omitempty" yaml:"prompt,omitempty" mapstructure:"prompt"`
	Context     []string `json:"context,omitempty" yaml:"context,omitempty" mapstructure:"context"`
	Zones       []Zone   `json:"zones,omitempty" yaml:"zones,omitempty" mapstructure:"zones"`
	Items       []Item   `json:"items" yaml:"items" mapstructure:"items"`
	Accepted    []string `json:"accepted,omitempty" yaml:"accepted,omitempty" mapstructure:"accepted"`
	Order       []string `json:"order,omitempty" yaml:"order,omitempty" mapstructure:"order"`
	Explanation string   `json:"explanation,omitempty" yaml:"explanation,omitempty" mapstructure:"explanation"`
}

type Item struct {
	ID          string `json:"id" yaml:"id" mapstructure:"id"`
	Text        string `json:"text" yaml:"text" mapstructure:"text"`
	Kind        string `json:"kind,omitempty" yaml:"kind,omitempty" mapstructure:"kind"`
	Target      string `json:"target,omitempty" yaml:"target,omitempty" mapstructure:"target"`
	Explanation string `json:"explanation,omitempty" yaml:"explanation,omitempty" mapstructure:"explanation"`
}

type Zone struct {
	ID     string `json:"id" yaml:"id" mapstructure:"id"`
	Label  string `json:"label" yaml:"label" mapstructure:"label"`
	Detail string `json:"detail,omitempty" yaml:"detail,omitempty" mapstructure:"detail"`
}

// Presets maps exercise kinds to their rules.
var Presets = map[string]func() domain.Rules{
	"matching":     domain.MatchingRules,
	"categories":   domain.CategoryRules,
	"connector":    domain.ConnectorRules,
	"construction": domain.ConstructionRules,
}

// ToDomain converts and validates the exercise.
func (e Exercise) ToDomain() (domain.Exercise, error) {
	preset, ok := Presets[e.Kind]
	if !ok {
		return domain.Exercise{}, fmt.Errorf("%w: exercise %q: unknown kind %q", domain.ErrInvalidCatalog, e.ID, e.Kind)
	}
	ex := domain.Exercise{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Order:       e.Order,
		Rules:       e.Rules.apply(preset()),
	}

	problems := e.Problems
	if len(problems) == 0 && len(e.Items) > 0 {
		problems = []Problem{{ID: "main", Items: e.Items}}
	}
	for _, p := range problems {
		dp := p.toDomain()
		if len(dp.Zones) == 0 {
			dp.Zones = zonesToDomain(e.Zones)
		}
		ex.Problems = append(ex.Problems, dp)
	}

	if err := ex.Validate(); err != nil {
		return domain.Exercise{}, err
	}
	return ex, nil
}

func (r *Rules) apply(base domain.Rules) domain.Rules {
	if r == nil {
		return base
	}
	if r.Layout != "" {
		base.Layout = domain.Layout(r.Layout)
	}
	if r.Verification != "" {
		base.Verification = domain.Verification(r.Verification)
	}
	if r.Answer != "" {
		base.Answer = domain.Answer(r.Answer)
	}
	if r.RevertDelayMS != nil {
		base.RevertDelay = time.Duration(*r.RevertDelayMS) * time.Millisecond
	}
	if r.Shuffle != nil {
		base.Shuffle = *r.Shuffle
	}
	if r.ExplanationFrom != "" {
		base.ExplanationFrom = domain.ExplanationSource(r.ExplanationFrom)
	}
	return base
}

func (p Problem) toDomain() domain.Problem {
	dp := domain.Problem{
		ID:          p.ID,
		Prompt:      p.Prompt,
		Context:     p.Context,
		Zones:       zonesToDomain(p.Zones),
		Explanation: p.Explanation,
	}
	for _, it := range p.Items {
		dp.Items = append(dp.Items, domain.Item{
			ID:          domain.ItemID(it.ID),
			Text:        it.Text,
			Kind:        it.Kind,
			Target:      domain.ZoneID(it.Target),
			Explanation: it.Explanation,
		})
	}
	for _, id := range p.Accepted {
		dp.Accepted = append(dp.Accepted, domain.ItemID(id))
	}
	for _, id := range p.Order {
		dp.Order = append(dp.Order, domain.ItemID(id))
	}
	return dp
}

func zonesToDomain(zones []Zone) []domain.Zone {
	out := make([]domain.Zone, 0, len(zones))
	for _, z := range zones {
		out = append(out, domain.Zone{ID: domain.ZoneID(z.ID), Label: z.Label, Detail: z.Detail})
	}
	return out
}
