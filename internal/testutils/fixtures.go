package testutils

import (
	"fmt"

	"github.com/aretw0/workshop/pkg/domain"
)

// MatchingExercise returns a six concept / six definition matching exercise, unshuffled.
func MatchingExercise() domain.Exercise {
	rules := domain.MatchingRules()
	rules.Shuffle = false
	p := domain.Problem{ID: "main"}
	for i := 1; i <= 6; i++ {
		zone := domain.ZoneID(fmt.Sprintf("d%d", i))
		p.Zones = append(p.Zones, domain.Zone{ID: zone, Label: fmt.Sprintf("Definition %d", i)})
		p.Items = append(p.Items, domain.Item{
			ID:     domain.ItemID(fmt.Sprintf("c%d", i)),
			Text:   fmt.Sprintf("Concept %d", i),
			Kind:   domain.KindConcept,
			Target: zone,
		})
	}
	return domain.Exercise{ID: "matching", Title: "Matching", Rules: rules, Problems: []domain.Problem{p}}
}

// CategoryExercise returns a two-bin sorting exercise with per-item explanations.
func CategoryExercise() domain.Exercise {
	return domain.Exercise{
		ID:    "bins",
		Title: "Phrases vs. Clauses",
		Rules: domain.CategoryRules(),
		Problems: []domain.Problem{{
			ID: "main",
			Zones: []domain.Zone{
				{ID: "phrase", Label: "Phrase"},
				{ID: "clause", Label: "Clause"},
			},
			Items: []domain.Item{
				{ID: "p1", Text: "in the morning", Target: "phrase", Explanation: "No subject and no verb."},
				{ID: "p2", Text: "the students study", Target: "clause", Explanation: "Subject and verb."},
				{ID: "p3", Text: "after the game", Target: "phrase", Explanation: "A prepositional phrase."},
				{ID: "p4", Text: "because she left", Target: "clause", Explanation: "A dependent clause."},
			},
		}},
	}
}

// ConnectorExercise returns a two-problem connector exercise.
func ConnectorExercise() domain.Exercise {
	connectors := func() []domain.Item {
		return []domain.Item{
			{ID: "conn1", Text: ", and", Kind: domain.KindConnector},
			{ID: "conn2", Text: ", but", Kind: domain.KindConnector},
			{ID: "conn3", Text: ", so", Kind: domain.KindConnector},
			{ID: "conn4", Text: ";", Kind: domain.KindConnector},
		}
	}
	return domain.Exercise{
		ID:    "connection",
		Title: "Connection",
		Rules: domain.ConnectorRules(),
		Problems: []domain.Problem{
			{
				ID:          "c1",
				Context:     []string{"The rain stopped", "we went outside"},
				Zones:       []domain.Zone{{ID: "gap", Label: "Connector"}},
				Items:       connectors(),
				Accepted:    []domain.ItemID{"conn3", "conn4"},
				Explanation: "A result follows, so 'so' or a semicolon works.",
			},
			{
				ID:          "c2",
				Context:     []string{"She is tired", "she keeps working"},
				Zones:       []domain.Zone{{ID: "gap", Label: "Connector"}},
				Items:       connectors(),
				Accepted:    []domain.ItemID{"conn2"},
				Explanation: "Contrast calls for 'but'.",
			},
		},
	}
}

// ConstructionExercise returns a two-problem sentence-building exercise, unshuffled.
func ConstructionExercise() domain.Exercise {
	rules := domain.ConstructionRules()
	rules.Shuffle = false
	return domain.Exercise{
		ID:    "synthesis",
		Title: "Synthesis",
		Rules: rules,
		Problems: []domain.Problem{
			{
				ID:     "s1",
				Prompt: "Create a Compound Sentence",
				Items: []domain.Item{
					{ID: "s1t1", Text: "The sun was shining", Kind: domain.KindClause},
					{ID: "s1t2", Text: ", and", Kind: domain.KindConnector},
					{ID: "s1t3", Text: "the birds were singing.", Kind: domain.KindClause},
				},
				Order:       []domain.ItemID{"s1t1", "s1t2", "s1t3"},
				Explanation: "Two independent clauses joined by ', and'.",
			},
			{
				ID:     "s2",
				Prompt: "Create a Complex Sentence",
				Items: []domain.Item{
					{ID: "s2t1", Text: "Although it was late", Kind: domain.KindClause},
					{ID: "s2t2", Text: ",", Kind: domain.KindPunctuation},
					{ID: "s2t3", Text: "we kept talking.", Kind: domain.KindClause},
				},
				Order:       []domain.ItemID{"s2t1", "s2t2", "s2t3"},
				Explanation: "A dependent clause followed by an independent clause.",
			},
		},
	}
}
