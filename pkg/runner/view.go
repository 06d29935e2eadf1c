package runner

import (
	"fmt"
	"strings"

	"github.com/aretw0/workshop/pkg/domain"
)

// RenderMarkdown renders the board of a snapshot as markdown.
func RenderMarkdown(snap domain.Snapshot) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", snap.Title)
	if snap.ProblemCount > 1 {
		fmt.Fprintf(&b, "Problem %d / %d\n\n", snap.ProblemIndex+1, snap.ProblemCount)
	}
	if snap.Prompt != "" {
		fmt.Fprintf(&b, "**%s**\n\n", snap.Prompt)
	}

	if len(snap.Context) > 0 {
		gap := "____"
		for _, z := range snap.Zones {
			for _, p := range z.Placements {
				gap = fmt.Sprintf("[%s %s]", p.Item.Text, mark(p.Outcome))
			}
		}
		fmt.Fprintf(&b, "> %s\n\n", strings.Join(snap.Context, " "+gap+" "))
	} else if len(snap.Zones) > 0 {
		b.WriteString("## Zones\n\n")
		for i, z := range snap.Zones {
			fmt.Fprintf(&b, "%d. **%s**", i+1, z.Zone.Label)
			if z.Zone.Detail != "" {
				fmt.Fprintf(&b, " (%s)", z.Zone.Detail)
			}
			b.WriteString("\n")
			for _, p := range z.Placements {
				fmt.Fprintf(&b, "   - %s %s\n", p.Item.Text, mark(p.Outcome))
			}
		}
		b.WriteString("\n")
	}

	if snap.Layout == domain.LayoutSequence {
		b.WriteString("## Sentence\n\n")
		if len(snap.Sequence) == 0 {
			b.WriteString("_empty_\n\n")
		} else {
			writeList(&b, snap.Sequence)
		}
	}

	b.WriteString("## Bank\n\n")
	if len(snap.Bank) == 0 {
		b.WriteString("_empty_\n\n")
	} else {
		writeList(&b, snap.Bank)
	}

	if snap.Outcome == domain.OutcomeCorrect || snap.Outcome == domain.OutcomeIncorrect {
		fmt.Fprintf(&b, "Result: **%s**\n\n", snap.Outcome)
	}
	if snap.Explanation != nil {
		fmt.Fprintf(&b, "%s %s\n\n", mark(outcomeOf(snap.Explanation.Correct)), snap.Explanation.Text)
	}

	fmt.Fprintf(&b, "Progress: %d / %d\n", snap.Progress.Correct, snap.Progress.Total)
	if snap.Complete {
		if snap.ProblemCount > 1 {
			b.WriteString("\nDone! Type `next` for the next problem.\n")
		} else {
			b.WriteString("\nDone! Type `reset` to play again.\n")
		}
	}
	return b.String()
}

func writeList(b *strings.Builder, items []domain.Item) {
	for i, it := range items {
		fmt.Fprintf(b, "%d. %s `%s`\n", i+1, it.Text, it.ID)
	}
	b.WriteString("\n")
}

func outcomeOf(correct bool) domain.Outcome {
	if correct {
		return domain.OutcomeCorrect
	}
	return domain.OutcomeIncorrect
}

func mark(o domain.Outcome) string {
	switch o {
	case domain.OutcomeCorrect:
		return "✓"
	case domain.OutcomeIncorrect:
		return "✗"
	default:
		return "·"
	}
}
