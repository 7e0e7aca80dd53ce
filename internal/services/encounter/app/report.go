package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/louisbranch/encounters/internal/services/encounter/domain/outcome"
	"github.com/louisbranch/encounters/internal/services/encounter/generator"
	"github.com/louisbranch/encounters/internal/services/encounter/storage"
)

var outcomeOrder = []outcome.Outcome{outcome.Victory, outcome.Defeat, outcome.Undecided}

// report prints the batch summary. Outcome counts come from the store so the
// line reflects what was persisted.
func report(ctx context.Context, out io.Writer, store storage.EncounterStore, summary generator.Summary) {
	counts, err := store.CountByOutcome(ctx, summary.BatchID)
	if err != nil {
		log.Printf("count outcomes for batch %s: %v", summary.BatchID, err)
		counts = make(map[string]int, len(summary.Outcomes))
		for o, n := range summary.Outcomes {
			counts[o.String()] = n
		}
	}
	fmt.Fprint(out, Summarize(summary, counts))
}

// Summarize renders a batch summary for the console.
func Summarize(summary generator.Summary, counts map[string]int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "batch %s (%s, seed %d)\n", summary.BatchID, summary.Preset, summary.Seed)
	fmt.Fprintf(&b, "  generated %s of %s encounter(s) in %s",
		humanize.Comma(int64(summary.Generated)),
		humanize.Comma(int64(summary.Requested)),
		summary.Elapsed.Round(time.Millisecond))
	if summary.Failed > 0 {
		fmt.Fprintf(&b, ", %s without a feasible roster", humanize.Comma(int64(summary.Failed)))
	}
	b.WriteString("\n")

	total := 0
	for _, n := range counts {
		total += n
	}
	parts := make([]string, 0, len(outcomeOrder))
	for _, o := range outcomeOrder {
		n := counts[o.String()]
		share := 0.0
		if total > 0 {
			share = float64(n) * 100 / float64(total)
		}
		parts = append(parts, fmt.Sprintf("%s %s (%s%%)", o, humanize.Comma(int64(n)), humanize.FtoaWithDigits(share, 1)))
	}
	fmt.Fprintf(&b, "  outcomes: %s\n", strings.Join(parts, ", "))
	if summary.Distribution != "" {
		fmt.Fprintf(&b, "  difficulty: %s\n", summary.Distribution)
	}
	return b.String()
}
