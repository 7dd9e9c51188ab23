// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/connexion/internal/discovery"
	"github.com/jonathan/connexion/internal/outreach"
	"github.com/jonathan/connexion/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// moreLine reports how many items were left out of a list.
func moreLine(total int, noun string) string {
	if total <= maxItemsToShow {
		return ""
	}
	return fmt.Sprintf("  ... and %d more %s\n", total-maxItemsToShow, noun)
}

// PrintCriteria outputs the filter criteria a pass searches with.
func (p *Printer) PrintCriteria(c types.FilterCriteria) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Positions:  %s\n", strings.Join(c.Positions, ", ")))
	sb.WriteString(fmt.Sprintf("Locations:  %s\n", strings.Join(c.Locations, ", ")))
	sb.WriteString(fmt.Sprintf("Experience: %s %d years", c.Operator, c.Years))

	p.printBox("SEARCH CRITERIA", sb.String())
}

// PrintQueries outputs the queries about to run.
func (p *Printer) PrintQueries(queries []string) {
	if len(queries) == 0 {
		p.printBox("QUERIES", "No unused queries left for these criteria.")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d queries:\n\n", len(queries)))
	for i := 0; i < min(len(queries), maxItemsToShow); i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", queries[i]))
	}
	sb.WriteString(moreLine(len(queries), "queries"))

	p.printBox("QUERIES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintDiscovery outputs the outcome of a discovery pass.
func (p *Printer) PrintDiscovery(res *discovery.Result, queued int) {
	if res == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Queries run:     %d\n", res.QueriesRun))
	sb.WriteString(fmt.Sprintf("New profiles:    %d\n", len(res.Profiles)))
	sb.WriteString(fmt.Sprintf("Added to queue:  %d\n", queued))
	if res.Message != "" {
		sb.WriteString(fmt.Sprintf("Stopped early:   %s\n", res.Message))
	}

	if len(res.Profiles) > 0 {
		sb.WriteString("\n")
		for i := 0; i < min(len(res.Profiles), maxItemsToShow); i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", res.Profiles[i].Title))
		}
		sb.WriteString(moreLine(len(res.Profiles), "profiles"))
	}

	p.printBox("DISCOVERY", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintClassification outputs what the classifier saw on a page.
func (p *Printer) PrintClassification(url string, result types.ClassificationResult) {
	var sb strings.Builder
	if url != "" {
		sb.WriteString(fmt.Sprintf("Profile:       %s\n", url))
	}
	sb.WriteString(fmt.Sprintf("Connections:   %d\n", result.ConnectionCount))
	sb.WriteString(fmt.Sprintf("Affordance:    %s\n", result.Affordance))
	sb.WriteString(fmt.Sprintf("Weekly limit:  %v", result.WeeklyLimitReached))

	p.printBox("CLASSIFICATION", sb.String())
}

// PrintOutreach outputs the terminal status of an outreach run.
func (p *Printer) PrintOutreach(o *outreach.Orchestrator, status outreach.Status) {
	var sb strings.Builder
	if o != nil {
		sb.WriteString(fmt.Sprintf("Run:       %s\n", o.RunID()))
		sb.WriteString(fmt.Sprintf("Visited:   %d\n", len(o.Consumed())))
	}
	sb.WriteString(fmt.Sprintf("Sent:      %d\n", status.Sent))
	sb.WriteString(fmt.Sprintf("Status:    %s", status.Message()))

	p.printBox("OUTREACH", sb.String())
}
