package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/ppiankov/corefer/internal/model"
)

// Renderer writes reports as JSON and as a short terminal summary
type Renderer struct {
	indent bool
}

// NewRenderer creates a renderer
func NewRenderer(indent bool) *Renderer {
	return &Renderer{indent: indent}
}

// WriteJSON encodes the report to w
func (r *Renderer) WriteJSON(w io.Writer, report *model.Report) error {
	enc := json.NewEncoder(w)
	if r.indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

// RenderJSON writes the report to path
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := r.WriteJSON(f, report); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// RenderSummary prints entity and decision counts
func (r *Renderer) RenderSummary(w io.Writer, report *model.Report) {
	title := color.New(color.FgCyan, color.Bold).SprintFunc()
	dim := color.New(color.FgHiBlack).SprintFunc()

	fmt.Fprintf(w, "%s %s\n", title("Document"), report.DocumentID)
	fmt.Fprintf(w, "  mentions: %d, entities: %d (%d created)\n",
		report.Stats.Mentions, report.Stats.ActiveEntities, report.Stats.Entities)
	if report.Stats.SingletonsBefore != report.Stats.SingletonsAfter {
		fmt.Fprintf(w, "  singleton descriptors: %d -> %d\n",
			report.Stats.SingletonsBefore, report.Stats.SingletonsAfter)
	}

	for _, e := range report.Entities {
		fmt.Fprintf(w, "  %s %-4s %s %s\n",
			dim(fmt.Sprintf("#%d", e.ID)), e.Type, e.CanonicalName, dim(fmt.Sprintf("(%d)", len(e.Mentions))))
	}

	if len(report.Stats.Decisions) > 0 {
		fmt.Fprintf(w, "%s\n", title("Decisions"))
		for _, key := range sortedKeys(report.Stats.Decisions) {
			fmt.Fprintf(w, "  %-24s %d\n", key, report.Stats.Decisions[key])
		}
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
