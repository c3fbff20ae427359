// Package graph renders engine state graphs.
package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/silverconnect/pkg/domain"
)

// Graph is the read-only view of a state machine needed for rendering.
// *runtime.Machine implements it.
type Graph interface {
	Name() string
	Initial() domain.StateKind
	States() []domain.StateKind
	Successors(kind domain.StateKind) []domain.StateKind
	Reentrant(kind domain.StateKind) bool
}

// Overlay contains session data to visualize on the graph.
type Overlay struct {
	CurrentState domain.StateKind
}

// GenerateMermaid produces a Mermaid flowchart for g.
// It applies semantic styling:
// - Initial state: ((Circle))
// - Reentrant state: ([Stadium]) with a self loop
// - Default: [Rectangle]
// The current state of the overlay, if any, is highlighted.
func GenerateMermaid(g Graph, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	fmt.Fprintf(&sb, "    %%%% %s engine\n", g.Name())

	for _, kind := range g.States() {
		id := sanitizeMermaidID(kind)

		opener, closer := "[", "]"
		switch {
		case kind == g.Initial():
			opener, closer = "((", "))"
		case g.Reentrant(kind):
			opener, closer = "([", "])"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", id, opener, kind, closer)

		for _, next := range g.Successors(kind) {
			fmt.Fprintf(&sb, "    %s --> %s\n", id, sanitizeMermaidID(next))
		}
		if g.Reentrant(kind) {
			fmt.Fprintf(&sb, "    %s -. again .-> %s\n", id, id)
		}
	}

	if overlay != nil && overlay.CurrentState != "" && overlay.CurrentState != domain.Idle {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for contrast on both light and dark themes
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		fmt.Fprintf(&sb, "    class %s current;\n", sanitizeMermaidID(overlay.CurrentState))
	}

	return sb.String()
}

func sanitizeMermaidID(kind domain.StateKind) string {
	return strings.NewReplacer(".", "_", "-", "_", "/", "_", "\\", "_", " ", "_").Replace(string(kind))
}
