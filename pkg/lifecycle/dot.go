package lifecycle

import (
	"fmt"
	"strings"
)

// GenerateDOT converts a table to Graphviz DOT format.
// Edges between the same pair of states share one label.
func GenerateDOT(t *Table, title string) string {
	var sb strings.Builder

	sb.WriteString("digraph Lifecycle {\n")
	sb.WriteString("    rankdir=LR;\n")
	sb.WriteString("    node [fontname=\"Helvetica\", fontsize=11, shape=circle];\n")
	sb.WriteString("    edge [fontname=\"Helvetica\", fontsize=10];\n")
	sb.WriteString("\n")

	if title != "" {
		sb.WriteString("    labelloc=\"t\";\n")
		sb.WriteString(fmt.Sprintf("    label=\"%s\";\n", escapeDOT(title)))
		sb.WriteString("\n")
	}

	if t.Initial != "" {
		sb.WriteString("    __start [shape=none, label=\"\", width=0, height=0];\n")
		sb.WriteString(fmt.Sprintf("    __start -> \"%s\";\n", escapeDOT(t.Initial)))
		sb.WriteString("\n")
	}

	for _, state := range t.States {
		sb.WriteString(fmt.Sprintf("    \"%s\";\n", escapeDOT(state)))
	}
	sb.WriteString("\n")

	// Keep first-seen edge order so output is stable
	var order [][2]string
	labels := make(map[[2]string][]string)
	for _, tr := range t.Transitions {
		key := [2]string{tr.From, tr.To}
		if _, ok := labels[key]; !ok {
			order = append(order, key)
		}
		labels[key] = append(labels[key], tr.Event)
	}

	for _, key := range order {
		sb.WriteString(fmt.Sprintf("    \"%s\" -> \"%s\" [label=\"%s\"];\n",
			escapeDOT(key[0]), escapeDOT(key[1]), escapeDOT(strings.Join(labels[key], ", "))))
	}

	sb.WriteString("}\n")
	return sb.String()
}

func escapeDOT(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "<", "\\<")
	s = strings.ReplaceAll(s, ">", "\\>")
	return s
}
