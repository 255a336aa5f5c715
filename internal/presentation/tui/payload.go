package tui

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/frost/internal/presentation/graph"
	"github.com/aretw0/frost/pkg/domain"
)

// PayloadMarkdown describes a payload as markdown: one nested list per branch,
// one table per field-set and the Mermaid graph of the branches.
func PayloadMarkdown(title string, p *domain.Payload) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", title)

	if p == nil {
		sb.WriteString("_No pending payload._\n")
		return sb.String()
	}

	fmt.Fprintf(&sb, "%d branch(es), %d stateful node(s), %d field-set(s).\n\n",
		len(p.Branches), p.Nodes(), len(p.Fields))

	sb.WriteString("## Branches\n\n")
	if len(p.Branches) == 0 {
		sb.WriteString("_None._\n\n")
	}
	for i, branch := range p.Branches {
		root, ok := branch.Root()
		if !ok {
			fmt.Fprintf(&sb, "### Branch %d\n\n> empty branch\n\n", i)
			continue
		}
		parent := "root"
		if root.HasParent() {
			parent = root.Parent
		}
		fmt.Fprintf(&sb, "### Branch %d (under `%s`)\n\n", i, parent)

		parents, err := branch.Parents()
		if err != nil {
			fmt.Fprintf(&sb, "> %s\n\n", err)
			continue
		}
		depth := make([]int, len(branch))
		for j, entry := range branch {
			if parents[j] >= 0 {
				depth[j] = depth[parents[j]] + 1
			}
			fmt.Fprintf(&sb, "%s- **%s** `%s`\n", strings.Repeat("  ", depth[j]), entry.Name, entry.Class)
		}
		sb.WriteString("\n")
	}

	if len(p.Fields) > 0 {
		sb.WriteString("## Fields\n\n")
		paths := make([]string, 0, len(p.Fields))
		for path := range p.Fields {
			paths = append(paths, path)
		}
		sort.Strings(paths)

		for _, path := range paths {
			fmt.Fprintf(&sb, "### `%s`\n\n| Field | Value |\n|---|---|\n", path)
			fields := p.Fields[path]
			keys := make([]string, 0, len(fields))
			for k := range fields {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(&sb, "| %s | %s |\n", k, formatValue(fields[k]))
			}
			sb.WriteString("\n")
		}
	}

	sb.WriteString("## Graph\n\n```mermaid\n")
	sb.WriteString(graph.GenerateMermaid(p))
	sb.WriteString("```\n")
	return sb.String()
}

func formatValue(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return strings.ReplaceAll(string(data), "|", "\\|")
}
