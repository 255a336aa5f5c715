package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/frost/pkg/domain"
)

// RootID is the Mermaid node standing for the frozen root.
const RootID = "root"

// GenerateMermaid produces a Mermaid flowchart of the branches in a payload.
// Shapes:
// - Frozen root: ((Circle))
// - Branch root: [[Subroutine]]
// - Other stateful nodes: [Rectangle]
// - Named parent outside the branch: ([Stadium]), linked with a dotted arrow
// Nodes carrying a field-set beyond their name are styled as "stateful".
func GenerateMermaid(p *domain.Payload) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	sb.WriteString(fmt.Sprintf("    %s((\"root\"))\n", RootID))
	if p == nil {
		return sb.String()
	}

	external := make(map[string]bool)
	var withFields []string

	for bi, branch := range p.Branches {
		parents, err := branch.Parents()
		if err != nil {
			sb.WriteString(fmt.Sprintf("    %%%% branch %d: %s\n", bi, sanitizeLabel(err.Error())))
			continue
		}

		paths := make([]string, len(branch))
		for i, entry := range branch {
			id := nodeID(bi, i)
			label := sanitizeLabel(entry.Class + ": " + entry.Name)

			if parents[i] < 0 {
				sb.WriteString(fmt.Sprintf("    %s[[\"%s\"]]\n", id, label))
				if entry.HasParent() {
					ext := "ext_" + sanitizeMermaidID(entry.Parent)
					if !external[ext] {
						external[ext] = true
						sb.WriteString(fmt.Sprintf("    %s([\"%s\"])\n", ext, sanitizeLabel(entry.Parent)))
					}
					sb.WriteString(fmt.Sprintf("    %s -.-> %s\n", ext, id))
				} else {
					sb.WriteString(fmt.Sprintf("    %s --> %s\n", RootID, id))
				}
				paths[i] = entry.Name
			} else {
				sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", id, label))
				sb.WriteString(fmt.Sprintf("    %s --> %s\n", nodeID(bi, parents[i]), id))
				paths[i] = paths[parents[i]] + domain.PathSeparator + entry.Name
			}

			if hasState(p.Fields, paths[i]) {
				withFields = append(withFields, id)
			}
		}
	}

	if len(withFields) > 0 {
		sort.Strings(withFields)
		sb.WriteString("\n    %% Field-set Styles\n")
		sb.WriteString("    classDef stateful fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString(fmt.Sprintf("    class %s stateful;\n", strings.Join(withFields, ",")))
	}

	return sb.String()
}

// hasState matches a field-set whose path ends with the branch-relative path.
// Branch roots sitting under named parents have longer stored paths.
func hasState(fields map[string]domain.Fields, rel string) bool {
	for path, f := range fields {
		if path != rel && !strings.HasSuffix(path, domain.PathSeparator+rel) {
			continue
		}
		if len(f) > 1 {
			return true
		}
	}
	return false
}

func nodeID(branch, entry int) string {
	return fmt.Sprintf("b%d_%d", branch, entry)
}

func sanitizeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
