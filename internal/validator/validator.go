package validator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/frost/pkg/domain"
)

// ValidatePayload checks a stored payload for problems that would make thaw
// fail or restore the wrong state, without needing the next request's tree.
// When tags is non-nil, class tags outside it are reported as unknown.
func ValidatePayload(p *domain.Payload, tags []string) error {
	if p == nil {
		return nil
	}

	known := make(map[string]bool, len(tags))
	for _, tag := range tags {
		known[tag] = true
	}

	var errors []string
	rootClaims := make(map[[2]string]int)

	for bi, branch := range p.Branches {
		root, ok := branch.Root()
		if !ok {
			errors = append(errors, fmt.Sprintf("Branch %d is empty", bi))
			continue
		}

		claim := [2]string{root.Parent, root.Name}
		if prev, ok := rootClaims[claim]; ok {
			errors = append(errors, fmt.Sprintf("Branch %d root '%s' duplicates branch %d under %s",
				bi, root.Name, prev, parentLabel(root)))
		} else {
			rootClaims[claim] = bi
		}

		parents, err := branch.Parents()
		if err != nil {
			errors = append(errors, fmt.Sprintf("Branch %d: %v", bi, err))
			continue
		}

		siblings := make(map[[2]string]bool)
		for i, entry := range branch {
			if entry.Class == "" {
				errors = append(errors, fmt.Sprintf("Branch %d entry '%s' has no class tag", bi, entry.Name))
			} else if tags != nil && !known[entry.Class] {
				errors = append(errors, fmt.Sprintf("Branch %d entry '%s' has unknown class tag '%s'", bi, entry.Name, entry.Class))
			}
			if entry.Name == "" {
				errors = append(errors, fmt.Sprintf("Branch %d entry %d has an empty name", bi, i))
			}
			if i == 0 {
				continue
			}
			key := [2]string{fmt.Sprint(parents[i]), entry.Name}
			if siblings[key] {
				errors = append(errors, fmt.Sprintf("Branch %d has two children named '%s' under '%s'", bi, entry.Name, entry.Parent))
			}
			siblings[key] = true
		}
	}

	paths := make([]string, 0, len(p.Fields))
	for path := range p.Fields {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, path := range paths {
		name, ok := p.Fields[path].Name()
		last := path[strings.LastIndex(path, domain.PathSeparator)+1:]
		switch {
		case !ok:
			errors = append(errors, fmt.Sprintf("Field-set '%s' has no name field", path))
		case name != last:
			errors = append(errors, fmt.Sprintf("Field-set '%s' is named '%s'", path, name))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("found %d errors:\n- %s", len(errors), strings.Join(errors, "\n- "))
	}
	return nil
}

func parentLabel(e domain.BranchEntry) string {
	if e.HasParent() {
		return "'" + e.Parent + "'"
	}
	return "the root"
}
