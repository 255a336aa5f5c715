package graph_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/frost/internal/presentation/graph"
	"github.com/aretw0/frost/pkg/domain"
)

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name        string
		payload     *domain.Payload
		contains    []string
		notContains []string
	}{
		{
			name:     "Nil Payload",
			payload:  nil,
			contains: []string{"graph TD", `root(("root"))`},
		},
		{
			name: "Branch Under Root",
			payload: &domain.Payload{
				Branches: []domain.Branch{{
					{Class: "Mouse", Name: "mum"},
					{Class: "Mouse", Name: "kid", Parent: "mum"},
				}},
			},
			contains: []string{
				`b0_0[["Mouse: mum"]]`,
				"root --> b0_0",
				`b0_1["Mouse: kid"]`,
				"b0_0 --> b0_1",
			},
		},
		{
			name: "Branch Under Named Parent",
			payload: &domain.Payload{
				Branches: []domain.Branch{{{Class: "Mouse", Name: "kid", Parent: "body-cell"}}},
			},
			contains: []string{
				`ext_body_cell(["body-cell"])`,
				"ext_body_cell -.-> b0_0",
			},
			notContains: []string{"root --> b0_0"},
		},
		{
			name: "Field Overlay",
			payload: &domain.Payload{
				Branches: []domain.Branch{{
					{Class: "Mouse", Name: "mum"},
					{Class: "Mouse", Name: "kid", Parent: "mum"},
				}},
				Fields: map[string]domain.Fields{
					"mum":     {"name": "mum"},
					"mum/kid": {"name": "kid", "squeaks": 3},
				},
			},
			contains:    []string{"class b0_1 stateful;"},
			notContains: []string{"class b0_0"},
		},
		{
			name: "Broken Branch Is Annotated",
			payload: &domain.Payload{
				Branches: []domain.Branch{{
					{Class: "Mouse", Name: "mum"},
					{Class: "Mouse", Name: "kid", Parent: "ghost"},
				}},
			},
			contains:    []string{"%% branch 0:"},
			notContains: []string{"b0_0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tt.payload)
			for _, want := range tt.contains {
				assert.True(t, strings.Contains(got, want), "expected %q in:\n%s", want, got)
			}
			for _, unwanted := range tt.notContains {
				assert.False(t, strings.Contains(got, unwanted), "unexpected %q in:\n%s", unwanted, got)
			}
		})
	}
}
