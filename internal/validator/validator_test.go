package validator

import (
	"strings"
	"testing"

	"github.com/aretw0/frost/pkg/domain"
)

func validPayload() *domain.Payload {
	return &domain.Payload{
		Branches: []domain.Branch{
			{
				{Class: "Mum", Name: "mum"},
				{Class: "Kid", Name: "kid", Parent: "mum"},
			},
			{{Class: "Jerry", Name: "jerry", Parent: "berry"}},
		},
		Fields: map[string]domain.Fields{
			"root/mum":         {"name": "mum"},
			"root/mum/kid":     {"name": "kid", "who": "the cat"},
			"root/berry/jerry": {"name": "jerry"},
		},
	}
}

func TestValidatePayload(t *testing.T) {
	// Scenario A: Valid Payload
	if err := ValidatePayload(validPayload(), nil); err != nil {
		t.Errorf("Scenario A (Valid) failed: %v", err)
	}
	if err := ValidatePayload(validPayload(), []string{"Mum", "Kid", "Jerry"}); err != nil {
		t.Errorf("Scenario A (Valid, known tags) failed: %v", err)
	}
	if err := ValidatePayload(nil, nil); err != nil {
		t.Errorf("nil payload should be valid, got: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(p *domain.Payload)
		tags   []string
		want   string
	}{
		{
			name:   "Unknown Tag",
			mutate: func(p *domain.Payload) {},
			tags:   []string{"Mum", "Kid"},
			want:   "unknown class tag 'Jerry'",
		},
		{
			name: "Broken Parent",
			mutate: func(p *domain.Payload) {
				p.Branches[0][1].Parent = "dad"
			},
			want: "names parent \"dad\"",
		},
		{
			name: "Duplicate Branch Root",
			mutate: func(p *domain.Payload) {
				p.Branches = append(p.Branches, domain.Branch{{Class: "Mum", Name: "mum"}})
			},
			want: "duplicates branch 0 under the root",
		},
		{
			name: "Duplicate Sibling",
			mutate: func(p *domain.Payload) {
				p.Branches[0] = append(p.Branches[0], domain.BranchEntry{Class: "Kid", Name: "kid", Parent: "mum"})
			},
			want: "two children named 'kid'",
		},
		{
			name: "Empty Branch",
			mutate: func(p *domain.Payload) {
				p.Branches = append(p.Branches, domain.Branch{})
			},
			want: "Branch 2 is empty",
		},
		{
			name: "Missing Name Field",
			mutate: func(p *domain.Payload) {
				delete(p.Fields["root/mum"], domain.NameField)
			},
			want: "Field-set 'root/mum' has no name field",
		},
		{
			name: "Mismatched Name Field",
			mutate: func(p *domain.Payload) {
				p.Fields["root/mum/kid"][domain.NameField] = "jerry"
			},
			want: "Field-set 'root/mum/kid' is named 'jerry'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPayload()
			tt.mutate(p)
			err := ValidatePayload(p, tt.tags)
			if err == nil {
				t.Fatalf("expected an error containing %q, got nil", tt.want)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got: %v", tt.want, err)
			}
		})
	}
}
