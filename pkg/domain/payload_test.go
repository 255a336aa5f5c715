package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/frost/pkg/domain"
)

func TestBranchEntry_WireShape(t *testing.T) {
	branch := domain.Branch{
		{Class: "Mouse", Name: "mum"},
		{Class: "Mouse", Name: "kid", Parent: "mum"},
	}
	data, err := json.Marshal(branch)
	require.NoError(t, err)
	assert.JSONEq(t, `[["Mouse","mum",null],["Mouse","kid","mum"]]`, string(data))

	var back domain.Branch
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, branch, back)
}

func TestBranchEntry_RejectsMalformed(t *testing.T) {
	for _, in := range []string{
		`{"class":"Mouse"}`,
		`["Mouse","mum"]`,
		`[null,"mum",null]`,
		`["Mouse",null,null]`,
	} {
		var e domain.BranchEntry
		err := json.Unmarshal([]byte(in), &e)
		assert.ErrorIs(t, err, domain.ErrCorruptPayload, in)
	}
}

func TestBranch_Parents(t *testing.T) {
	branch := domain.Branch{
		{Class: "M", Name: "a"},
		{Class: "M", Name: "x", Parent: "a"},
		{Class: "M", Name: "a", Parent: "x"},
		{Class: "M", Name: "y", Parent: "a"},
		{Class: "M", Name: "z", Parent: "x"},
	}
	parents, err := branch.Parents()
	require.NoError(t, err)
	assert.Equal(t, []int{-1, 0, 1, 2, 1}, parents)

	_, err = domain.Branch{{Name: "a"}, {Name: "b", Parent: "ghost"}}.Parents()
	assert.ErrorIs(t, err, domain.ErrCorruptPayload)
}

func TestPayload_Counts(t *testing.T) {
	var nilPayload *domain.Payload
	assert.True(t, nilPayload.Empty())
	assert.Zero(t, nilPayload.Nodes())

	p := &domain.Payload{Branches: []domain.Branch{
		{{Name: "a"}, {Name: "b", Parent: "a"}},
		{{Name: "c"}},
	}}
	assert.False(t, p.Empty())
	assert.Equal(t, 3, p.Nodes())
}

type record struct {
	Who     string `mapstructure:"who"`
	Squeaks int    `mapstructure:"squeaks"`
}

func TestRecordRoundTripThroughJSON(t *testing.T) {
	fields, err := domain.EncodeRecord("mum", &record{Who: "mum", Squeaks: 3})
	require.NoError(t, err)
	name, ok := fields.Name()
	assert.True(t, ok)
	assert.Equal(t, "mum", name)

	data, err := json.Marshal(fields)
	require.NoError(t, err)
	var decoded domain.Fields
	require.NoError(t, json.Unmarshal(data, &decoded))

	var back record
	require.NoError(t, domain.DecodeRecord(decoded, &back))
	assert.Equal(t, record{Who: "mum", Squeaks: 3}, back)
}

func TestBranch_Root(t *testing.T) {
	_, ok := domain.Branch{}.Root()
	assert.False(t, ok)

	root, ok := domain.Branch{{Class: "Mouse", Name: "mum"}}.Root()
	require.True(t, ok)
	assert.Equal(t, "mum", root.Name)
}

func TestStageRecord(t *testing.T) {
	type tagged struct {
		Who  string   `mapstructure:"who"`
		Tags []string `mapstructure:"tags"`
	}
	live := &tagged{Who: "mum", Tags: []string{"a", "b"}}

	staged, err := domain.StageRecord(domain.Fields{"who": "kid", "tags": []any{"z"}}, live)
	require.NoError(t, err)
	assert.Equal(t, &tagged{Who: "mum", Tags: []string{"a", "b"}}, live)

	staged.Commit()
	assert.Equal(t, &tagged{Who: "kid", Tags: []string{"z"}}, live)

	staged.Revert()
	assert.Equal(t, &tagged{Who: "mum", Tags: []string{"a", "b"}}, live)

	_, err = domain.StageRecord(domain.Fields{"who": []any{1}}, live)
	assert.Error(t, err)
	assert.Equal(t, "mum", live.Who)

	_, err = domain.StageRecord(domain.Fields{}, tagged{})
	assert.Error(t, err)

	nothing, err := domain.StageRecord(domain.Fields{"who": "x"}, nil)
	require.NoError(t, err)
	nothing.Commit()
}
