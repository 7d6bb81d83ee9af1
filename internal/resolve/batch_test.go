// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/idresolve/internal/dataset"
	"github.com/pdiddy/idresolve/internal/source"
	"github.com/pdiddy/idresolve/pkg/types"
)

// scriptedGraph answers ByDOI from a DOI → match table.
type scriptedGraph struct {
	byDOI map[string]*source.GraphMatch
	seen  []string
}

func (s *scriptedGraph) ByDOI(_ context.Context, _ types.FullName, doi string) (*source.GraphMatch, error) {
	s.seen = append(s.seen, doi)
	return s.byDOI[doi], nil
}

func (s *scriptedGraph) ByTitle(context.Context, types.FullName, string, int) (*source.GraphMatch, error) {
	return nil, nil
}

func TestResolveAuthorsCollectsIDs(t *testing.T) {
	g := &scriptedGraph{byDOI: map[string]*source.GraphMatch{
		"10.1/a": {PId: 1, AuthorID: "300"},
		"10.1/b": {PId: 2, AuthorID: "100"},
		"10.1/c": {PId: 3, AuthorID: "300"},
	}}
	r := &Resolver{Graph: g, IndexQuota: 49}

	set := types.AuthorSet{
		"Rossi Luca": {
			Fullname: rossi,
			Pubbs: []types.Publication{
				{DOI: "10.1/a"}, {DOI: "10.1/b"}, {DOI: "10.1/c"}, {DOI: "10.1/none"},
			},
		},
		"Bianchi Anna": {Fullname: types.FullName{"Bianchi", "Anna"}},
	}

	stats, err := r.ResolveAuthors(context.Background(), set)
	require.NoError(t, err)

	assert.Equal(t, []string{"100", "300"}, set["Rossi Luca"].AuIds)
	assert.NotNil(t, set["Bianchi Anna"].AuIds, "resolved authors always carry an id list")
	assert.Empty(t, set["Bianchi Anna"].AuIds)
	assert.Equal(t, []string{"10.1/a", "10.1/b", "10.1/c", "10.1/none"}, g.seen)

	assert.Equal(t, 2, stats.Authors)
	assert.Equal(t, 4, stats.Publications)
	assert.Equal(t, 3, stats.ByGraphDOI)
	assert.Equal(t, 1, stats.Unresolved)
	assert.Equal(t, 3, stats.Resolved())
}

func TestResolveAuthorsReplacesPreviousIDs(t *testing.T) {
	r := &Resolver{IndexQuota: 49}
	set := types.AuthorSet{"Rossi Luca": {Fullname: rossi, AuIds: []string{"stale"}}}

	_, err := r.ResolveAuthors(context.Background(), set)
	require.NoError(t, err)
	assert.Empty(t, set["Rossi Luca"].AuIds)
}

func testDataset() *types.Dataset {
	author := func(doi string) *types.Author {
		return &types.Author{Fullname: rossi, Pubbs: []types.Publication{{DOI: doi}}}
	}
	return &types.Dataset{
		Cand: types.Candidates{
			"2016": {"1": {"PO": types.FieldSet{
				"01-A1": {"Rossi Luca": author("10.1/cand")},
			}}},
		},
		Comm: types.Commissions{
			"2016": types.FieldSet{
				"01-A1": {"Rossi Luca": author("10.1/comm")},
			},
		},
	}
}

func TestResolveDatasetWalksBothTrees(t *testing.T) {
	g := &scriptedGraph{byDOI: map[string]*source.GraphMatch{
		"10.1/cand": {AuthorID: "1"},
		"10.1/comm": {AuthorID: "2"},
	}}
	r := &Resolver{Graph: g, IndexQuota: 49}
	ds := testDataset()

	stats, err := r.ResolveDataset(context.Background(), ds, dataset.AllGroups)
	require.NoError(t, err)

	assert.Equal(t, []string{"10.1/cand", "10.1/comm"}, g.seen, "candidates are walked before commissions")
	assert.Equal(t, []string{"1"}, ds.Cand["2016"]["1"]["PO"]["01-A1"]["Rossi Luca"].AuIds)
	assert.Equal(t, []string{"2"}, ds.Comm["2016"]["01-A1"]["Rossi Luca"].AuIds)
	assert.Equal(t, 2, stats.Authors)
}

func TestResolveDatasetOnlyCommissions(t *testing.T) {
	g := &scriptedGraph{byDOI: map[string]*source.GraphMatch{}}
	r := &Resolver{Graph: g, IndexQuota: 49}
	ds := testDataset()

	_, err := r.ResolveDataset(context.Background(), ds, dataset.Commissions)
	require.NoError(t, err)

	assert.Equal(t, []string{"10.1/comm"}, g.seen)
	assert.Nil(t, ds.Cand["2016"]["1"]["PO"]["01-A1"]["Rossi Luca"].AuIds)
}

func TestResolveDatasetCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := &Resolver{Graph: &scriptedGraph{}, IndexQuota: 49}

	_, err := r.ResolveDataset(ctx, testDataset(), dataset.AllGroups)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResolveDatasetSharesGovernor(t *testing.T) {
	idx := &fakeIndex{}
	var pauses int
	r := &Resolver{
		Index:      idx,
		IndexQuota: 2,
		Sleep: func(context.Context, time.Duration) error {
			pauses++
			return nil
		},
	}
	pubs := func() []types.Publication {
		return []types.Publication{{Title: "a", Year: 2019}, {Title: "b", Year: 2019}}
	}
	ds := &types.Dataset{
		Comm: types.Commissions{"2016": types.FieldSet{
			"01": {"A": {Fullname: rossi, Pubbs: pubs()}},
			"02": {"B": {Fullname: rossi, Pubbs: pubs()}},
		}},
	}

	stats, err := r.ResolveDataset(context.Background(), ds, dataset.AllGroups)
	require.NoError(t, err)
	assert.Equal(t, 4, idx.calls)
	assert.Equal(t, 1, pauses)
	assert.Equal(t, 1, stats.Pauses)
}
