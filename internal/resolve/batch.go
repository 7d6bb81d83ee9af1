// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"context"
	"sort"
	"strings"

	"github.com/pdiddy/idresolve/internal/dataset"
	"github.com/pdiddy/idresolve/pkg/types"
)

// Stats counts what a batch run did.
type Stats struct {
	Authors      int
	Publications int
	Skipped      int
	Unresolved   int
	ByGraphDOI   int
	ByGraphTitle int
	ByOpenAccess int
	ByIndex      int

	// Failures counts contained source errors.
	Failures int

	// Pauses counts governor cooldowns.
	Pauses int
}

// Resolved returns the publications for which some source answered.
func (s Stats) Resolved() int {
	return s.ByGraphDOI + s.ByGraphTitle + s.ByOpenAccess + s.ByIndex
}

func (s *Stats) record(res Result) {
	s.Publications++
	s.Failures += len(res.Errors)
	switch res.Outcome {
	case OutcomeSkipped:
		s.Skipped++
	case OutcomeUnresolved:
		s.Unresolved++
	case OutcomeGraphDOI:
		s.ByGraphDOI++
	case OutcomeGraphTitle:
		s.ByGraphTitle++
	case OutcomeOpenAccess:
		s.ByOpenAccess++
	case OutcomeIndex:
		s.ByIndex++
	}
}

// batch is one sequential run sharing a governor and stats.
type batch struct {
	r     *Resolver
	gov   *Governor
	stats Stats
}

func (r *Resolver) newBatch() *batch {
	return &batch{r: r, gov: NewGovernor(r.IndexQuota, r.IndexCooldown, r.Sleep)}
}

func (b *batch) done() Stats {
	b.stats.Pauses = b.gov.Pauses()
	return b.stats
}

// ResolveAuthors resolves every publication of every author in set, in
// sorted key order, and stores each author's sorted external ids in AuIds.
func (r *Resolver) ResolveAuthors(ctx context.Context, set types.AuthorSet) (Stats, error) {
	b := r.newBatch()
	err := b.authors(ctx, set)
	return b.done(), err
}

// ResolveDataset walks the candidate tree, then the commission tree, as
// selected by groups. One governor throttles the whole run.
func (r *Resolver) ResolveDataset(ctx context.Context, ds *types.Dataset, groups dataset.Groups) (Stats, error) {
	b := r.newBatch()
	err := b.dataset(ctx, ds, groups)
	return b.done(), err
}

func (b *batch) dataset(ctx context.Context, ds *types.Dataset, groups dataset.Groups) error {
	return dataset.Walk(ds, groups, func(pos dataset.Position, set types.AuthorSet) error {
		b.r.logger().Debug("resolving field", "position", strings.Join(pos, "/"), "authors", len(set))
		return b.authors(ctx, set)
	})
}

func (b *batch) authors(ctx context.Context, set types.AuthorSet) error {
	for _, key := range dataset.Keys(set) {
		author := set[key]
		if author == nil {
			continue
		}
		if err := b.author(ctx, author); err != nil {
			return err
		}
	}
	return nil
}

func (b *batch) author(ctx context.Context, a *types.Author) error {
	b.stats.Authors++
	ids := map[string]struct{}{}

	for i := range a.Pubbs {
		if err := ctx.Err(); err != nil {
			return err
		}
		res, err := b.r.ResolvePublication(ctx, b.gov, a.Fullname, &a.Pubbs[i])
		if err != nil {
			return err
		}
		b.stats.record(res)
		if res.AuthorID != "" {
			ids[res.AuthorID] = struct{}{}
		}
	}

	a.AuIds = make([]string, 0, len(ids))
	for id := range ids {
		a.AuIds = append(a.AuIds, id)
	}
	sort.Strings(a.AuIds)
	b.r.logger().Info("author resolved", "name", a.Fullname[0]+" "+a.Fullname[1], "publications", len(a.Pubbs), "ids", len(a.AuIds))
	return nil
}
