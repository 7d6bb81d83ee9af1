// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"context"
	"time"
)

// SleepFunc pauses for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Governor throttles calls to the quota-enforcing index. It lets Quota
// calls through back to back; the next call is preceded by Cooldown and
// restarts the count at 1. A Governor belongs to one batch run.
type Governor struct {
	quota    int
	cooldown time.Duration
	sleep    SleepFunc

	count  int
	pauses int
}

// NewGovernor returns a governor with the given quota and cooldown. A nil
// sleep waits on a timer.
func NewGovernor(quota int, cooldown time.Duration, sleep SleepFunc) *Governor {
	if sleep == nil {
		sleep = sleepCtx
	}
	return &Governor{quota: quota, cooldown: cooldown, sleep: sleep}
}

// Wait must be called before each governed call.
func (g *Governor) Wait(ctx context.Context) error {
	if g.count < g.quota {
		g.count++
		return nil
	}
	if err := g.sleep(ctx, g.cooldown); err != nil {
		return err
	}
	g.pauses++
	g.count = 1
	return nil
}

// Count returns the calls made since the last reset.
func (g *Governor) Count() int { return g.count }

// Pauses returns how many cooldowns have been inserted.
func (g *Governor) Pauses() int { return g.pauses }

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
