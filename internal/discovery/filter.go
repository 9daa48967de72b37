// Package discovery computes the student-facing event list: tag and text
// filtering, the future cutoff and the date+time ordering.
package discovery

import (
	"sort"
	"strings"
	"time"

	"campus-events/internal/model"
)

// DefaultGrace keeps events that started within the last day visible.
const DefaultGrace = 24 * time.Hour

type Criteria struct {
	// Tags empty means no tag filter.
	Tags   []string
	Search string
	Now    time.Time
	Grace  time.Duration
	// IncludePast disables the future cutoff.
	IncludePast bool
}

// Filter returns the visible events in start order. The input slice is not
// modified and the result does not depend on its order.
func Filter(events []*model.Event, c Criteria) []*model.Event {
	search := strings.ToLower(strings.TrimSpace(c.Search))
	grace := c.Grace
	if grace <= 0 {
		grace = DefaultGrace
	}
	loc := c.Now.Location()
	cutoff := c.Now.Add(-grace)

	out := make([]*model.Event, 0, len(events))
	for _, e := range events {
		if e == nil {
			continue
		}
		if len(c.Tags) > 0 && !e.HasAnyTag(c.Tags) {
			continue
		}
		if search != "" && !strings.Contains(e.SearchText(), search) {
			continue
		}
		if !c.IncludePast {
			start, err := e.StartsAt(loc)
			if err != nil || start.Before(cutoff) {
				continue
			}
		}
		out = append(out, e)
	}

	Sort(out)
	return out
}

// Sort orders events by date+time, then title, then id.
func Sort(events []*model.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if ka, kb := a.SortKey(), b.SortKey(); ka != kb {
			return ka < kb
		}
		if a.Title != b.Title {
			return a.Title < b.Title
		}
		return a.ID.String() < b.ID.String()
	})
}
