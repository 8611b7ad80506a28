package task

import (
	"sort"
)

// Reconcile merges a freshly fetched task list into the previously held one.
// Genuinely new tasks are prepended; tasks already known only get their
// timestamp refreshed, so client-held fields and entry identity survive the
// poll and the list never flickers. Entries the fetch no longer carries are
// kept. The result is sorted descending by timestamp and the operation is
// idempotent: reconciling an identical list with itself is a no-op.
func Reconcile(previous, fetched []Task) []Task {
	known := make(map[string]struct{}, len(previous))
	for _, t := range previous {
		known[t.ID] = struct{}{}
	}

	byID := make(map[string]Task, len(fetched))
	var fresh []Task
	for _, t := range fetched {
		byID[t.ID] = t
		if _, ok := known[t.ID]; !ok {
			fresh = append(fresh, t)
		}
	}

	merged := make([]Task, 0, len(previous)+len(fresh))
	merged = append(merged, fresh...)
	for _, t := range previous {
		if f, ok := byID[t.ID]; ok && f.Timestamp != t.Timestamp {
			t.Timestamp = f.Timestamp
		}
		merged = append(merged, t)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Timestamp > merged[j].Timestamp
	})
	return merged
}
