package domain

import "time"

// ScanOverdue marks every overdue, not yet penalized task and charges one level
// per task. XP within the current level is discarded when any penalty applies.
// The input slice and the tasks it points to are left untouched.
func ScanOverdue(tasks []*Task, stats UserStats, today time.Time) ([]*Task, UserStats, int) {
	out := make([]*Task, len(tasks))
	count := 0

	for i, t := range tasks {
		if !t.IsOverdue(today) {
			out[i] = t
			continue
		}

		marked := *t
		marked.Penalized = true
		out[i] = &marked
		count++
	}

	next := stats
	if count > 0 {
		next.Level = max(InitialLevel, stats.Level-count)
		next.XP = 0
	}

	return out, next, count
}

// PenalizedIDs lists the tasks that went from unpenalized to penalized.
func PenalizedIDs(before, after []*Task) []string {
	var ids []string
	for i := range after {
		if i < len(before) && !before[i].Penalized && after[i].Penalized {
			ids = append(ids, after[i].ID)
		}
	}
	return ids
}
