package client

import (
	"sort"
	"time"

	"github.com/taskhive/core/internal/domain/entities"
)

// Named bucket keys. Any other key is a formatted calendar date.
const (
	BucketOverdue   = "Overdue"
	BucketToday     = "Today"
	BucketTomorrow  = "Tomorrow"
	BucketNoDueDate = "No Due Date"
)

const dateKeyLayout = "Jan 02, 2006"

// Bucket is one display group of tasks.
type Bucket struct {
	Key   string
	Tasks []*entities.Task
}

// GroupForDisplay partitions an already-filtered task set into display
// buckets: Overdue, Today, Tomorrow, each remaining due date ascending,
// then No Due Date. Within a bucket, tasks sort by priority (high first)
// then due date ascending, undated treated as earliest. Buckets are purely
// a view; nothing here is persisted.
func GroupForDisplay(tasks []*entities.Task) []Bucket {
	return groupForDisplayAt(tasks, time.Now())
}

func groupForDisplayAt(tasks []*entities.Task, now time.Time) []Bucket {
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	startOfTomorrow := startOfToday.AddDate(0, 0, 1)
	startOfDayAfter := startOfToday.AddDate(0, 0, 2)

	groups := make(map[string][]*entities.Task)
	for _, task := range tasks {
		key := bucketKey(task, startOfToday, startOfTomorrow, startOfDayAfter)
		groups[key] = append(groups[key], task)
	}

	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		return bucketLess(keys[i], keys[j])
	})

	buckets := make([]Bucket, 0, len(keys))
	for _, key := range keys {
		bucketTasks := groups[key]
		sortWithinBucket(bucketTasks)
		buckets = append(buckets, Bucket{Key: key, Tasks: bucketTasks})
	}

	return buckets
}

func bucketKey(task *entities.Task, startOfToday, startOfTomorrow, startOfDayAfter time.Time) string {
	if task.DueDate == nil {
		return BucketNoDueDate
	}

	due := *task.DueDate
	switch {
	case due.Before(startOfToday):
		// A completed task is never overdue; it files under its literal date
		if !task.IsCompleted {
			return BucketOverdue
		}
		return due.Format(dateKeyLayout)
	case due.Before(startOfTomorrow):
		return BucketToday
	case due.Before(startOfDayAfter):
		return BucketTomorrow
	default:
		return due.Format(dateKeyLayout)
	}
}

// fixedOrder positions the named buckets; dated buckets slot between
// Tomorrow and No Due Date, sorted by their date.
var fixedOrder = map[string]int{
	BucketOverdue:   0,
	BucketToday:     1,
	BucketTomorrow:  2,
	BucketNoDueDate: 999,
}

func bucketLess(a, b string) bool {
	rankA, fixedA := fixedOrder[a]
	rankB, fixedB := fixedOrder[b]

	switch {
	case fixedA && fixedB:
		return rankA < rankB
	case fixedA:
		return rankA < fixedOrder[BucketNoDueDate]
	case fixedB:
		return fixedOrder[BucketNoDueDate] <= rankB
	}

	dateA, errA := time.Parse(dateKeyLayout, a)
	dateB, errB := time.Parse(dateKeyLayout, b)
	if errA != nil || errB != nil {
		return a < b
	}
	return dateA.Before(dateB)
}

func sortWithinBucket(tasks []*entities.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if ri, rj := tasks[i].Priority.Rank(), tasks[j].Priority.Rank(); ri != rj {
			return ri < rj
		}

		var di, dj time.Time
		if tasks[i].DueDate != nil {
			di = *tasks[i].DueDate
		}
		if tasks[j].DueDate != nil {
			dj = *tasks[j].DueDate
		}
		return di.Before(dj)
	})
}
