package inmemdb

import (
	"sort"
	"sync"

	"github.com/trezcool/itsite/core/content"
	"github.com/trezcool/itsite/core/course"
	"github.com/trezcool/itsite/core/submission"
	"github.com/trezcool/itsite/core/user"
)

type (
	// DB holds one table per entity. Data lives as long as the process.
	DB struct {
		users         *table[user.User]
		projects      *table[submission.ProjectSubmission]
		registrations *table[submission.CourseRegistration]
		courses       *table[course.Course]
		schedules     *table[course.Schedule]
		cards         *table[content.Card]
		lists         *table[content.List]
		team          *table[content.TeamMember]
		blog          *table[content.BlogPost]
	}

	// table keeps rows in insertion order.
	table[T any] struct {
		sync.RWMutex
		seq  int64
		rows []T
	}
)

func Open() *DB {
	return &DB{
		users:         new(table[user.User]),
		projects:      new(table[submission.ProjectSubmission]),
		registrations: new(table[submission.CourseRegistration]),
		courses:       new(table[course.Course]),
		schedules:     new(table[course.Schedule]),
		cards:         new(table[content.Card]),
		lists:         new(table[content.List]),
		team:          new(table[content.TeamMember]),
		blog:          new(table[content.BlogPost]),
	}
}

// nextID must be called with the write lock held.
func (t *table[T]) nextID() int64 {
	t.seq++
	return t.seq
}

// filter must be called with a lock held.
func (t *table[T]) filter(match func(T) bool) []T {
	rows := make([]T, 0, len(t.rows))
	for _, row := range t.rows {
		if match == nil || match(row) {
			rows = append(rows, row)
		}
	}
	return rows
}

// index must be called with a lock held.
func (t *table[T]) index(match func(T) bool) int {
	for i, row := range t.rows {
		if match(row) {
			return i
		}
	}
	return -1
}

func (t *table[T]) get(match func(T) bool) (T, bool) {
	t.RLock()
	defer t.RUnlock()

	if i := t.index(match); i >= 0 {
		return t.rows[i], true
	}
	var zero T
	return zero, false
}

func (t *table[T]) replace(match func(T) bool, row T) bool {
	t.Lock()
	defer t.Unlock()

	i := t.index(match)
	if i < 0 {
		return false
	}
	t.rows[i] = row
	return true
}

func (t *table[T]) remove(match func(T) bool) int {
	t.Lock()
	defer t.Unlock()

	kept := t.rows[:0]
	for _, row := range t.rows {
		if !match(row) {
			kept = append(kept, row)
		}
	}
	n := len(t.rows) - len(kept)
	t.rows = kept
	return n
}

// sortByOrder sorts rows by their display order; the sort is stable so ties keep insertion order.
func sortByOrder[T any](rows []T, order func(T) int) {
	sort.SliceStable(rows, func(i, j int) bool { return order(rows[i]) < order(rows[j]) })
}

// newestFirst reverses rows kept in insertion order.
func newestFirst[T any](rows []T) {
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append(make([]string, 0, len(s)), s...)
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append(make([]byte, 0, len(b)), b...)
}
