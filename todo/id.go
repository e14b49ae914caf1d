package todo

import "time"

// GenerateID derives a local todo ID from the creation time in milliseconds.
// The result is always greater than every ID in existing so it cannot
// collide with seeded records or todos created within the same millisecond.
func GenerateID(now time.Time, existing []Todo) int64 {
	id := now.UnixMilli()
	for _, item := range existing {
		if item.ID >= id {
			id = item.ID + 1
		}
	}
	if id <= 0 {
		id = 1
	}
	return id
}

func indexOf(todos []Todo, id int64) int {
	for i := range todos {
		if todos[i].ID == id {
			return i
		}
	}
	return -1
}
