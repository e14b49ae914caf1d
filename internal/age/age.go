package age

import "time"

// AgeData computes how long ago then was and whether a time exists.
// Times in the future count as zero.
func AgeData(then time.Time, now time.Time) (time.Duration, bool) {
	if then.IsZero() {
		return 0, false
	}
	if now.Before(then) {
		return 0, true
	}
	return now.Sub(then), true
}

// Completion returns the age of a completion timestamp, or false when the
// todo is not completed.
func Completion(completedAt *time.Time, now time.Time) (time.Duration, bool) {
	if completedAt == nil {
		return 0, false
	}
	return AgeData(*completedAt, now)
}
