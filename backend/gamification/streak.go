package gamification

import "time"

// StreakMode selects how streak day boundaries are computed.
type StreakMode string

const (
	// StreakCalendar counts whole calendar days between activities.
	StreakCalendar StreakMode = "calendar"
	// StreakLegacy compares only the day-of-month component. It misbehaves
	// across month boundaries and exists for stores whose values rely on it.
	StreakLegacy StreakMode = "legacy"
)

func (m StreakMode) Valid() bool {
	return m == StreakCalendar || m == StreakLegacy
}

// UpdateStreak computes the streak after an activity at now. changed is
// false when both instants fall on the same calendar day in loc, in which
// case nothing should be written.
//
// A zero lastActivity starts a streak of 1. A lastActivity after now is
// treated as the same day.
func UpdateStreak(lastActivity time.Time, currentStreak int, now time.Time, loc *time.Location) (newStreak int, changed bool) {
	if lastActivity.IsZero() {
		return 1, true
	}

	switch gap := DaysBetween(lastActivity, now, loc); {
	case gap <= 0:
		return currentStreak, false
	case gap == 1:
		return currentStreak + 1, true
	default:
		return 1, true
	}
}

// UpdateStreakDayOfMonth reproduces the day-of-month comparison: a
// difference above one resets, any other difference increments. Going from
// the 31st to the 1st therefore increments regardless of the real gap.
func UpdateStreakDayOfMonth(lastActivity time.Time, currentStreak int, now time.Time, loc *time.Location) (newStreak int, changed bool) {
	if lastActivity.IsZero() {
		return currentStreak + 1, true
	}
	if loc == nil {
		loc = time.UTC
	}

	today := now.In(loc).Day()
	last := lastActivity.In(loc).Day()

	switch {
	case today-last > 1:
		return 1, true
	case today != last:
		return currentStreak + 1, true
	default:
		return currentStreak, false
	}
}

// Streak dispatches to the function selected by mode.
func Streak(mode StreakMode, lastActivity time.Time, currentStreak int, now time.Time, loc *time.Location) (int, bool) {
	if mode == StreakLegacy {
		return UpdateStreakDayOfMonth(lastActivity, currentStreak, now, loc)
	}
	return UpdateStreak(lastActivity, currentStreak, now, loc)
}

// DaysBetween returns the number of calendar-day boundaries crossed going
// from a to b in loc. Negative when b is on an earlier day.
func DaysBetween(a, b time.Time, loc *time.Location) int {
	if loc == nil {
		loc = time.UTC
	}
	da := civilDay(a.In(loc))
	db := civilDay(b.In(loc))
	return int(db.Sub(da).Hours() / 24)
}

// civilDay maps a local date onto UTC midnight, so differences between two
// civil days are exact multiples of 24h.
func civilDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
