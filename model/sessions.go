package model

import (
	"slices"
	"strings"
	"time"
)

// CanonicalTime rewrites a time of day to zero-padded HH:MM ("9:05" becomes
// "09:05") so that string order equals chronological order. Values that do
// not parse are returned trimmed and left for validation to reject.
func CanonicalTime(clock string) string {
	clock = strings.TrimSpace(clock)
	t, err := time.Parse(TimeLayout, clock)
	if err != nil {
		return clock
	}
	return t.Format(TimeLayout)
}

// sortKey orders entries by date then time; a missing time sorts as midnight
func sortKey(date, clock string) string {
	clock = CanonicalTime(clock)
	if clock == "" {
		clock = "00:00"
	}
	return date + "T" + clock
}

// canonicalizeSessionTimes rewrites the time of every entry in place
func canonicalizeSessionTimes(logs []SessionLog, upcoming []UpcomingSession) {
	for i := range logs {
		logs[i].Time = CanonicalTime(logs[i].Time)
	}
	for i := range upcoming {
		upcoming[i].Time = CanonicalTime(upcoming[i].Time)
	}
}

// SortKey returns the (date, time) ordering key of the log
func (l SessionLog) SortKey() string { return sortKey(l.Date, l.Time) }

// SortKey returns the (date, time) ordering key of the session
func (u UpcomingSession) SortKey() string { return sortKey(u.Date, u.Time) }

// SortSessionLogs orders logs newest first
func SortSessionLogs(logs []SessionLog) {
	slices.SortStableFunc(logs, func(a, b SessionLog) int {
		return strings.Compare(b.SortKey(), a.SortKey())
	})
}

// SortUpcomingSessions orders sessions soonest first
func SortUpcomingSessions(sessions []UpcomingSession) {
	slices.SortStableFunc(sessions, func(a, b UpcomingSession) int {
		return strings.Compare(a.SortKey(), b.SortKey())
	})
}

// SortAchievedGoals orders goals newest first
func SortAchievedGoals(goals []AchievedGoal) {
	slices.SortStableFunc(goals, func(a, b AchievedGoal) int {
		return b.AchievedAt.Compare(a.AchievedAt)
	})
}

// InsertSessionLog returns a new slice with log placed at its descending position.
// Ties go in front of existing entries, matching a prepend-then-sort.
func InsertSessionLog(logs []SessionLog, log SessionLog) []SessionLog {
	idx, _ := slices.BinarySearchFunc(logs, log.SortKey(), func(e SessionLog, key string) int {
		return strings.Compare(key, e.SortKey())
	})
	return slices.Insert(slices.Clone(logs), idx, log)
}

// InsertUpcomingSession returns a new slice with session placed at its ascending position.
// Ties go after existing entries, matching an append-then-sort.
func InsertUpcomingSession(sessions []UpcomingSession, session UpcomingSession) []UpcomingSession {
	key := session.SortKey()
	idx := len(sessions)
	for i, e := range sessions {
		if strings.Compare(e.SortKey(), key) > 0 {
			idx = i
			break
		}
	}
	return slices.Insert(slices.Clone(sessions), idx, session)
}

// InsertAchievedGoal returns a new slice with goal placed newest first
func InsertAchievedGoal(goals []AchievedGoal, goal AchievedGoal) []AchievedGoal {
	idx := len(goals)
	for i, e := range goals {
		if !goal.AchievedAt.Before(e.AchievedAt) {
			idx = i
			break
		}
	}
	return slices.Insert(slices.Clone(goals), idx, goal)
}

// RemoveSessionLog drops the log with the given id
func RemoveSessionLog(logs []SessionLog, id string) ([]SessionLog, bool) {
	out := slices.DeleteFunc(slices.Clone(logs), func(l SessionLog) bool { return l.ID == id })
	return out, len(out) != len(logs)
}

// RemoveUpcomingSession drops the session with the given id
func RemoveUpcomingSession(sessions []UpcomingSession, id string) ([]UpcomingSession, bool) {
	out := slices.DeleteFunc(slices.Clone(sessions), func(s UpcomingSession) bool { return s.ID == id })
	return out, len(out) != len(sessions)
}
