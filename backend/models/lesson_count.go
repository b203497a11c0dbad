package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// LessonCount is the number of lessons of a course. On the wire it may come
// as a plain number or as the nested aggregate shape [{"count": n}]; both
// decode to the same integer and it always encodes as a number.
type LessonCount int

func (lc *LessonCount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*lc = 0
		return nil
	}

	switch data[0] {
	case '[':
		var rows []struct {
			Count int `json:"count"`
		}
		if err := json.Unmarshal(data, &rows); err != nil {
			return fmt.Errorf("lesson_count: %w", err)
		}
		if len(rows) == 0 {
			*lc = 0
			return nil
		}
		*lc = LessonCount(rows[0].Count)
	case '{':
		var row struct {
			Count int `json:"count"`
		}
		if err := json.Unmarshal(data, &row); err != nil {
			return fmt.Errorf("lesson_count: %w", err)
		}
		*lc = LessonCount(row.Count)
	default:
		var n int
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("lesson_count: %w", err)
		}
		*lc = LessonCount(n)
	}

	if *lc < 0 {
		*lc = 0
	}
	return nil
}

func (lc LessonCount) Int() int { return int(lc) }
