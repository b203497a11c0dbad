package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// AnswerValue holds an answer that is either a single value or a set of
// values. JSON strings, scalars and string arrays all decode into it; a
// single value encodes back as a plain string.
type AnswerValue []string

func (a *AnswerValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = nil
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = AnswerValue{s}
	case '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		out := make(AnswerValue, 0, len(raw))
		for _, item := range raw {
			var one AnswerValue
			if err := one.UnmarshalJSON(item); err != nil {
				return err
			}
			out = append(out, one...)
		}
		*a = out
	case '{':
		return fmt.Errorf("answer value: unexpected object")
	default:
		// true/false and numbers keep their literal text.
		*a = AnswerValue{string(data)}
	}
	return nil
}

func (a AnswerValue) MarshalJSON() ([]byte, error) {
	switch len(a) {
	case 0:
		if a == nil {
			return []byte("null"), nil
		}
		return []byte("[]"), nil
	case 1:
		return json.Marshal(a[0])
	default:
		return json.Marshal([]string(a))
	}
}

func (a AnswerValue) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	b, err := a.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (a *AnswerValue) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*a = nil
		return nil
	case []byte:
		return a.UnmarshalJSON(v)
	case string:
		return a.UnmarshalJSON([]byte(v))
	default:
		return errors.New(fmt.Sprint("failed to scan answer value: ", value))
	}
}

func (AnswerValue) GormDataType() string {
	return "json"
}

func (AnswerValue) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	switch db.Dialector.Name() {
	case "postgres":
		return "JSONB"
	default:
		return "JSON"
	}
}

// IsSingle reports whether the answer carries exactly one value.
func (a AnswerValue) IsSingle() bool { return len(a) == 1 }
