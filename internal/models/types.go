package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// StringSet is a de-duplicated, sorted list of lower-cased tags stored as a JSON array.
type StringSet []string

// NewStringSet normalizes values into a set.
func NewStringSet(values ...string) StringSet {
	seen := make(map[string]struct{}, len(values))
	out := make(StringSet, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Contains reports whether v is in the set.
func (s StringSet) Contains(v string) bool {
	i := sort.SearchStrings(s, v)
	return i < len(s) && s[i] == v
}

// Intersect returns the members present in both sets, sorted.
func (s StringSet) Intersect(other StringSet) []string {
	common := make([]string, 0)
	for _, v := range s {
		if other.Contains(v) {
			common = append(common, v)
		}
	}
	return common
}

// Value implements the driver.Valuer interface
func (s StringSet) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(s))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (s *StringSet) Scan(value interface{}) error {
	if value == nil {
		*s = StringSet{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New(fmt.Sprint("Failed to unmarshal StringSet value:", value))
	}

	if len(bytes) == 0 {
		*s = StringSet{}
		return nil
	}

	var result []string
	if err := json.Unmarshal(bytes, &result); err != nil {
		return err
	}
	*s = NewStringSet(result...)
	return nil
}

// GormDataType keeps the column portable between sqlite and postgres.
func (StringSet) GormDataType() string {
	return "text"
}
