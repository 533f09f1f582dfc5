package utils

import "time"

const DateLayout = "2006-01-02"

// FormatTime - RFC3339 или nil для пустых значений.
func FormatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

func FormatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(DateLayout)
	return &s
}

// ParseDate разбирает "YYYY-MM-DD"; пустая строка даёт nil.
func ParseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
