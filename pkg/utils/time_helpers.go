package utils

import (
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// NormalizeDay отбрасывает время и приводит дату к полуночи UTC.
func NormalizeDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today - текущая дата как календарный день.
func Today() time.Time {
	return NormalizeDay(time.Now())
}

// ParseDate разбирает дату вида 2024-05-31.
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("некорректная дата %q, ожидается ГГГГ-ММ-ДД", value)
	}
	return NormalizeDay(t), nil
}

// ParseDateOr возвращает fallback для пустой строки.
func ParseDateOr(value string, fallback time.Time) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return NormalizeDay(fallback), nil
	}
	return ParseDate(value)
}

// ParseClock разбирает время вида 09:30.
func ParseClock(value string) (time.Time, error) {
	t, err := time.Parse(ClockLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("некорректное время %q, ожидается ЧЧ:ММ", value)
	}
	return t, nil
}
