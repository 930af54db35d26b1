package models

import (
	"strconv"
	"time"
)

const dateLayout = "2006-01-02"

func year(t *time.Time) string {
	if t == nil {
		return ""
	}
	return strconv.Itoa(t.Year())
}

func formDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}
