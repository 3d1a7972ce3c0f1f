package utils

import "time"

func CurrentDateInTimezone(tz string) string {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.UTC
	}
	return time.Now().In(loc).Format("2006-01-02")
}

func IsValidDate(value string) bool {
	_, err := time.Parse("2006-01-02", value)
	return err == nil
}
