package utils

import (
	"log"
	"time"
)

// GetMarketLocation returns the US equity market time zone.
func GetMarketLocation() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		log.Fatal("Failed to load location", err)
	}
	return loc
}

func TimeNowET() time.Time {
	return time.Now().In(GetMarketLocation())
}

// IsTradingDay reports whether the given time falls on a weekday.
// Exchange holidays are not checked; the price store simply has no new
// bars on those days.
func IsTradingDay(t time.Time) bool {
	day := t.In(GetMarketLocation()).Weekday()
	return day != time.Saturday && day != time.Sunday
}

func DaysAgo(days int) time.Time {
	return TimeNowET().AddDate(0, 0, -days)
}
