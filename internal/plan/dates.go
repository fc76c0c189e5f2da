package plan

import "time"

const isoDate = "2006-01-02"

// AddDays returns the ISO date days after iso, or "" when iso is not a
// YYYY-MM-DD calendar date. AddDate handles month and year rollover.
func AddDays(iso string, days int) string {
	t, err := time.Parse(isoDate, iso)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, days).Format(isoDate)
}

// PropagateWeeklyDatesFromFirst overwrites the dates of weeks 2..12 with
// week 1's date plus 7 days per week. No-op when week 1 has no date.
func PropagateWeeklyDatesFromFirst(rows *[WeekCount]WeekEntry) {
	first := string(rows[0].Date)
	if first == "" {
		return
	}
	for i := 1; i < WeekCount; i++ {
		rows[i].Date = Cell(AddDays(first, 7*i))
	}
}
