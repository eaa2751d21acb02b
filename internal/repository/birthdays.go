package repository

import "gitlab.com/dirk.krummacker/personal-contacts/internal/model"

// birthdayWindowDays is the number of days after today that still count as upcoming.
const birthdayWindowDays = 7

// monthDayKey encodes month and day of a date as month*100+day, so that 29 November becomes
// 1129. Keys of the same year sort like the dates they stand for.
func monthDayKey(d model.Date) int {
	return int(d.Month())*100 + d.Day()
}

// birthdayWindow returns the month/day keys of today and of the last day of the window. If the
// window crosses the turn of the year then wraps is true and end is smaller than start.
func birthdayWindow(today model.Date) (start int, end int, wraps bool) {
	start = monthDayKey(today)
	end = monthDayKey(today.AddDays(birthdayWindowDays))
	return start, end, end < start
}

