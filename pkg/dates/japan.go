package dates

import (
	"time"

	holidayjp "github.com/holiday-jp/holiday_jp-go"
)

// JapaneseHolidays is a HolidayFunc backed by the Japanese national holiday
// calendar.
func JapaneseHolidays(t time.Time) bool {
	return holidayjp.IsHoliday(t)
}
