package dates

import (
	"fmt"
	"time"
)

// weekdayKanji is indexed by time.Weekday (Sunday = 0).
var weekdayKanji = [7]string{"日", "月", "火", "水", "木", "金", "土"}

// Format renders a date in one of five literal styles selected by suffix:
//
//	_XS      0226
//	_S       02/26
//	_L       Feb-26
//	_XL      2 月 26 日 (木)
//	(none)   2026-02-26
//
// The zero time renders as the empty string.
func Format(t time.Time, suffix string) string {
	if t.IsZero() {
		return ""
	}
	switch suffix {
	case "_XS":
		return t.Format("0102")
	case "_S":
		return t.Format("01/02")
	case "_L":
		return t.Format("Jan-02")
	case "_XL":
		return fmt.Sprintf("%d 月 %d 日 (%s)", int(t.Month()), t.Day(), weekdayKanji[t.Weekday()])
	default:
		return t.Format("2006-01-02")
	}
}
