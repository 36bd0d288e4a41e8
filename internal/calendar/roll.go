package calendar

import (
	"fmt"
	"strings"
	"time"
)

// RollConvention 还款日遇节假日时的调整规则
type RollConvention string

const (
	Unadjusted RollConvention = "UNADJUSTED"         //严格按日历算时间
	Following  RollConvention = "FOLLOWING"          //如果是节假日，向后挪
	Preceding  RollConvention = "PRECEDING"          //如果是节假日，向前挪
	ModFollow  RollConvention = "MODIFIED_FOLLOWING" //如果是节假日，向后挪，但如果跨月就向前挪
)

// ParseRollConvention 空串视为 UNADJUSTED
func ParseRollConvention(s string) (RollConvention, error) {
	switch r := RollConvention(strings.ToUpper(strings.TrimSpace(s))); r {
	case "":
		return Unadjusted, nil
	case Unadjusted, Following, Preceding, ModFollow:
		return r, nil
	}
	return "", fmt.Errorf("unknown roll convention: %s", s)
}

// DueDates 从 start 起每月一期，共 n 期；按日历月推算后再做节假日调整。
// 始终基于名义日期推算，调整不会累积漂移。
func DueDates(start time.Time, n int, roll RollConvention, holidays HolidayProvider) []time.Time {
	if n <= 0 {
		return nil
	}
	if holidays == nil {
		holidays = WeekendProvider{}
	}
	dates := make([]time.Time, n)
	for i := range dates {
		nominal := addMonths(start, i+1)
		dates[i] = applyRoll(nominal, roll, holidays.IsHoliday)
	}
	return dates
}

// addMonths 月末对齐：1 月 31 日加一个月得到 2 月最后一天，而不是 3 月初
func addMonths(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(months), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	last := first.AddDate(0, 1, -1).Day()
	if d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func applyRoll(t time.Time, roll RollConvention, isHoliday func(time.Time) bool) time.Time {
	switch roll {
	case Following:
		for isHoliday(t) {
			t = t.AddDate(0, 0, 1)
		}
		return t
	case Preceding:
		for isHoliday(t) {
			t = t.AddDate(0, 0, -1)
		}
		return t
	case ModFollow:
		origMonth := t.Month()
		t2 := t

		for isHoliday(t2) {
			t2 = t2.AddDate(0, 0, 1)
		}
		if t2.Month() != origMonth {
			t2 = t
			for isHoliday(t2) {
				t2 = t2.AddDate(0, 0, -1)
			}
		}
		return t2
	}
	return t
}
