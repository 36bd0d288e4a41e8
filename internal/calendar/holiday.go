package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const dateLayout = "2006-01-02"

// HolidayProvider 提供节假日判断
type HolidayProvider interface {
	IsHoliday(t time.Time) bool
}

// WeekendProvider 只把周六周日当作节假日
type WeekendProvider struct{}

func (WeekendProvider) IsHoliday(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// StaticHolidays 日期表 + 周末。
// 值为 false 的日期是调休上班日，即使落在周末也不算假日。
type StaticHolidays map[string]bool

func (h StaticHolidays) IsHoliday(t time.Time) bool {
	if off, ok := h[t.Format(dateLayout)]; ok {
		return off
	}
	return WeekendProvider{}.IsHoliday(t)
}

// FetchHolidays 拉取节假日 JSON：{"holiday": {"01-01": {"date": "2026-01-01", "holiday": true}}}
func FetchHolidays(ctx context.Context, client *http.Client, url string) (StaticHolidays, error) {
	type feed struct {
		Code    int `json:"code"`
		Holiday map[string]struct {
			Date    string `json:"date"`
			Holiday bool   `json:"holiday"` // true 放假 false 调休上班
			Name    string `json:"name"`
		} `json:"holiday"`
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build holiday request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch holidays: %w", err)
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch holidays: unexpected status %d", resp.StatusCode)
	}

	var f feed
	if err = json.NewDecoder(resp.Body).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode holidays: %w", err)
	}
	m := make(StaticHolidays, len(f.Holiday))
	for _, v := range f.Holiday {
		if _, err := time.Parse(dateLayout, v.Date); err != nil {
			continue
		}
		m[v.Date] = v.Holiday
	}
	return m, nil
}
