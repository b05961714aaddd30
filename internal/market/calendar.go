package market

import (
	"errors"
	"time"
)

// ErrCalendarExhausted is returned when no trading day exists within the
// walk limit. A calendar that triggers this is misconfigured; callers
// should treat it as fatal rather than retry.
var ErrCalendarExhausted = errors.New("market: no trading day within walk limit")

// maxDayWalk bounds LastTradingDay/NextTradingDay iteration. The longest
// A-share closure (春节 + surrounding weekends) is well under two weeks.
const maxDayWalk = 30

// Session windows in seconds since local midnight, endpoints inclusive.
// 上午 09:30-11:30, 下午 13:00-15:00.
const (
	morningOpen    = 9*3600 + 30*60
	morningClose   = 11*3600 + 30*60
	afternoonOpen  = 13 * 3600
	afternoonClose = 15 * 3600
)

// TradingState describes the market at a single instant
type TradingState struct {
	IsTradingDay   bool      `json:"is_trading_day"`
	IsSessionOpen  bool      `json:"is_session_open"`
	Reason         string    `json:"reason"`
	CheckedAt      time.Time `json:"checked_at"`
	TradingHours   string    `json:"trading_hours"`
	LastTradingDay string    `json:"last_trading_day,omitempty"`
	NextTradingDay string    `json:"next_trading_day,omitempty"`
}

// Calendar answers trading-day and session questions for the A-share
// market. It is immutable after construction and safe for concurrent use.
// ⭐ SSOT: 交易日历判断只在这里
type Calendar struct {
	holidays       map[string]string // date (2006-01-02) -> holiday name
	makeupWorkdays map[string]bool   // 调休上班的周末, informational only
}

// NewCalendar creates a calendar with the built-in A-share holiday table
func NewCalendar() *Calendar {
	return &Calendar{
		holidays:       cnHolidays,
		makeupWorkdays: cnMakeupWorkdays,
	}
}

// NewCalendarWithHolidays creates a calendar from a custom holiday table.
// Used by tests and by deployments that load the table externally.
func NewCalendarWithHolidays(holidays map[string]string) *Calendar {
	return &Calendar{
		holidays:       holidays,
		makeupWorkdays: map[string]bool{},
	}
}

// IsTradingDay reports whether the given instant falls on a trading day.
// A day trades iff it is not a statutory holiday and its weekday is
// Monday-Friday. A make-up workday on a weekend is still closed: the
// exchange does not open on 调休 weekends even though offices do.
func (c *Calendar) IsTradingDay(t time.Time) bool {
	trading, _ := c.TradingDayInfo(t)
	return trading
}

// TradingDayInfo reports trading-day status with a human-readable reason
func (c *Calendar) TradingDayInfo(t time.Time) (bool, string) {
	key := t.Format("2006-01-02")

	if name, ok := c.holidays[key]; ok {
		return false, "法定节假日(" + name + ")"
	}

	if wd := t.Weekday(); wd == time.Saturday || wd == time.Sunday {
		if c.makeupWorkdays[key] {
			return false, "周末休市(调休上班日)"
		}
		return false, "周末休市"
	}

	return true, "交易日"
}

// IsSessionOpen reports whether the instant is inside a live trading
// session. Comparison is done in seconds since midnight so that the
// window endpoints are exact: 09:30:00 and 15:00:00 are open,
// 11:30:01 and 12:59:59 are not.
func (c *Calendar) IsSessionOpen(t time.Time) bool {
	if !c.IsTradingDay(t) {
		return false
	}

	secs := t.Hour()*3600 + t.Minute()*60 + t.Second()

	morning := secs >= morningOpen && secs <= morningClose
	afternoon := secs >= afternoonOpen && secs <= afternoonClose

	return morning || afternoon
}

// TradingState returns the full market state for an instant
func (c *Calendar) TradingState(t time.Time) TradingState {
	trading, reason := c.TradingDayInfo(t)
	open := c.IsSessionOpen(t)

	state := TradingState{
		IsTradingDay:  trading,
		IsSessionOpen: open,
		Reason:        reason,
		CheckedAt:     t,
		TradingHours:  "9:30-11:30, 13:00-15:00",
	}

	if trading && !open {
		state.Reason = "非交易时间"
	}

	if !trading {
		if last, err := c.LastTradingDay(t); err == nil {
			state.LastTradingDay = last.Format("2006-01-02")
		}
		if next, err := c.NextTradingDay(t); err == nil {
			state.NextTradingDay = next.Format("2006-01-02")
		}
	}

	return state
}

// LastTradingDay walks backward one calendar day at a time until it
// finds a trading day, up to maxDayWalk days.
func (c *Calendar) LastTradingDay(t time.Time) (time.Time, error) {
	current := t.AddDate(0, 0, -1)
	for i := 0; i < maxDayWalk; i++ {
		if c.IsTradingDay(current) {
			return current, nil
		}
		current = current.AddDate(0, 0, -1)
	}
	return time.Time{}, ErrCalendarExhausted
}

// NextTradingDay walks forward one calendar day at a time until it
// finds a trading day, up to maxDayWalk days.
func (c *Calendar) NextTradingDay(t time.Time) (time.Time, error) {
	current := t.AddDate(0, 0, 1)
	for i := 0; i < maxDayWalk; i++ {
		if c.IsTradingDay(current) {
			return current, nil
		}
		current = current.AddDate(0, 0, 1)
	}
	return time.Time{}, ErrCalendarExhausted
}
