package collector

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"SMCSentinel/internal/model"
)

var ErrUnsupportedInterval = errors.New("unsupported bar interval")

// ParseInterval converts an interval such as "15m", "1h", "4h", "1d" or "1w" to a duration.
func ParseInterval(interval string) (time.Duration, error) {
	s := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(interval)), "k") // 1wk
	if len(s) < 2 {
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedInterval, interval)
	}
	unit := s[len(s)-1]
	n, err := strconv.Atoi(s[:len(s)-1])
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedInterval, interval)
	}
	switch unit {
	case 'm':
		return time.Duration(n) * time.Minute, nil
	case 'h':
		return time.Duration(n) * time.Hour, nil
	case 'd':
		return time.Duration(n) * 24 * time.Hour, nil
	case 'w':
		return time.Duration(n) * 7 * 24 * time.Hour, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedInterval, interval)
}

// Resample aggregates time-ordered bars into buckets of the given period. Weekly periods
// bucket by ISO week, everything else by UTC truncation. Each bucket takes the first open,
// the last close, the extreme high and low and the summed volume.
func Resample(bars []model.Candle, period time.Duration) []model.Candle {
	if len(bars) == 0 || period <= 0 {
		return nil
	}
	key := func(t time.Time) int64 {
		if period == 7*24*time.Hour {
			year, week := t.ISOWeek()
			return int64(year*100 + week)
		}
		return t.UTC().Truncate(period).Unix()
	}

	var out []model.Candle
	cur := bars[0]
	curKey := key(cur.Time)
	for _, b := range bars[1:] {
		if k := key(b.Time); k != curKey {
			out = append(out, cur)
			cur, curKey = b, k
			continue
		}
		if b.High > cur.High {
			cur.High = b.High
		}
		if b.Low < cur.Low {
			cur.Low = b.Low
		}
		cur.Close = b.Close
		cur.Volume += b.Volume
	}
	return append(out, cur)
}
