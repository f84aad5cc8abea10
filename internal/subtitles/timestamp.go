package subtitles

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatTimestamp renders seconds as HH:MM:SS,mmm, rounded to the nearest
// millisecond. Negative values render as zero.
func FormatTimestamp(seconds float64) string {
	total := roundMillis(seconds)
	millis := total % 1000
	secs := total / 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", secs/3600, (secs%3600)/60, secs%60, millis)
}

// FormatSeconds renders seconds with three decimals, e.g. "12.500".
func FormatSeconds(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	return strconv.FormatFloat(seconds, 'f', 3, 64)
}

func roundMillis(seconds float64) int64 {
	if seconds <= 0 || math.IsNaN(seconds) {
		return 0
	}
	return int64(math.Round(seconds * 1000))
}

// ParseTimestamp accepts either serialization: HH:MM:SS,mmm (a period is also
// accepted before the milliseconds) or plain seconds such as "12.500".
func ParseTimestamp(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	if !strings.Contains(value, ":") {
		seconds, err := strconv.ParseFloat(value, 64)
		if err != nil || seconds < 0 {
			return 0, fmt.Errorf("invalid timestamp %q", value)
		}
		return seconds, nil
	}
	normalized := strings.ReplaceAll(value, ".", ",")
	timeParts := strings.Split(normalized, ",")
	if len(timeParts) != 2 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hms := strings.Split(timeParts[0], ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hours, errH := strconv.Atoi(hms[0])
	minutes, errM := strconv.Atoi(hms[1])
	seconds, errS := strconv.Atoi(hms[2])
	millis, errMS := strconv.Atoi(timeParts[1])
	if errH != nil || errM != nil || errS != nil || errMS != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	if minutes > 59 || seconds > 59 || millis > 999 || hours < 0 || minutes < 0 || seconds < 0 || millis < 0 {
		return 0, fmt.Errorf("timestamp %q out of range", value)
	}
	return float64(hours*3600+minutes*60+seconds) + float64(millis)/1000, nil
}
