package result

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// 1:02.15
	minutesPattern = regexp.MustCompile(`^(\d+):(\d{2})\.(\d{2})$`)
	// 58.45
	secondsPattern = regexp.MustCompile(`^(\d+)\.(\d{2})$`)
	// 1:02:15, colon typed where the decimal point belongs
	colonHundredthsPattern = regexp.MustCompile(`^(\d+):(\d{2}):(\d{2})$`)
)

// NormalizeTime converts a raw race time into its canonical display form.
//
// Whitespace is removed first. "m:ss.hh" and "ss.hh" are already canonical and
// are returned as is; "m:ss:hh" is rewritten to "m:ss.hh". Anything else is
// returned unchanged. ok is false only when the input is blank.
func NormalizeTime(raw string) (string, bool) {
	t := strings.Join(strings.Fields(raw), "")
	if t == "" {
		return "", false
	}

	if minutesPattern.MatchString(t) || secondsPattern.MatchString(t) {
		return t, true
	}

	if m := colonHundredthsPattern.FindStringSubmatch(t); m != nil {
		return m[1] + ":" + m[2] + "." + m[3], true
	}

	return t, true
}

// ToSeconds converts a canonical time ("m:ss.hh" or "ss.hh") to seconds.
// It never panics; ok is false for any string that is not a canonical time.
func ToSeconds(normalized string) (float64, bool) {
	if m := minutesPattern.FindStringSubmatch(normalized); m != nil {
		minutes, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, false
		}
		seconds, err := strconv.ParseFloat(m[2]+"."+m[3], 64)
		if err != nil {
			return 0, false
		}
		return minutes*60 + seconds, true
	}

	if m := secondsPattern.FindStringSubmatch(normalized); m != nil {
		seconds, err := strconv.ParseFloat(m[1]+"."+m[2], 64)
		if err != nil {
			return 0, false
		}
		return seconds, true
	}

	return 0, false
}
