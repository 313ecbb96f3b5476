package ofxparse

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/golang/glog"
	"github.com/shopspring/decimal"
)

// datePattern matches YYYYMMDD[HHMMSS[.fff]][ [offset:TZNAME]].
var datePattern = regexp.MustCompile(
	`^(\d{4})(\d{2})(\d{2})(?:(\d{2})(\d{2})(\d{2})(?:\.(\d{1,9}))?)?(?:\s*\[\s*([+-]?(?:\d+(?:\.\d*)?|\.\d+))\s*(?::([^\]]*))?\])?$`)

var (
	hourNanos  = decimal.New(int64(time.Hour), 0)
	maxOffset  = decimal.New(24, 0)
	dateFormat = "20060102150405"
)

// ParseDateTime parses the given OFX formatted date string to a time in UTC.
// A bracketed offset such as [-5:EST] is the offset of the local reading from UTC in hours,
// fractions allowed; the time zone label is ignored.
func ParseDateTime(d string) (time.Time, error) {
	s := strings.TrimSpace(d)
	parts := datePattern.FindStringSubmatch(s)
	if parts == nil {
		return time.Time{}, &DateFormatError{Value: d, Reason: "expected YYYYMMDD[HHMMSS[.XXX]][ [gmt offset:tz name]]"}
	}

	year, month, day := atoi(parts[1]), atoi(parts[2]), atoi(parts[3])
	if month < 1 || month > 12 {
		return time.Time{}, &DateFormatError{Value: d, Reason: "month out of range"}
	}
	if day < 1 || day > daysIn(time.Month(month), year) {
		return time.Time{}, &DateFormatError{Value: d, Reason: "day out of range"}
	}

	var hh, mm, ss, nsec int
	if parts[4] != "" {
		hh, mm, ss = atoi(parts[4]), atoi(parts[5]), atoi(parts[6])
		if hh > 23 || mm > 59 || ss > 59 {
			return time.Time{}, &DateFormatError{Value: d, Reason: "time out of range"}
		}
		if frac := parts[7]; frac != "" {
			nsec = atoi(frac + strings.Repeat("0", 9-len(frac)))
		}
	}
	t := time.Date(year, time.Month(month), day, hh, mm, ss, nsec, time.UTC)

	if parts[8] != "" {
		offset, err := decimal.NewFromString(strings.TrimPrefix(parts[8], "+"))
		if err != nil || offset.Abs().GreaterThan(maxOffset) {
			return time.Time{}, &DateFormatError{Value: d, Reason: "gmt offset out of range"}
		}
		t = t.Add(-time.Duration(offset.Mul(hourNanos).IntPart()))
	}
	glog.V(3).Infof("parsed date %q as %s", d, t.Format(dateFormat))
	return t, nil
}

func atoi(s string) int {
	// Only called on digit runs matched by datePattern.
	n, _ := strconv.Atoi(s)
	return n
}

func daysIn(m time.Month, year int) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
