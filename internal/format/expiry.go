package format

import (
	"fmt"
	"time"
)

// UnknownDate is rendered when the endpoint reports no expiry epoch.
const UnknownDate = "未知"

// ExpireDate renders an expiry epoch as a YYYY-MM-DD civil date in the
// given fixed zone offset. Zero or negative epochs render as UnknownDate.
func ExpireDate(epoch int64, offset time.Duration) string {
	if epoch <= 0 {
		return UnknownDate
	}
	zone := time.FixedZone("", int(offset/time.Second))
	return time.Unix(epoch, 0).In(zone).Format("2006-01-02")
}

// Duration renders remaining seconds as zero-padded whole days and hours,
// e.g. 90061s -> "01天01小时". Negative input clamps to zero.
func Duration(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	days := seconds / 86400
	hours := (seconds / 3600) % 24
	return fmt.Sprintf("%02d天%02d小时", days, hours)
}
