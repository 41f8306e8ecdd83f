// Package format holds the byte-size, expiry and escaping helpers used by
// the resolver and the report builders. Output is byte-for-byte part of the
// resolver contract, so changes here are user visible.
package format

import "fmt"

var sizeUnits = [...]string{"B", "KB", "MB", "GB", "TB", "PB"}

// Size renders a byte count by repeated division by 1024, printing the
// integer part and the remainder of the last division step zero-padded to
// three digits: 1073741824 -> "1.000 GB". Negative input clamps to zero,
// values past the unit table saturate at PB.
func Size(n int64) string {
	if n < 0 {
		n = 0
	}
	integer := n
	var remainder int64
	level := 0
	for integer >= 1024 && level < len(sizeUnits)-1 {
		remainder = integer % 1024
		integer /= 1024
		level++
	}
	return fmt.Sprintf("%d.%03d %s", integer, remainder, sizeUnits[level])
}

// SizeGB renders a byte count as gigabytes with two decimals, the compact
// form used by batch check reports. Negative input clamps to zero.
func SizeGB(n int64) string {
	if n < 0 {
		n = 0
	}
	return fmt.Sprintf("%.2f GB", float64(n)/(1<<30))
}
