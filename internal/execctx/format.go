package execctx

import (
	"strconv"
	"strings"
)

func itoa(n int) string {
	return strconv.Itoa(n)
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func boolToStr(b bool) string {
	return strconv.FormatBool(b)
}

func joinStrings(items []string, sep string) string {
	return strings.Join(items, sep)
}
