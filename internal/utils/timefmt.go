package utils

import (
	"time"
)

// saveTimestampLayout is the timestamp embedded in saved report filenames.
const saveTimestampLayout = "2006.01.02.15.04.05"

// FormatSaveTimestamp returns the provided time in the dotted layout used
// for report filenames, in the local time zone.
func FormatSaveTimestamp(value time.Time) string {
	return value.In(time.Local).Format(saveTimestampLayout)
}
