package types

import "strings"

type OutputFormat string

const (
	OutputFormatMPEGTS    OutputFormat = "mpegts"
	OutputFormatQuickTime OutputFormat = "mov"
)

// Talk is one scheduled presentation, the unit of batch processing.
type Talk struct {
	ID       string
	Title    string
	Subtitle string
	Persons  []string
	Room     string
}

// PersonNames returns the speakers as a single comma separated display string.
func (t Talk) PersonNames() string {
	return strings.Join(t.Persons, ", ")
}

// Describe returns the short "#id: title" form used in console notices.
func (t Talk) Describe() string {
	return "#" + t.ID + ": " + t.Title
}
