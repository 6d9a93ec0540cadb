package presentation

import (
	"strconv"
	"time"

	"go-land-inspector/pkg/models"
)

// FormatTimestamp renders a report timestamp for display. Unparseable
// values are returned unchanged.
func FormatTimestamp(ts string) string {
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return ts
	}
	return t.UTC().Format("2006-01-02 15:04:05 UTC")
}

// FormatCoordinates renders "lat, lng" with the precision the user supplied.
func FormatCoordinates(c *models.Coordinates) string {
	if c == nil {
		return ""
	}
	return strconv.FormatFloat(c.Lat, 'f', -1, 64) + ", " + strconv.FormatFloat(c.Lng, 'f', -1, 64)
}
