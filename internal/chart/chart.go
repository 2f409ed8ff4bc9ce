package chart

import (
	"fmt"
	"sort"

	"github.com/sachinottawa/call-agent-backend/internal/types"
)

// GraphHours is the canonical, ordered set of hour labels the dashboard
// renders. Manual graph snapshots use exactly these labels.
var GraphHours = []string{
	"7 AM",
	"8 AM",
	"9 AM",
	"10 AM",
	"11 AM",
	"12 PM",
	"1 PM",
	"2 PM",
	"3 PM",
	"4 PM",
}

// unknownHourRank sorts labels outside GraphHours after every known one.
const unknownHourRank = 999

// Point is one chart-ready row: a 12-hour label and a conversion percentage.
type Point struct {
	Hour       string  `json:"hour"`
	Conversion float64 `json:"conversion"`
}

// FormatHour maps a 24-hour integer to its 12-hour label.
func FormatHour(hour int) string {
	if hour == 0 {
		return "12 AM"
	}
	if hour == 12 {
		return "12 PM"
	}
	if hour > 12 {
		return fmt.Sprintf("%d PM", hour-12)
	}
	return fmt.Sprintf("%d AM", hour)
}

// Adapt reshapes aggregated rows one-to-one into chart points. No filtering,
// no aggregation.
func Adapt(rows []types.HourlyCallStat) []Point {
	points := make([]Point, 0, len(rows))
	for _, row := range rows {
		points = append(points, Point{
			Hour:       FormatHour(row.Hour),
			Conversion: row.ConversionRate,
		})
	}
	return points
}

// HourRank returns the canonical position of an hour label, or
// unknownHourRank for labels outside GraphHours.
func HourRank(label string) int {
	for i, h := range GraphHours {
		if h == label {
			return i
		}
	}
	return unknownHourRank
}

// SortByHourOrder returns a copy of points sorted into the fixed GraphHours
// order. Unknown labels keep their relative order after all known ones, so
// rendering is deterministic regardless of how rows arrive from storage.
func SortByHourOrder(points []Point) []Point {
	out := make([]Point, len(points))
	copy(out, points)
	sort.SliceStable(out, func(i, j int) bool {
		return HourRank(out[i].Hour) < HourRank(out[j].Hour)
	})
	return out
}
