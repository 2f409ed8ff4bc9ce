package chart

import (
	"reflect"
	"testing"

	"github.com/sachinottawa/call-agent-backend/internal/types"
)

func TestFormatHour(t *testing.T) {
	cases := []struct {
		hour int
		want string
	}{
		{0, "12 AM"},
		{1, "1 AM"},
		{7, "7 AM"},
		{11, "11 AM"},
		{12, "12 PM"},
		{13, "1 PM"},
		{16, "4 PM"},
		{23, "11 PM"},
	}
	for _, tc := range cases {
		if got := FormatHour(tc.hour); got != tc.want {
			t.Errorf("FormatHour(%d) = %q, want %q", tc.hour, got, tc.want)
		}
	}
}

func TestAdaptIsOneToOne(t *testing.T) {
	rows := []types.HourlyCallStat{
		{Hour: 9, Total: 10, Converted: 4, ConversionRate: 40},
		{Hour: 14, Total: 3, Converted: 3, ConversionRate: 100},
		{Hour: 0, Total: 1, Converted: 0, ConversionRate: 0},
	}

	got := Adapt(rows)
	want := []Point{
		{Hour: "9 AM", Conversion: 40},
		{Hour: "2 PM", Conversion: 100},
		{Hour: "12 AM", Conversion: 0},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Adapt(%v) = %v, want %v", rows, got, want)
	}

	if got := Adapt(nil); len(got) != 0 {
		t.Errorf("Adapt(nil) = %v, want empty", got)
	}
}

func TestSortByHourOrder(t *testing.T) {
	// Reversed canonical order comes back canonical.
	reversed := make([]Point, 0, len(GraphHours))
	for i := len(GraphHours) - 1; i >= 0; i-- {
		reversed = append(reversed, Point{Hour: GraphHours[i], Conversion: float64(i)})
	}

	got := SortByHourOrder(reversed)
	for i, p := range got {
		if p.Hour != GraphHours[i] {
			t.Fatalf("position %d = %q, want %q", i, p.Hour, GraphHours[i])
		}
	}

	// Input is not mutated.
	if reversed[0].Hour != GraphHours[len(GraphHours)-1] {
		t.Errorf("SortByHourOrder mutated its input: %v", reversed)
	}
}

func TestSortByHourOrderUnknownLabelsLast(t *testing.T) {
	points := []Point{
		{Hour: "6 PM", Conversion: 1},
		{Hour: "4 PM", Conversion: 2},
		{Hour: "5 AM", Conversion: 3},
		{Hour: "7 AM", Conversion: 4},
	}

	got := SortByHourOrder(points)
	want := []Point{
		{Hour: "7 AM", Conversion: 4},
		{Hour: "4 PM", Conversion: 2},
		{Hour: "6 PM", Conversion: 1},
		{Hour: "5 AM", Conversion: 3},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SortByHourOrder(%v) = %v, want %v", points, got, want)
	}
}

func TestHourRank(t *testing.T) {
	if got := HourRank("7 AM"); got != 0 {
		t.Errorf("HourRank(7 AM) = %d, want 0", got)
	}
	if got := HourRank("4 PM"); got != len(GraphHours)-1 {
		t.Errorf("HourRank(4 PM) = %d, want %d", got, len(GraphHours)-1)
	}
	if known, unknown := HourRank("4 PM"), HourRank("9 PM"); unknown <= known {
		t.Errorf("unknown rank %d should sort after every known rank (max known %d)", unknown, known)
	}
}
