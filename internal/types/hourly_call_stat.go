package types

// HourlyCallStat is one aggregated row from get_hourly_call_stats. The
// function lives in Postgres and returns one row per hour-of-day that has at
// least one event; callers must not rely on row order.
type HourlyCallStat struct {
	Hour           int     `json:"hour"`
	Total          int64   `json:"total"`
	Converted      int64   `json:"converted"`
	ConversionRate float64 `json:"conversion_rate"`
}
