package config

import (
	"os"
	"strconv"
	"strings"
)

// Analytics knobs. The forecast window and urgency horizon intentionally
// default to the same 30 days but are independent settings: the window is
// how much history feeds the burn rate, the horizon is how far out a
// projected stockout still counts as actionable.
//
// Env:
// - FORECAST_WINDOW_DAYS (default 30)
// - FORECAST_HORIZON_DAYS (default 30)
// - FORECAST_TOP_N (default 5)

func ForecastWindowDays() int {
	return positiveIntFromEnv("FORECAST_WINDOW_DAYS", 30)
}

func ForecastHorizonDays() int {
	return positiveIntFromEnv("FORECAST_HORIZON_DAYS", 30)
}

func ForecastTopN() int {
	return positiveIntFromEnv("FORECAST_TOP_N", 5)
}

func positiveIntFromEnv(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
