// Package quota accounts YouTube Data API quota units per API key and day.
//
// The Data API charges each request a fixed number of units (1 for list
// calls, 100 for search) against a daily budget that resets at midnight
// Pacific time. The tracker records spent units in Redis and exports them
// as metrics. It only observes: requests are never delayed or refused.
package quota

import (
	"time"
	_ "time/tzdata"
)

// DefaultDailyLimit is the default quota granted to a Google Cloud project.
const DefaultDailyLimit = 10000

// WarningRatio is the share of the daily limit above which usage is logged as a warning.
const WarningRatio = 0.8

// Unit costs per API resource.
var costs = map[string]int{
	"search": 100,
}

// Cost returns the quota units charged for one list request on resource.
func Cost(resource string) int {
	if c, ok := costs[resource]; ok {
		return c
	}
	return 1
}

// pacific is the timezone the daily quota resets in.
var pacific = mustLoad("America/Los_Angeles")

func mustLoad(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// Day returns the quota day t belongs to, formatted as YYYY-MM-DD.
func Day(t time.Time) string {
	return t.In(pacific).Format("2006-01-02")
}

// ResetAt returns the next quota reset after t.
func ResetAt(t time.Time) time.Time {
	p := t.In(pacific)
	return time.Date(p.Year(), p.Month(), p.Day()+1, 0, 0, 0, 0, pacific)
}

// Usage is the quota consumed on one day.
type Usage struct {
	Day   string `json:"day"`
	Used  int64  `json:"used"`
	Limit int64  `json:"limit"`
}

// Remaining returns the units left, never below zero.
func (u Usage) Remaining() int64 {
	if u.Used >= u.Limit {
		return 0
	}
	return u.Limit - u.Used
}

// NearLimit reports whether usage passed WarningRatio of the limit.
func (u Usage) NearLimit() bool {
	return float64(u.Used) >= float64(u.Limit)*WarningRatio
}

// Exhausted reports whether the whole daily limit has been used.
func (u Usage) Exhausted() bool {
	return u.Used >= u.Limit
}
