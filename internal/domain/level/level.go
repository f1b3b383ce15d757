// Package level maps cumulative points to a learner level and to the
// learner's progress inside that level.
package level

import "math"

// Thresholds holds the minimum points for levels 1..10.
var Thresholds = [...]int{0, 100, 300, 600, 1000, 1500, 2100, 2800, 3600, 4500}

// MaxLevel is the highest reachable level.
const MaxLevel = len(Thresholds)

// For returns the level (1..MaxLevel) for the given points.
// Negative points are treated as zero.
func For(points int) int {
	lvl := 1
	for i, threshold := range Thresholds {
		if points >= threshold {
			lvl = i + 1
		}
	}
	return lvl
}

// Progress describes how far a learner is into the current level.
type Progress struct {
	Level     int  `json:"level"`
	Current   int  `json:"current"`
	Total     int  `json:"total"`
	Percent   int  `json:"percent"`
	NextLevel *int `json:"next_level"`
}

// IsMax reports whether the learner has reached the last level.
func (p Progress) IsMax() bool {
	return p.NextLevel == nil
}

// ProgressFor computes progress within the current level band.
// The last band is open-ended: Total is 0, Percent is 100 and NextLevel is nil.
func ProgressFor(points int) Progress {
	if points < 0 {
		points = 0
	}
	lvl := For(points)
	bandMin := Thresholds[lvl-1]
	current := points - bandMin

	if lvl == MaxLevel {
		return Progress{Level: lvl, Current: current, Total: 0, Percent: 100}
	}

	total := Thresholds[lvl] - bandMin
	percent := int(math.Round(float64(current) / float64(total) * 100))
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	next := lvl + 1
	return Progress{
		Level:     lvl,
		Current:   current,
		Total:     total,
		Percent:   percent,
		NextLevel: &next,
	}
}

// PointsToNext returns how many points remain until the next level,
// or 0 at the last level.
func PointsToNext(points int) int {
	p := ProgressFor(points)
	if p.IsMax() {
		return 0
	}
	return p.Total - p.Current
}
