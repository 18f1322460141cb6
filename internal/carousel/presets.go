package carousel

import "time"

// DefaultTeamWindow is the number of team cards visible at once.
const DefaultTeamWindow = 3

// Hero wraps, autoplays and stops autoplay for good after manual navigation.
func Hero(interval time.Duration) Config {
	return Config{Policy: Wrap, Window: 1, Autoplay: true, SuspendOnManual: true, Interval: interval}
}

// Testimonials wraps and autoplays; manual navigation only restarts the
// timer.
func Testimonials(interval time.Duration) Config {
	return Config{Policy: Wrap, Window: 1, Autoplay: true, Interval: interval}
}

// Team clamps to a sliding window of visible cards and never autoplays.
func Team(window int) Config {
	if window < 1 {
		window = DefaultTeamWindow
	}
	return Config{Policy: Clamp, Window: window}
}
