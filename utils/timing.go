package utils

import (
	"time"

	"github.com/rs/zerolog/log"
)

// slowCallThreshold is how long a backend call may take before it gets
// flagged in the logs.
const slowCallThreshold = 500 * time.Millisecond

// TrackSlowCall logs a warning when op took longer than the slow-call
// threshold. Use with defer:
//
//	defer utils.TrackSlowCall("QueryItems", time.Now())
func TrackSlowCall(op string, start time.Time) {
	if elapsed := time.Since(start); elapsed > slowCallThreshold {
		log.Warn().Dur("elapsed", elapsed).Msgf("🐢 Slow call: %s", op)
	}
}
