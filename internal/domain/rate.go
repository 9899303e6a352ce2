package domain

import (
	"math"
	"time"
)

// Rate is a transmit cap in frames per second. Zero means unlimited.
type Rate float64

// Limited reports whether a cap is set.
func (r Rate) Limited() bool {
	return r.Period() > 0
}

// Period returns the inter-send period for the rate, or zero when unlimited.
func (r Rate) Period() time.Duration {
	if r <= 0 || math.IsNaN(float64(r)) || math.IsInf(float64(r), 0) {
		return 0
	}
	return time.Duration(float64(time.Second) / float64(r))
}
