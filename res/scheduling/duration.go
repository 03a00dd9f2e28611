package scheduling

import (
	"math"

	"shiningstar-api/res/pricing"
)

const (
	// fallback base duration for selections referencing an unknown service
	defaultBaseDurationMinutes = 30

	// flat travel/setup buffer added to every job
	bufferMinutes = 30
)

// EstimateDuration estimates the total job length in minutes for a cart of
// selections: per-service base duration x quantity x size multiplier, plus a
// 30-minute buffer, rounded up to the nearest 30-minute increment.
func EstimateDuration(catalog pricing.Catalog, selections []pricing.Selection) int {
	total := 0.0

	for _, sel := range selections {
		base := float64(defaultBaseDurationMinutes)
		if svc, ok := catalog.Service(sel.ServiceID); ok {
			base = svc.BaseDurationMinutes
		}

		duration := base * float64(sel.Quantity)
		if sel.Size != "" {
			duration *= pricing.SizeMultiplier(sel.Size)
		}

		total += duration
	}

	total += bufferMinutes
	return int(math.Ceil(total/30) * 30)
}
