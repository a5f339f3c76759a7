package receipt

import (
	"math"

	"github.com/levynexus/nexus/internal/model"
)

// consistencyTolerance is how far subtotal+tax may drift from total while
// still earning the internal-consistency bonus.
const consistencyTolerance = 0.01

// Score computes a deterministic completeness score in [0,1] for a parsed
// receipt. Merchant, date, total and at least one item each contribute one
// base point. When subtotal, tax and total are all present an extra point
// becomes possible, earned only if subtotal+tax matches total.
//
// Adding a previously-missing base field never lowers the score.
func Score(r model.ParsedReceipt) float64 {
	earned := 0.0
	possible := 4.0

	if r.Merchant != nil && *r.Merchant != "" {
		earned++
	}
	if r.Date != nil && *r.Date != "" {
		earned++
	}
	if r.Total != nil {
		earned++
	}
	if len(r.Items) > 0 {
		earned++
	}

	if r.Subtotal != nil && r.Tax != nil && r.Total != nil {
		possible++
		if math.Abs(*r.Subtotal+*r.Tax-*r.Total) <= consistencyTolerance {
			earned++
		}
	}

	return earned / possible
}
