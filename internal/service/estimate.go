package service

import (
	"github.com/Simplici0/diamond-courier/internal/geo"
	"github.com/Simplici0/diamond-courier/internal/metrics"
	"github.com/Simplici0/diamond-courier/internal/pricing"
)

// Estimate is the live price shown while the form is being filled.
type Estimate struct {
	pricing.Result
	CoordsError string `json:"coordsError"`
}

// EstimateFields prices raw form fields. It never fails: malformed input
// yields an unpriced result and, for coordinates, an inline message.
func EstimateFields(f pricing.Fields) Estimate {
	req := f.Request()
	res := pricing.Estimate(req)
	label := string(req.ServiceType)
	if !req.ServiceType.Valid() {
		label = "unknown"
	}
	metrics.ObserveEstimate(label, res.Priced())

	return Estimate{
		Result:      res,
		CoordsError: geo.FieldError(f.PickupCoords, f.DropoffCoords),
	}
}
