package pricing

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/Simplici0/diamond-courier/internal/geo"
)

// ServiceType identifies which formula prices a request.
type ServiceType string

// Service types offered on the request form.
const (
	ServiceDelivery  ServiceType = "delivery"
	ServiceVillager  ServiceType = "villager"
	ServiceTask      ServiceType = "task"
	ServiceRecovery  ServiceType = "recovery"
	ServiceTimeBlock ServiceType = "timeblock"
)

// Valid reports whether t is a known service type.
func (t ServiceType) Valid() bool {
	switch t {
	case ServiceDelivery, ServiceVillager, ServiceTask, ServiceRecovery, ServiceTimeBlock:
		return true
	}
	return false
}

// NeedsRoute reports whether the service is priced from a pickup/dropoff pair.
func (t ServiceType) NeedsRoute() bool {
	return t == ServiceDelivery || t == ServiceVillager
}

const (
	defaultVillagers = 1
	defaultMinutes   = 20
)

// Rates holds the tunable pricing constants.
type Rates struct {
	Base           int
	Per100         int
	VillagerBase   int
	VillagerExtra  int
	TimeBlockPer10 int
	RecoveryBase   map[string]int
	Urgency        map[string]float64
	Dimension      map[string]float64
	Hazard         float64
}

// DefaultRates are the published rates.
var DefaultRates = Rates{
	Base:           3,
	Per100:         2,
	VillagerBase:   3,
	VillagerExtra:  1,
	TimeBlockPer10: 1,
	RecoveryBase: map[string]int{
		"overworld": 5,
		"nether":    7,
		"end":       8,
	},
	Urgency: map[string]float64{
		"whenever":  0.8,
		"soon":      1,
		"urgent":    1.5,
		"emergency": 2,
	},
	Dimension: map[string]float64{
		"overworld": 1,
		"nether":    1.5,
		"end":       1.5,
	},
	Hazard: 1.25,
}

// Request is a parsed service request. Fields that do not apply to the
// service type are ignored.
type Request struct {
	ServiceType      ServiceType
	Pickup           *geo.Coordinate
	Dropoff          *geo.Coordinate
	Urgency          string
	Dimension        string
	Hazardous        bool
	VillagerCount    int
	TimeBlockMinutes int
	RecoveryCoords   *geo.Coordinate
}

// Result is an estimate. Diamonds is nil when the request cannot be priced
// yet, which is different from a zero price.
type Result struct {
	Diamonds  *int          `json:"diamonds"`
	Breakdown []string      `json:"breakdown"`
	Distance  *geo.Distance `json:"distance,omitempty"`
}

// Priced reports whether the result carries a price.
func (r Result) Priced() bool {
	return r.Diamonds != nil
}

// Estimate prices req with DefaultRates.
func Estimate(req Request) Result {
	return DefaultRates.Estimate(req)
}

// Estimate prices req. It is pure: the same request always gives the same result.
func (r Rates) Estimate(req Request) Result {
	switch req.ServiceType {
	case ServiceDelivery:
		return r.delivery(req)
	case ServiceVillager:
		return r.villager(req)
	case ServiceTask:
		return r.task(req)
	case ServiceRecovery:
		return r.recovery(req)
	case ServiceTimeBlock:
		return r.timeBlock(req)
	default:
		return unpriced()
	}
}

func (r Rates) delivery(req Request) Result {
	dist, ok := route(req)
	if !ok {
		return unpriced()
	}

	u, d, h := r.urgency(req.Urgency), r.dimension(req.Dimension), r.hazard(req.Hazardous)
	base := r.Base + dist.Segments*r.Per100

	return Result{
		Diamonds: priced(float64(base) * u * d * h),
		Breakdown: []string{
			distanceLine(dist),
			fmt.Sprintf("Base: %d + %d×%d = %d", r.Base, dist.Segments, r.Per100, base),
			fmt.Sprintf("Multipliers: urgency ×%s, dimension ×%s, hazard ×%s", mult(u), mult(d), mult(h)),
		},
		Distance: &dist,
	}
}

func (r Rates) villager(req Request) Result {
	dist, ok := route(req)
	if !ok {
		return unpriced()
	}

	villagers := req.VillagerCount
	if villagers < defaultVillagers {
		villagers = defaultVillagers
	}

	u, d, h := r.urgency(req.Urgency), r.dimension(req.Dimension), r.hazard(req.Hazardous)
	extra := (villagers - 1) * r.VillagerExtra
	base := r.Base + dist.Segments*r.Per100 + r.VillagerBase + extra

	return Result{
		Diamonds: priced(float64(base) * u * d * h),
		Breakdown: []string{
			distanceLine(dist),
			fmt.Sprintf("Base: %d + %d×%d + villager fee %d + %d extra villager(s)×%d = %d",
				r.Base, dist.Segments, r.Per100, r.VillagerBase, villagers-1, r.VillagerExtra, base),
			fmt.Sprintf("Multipliers: urgency ×%s, dimension ×%s, hazard ×%s", mult(u), mult(d), mult(h)),
		},
		Distance: &dist,
	}
}

// task pricing ignores the dimension.
func (r Rates) task(req Request) Result {
	minutes, units := timeUnits(req.TimeBlockMinutes)
	u, h := r.urgency(req.Urgency), r.hazard(req.Hazardous)
	base := units * r.TimeBlockPer10

	return Result{
		Diamonds: priced(float64(base) * u * h),
		Breakdown: []string{
			fmt.Sprintf("Time: %d min = %d block(s) of 10 min, base %d×%d = %d", minutes, units, units, r.TimeBlockPer10, base),
			fmt.Sprintf("Multipliers: urgency ×%s, hazard ×%s", mult(u), mult(h)),
		},
	}
}

// recovery pricing applies urgency only: neither dimension nor hazard
// multiply the per-dimension base.
func (r Rates) recovery(req Request) Result {
	dim := req.Dimension
	base, ok := r.RecoveryBase[dim]
	if !ok {
		dim = "overworld"
		base = r.RecoveryBase[dim]
	}
	u := r.urgency(req.Urgency)

	return Result{
		Diamonds: priced(float64(base) * u),
		Breakdown: []string{
			fmt.Sprintf("Recovery base (%s): %d", dim, base),
			fmt.Sprintf("Multipliers: urgency ×%s", mult(u)),
		},
	}
}

// timeBlock is task pricing without the hazard multiplier.
func (r Rates) timeBlock(req Request) Result {
	minutes, units := timeUnits(req.TimeBlockMinutes)
	u := r.urgency(req.Urgency)
	base := units * r.TimeBlockPer10

	return Result{
		Diamonds: priced(float64(base) * u),
		Breakdown: []string{
			fmt.Sprintf("Time: %d min = %d block(s) of 10 min, base %d×%d = %d", minutes, units, units, r.TimeBlockPer10, base),
			fmt.Sprintf("Multipliers: urgency ×%s", mult(u)),
		},
	}
}

func (r Rates) urgency(level string) float64 {
	if m, ok := r.Urgency[level]; ok {
		return m
	}
	return 1
}

func (r Rates) dimension(dim string) float64 {
	if m, ok := r.Dimension[dim]; ok {
		return m
	}
	return 1
}

func (r Rates) hazard(hazardous bool) float64 {
	if hazardous {
		return r.Hazard
	}
	return 1
}

func route(req Request) (geo.Distance, bool) {
	if req.Pickup == nil || req.Dropoff == nil {
		return geo.Distance{}, false
	}
	return geo.Measure(*req.Pickup, *req.Dropoff), true
}

func timeUnits(minutes int) (int, int) {
	if minutes <= 0 {
		minutes = defaultMinutes
	}
	return minutes, int(math.Ceil(float64(minutes) / 10))
}

func distanceLine(d geo.Distance) string {
	return fmt.Sprintf("Distance: %d blocks (%d segment(s) of %d), height change %d",
		d.Blocks(), d.Segments, geo.BlocksPerSegment, d.Vertical)
}

func unpriced() Result {
	return Result{Breakdown: []string{}}
}

// priced rounds half up, matching the published examples.
func priced(v float64) *int {
	n := int(math.Floor(v + 0.5))
	return &n
}

func mult(m float64) string {
	return strconv.FormatFloat(m, 'f', -1, 64)
}

// Fields are the raw form values a customer typed in.
type Fields struct {
	ServiceType      string `json:"serviceType"`
	PickupCoords     string `json:"pickupCoords"`
	DropoffCoords    string `json:"dropoffCoords"`
	Urgency          string `json:"urgency"`
	Dimension        string `json:"dimension"`
	Hazardous        string `json:"hazardous"`
	VillagerCount    string `json:"villagerCount"`
	TimeBlockMinutes string `json:"timeBlockMinutes"`
	RecoveryCoords   string `json:"recoveryCoords"`
}

// FormFields picks the priced fields out of a submitted form.
func FormFields(v url.Values) Fields {
	return Fields{
		ServiceType:      v.Get("serviceType"),
		PickupCoords:     v.Get("pickupCoords"),
		DropoffCoords:    v.Get("dropoffCoords"),
		Urgency:          v.Get("urgency"),
		Dimension:        v.Get("dimension"),
		Hazardous:        v.Get("hazardous"),
		VillagerCount:    v.Get("villagerCount"),
		TimeBlockMinutes: v.Get("timeBlockMinutes"),
		RecoveryCoords:   v.Get("recoveryCoords"),
	}
}

// Request converts raw fields. Malformed coordinates become nil and
// unparsable counts fall back to their defaults.
func (f Fields) Request() Request {
	return Request{
		ServiceType:      ServiceType(strings.TrimSpace(f.ServiceType)),
		Pickup:           geo.ParsePtr(f.PickupCoords),
		Dropoff:          geo.ParsePtr(f.DropoffCoords),
		Urgency:          strings.TrimSpace(f.Urgency),
		Dimension:        strings.TrimSpace(f.Dimension),
		Hazardous:        ParseFlag(f.Hazardous),
		VillagerCount:    atoiOr(f.VillagerCount, defaultVillagers),
		TimeBlockMinutes: atoiOr(f.TimeBlockMinutes, defaultMinutes),
		RecoveryCoords:   geo.ParsePtr(f.RecoveryCoords),
	}
}

// ParseFlag reads a checkbox-style boolean.
func ParseFlag(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

// atoiOr treats zero like an unparsable value.
func atoiOr(raw string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n == 0 {
		return fallback
	}
	return n
}
