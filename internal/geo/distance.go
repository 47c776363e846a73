package geo

import (
	"context"
	"math"
	"sort"

	"github.com/vishnu6512/Guardian-Grid/internal/models"
)

type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Estimate is one origin->destination distance/travel-time result
type Estimate struct {
	DistanceKm   float64 `json:"distance_km"`
	ETAMinutes   float64 `json:"eta_minutes"`
	DistanceText string  `json:"distance_text"`
	DurationText string  `json:"duration_text"`
}

// DistanceProvider resolves distance and travel time from one origin to a
// batch of destinations. Implementations must bound their own timeouts.
type DistanceProvider interface {
	Estimate(ctx context.Context, origin Location, dests []Location) ([]Estimate, error)
}

// RankedVolunteer is a matching candidate with proximity attached
type RankedVolunteer struct {
	Volunteer  *models.Volunteer `json:"volunteer"`
	DistanceKm float64           `json:"distance_km"`
	ETAMinutes float64           `json:"eta_minutes"`
	Distance   string            `json:"distance"`
	Duration   string            `json:"duration"`
}

// Ranker orders volunteers by proximity to a request location
type Ranker struct {
	Provider DistanceProvider
}

func NewRanker(p DistanceProvider) *Ranker {
	return &Ranker{Provider: p}
}

// Rank returns candidates ordered by distance ascending, with ETA breaking
// ties. Candidates without coordinates are excluded entirely, not sorted
// last. An empty candidate set yields an empty ranking.
func (r *Ranker) Rank(ctx context.Context, origin Location, candidates []*models.Volunteer) ([]RankedVolunteer, error) {
	located := make([]*models.Volunteer, 0, len(candidates))
	dests := make([]Location, 0, len(candidates))
	for _, v := range candidates {
		if v.Lat == nil || v.Lng == nil {
			continue
		}
		located = append(located, v)
		dests = append(dests, Location{Lat: *v.Lat, Lng: *v.Lng})
	}
	if len(located) == 0 {
		return []RankedVolunteer{}, nil
	}

	estimates, err := r.Provider.Estimate(ctx, origin, dests)
	if err != nil {
		return nil, err
	}

	ranked := make([]RankedVolunteer, 0, len(located))
	for i, v := range located {
		ranked = append(ranked, RankedVolunteer{
			Volunteer:  v,
			DistanceKm: estimates[i].DistanceKm,
			ETAMinutes: estimates[i].ETAMinutes,
			Distance:   estimates[i].DistanceText,
			Duration:   estimates[i].DurationText,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].DistanceKm != ranked[j].DistanceKm {
			return ranked[i].DistanceKm < ranked[j].DistanceKm
		}
		return ranked[i].ETAMinutes < ranked[j].ETAMinutes
	})
	return ranked, nil
}

const earthRadiusKm = 6371.0

// Haversine returns the great-circle distance between two points in km
func Haversine(a, b Location) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}
