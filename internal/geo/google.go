package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	distanceMatrixURL = "https://maps.googleapis.com/maps/api/distancematrix/json"
	providerTimeout   = 10 * time.Second
)

// GoogleDistanceMatrix resolves road distance and ETA via the Google
// Distance Matrix API
type GoogleDistanceMatrix struct {
	APIKey string
	Client *http.Client
}

func NewGoogleDistanceMatrix(apiKey string) *GoogleDistanceMatrix {
	return &GoogleDistanceMatrix{
		APIKey: apiKey,
		Client: &http.Client{Timeout: providerTimeout},
	}
}

type distanceMatrixResponse struct {
	Status string `json:"status"`
	Rows   []struct {
		Elements []struct {
			Status   string `json:"status"`
			Distance struct {
				Text  string `json:"text"`
				Value int    `json:"value"` // meters
			} `json:"distance"`
			Duration struct {
				Text  string `json:"text"`
				Value int    `json:"value"` // seconds
			} `json:"duration"`
		} `json:"elements"`
	} `json:"rows"`
}

func (g *GoogleDistanceMatrix) Estimate(ctx context.Context, origin Location, dests []Location) ([]Estimate, error) {
	if len(dests) == 0 {
		return []Estimate{}, nil
	}

	var sb strings.Builder
	for i, d := range dests {
		if i > 0 {
			sb.WriteByte('|')
		}
		sb.WriteString(strconv.FormatFloat(d.Lat, 'f', 6, 64))
		sb.WriteByte(',')
		sb.WriteString(strconv.FormatFloat(d.Lng, 'f', 6, 64))
	}

	params := url.Values{}
	params.Set("origins", fmt.Sprintf("%f,%f", origin.Lat, origin.Lng))
	params.Set("destinations", sb.String())
	params.Set("key", g.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, distanceMatrixURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := g.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("distance matrix request failed: %w", err)
	}
	defer resp.Body.Close()

	var body distanceMatrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode distance matrix response: %w", err)
	}
	if body.Status != "OK" || len(body.Rows) == 0 {
		return nil, fmt.Errorf("distance matrix returned status %s", body.Status)
	}

	elements := body.Rows[0].Elements
	if len(elements) != len(dests) {
		return nil, fmt.Errorf("distance matrix returned %d elements for %d destinations", len(elements), len(dests))
	}

	estimates := make([]Estimate, len(dests))
	for i, el := range elements {
		if el.Status != "OK" {
			// unroutable destination, fall back to straight-line
			km := Haversine(origin, dests[i])
			estimates[i] = haversineEstimate(km)
			continue
		}
		estimates[i] = Estimate{
			DistanceKm:   float64(el.Distance.Value) / 1000,
			ETAMinutes:   float64(el.Duration.Value) / 60,
			DistanceText: el.Distance.Text,
			DurationText: el.Duration.Text,
		}
	}
	return estimates, nil
}

// HaversineProvider is the offline fallback when no Maps API key is
// configured: straight-line distance with a flat average road speed.
type HaversineProvider struct{}

const assumedSpeedKmh = 40.0

func (HaversineProvider) Estimate(_ context.Context, origin Location, dests []Location) ([]Estimate, error) {
	estimates := make([]Estimate, len(dests))
	for i, d := range dests {
		estimates[i] = haversineEstimate(Haversine(origin, d))
	}
	return estimates, nil
}

func haversineEstimate(km float64) Estimate {
	eta := km / assumedSpeedKmh * 60
	return Estimate{
		DistanceKm:   km,
		ETAMinutes:   eta,
		DistanceText: fmt.Sprintf("%.1f km", km),
		DurationText: fmt.Sprintf("%.0f mins", eta),
	}
}
