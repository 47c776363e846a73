package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const placesNearbyURL = "https://maps.googleapis.com/maps/api/place/nearbysearch/json"

// Place is a nearby emergency service (hospital, police, fire_station)
// surfaced to affected individuals alongside volunteer help
type Place struct {
	Name     string   `json:"name"`
	Vicinity string   `json:"vicinity"`
	Types    []string `json:"types"`
	Rating   float64  `json:"rating,omitempty"`
	Location Location `json:"location"`
	OpenNow  *bool    `json:"open_now,omitempty"`
}

// PlacesClient wraps the Google Places nearby search
type PlacesClient struct {
	APIKey string
	Client *http.Client
}

func NewPlacesClient(apiKey string) *PlacesClient {
	return &PlacesClient{
		APIKey: apiKey,
		Client: &http.Client{Timeout: providerTimeout},
	}
}

type placesResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Name     string   `json:"name"`
		Vicinity string   `json:"vicinity"`
		Types    []string `json:"types"`
		Rating   float64  `json:"rating"`
		Geometry struct {
			Location Location `json:"location"`
		} `json:"geometry"`
		OpeningHours *struct {
			OpenNow bool `json:"open_now"`
		} `json:"opening_hours"`
	} `json:"results"`
}

// NearbyServices searches for emergency services of the given types around a
// point. types is a pipe-separated list (e.g. "hospital|police").
func (p *PlacesClient) NearbyServices(ctx context.Context, lat, lng float64, types string) ([]Place, error) {
	if p.APIKey == "" {
		return nil, errors.New("places lookup is not configured")
	}

	var places []Place
	for _, t := range strings.Split(types, "|") {
		params := url.Values{}
		params.Set("location", fmt.Sprintf("%f,%f", lat, lng))
		params.Set("radius", "5000")
		params.Set("type", t)
		params.Set("key", p.APIKey)

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, placesNearbyURL+"?"+params.Encode(), nil)
		if err != nil {
			return nil, err
		}
		resp, err := p.Client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("places request failed: %w", err)
		}

		var body placesResponse
		err = json.NewDecoder(resp.Body).Decode(&body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to decode places response: %w", err)
		}
		if body.Status != "OK" && body.Status != "ZERO_RESULTS" {
			return nil, fmt.Errorf("places returned status %s", body.Status)
		}

		for _, r := range body.Results {
			place := Place{
				Name:     r.Name,
				Vicinity: r.Vicinity,
				Types:    r.Types,
				Rating:   r.Rating,
				Location: r.Geometry.Location,
			}
			if r.OpeningHours != nil {
				open := r.OpeningHours.OpenNow
				place.OpenNow = &open
			}
			places = append(places, place)
		}
	}
	if places == nil {
		places = []Place{}
	}
	return places, nil
}
