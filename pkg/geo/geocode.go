package geo

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-resty/resty/v2"

	"github.com/icognita1702/festalog/environments"
	"github.com/icognita1702/festalog/internal/domain"
)

// GeocodeClient resolves a free-text address to a coordinate using a
// Nominatim-compatible search endpoint.
type GeocodeClient struct {
	httpClient *resty.Client
	searchURL  string
	country    string
}

type geocodeCandidate struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

func NewGeocodeClient(cfg environments.GeoConfig) *GeocodeClient {
	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "festalog/1.0")

	return &GeocodeClient{
		httpClient: client,
		searchURL:  cfg.GeocodeURL,
		country:    cfg.CountryCode,
	}
}

// Geocode returns the coordinate of the first candidate for the query.
// The service answers (lat, lon); the returned Coordinate is (lon, lat)
// as the routing API expects.
func (c *GeocodeClient) Geocode(ctx context.Context, address string) (*domain.Coordinate, error) {
	var candidates []geocodeCandidate

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":            address,
			"format":       "json",
			"limit":        "1",
			"countrycodes": c.country,
		}).
		SetResult(&candidates).
		Get(c.searchURL)

	if err != nil {
		return nil, fmt.Errorf("failed to geocode address: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode(), resp.String())
	}

	if len(candidates) == 0 {
		return nil, fmt.Errorf("no geocode candidates for %q", address)
	}

	lat, err := strconv.ParseFloat(candidates[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude %q: %w", candidates[0].Lat, err)
	}

	lon, err := strconv.ParseFloat(candidates[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude %q: %w", candidates[0].Lon, err)
	}

	return &domain.Coordinate{Lon: lon, Lat: lat}, nil
}
