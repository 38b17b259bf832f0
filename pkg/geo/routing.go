package geo

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"

	"github.com/icognita1702/festalog/environments"
	"github.com/icognita1702/festalog/internal/domain"
)

// RoutingClient computes driving routes through an OSRM-compatible
// endpoint.
type RoutingClient struct {
	httpClient *resty.Client
	routeURL   string
}

type routeResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
	} `json:"routes"`
}

func NewRoutingClient(cfg environments.GeoConfig) *RoutingClient {
	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "festalog/1.0")

	return &RoutingClient{
		httpClient: client,
		routeURL:   cfg.RoutingURL,
	}
}

// Route returns the driving route from origin to destination. Waypoints go
// on the URL as lon,lat pairs, origin first.
func (c *RoutingClient) Route(ctx context.Context, origin, destination domain.Coordinate) (*domain.Route, error) {
	waypoints := fmt.Sprintf("%f,%f;%f,%f", origin.Lon, origin.Lat, destination.Lon, destination.Lat)

	var routeResp routeResponse

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("overview", "false").
		SetResult(&routeResp).
		Get(fmt.Sprintf("%s/%s", c.routeURL, waypoints))

	if err != nil {
		return nil, fmt.Errorf("failed to compute route: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode(), resp.String())
	}

	if routeResp.Code != "Ok" || len(routeResp.Routes) == 0 {
		return nil, fmt.Errorf("routing service returned code %q with %d routes", routeResp.Code, len(routeResp.Routes))
	}

	return &domain.Route{
		DistanceMeters:  routeResp.Routes[0].Distance,
		DurationSeconds: routeResp.Routes[0].Duration,
	}, nil
}
