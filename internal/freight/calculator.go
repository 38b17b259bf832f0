package freight

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/icognita1702/festalog/environments"
	"github.com/icognita1702/festalog/internal/domain"
	"github.com/icognita1702/festalog/pkg/logger"
)

type geocoder interface {
	Geocode(ctx context.Context, address string) (*domain.Coordinate, error)
}

type router interface {
	Route(ctx context.Context, origin, destination domain.Coordinate) (*domain.Route, error)
}

// Calculator quotes delivery freight for a customer address: geocode both
// ends, route between them, apply the per-km price with a floor.
//
// Resolved coordinates are memoized for the life of the process; addresses
// are assumed geocode-stable so the cache is never invalidated.
type Calculator struct {
	geocoder geocoder
	router   router
	config   environments.FreightConfig

	mu         sync.Mutex
	coordCache map[string]domain.Coordinate
}

func NewCalculator(g geocoder, r router, cfg environments.FreightConfig) *Calculator {
	return &Calculator{
		geocoder:   g,
		router:     r,
		config:     cfg,
		coordCache: make(map[string]domain.Coordinate),
	}
}

// QuoteForAddress computes distance and freight for delivering to the
// address. The second return is false when any upstream call failed; the
// caller applies its own fallback policy.
func (c *Calculator) QuoteForAddress(ctx context.Context, address string) (*domain.FreightQuote, bool) {
	origin, err := c.resolve(ctx, c.config.StoreAddress)
	if err != nil {
		logger.Warnf("Failed to geocode store address: %v", err)
		return nil, false
	}

	destination, err := c.resolve(ctx, c.NormalizeAddress(address))
	if err != nil {
		logger.Warnf("Failed to geocode customer address %q: %v", address, err)
		return nil, false
	}

	route, err := c.router.Route(ctx, origin, destination)
	if err != nil {
		logger.Warnf("Failed to route freight for %q: %v", address, err)
		return nil, false
	}

	distanceKm := math.Round(route.DistanceMeters/100) / 10

	return &domain.FreightQuote{
		DistanceKm: distanceKm,
		Freight:    c.FreightForDistance(distanceKm),
	}, true
}

// FreightForDistance applies the linear formula with the minimum floor.
// The floor always applies; freight is never waived to zero.
func (c *Calculator) FreightForDistance(distanceKm float64) float64 {
	return math.Max(distanceKm*c.config.PricePerKm, c.config.MinimumFreight)
}

// NormalizeAddress appends city, state and country when the address does
// not already mention the home city. The free geocoder is imprecise with
// bare street addresses.
func (c *Calculator) NormalizeAddress(address string) string {
	if strings.Contains(strings.ToLower(address), strings.ToLower(c.config.HomeCity)) {
		return address
	}
	return fmt.Sprintf("%s, %s, %s, Brasil", address, c.config.HomeCity, c.config.HomeState)
}

func (c *Calculator) resolve(ctx context.Context, address string) (domain.Coordinate, error) {
	key := strings.ToLower(strings.TrimSpace(address))

	c.mu.Lock()
	if coord, ok := c.coordCache[key]; ok {
		c.mu.Unlock()
		return coord, nil
	}
	c.mu.Unlock()

	coord, err := c.geocoder.Geocode(ctx, address)
	if err != nil {
		return domain.Coordinate{}, err
	}

	c.mu.Lock()
	c.coordCache[key] = *coord
	c.mu.Unlock()

	return *coord, nil
}
