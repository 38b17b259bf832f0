package freight

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/icognita1702/festalog/environments"
	"github.com/icognita1702/festalog/internal/domain"
)

//
// Test fakes – only for this file.
//

type fakeGeocoder struct {
	coords map[string]domain.Coordinate
	err    error

	calls []string
}

func (f *fakeGeocoder) Geocode(ctx context.Context, address string) (*domain.Coordinate, error) {
	f.calls = append(f.calls, address)
	if f.err != nil {
		return nil, f.err
	}
	if coord, ok := f.coords[address]; ok {
		return &coord, nil
	}
	return &domain.Coordinate{Lon: -47.06, Lat: -22.90}, nil
}

type fakeRouter struct {
	distanceMeters float64
	err            error

	origins      []domain.Coordinate
	destinations []domain.Coordinate
}

func (f *fakeRouter) Route(ctx context.Context, origin, destination domain.Coordinate) (*domain.Route, error) {
	f.origins = append(f.origins, origin)
	f.destinations = append(f.destinations, destination)
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Route{DistanceMeters: f.distanceMeters, DurationSeconds: f.distanceMeters / 10}, nil
}

func testConfig() environments.FreightConfig {
	return environments.FreightConfig{
		StoreAddress:   "Rua Coronel Quirino, 1200, Cambuí, Campinas",
		PricePerKm:     3.5,
		MinimumFreight: 30.0,
		HomeCity:       "Campinas",
		HomeState:      "SP",
	}
}

func TestFreightForDistance_FloorAlwaysApplies(t *testing.T) {
	c := NewCalculator(&fakeGeocoder{}, &fakeRouter{}, testConfig())

	for _, km := range []float64{0, 0.1, 1, 5, 8.5} {
		freight := c.FreightForDistance(km)
		if freight < 30.0 {
			t.Errorf("FreightForDistance(%v) = %v, below the minimum floor", km, freight)
		}
	}

	// Above the floor, the linear formula wins.
	if got := c.FreightForDistance(20); got != 70.0 {
		t.Errorf("FreightForDistance(20) = %v, want 70", got)
	}
}

func TestFreightForDistance_Monotonic(t *testing.T) {
	c := NewCalculator(&fakeGeocoder{}, &fakeRouter{}, testConfig())

	prev := c.FreightForDistance(0)
	for km := 0.5; km <= 100; km += 0.5 {
		cur := c.FreightForDistance(km)
		if cur < prev {
			t.Fatalf("freight decreased from %v to %v at %v km", prev, cur, km)
		}
		prev = cur
	}
}

func TestQuoteForAddress_DistanceRoundedToOneDecimal(t *testing.T) {
	ctx := context.Background()

	router := &fakeRouter{distanceMeters: 12345}
	c := NewCalculator(&fakeGeocoder{}, router, testConfig())

	quote, ok := c.QuoteForAddress(ctx, "Av. Norte-Sul, 500, Campinas")
	if !ok {
		t.Fatalf("expected quote, got failure")
	}
	if quote.DistanceKm != 12.3 {
		t.Errorf("expected 12.3 km, got %v", quote.DistanceKm)
	}
	if quote.Freight != 12.3*3.5 {
		t.Errorf("expected freight %v, got %v", 12.3*3.5, quote.Freight)
	}
}

func TestQuoteForAddress_AppendsHomeCityWhenMissing(t *testing.T) {
	ctx := context.Background()

	geocoder := &fakeGeocoder{}
	c := NewCalculator(geocoder, &fakeRouter{distanceMeters: 5000}, testConfig())

	if _, ok := c.QuoteForAddress(ctx, "Rua das Acácias, 42"); !ok {
		t.Fatalf("expected quote, got failure")
	}

	if len(geocoder.calls) != 2 {
		t.Fatalf("expected 2 geocode calls (store + customer), got %d", len(geocoder.calls))
	}

	customer := geocoder.calls[1]
	if !strings.Contains(customer, "Campinas, SP, Brasil") {
		t.Errorf("expected normalized address with city/state/country, got %q", customer)
	}

	// An address that already mentions the city is left alone.
	geocoder.calls = nil
	if _, ok := c.QuoteForAddress(ctx, "Rua das Acácias, 42, campinas"); !ok {
		t.Fatalf("expected quote, got failure")
	}
	if got := geocoder.calls[len(geocoder.calls)-1]; got != "Rua das Acácias, 42, campinas" {
		t.Errorf("expected address untouched, got %q", got)
	}
}

func TestQuoteForAddress_MemoizesCoordinates(t *testing.T) {
	ctx := context.Background()

	geocoder := &fakeGeocoder{}
	c := NewCalculator(geocoder, &fakeRouter{distanceMeters: 5000}, testConfig())

	if _, ok := c.QuoteForAddress(ctx, "Rua das Acácias, 42"); !ok {
		t.Fatalf("expected quote, got failure")
	}
	if _, ok := c.QuoteForAddress(ctx, "Rua das Acácias, 42"); !ok {
		t.Fatalf("expected quote, got failure")
	}

	// Store + customer resolved once each; the second quote hits the cache.
	if len(geocoder.calls) != 2 {
		t.Errorf("expected 2 geocode calls across both quotes, got %d", len(geocoder.calls))
	}
}

func TestQuoteForAddress_GeocodeFailureReturnsNoQuote(t *testing.T) {
	ctx := context.Background()

	geocoder := &fakeGeocoder{err: fmt.Errorf("service unavailable")}
	c := NewCalculator(geocoder, &fakeRouter{distanceMeters: 5000}, testConfig())

	quote, ok := c.QuoteForAddress(ctx, "Rua das Acácias, 42")
	if ok || quote != nil {
		t.Errorf("expected (nil, false) on geocode failure, got (%v, %v)", quote, ok)
	}
}

func TestQuoteForAddress_RoutingFailureReturnsNoQuote(t *testing.T) {
	ctx := context.Background()

	router := &fakeRouter{err: fmt.Errorf("no route")}
	c := NewCalculator(&fakeGeocoder{}, router, testConfig())

	quote, ok := c.QuoteForAddress(ctx, "Rua das Acácias, 42")
	if ok || quote != nil {
		t.Errorf("expected (nil, false) on routing failure, got (%v, %v)", quote, ok)
	}
}

func TestQuoteForAddress_StoreIsRouteOrigin(t *testing.T) {
	ctx := context.Background()

	storeCoord := domain.Coordinate{Lon: -47.05, Lat: -22.89}
	geocoder := &fakeGeocoder{coords: map[string]domain.Coordinate{
		"Rua Coronel Quirino, 1200, Cambuí, Campinas": storeCoord,
	}}
	router := &fakeRouter{distanceMeters: 5000}
	c := NewCalculator(geocoder, router, testConfig())

	if _, ok := c.QuoteForAddress(ctx, "Rua das Acácias, 42"); !ok {
		t.Fatalf("expected quote, got failure")
	}

	if len(router.origins) != 1 || router.origins[0] != storeCoord {
		t.Errorf("expected store coordinate as route origin, got %v", router.origins)
	}
}
