package domain

// Coordinate is an ordered (longitude, latitude) pair. Longitude comes
// first to match the routing API convention; the geocoder answers in
// (lat, lon) order and must be inverted at the client boundary.
type Coordinate struct {
	Lon float64
	Lat float64
}

// FreightQuote is the result of a successful freight calculation.
type FreightQuote struct {
	DistanceKm float64 `json:"distanceKm"`
	Freight    float64 `json:"freight"`
}

// Route is a driving route between two coordinates.
type Route struct {
	DistanceMeters  float64
	DurationSeconds float64
}
