// Package geocode resolves free-text addresses to coordinates through the
// Google Maps Geocoding API.
package geocode

import (
	"context"
	"errors"
	"fmt"

	"googlemaps.github.io/maps"
)

// ErrNoResults is returned when the API knows no place for an address.
var ErrNoResults = errors.New("geocode: no results")

// Client geocodes addresses. It satisfies service.Geocoder.
type Client struct {
	maps *maps.Client
}

// New builds a Client authenticated with apiKey. Extra options (a custom
// base URL or HTTP client) are passed through to the Maps client.
func New(apiKey string, opts ...maps.ClientOption) (*Client, error) {
	c, err := maps.NewClient(append([]maps.ClientOption{maps.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("geocode.New: %w", err)
	}
	return &Client{maps: c}, nil
}

// Geocode returns the location of the best match for address.
func (c *Client) Geocode(ctx context.Context, address string) (float64, float64, error) {
	results, err := c.maps.Geocode(ctx, &maps.GeocodingRequest{Address: address})
	if err != nil {
		return 0, 0, fmt.Errorf("geocode.Client.Geocode: %w", err)
	}
	if len(results) == 0 {
		return 0, 0, fmt.Errorf("geocode.Client.Geocode: %w", ErrNoResults)
	}
	loc := results[0].Geometry.Location
	return loc.Lat, loc.Lng, nil
}
