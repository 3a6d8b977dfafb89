// Package marketplace provides a Wallapop search API client abstracted behind
// interfaces for testability.
package marketplace

import (
	"context"

	domain "github.com/mvalldaura/marketsearch/pkg/types"
)

// SearchRequest defines the parameters for one upstream search call.
type SearchRequest struct {
	Query string

	// NextToken is the opaque continuation token returned by the previous
	// page, empty for the first page.
	NextToken string

	// Latitude/Longitude override the configured default geolocation when
	// set.
	Latitude  *float64
	Longitude *float64
}

// SearchPage holds the parsed results of one upstream search call.
type SearchPage struct {
	Items []domain.Item

	// Slugs maps item ID to the item's web slug for link resolution.
	Slugs map[string]string

	// NextToken is the continuation token for the following page, empty
	// when no further page exists.
	NextToken string
}

// Client defines the interface for the upstream search endpoint. A Client is
// stateless: issuing the same (query, token) pair twice performs two
// independent upstream calls.
type Client interface {
	Search(ctx context.Context, req SearchRequest) (*SearchPage, error)
}

// VersionProvider defines the interface for obtaining the marketplace
// application version sent in the x-appversion header.
type VersionProvider interface {
	Version(ctx context.Context) (string, error)
}
