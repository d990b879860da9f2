package azuregraph

import (
	"context"
	"encoding/json"

	azurearm "github.com/elC0mpa/azure-doctor/service/azure/arm"
)

const apiVersion = "2021-03-01"

// Service submits read-only KQL queries to the tenant resource inventory
type Service interface {
	// Query returns the raw Resource Graph response body.
	Query(ctx context.Context, query string) (json.RawMessage, error)
	// QueryRows runs Query and flattens the result rows into maps keyed by
	// the projected column names.
	QueryRows(ctx context.Context, query string) ([]map[string]any, error)
}

type service struct {
	arm azurearm.Service
}
