package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/lakeview-kitchen/ordering-api/internal/platform/cache"
	"github.com/lakeview-kitchen/ordering-api/internal/platform/config"
	"github.com/lakeview-kitchen/ordering-api/internal/platform/observability"
	"github.com/lakeview-kitchen/ordering-api/internal/square"
)

// CatalogServiceDeps bundles constructor inputs for the catalog service.
type CatalogServiceDeps struct {
	Square SquareGateway
	Cache  *cache.Store
	TTLs   config.CacheConfig
}

type catalogService struct {
	square SquareGateway
	cache  *cache.Store
	ttls   config.CacheConfig
}

var _ CatalogService = (*catalogService)(nil)

// NewCatalogService constructs the catalog service with the supplied dependencies.
func NewCatalogService(deps CatalogServiceDeps) (CatalogService, error) {
	if deps.Square == nil {
		return nil, errors.New("catalog service: square gateway is required")
	}
	if deps.Cache == nil {
		return nil, errors.New("catalog service: cache store is required")
	}
	return &catalogService{
		square: deps.Square,
		cache:  deps.Cache,
		ttls:   deps.TTLs,
	}, nil
}

// searchBody builds the generic catalog search body for the given object
// types. Marshalling is deterministic for a fixed type list, so the cache key
// derived from the body is stable across calls.
func searchBody(objectTypes ...string) []byte {
	body, err := json.Marshal(square.SearchCatalogRequest{ObjectTypes: objectTypes})
	if err != nil {
		panic(fmt.Sprintf("catalog service: encode search body: %v", err))
	}
	return body
}

// fetch is the cache-aside core: serve a fresh cached payload when present,
// otherwise call upstream and overwrite the entry.
func (s *catalogService) fetch(ctx context.Context, endpoint string, body []byte) (json.RawMessage, error) {
	key := cache.Key(endpoint, body)
	class := cache.Classify(endpoint, body)
	ttl := s.ttls.TTLByClass(class)

	if data, ok := s.cache.Get(key, ttl); ok {
		observability.FromContext(ctx).Debug("cache hit",
			zap.String("endpoint", endpoint),
			zap.String("class", class),
		)
		return data, nil
	}

	var (
		data json.RawMessage
		err  error
	)
	switch endpoint {
	case square.EndpointLocations:
		data, err = s.square.ListLocations(ctx)
	default:
		data, err = s.square.SearchCatalog(ctx, body)
	}
	if err != nil {
		return nil, err
	}

	s.cache.Set(key, data)
	observability.FromContext(ctx).Debug("cache fill",
		zap.String("endpoint", endpoint),
		zap.String("class", class),
	)
	return data, nil
}

// fetchOptional behaves like fetch but treats an upstream not-found as an
// empty object list. A merchant with no discounts or measurement units
// configured is a valid state, not a failure.
func (s *catalogService) fetchOptional(ctx context.Context, endpoint string, body []byte) (json.RawMessage, error) {
	data, err := s.fetch(ctx, endpoint, body)
	if err != nil {
		var upstream *square.UpstreamError
		if errors.As(err, &upstream) && upstream.NotFound() {
			return json.RawMessage(`{"objects":[]}`), nil
		}
		return nil, err
	}
	return data, nil
}

func (s *catalogService) Locations(ctx context.Context) (json.RawMessage, error) {
	return s.fetch(ctx, square.EndpointLocations, nil)
}

// Products fetches items together with categories so hidden-category
// membership can be resolved from a single upstream response, then applies
// the storefront visibility filter.
func (s *catalogService) Products(ctx context.Context) (json.RawMessage, error) {
	body := searchBody("ITEM", "CATEGORY")
	data, err := s.fetch(ctx, square.EndpointCatalogSearch, body)
	if err != nil {
		return nil, err
	}

	var decoded square.SearchCatalogResponse
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, fmt.Errorf("catalog service: decode search response: %w", err)
	}

	hidden := HiddenCategoryIDs(decoded.Objects)
	decoded.Objects = FilterCatalogObjects(decoded.Objects, hidden)

	filtered, err := json.Marshal(decoded)
	if err != nil {
		return nil, fmt.Errorf("catalog service: encode filtered response: %w", err)
	}
	return filtered, nil
}

func (s *catalogService) Categories(ctx context.Context) (json.RawMessage, error) {
	data, err := s.fetch(ctx, square.EndpointCatalogSearch, searchBody("CATEGORY"))
	if err != nil {
		return nil, err
	}

	var decoded square.SearchCatalogResponse
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, fmt.Errorf("catalog service: decode search response: %w", err)
	}

	hidden := HiddenCategoryIDs(decoded.Objects)
	decoded.Objects = FilterCatalogObjects(decoded.Objects, hidden)

	filtered, err := json.Marshal(decoded)
	if err != nil {
		return nil, fmt.Errorf("catalog service: encode filtered response: %w", err)
	}
	return filtered, nil
}

func (s *catalogService) Modifiers(ctx context.Context) (json.RawMessage, error) {
	return s.fetch(ctx, square.EndpointCatalogSearch, searchBody("MODIFIER_LIST"))
}

func (s *catalogService) Discounts(ctx context.Context) (json.RawMessage, error) {
	return s.fetchOptional(ctx, square.EndpointCatalogSearch, searchBody("DISCOUNT"))
}

func (s *catalogService) MeasurementUnits(ctx context.Context) (json.RawMessage, error) {
	return s.fetchOptional(ctx, square.EndpointCatalogSearch, searchBody("MEASUREMENT_UNIT"))
}
