package services

import (
	"context"
	"errors"

	"github.com/relaygate/console/internal/aliases"
	"github.com/relaygate/console/internal/events"
	"github.com/relaygate/console/internal/logging"
	"github.com/relaygate/console/internal/models"
	"github.com/relaygate/console/internal/snapshot"
	"github.com/relaygate/console/internal/utils"
)

// AliasRegistry is the slice of the registry the alias service needs
type AliasRegistry interface {
	Put(ctx context.Context, alias *aliases.Alias) error
	Get(ctx context.Context, name string) (*aliases.Alias, error)
	List(ctx context.Context) ([]*aliases.Alias, error)
	Delete(ctx context.Context, name string) error
	Resolve(ctx context.Context, name string) (string, error)
}

// AliasService wraps registry CRUD with the side effects a mutation
// requires: scatter snapshots grouped by model go stale, and the other
// replicas must hear about the change.
type AliasService struct {
	logger   *logging.Logger
	registry AliasRegistry
	cache    snapshot.Store
	bus      events.Bus
}

// NewAliasService creates an AliasService
func NewAliasService(logger *logging.Logger, registry AliasRegistry, cache snapshot.Store, bus events.Bus) *AliasService {
	return &AliasService{
		logger:   logger,
		registry: registry,
		cache:    cache,
		bus:      bus,
	}
}

// List returns all aliases ordered by name
func (s *AliasService) List(ctx context.Context) ([]*aliases.Alias, error) {
	list, err := s.registry.List(ctx)
	if err != nil {
		return nil, &ServiceError{
			Code:    CodeInternal,
			Message: "Failed to list aliases",
			Details: map[string]interface{}{"error": err.Error()},
		}
	}
	return list, nil
}

// Get returns one alias by name
func (s *AliasService) Get(ctx context.Context, name string) (*aliases.Alias, error) {
	alias, err := s.registry.Get(ctx, name)
	if errors.Is(err, aliases.ErrNotFound) {
		return nil, NewServiceError(CodeNotFound, "alias not found: "+name)
	}
	if err != nil {
		return nil, &ServiceError{
			Code:    CodeInternal,
			Message: "Failed to get alias",
			Details: map[string]interface{}{"error": err.Error()},
		}
	}
	return alias, nil
}

// Put creates or replaces an alias and propagates the change
func (s *AliasService) Put(ctx context.Context, name string, req *models.PutAliasRequest) (*aliases.Alias, error) {
	alias := &aliases.Alias{
		Name:        name,
		Target:      req.Target,
		Provider:    req.Provider,
		DisplayName: req.DisplayName,
		Active:      req.Active,
	}

	if err := alias.Validate(); err != nil {
		return nil, NewServiceError(CodeInvalidRequest, err.Error())
	}

	if err := s.registry.Put(ctx, alias); err != nil {
		return nil, &ServiceError{
			Code:    CodeInternal,
			Message: "Failed to store alias",
			Details: map[string]interface{}{"error": err.Error()},
		}
	}

	s.propagateChange(ctx, name)
	return alias, nil
}

// Delete removes an alias and propagates the change
func (s *AliasService) Delete(ctx context.Context, name string) error {
	err := s.registry.Delete(ctx, name)
	if errors.Is(err, aliases.ErrNotFound) {
		return NewServiceError(CodeNotFound, "alias not found: "+name)
	}
	if err != nil {
		return &ServiceError{
			Code:    CodeInternal,
			Message: "Failed to delete alias",
			Details: map[string]interface{}{"error": err.Error()},
		}
	}

	s.propagateChange(ctx, name)
	return nil
}

// Resolve maps a model name through the registry (pass-through on no match)
func (s *AliasService) Resolve(ctx context.Context, name string) (string, error) {
	target, err := s.registry.Resolve(ctx, name)
	if err != nil {
		return "", &ServiceError{
			Code:    CodeInternal,
			Message: "Failed to resolve alias",
			Details: map[string]interface{}{"error": err.Error()},
		}
	}
	return target, nil
}

// propagateChange drops the local scatter snapshots (model labels may have
// changed) and broadcasts the mutation. Both are best-effort: the alias
// write already succeeded and TTLs bound the staleness.
func (s *AliasService) propagateChange(ctx context.Context, name string) {
	if _, err := s.cache.DeletePrefix(ctx, ScatterKeyPrefix); err != nil {
		s.logger.Warn("Snapshot invalidation failed after alias change", "alias", name, "error", err)
	}

	publishCtx, cancel := context.WithTimeout(context.Background(), utils.EventPublishTimeout)
	defer cancel()

	if err := s.bus.Publish(publishCtx, events.AliasChanged(name)); err != nil {
		s.logger.Warn("Failed to broadcast alias change", "alias", name, "error", err)
	}
}
