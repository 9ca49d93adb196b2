// Package aliases manages the model alias registry: public model names
// mapped to provider-specific targets, shared across console replicas and
// the gateway through etcd.
package aliases

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"

	"github.com/relaygate/console/internal/config"
)

const aliasPrefix = "/console/aliases"

// ErrNotFound is returned when a named alias does not exist
var ErrNotFound = errors.New("alias not found")

// Alias maps a public model name to a provider-specific target model
type Alias struct {
	Name        string    `json:"name"`
	Target      string    `json:"target"`
	Provider    string    `json:"provider"`
	DisplayName string    `json:"display_name,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Validate checks the alias is storable
func (a *Alias) Validate() error {
	if a.Name == "" {
		return fmt.Errorf("alias name is required")
	}
	if a.Target == "" {
		return fmt.Errorf("alias target is required")
	}
	return nil
}

// Registry is the etcd-backed alias store
type Registry struct {
	client *clientv3.Client
}

// NewRegistry connects to etcd
func NewRegistry(cfg config.EtcdConfig) (*Registry, error) {
	client, err := clientv3.New(clientv3.Config{
		Endpoints:   cfg.Endpoints,
		DialTimeout: cfg.DialTimeout,
		Username:    cfg.Username,
		Password:    cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to etcd: %w", err)
	}

	return &Registry{client: client}, nil
}

func aliasKey(name string) string {
	return path.Join(aliasPrefix, name)
}

// Put creates or replaces an alias. CreatedAt survives a replace; UpdatedAt
// always moves to now.
func (r *Registry) Put(ctx context.Context, alias *Alias) error {
	if err := alias.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()
	alias.UpdatedAt = now
	alias.CreatedAt = now

	existing, err := r.Get(ctx, alias.Name)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	if existing != nil {
		alias.CreatedAt = existing.CreatedAt
	}

	data, err := json.Marshal(alias)
	if err != nil {
		return fmt.Errorf("failed to marshal alias: %w", err)
	}

	if _, err := r.client.Put(ctx, aliasKey(alias.Name), string(data)); err != nil {
		return fmt.Errorf("failed to store alias in etcd: %w", err)
	}

	return nil
}

// Get retrieves an alias by name
func (r *Registry) Get(ctx context.Context, name string) (*Alias, error) {
	resp, err := r.client.Get(ctx, aliasKey(name))
	if err != nil {
		return nil, fmt.Errorf("failed to get alias from etcd: %w", err)
	}

	if len(resp.Kvs) == 0 {
		return nil, ErrNotFound
	}

	var alias Alias
	if err := json.Unmarshal(resp.Kvs[0].Value, &alias); err != nil {
		return nil, fmt.Errorf("failed to unmarshal alias: %w", err)
	}

	return &alias, nil
}

// List returns all aliases ordered by name
func (r *Registry) List(ctx context.Context) ([]*Alias, error) {
	resp, err := r.client.Get(ctx, aliasPrefix+"/",
		clientv3.WithPrefix(),
		clientv3.WithSort(clientv3.SortByKey, clientv3.SortAscend))
	if err != nil {
		return nil, fmt.Errorf("failed to list aliases from etcd: %w", err)
	}

	aliases := make([]*Alias, 0, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		var alias Alias
		if err := json.Unmarshal(kv.Value, &alias); err != nil {
			// Skip malformed entries rather than failing the whole listing
			continue
		}
		aliases = append(aliases, &alias)
	}

	return aliases, nil
}

// Delete removes an alias. Deleting an absent alias is ErrNotFound.
func (r *Registry) Delete(ctx context.Context, name string) error {
	resp, err := r.client.Delete(ctx, aliasKey(name))
	if err != nil {
		return fmt.Errorf("failed to delete alias from etcd: %w", err)
	}

	if resp.Deleted == 0 {
		return ErrNotFound
	}

	return nil
}

// Resolve maps a public model name to its provider target. Unmapped or
// inactive names pass through unchanged, so callers can resolve
// unconditionally.
func (r *Registry) Resolve(ctx context.Context, name string) (string, error) {
	alias, err := r.Get(ctx, name)
	if errors.Is(err, ErrNotFound) {
		return name, nil
	}
	if err != nil {
		return "", err
	}

	if !alias.Active {
		return name, nil
	}

	return alias.Target, nil
}

// Close closes the etcd connection
func (r *Registry) Close() error {
	return r.client.Close()
}
