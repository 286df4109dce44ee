// Package schema loads the per-schema rule configuration text that the
// governance service reconciles against live status.
package schema

import (
	"context"
	"fmt"

	"github.com/edvin/governance/internal/registry"
)

// Service reads schema names and rule text from the registry's metadata tree.
type Service struct {
	store registry.Store
}

func NewService(store registry.Store) *Service {
	return &Service{store: store}
}

// AllSchemaNames returns the configured schemas in registry order.
func (s *Service) AllSchemaNames(ctx context.Context) ([]string, error) {
	names, err := s.store.GetChildrenKeys(ctx, registry.MetadataPath())
	if err != nil {
		return nil, fmt.Errorf("list schemas: %w", err)
	}
	return names, nil
}

// RuleConfiguration returns the raw YAML rules of a schema, or "" when none
// are configured.
func (s *Service) RuleConfiguration(ctx context.Context, schemaName string) (string, error) {
	text, err := s.store.Get(ctx, registry.RulePath(schemaName))
	if err != nil {
		return "", fmt.Errorf("get rule configuration of %s: %w", schemaName, err)
	}
	return text, nil
}
