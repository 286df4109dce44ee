package core

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/edvin/governance/internal/metrics"
	"github.com/edvin/governance/internal/model"
	"github.com/edvin/governance/internal/registry"
	"github.com/edvin/governance/internal/rule"
)

// SchemaLoader supplies the schemas and their raw rule configuration text.
type SchemaLoader interface {
	AllSchemaNames(ctx context.Context) ([]string, error)
	RuleConfiguration(ctx context.Context, schemaName string) (string, error)
}

// GovernanceService reconciles the disabled markers stored in the registry
// with the replica topology declared in each schema's rules.
type GovernanceService struct {
	store   registry.Store
	schemas SchemaLoader
}

func NewGovernanceService(store registry.Store, schemas SchemaLoader) *GovernanceService {
	return &GovernanceService{store: store, schemas: schemas}
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}

func checkName(kind, name string) error {
	if err := registry.ValidateName(name); err != nil {
		return fmt.Errorf("%s: %w: %w", kind, ErrInvalidName, err)
	}
	return nil
}

// statusReadConcurrency bounds the parallel status reads of ListInstances.
const statusReadConcurrency = 8

// ListInstances returns every registered proxy instance in registry order.
func (s *GovernanceService) ListInstances(ctx context.Context) ([]model.Instance, error) {
	ids, err := s.store.GetChildrenKeys(ctx, registry.ProxyNodesRootPath())
	if err != nil {
		return nil, storeErr("list instances", err)
	}

	instances := make([]model.Instance, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(statusReadConcurrency)

	for i, id := range ids {
		g.Go(func() error {
			op := fmt.Sprintf("get instance %s status", id)
			// Skip reads queued behind a failed one.
			if err := gctx.Err(); err != nil {
				return storeErr(op, err)
			}
			value, err := s.store.Get(gctx, registry.ProxyNodePath(id))
			if err != nil {
				return storeErr(op, err)
			}
			instances[i] = model.Instance{
				InstanceID: id,
				Enabled:    !registry.IsDisabled(value),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return instances, nil
}

// UpdateInstanceStatus enables or disables a proxy instance. The instance is
// not required to exist, but its ID must be a single path segment.
func (s *GovernanceService) UpdateInstanceStatus(ctx context.Context, instanceID string, enabled bool) error {
	if err := checkName("instance id", instanceID); err != nil {
		return err
	}
	if err := s.store.Persist(ctx, registry.ProxyNodePath(instanceID), registry.StatusValue(enabled)); err != nil {
		return storeErr(fmt.Sprintf("update instance %s status", instanceID), err)
	}

	metrics.StatusUpdatesTotal.WithLabelValues("instance", model.StatusLabel(enabled)).Inc()
	zerolog.Ctx(ctx).Info().
		Str("instance_id", instanceID).
		Str("status", model.StatusLabel(enabled)).
		Msg("instance status updated")
	return nil
}

// ListReplicaDataSources expands every schema's replica query rules into one
// entry per primary and replica pair. The disabled set is read at most once
// per call and shared by all schemas.
func (s *GovernanceService) ListReplicaDataSources(ctx context.Context) ([]model.ReplicaDataSource, error) {
	names, err := s.schemas.AllSchemaNames(ctx)
	if err != nil {
		return nil, storeErr("list schemas", err)
	}

	logger := zerolog.Ctx(ctx)
	result := []model.ReplicaDataSource{}
	var disabled map[dataSourceKey]struct{}

	for _, schemaName := range names {
		rules, err := s.replicaQueryRules(ctx, schemaName)
		if err != nil {
			return nil, err
		}
		if len(rules) == 0 {
			continue
		}

		if disabled == nil {
			if disabled, err = s.disabledDataSources(ctx); err != nil {
				return nil, err
			}
		}
		for _, rq := range rules {
			for _, group := range rq.DataSources {
				for _, replica := range group.ReplicaDataSourceNames {
					_, off := disabled[dataSourceKey{schemaName, replica}]
					result = append(result, model.ReplicaDataSource{
						SchemaName:            schemaName,
						PrimaryDataSourceName: group.PrimaryDataSourceName,
						ReplicaDataSourceName: replica,
						Enabled:               !off,
					})
				}
			}
		}
	}

	logger.Debug().Int("schemas", len(names)).Int("replicas", len(result)).Msg("listed replica data sources")
	return result, nil
}

// replicaQueryRules returns the replica query rules declared for a schema.
// Schemas without rule text or without a dialect marker yield none.
func (s *GovernanceService) replicaQueryRules(ctx context.Context, schemaName string) ([]*rule.ReplicaQueryConfiguration, error) {
	text, err := s.schemas.RuleConfiguration(ctx, schemaName)
	if err != nil {
		return nil, storeErr(fmt.Sprintf("load rules of %s", schemaName), err)
	}
	logger := zerolog.Ctx(ctx).With().Str("schema", schemaName).Logger()
	if text == "" {
		metrics.SkippedSchemasTotal.WithLabelValues("empty").Inc()
		logger.Debug().Msg("schema has no rule configuration")
		return nil, nil
	}

	switch rule.Classify(text) {
	case rule.DialectSharding:
		set, err := parseRules(schemaName, text)
		if err != nil {
			return nil, err
		}
		return set.ReplicaQueries(), nil
	case rule.DialectReplicaQuery:
		set, err := parseRules(schemaName, text)
		if err != nil {
			return nil, err
		}
		rq, ok := set.FirstReplicaQuery()
		if !ok {
			return nil, fmt.Errorf("schema %s: replica query rules declared but none parsed: %w",
				schemaName, ErrPreconditionViolation)
		}
		return []*rule.ReplicaQueryConfiguration{rq}, nil
	default:
		metrics.SkippedSchemasTotal.WithLabelValues("unclassified").Inc()
		logger.Debug().Msg("schema has no replica topology")
		return nil, nil
	}
}

func parseRules(schemaName, text string) (rule.Set, error) {
	set, err := rule.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("schema %s: %w: %w", schemaName, ErrMalformedConfiguration, err)
	}
	return set, nil
}

type dataSourceKey struct {
	schema     string
	dataSource string
}

// disabledDataSources scans every schema's data source status nodes.
func (s *GovernanceService) disabledDataSources(ctx context.Context) (map[dataSourceKey]struct{}, error) {
	schemaNames, err := s.store.GetChildrenKeys(ctx, registry.DataNodesPath())
	if err != nil {
		return nil, storeErr("list data node schemas", err)
	}

	disabled := make(map[dataSourceKey]struct{})
	for _, schemaName := range schemaNames {
		dataSources, err := s.store.GetChildrenKeys(ctx, registry.SchemaPath(schemaName))
		if err != nil {
			return nil, storeErr(fmt.Sprintf("list data sources of %s", schemaName), err)
		}
		for _, ds := range dataSources {
			value, err := s.store.Get(ctx, registry.DataSourcePath(schemaName, ds))
			if err != nil {
				return nil, storeErr(fmt.Sprintf("get data source %s.%s status", schemaName, ds), err)
			}
			if registry.IsDisabled(value) {
				disabled[dataSourceKey{schemaName, ds}] = struct{}{}
			}
		}
	}

	metrics.DisabledDataSources.Set(float64(len(disabled)))
	return disabled, nil
}

// UpdateReplicaDataSourceStatus enables or disables a data source of a schema.
func (s *GovernanceService) UpdateReplicaDataSourceStatus(ctx context.Context, schemaName, dataSourceName string, enabled bool) error {
	if err := checkName("schema name", schemaName); err != nil {
		return err
	}
	if err := checkName("data source name", dataSourceName); err != nil {
		return err
	}
	if err := s.store.Persist(ctx, registry.DataSourcePath(schemaName, dataSourceName), registry.StatusValue(enabled)); err != nil {
		return storeErr(fmt.Sprintf("update data source %s.%s status", schemaName, dataSourceName), err)
	}

	metrics.StatusUpdatesTotal.WithLabelValues("replica_data_source", model.StatusLabel(enabled)).Inc()
	zerolog.Ctx(ctx).Info().
		Str("schema", schemaName).
		Str("data_source", dataSourceName).
		Str("status", model.StatusLabel(enabled)).
		Msg("data source status updated")
	return nil
}

// ListSchemas reports each schema's rule dialect, classified the same way
// ListReplicaDataSources does.
func (s *GovernanceService) ListSchemas(ctx context.Context) ([]model.Schema, error) {
	names, err := s.schemas.AllSchemaNames(ctx)
	if err != nil {
		return nil, storeErr("list schemas", err)
	}

	schemas := make([]model.Schema, 0, len(names))
	for _, name := range names {
		text, err := s.schemas.RuleConfiguration(ctx, name)
		if err != nil {
			return nil, storeErr(fmt.Sprintf("load rules of %s", name), err)
		}
		schemas = append(schemas, model.Schema{
			Name:    name,
			Dialect: string(rule.Classify(text)),
			HasRule: text != "",
		})
	}
	return schemas, nil
}
