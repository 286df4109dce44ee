// Package rule parses the YAML rule configuration stored for each schema.
//
// A rule configuration document is a mapping with a "rules" sequence. Every
// element of the sequence carries a YAML tag naming its kind:
//
//	rules:
//	- !REPLICA_QUERY
//	  dataSources:
//	    pr_ds:
//	      primaryDataSourceName: primary_ds
//	      replicaDataSourceNames: [replica_ds_0, replica_ds_1]
//	- !SHARDING
//	  tables:
//	    t_order: {actualDataNodes: pr_ds.t_order_${0..1}}
//
// Parse turns the document into a Set of Configuration values. Only the
// replica query and sharding kinds are decoded; every other kind is kept as an
// opaque entry.
package rule

import "strings"

// Kind identifies a rule configuration by its YAML tag.
type Kind string

const (
	KindSharding     Kind = "!SHARDING"
	KindReplicaQuery Kind = "!REPLICA_QUERY"
	KindEncrypt      Kind = "!ENCRYPT"
	KindShadow       Kind = "!SHADOW"
)

// Dialect is the textual encoding of a schema's rule configuration.
type Dialect string

const (
	// DialectSharding is a heterogeneous rule list in which a replica
	// query rule is optional.
	DialectSharding Dialect = "sharding"
	// DialectReplicaQuery is a document that describes a replica query
	// rule and nothing else of interest.
	DialectReplicaQuery Dialect = "replica_query"
	// DialectNone carries no replica topology.
	DialectNone Dialect = "none"
)

// Classify detects the dialect of raw rule text by marker substring, before
// any parsing. The sharding marker wins when both are present.
func Classify(text string) Dialect {
	switch {
	case strings.Contains(text, string(KindSharding)):
		return DialectSharding
	case strings.Contains(text, string(KindReplicaQuery)):
		return DialectReplicaQuery
	default:
		return DialectNone
	}
}

// Configuration is one parsed rule. Exactly one of the variant fields is set
// for the decoded kinds; both are nil for opaque kinds.
type Configuration struct {
	Kind         Kind
	ReplicaQuery *ReplicaQueryConfiguration
	Sharding     *ShardingConfiguration
}

// AsReplicaQuery returns the replica query variant, if this is one.
func (c Configuration) AsReplicaQuery() (*ReplicaQueryConfiguration, bool) {
	return c.ReplicaQuery, c.Kind == KindReplicaQuery && c.ReplicaQuery != nil
}

// AsSharding returns the sharding variant, if this is one.
func (c Configuration) AsSharding() (*ShardingConfiguration, bool) {
	return c.Sharding, c.Kind == KindSharding && c.Sharding != nil
}

// ReplicaQueryConfiguration maps primary data sources to their replicas.
type ReplicaQueryConfiguration struct {
	DataSources   []DataSourceGroup
	LoadBalancers map[string]LoadBalancer
}

// DataSourceGroup is one primary with its ordered replicas.
type DataSourceGroup struct {
	Name                   string
	PrimaryDataSourceName  string
	ReplicaDataSourceNames []string
	LoadBalancerName       string
}

// LoadBalancer is a named replica load balancing algorithm.
type LoadBalancer struct {
	Type  string         `yaml:"type"`
	Props map[string]any `yaml:"props"`
}

// ShardingConfiguration summarises a sharding rule. Only table names are
// decoded; strategies and algorithms are not needed here.
type ShardingConfiguration struct {
	Tables            []string
	AutoTables        []string
	BindingTables     []string
	BroadcastTables   []string
	DefaultDataSource string
}

// Set is the ordered result of parsing one document.
type Set []Configuration

// ReplicaQueries returns every replica query rule in document order.
func (s Set) ReplicaQueries() []*ReplicaQueryConfiguration {
	var result []*ReplicaQueryConfiguration
	for _, c := range s {
		if rq, ok := c.AsReplicaQuery(); ok {
			result = append(result, rq)
		}
	}
	return result
}

// FirstReplicaQuery returns the first replica query rule, if any.
func (s Set) FirstReplicaQuery() (*ReplicaQueryConfiguration, bool) {
	for _, c := range s {
		if rq, ok := c.AsReplicaQuery(); ok {
			return rq, true
		}
	}
	return nil, false
}

// Kinds lists the kind of every rule in document order.
func (s Set) Kinds() []Kind {
	kinds := make([]Kind, len(s))
	for i, c := range s {
		kinds[i] = c.Kind
	}
	return kinds
}
