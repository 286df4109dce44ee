package rule

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrMalformed is returned when rule text cannot be parsed.
var ErrMalformed = errors.New("malformed rule configuration")

type yamlRoot struct {
	Rules []yaml.Node `yaml:"rules"`
}

type yamlReplicaQueryRule struct {
	DataSources   yaml.Node               `yaml:"dataSources"`
	LoadBalancers map[string]LoadBalancer `yaml:"loadBalancers"`
}

type yamlDataSourceGroup struct {
	Name                   string   `yaml:"name"`
	PrimaryDataSourceName  string   `yaml:"primaryDataSourceName"`
	ReplicaDataSourceNames []string `yaml:"replicaDataSourceNames"`
	LoadBalancerName       string   `yaml:"loadBalancerName"`
}

type yamlShardingRule struct {
	Tables                yaml.Node `yaml:"tables"`
	AutoTables            yaml.Node `yaml:"autoTables"`
	BindingTables         []string  `yaml:"bindingTables"`
	BroadcastTables       []string  `yaml:"broadcastTables"`
	DefaultDataSourceName string    `yaml:"defaultDataSourceName"`
}

// Parse converts raw rule text into a Set. Empty text yields an empty Set.
func Parse(text string) (Set, error) {
	var root yamlRoot
	if err := yaml.Unmarshal([]byte(text), &root); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	set := make(Set, 0, len(root.Rules))
	for i := range root.Rules {
		node := &root.Rules[i]
		c, err := parseRule(node)
		if err != nil {
			return nil, fmt.Errorf("%w: rule %d (line %d): %w", ErrMalformed, i, node.Line, err)
		}
		set = append(set, c)
	}
	return set, nil
}

func parseRule(node *yaml.Node) (Configuration, error) {
	if node.Kind != yaml.MappingNode {
		return Configuration{}, fmt.Errorf("expected a mapping")
	}
	if node.Tag == "" || node.Tag == "!!map" {
		return Configuration{}, fmt.Errorf("missing rule type tag")
	}

	kind := Kind(node.Tag)
	switch kind {
	case KindReplicaQuery:
		rq, err := decodeReplicaQuery(node)
		if err != nil {
			return Configuration{}, err
		}
		return Configuration{Kind: kind, ReplicaQuery: rq}, nil
	case KindSharding:
		sh, err := decodeSharding(node)
		if err != nil {
			return Configuration{}, err
		}
		return Configuration{Kind: kind, Sharding: sh}, nil
	default:
		return Configuration{Kind: kind}, nil
	}
}

// untagged returns a copy of a tagged mapping that yaml.v3 will decode into a
// struct.
func untagged(node *yaml.Node) *yaml.Node {
	n := *node
	n.Tag = "!!map"
	return &n
}

func decodeReplicaQuery(node *yaml.Node) (*ReplicaQueryConfiguration, error) {
	var raw yamlReplicaQueryRule
	if err := untagged(node).Decode(&raw); err != nil {
		return nil, err
	}

	rq := &ReplicaQueryConfiguration{LoadBalancers: raw.LoadBalancers}
	if raw.DataSources.Kind == 0 || raw.DataSources.ShortTag() == "!!null" {
		return rq, nil
	}
	if raw.DataSources.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("dataSources must be a mapping, line %d", raw.DataSources.Line)
	}

	content := raw.DataSources.Content
	for i := 0; i+1 < len(content); i += 2 {
		var g yamlDataSourceGroup
		if err := content[i+1].Decode(&g); err != nil {
			return nil, fmt.Errorf("data source %s: %w", content[i].Value, err)
		}
		name := g.Name
		if name == "" {
			name = content[i].Value
		}
		rq.DataSources = append(rq.DataSources, DataSourceGroup{
			Name:                   name,
			PrimaryDataSourceName:  g.PrimaryDataSourceName,
			ReplicaDataSourceNames: g.ReplicaDataSourceNames,
			LoadBalancerName:       g.LoadBalancerName,
		})
	}
	return rq, nil
}

func decodeSharding(node *yaml.Node) (*ShardingConfiguration, error) {
	var raw yamlShardingRule
	if err := untagged(node).Decode(&raw); err != nil {
		return nil, err
	}
	return &ShardingConfiguration{
		Tables:            mappingKeys(&raw.Tables),
		AutoTables:        mappingKeys(&raw.AutoTables),
		BindingTables:     raw.BindingTables,
		BroadcastTables:   raw.BroadcastTables,
		DefaultDataSource: raw.DefaultDataSourceName,
	}, nil
}

func mappingKeys(node *yaml.Node) []string {
	if node.Kind != yaml.MappingNode {
		return nil
	}
	keys := make([]string, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keys = append(keys, node.Content[i].Value)
	}
	return keys
}
