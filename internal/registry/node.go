package registry

import (
	"errors"
	"fmt"
	"strings"
)

const (
	separator = "/"

	statesRoot     = "states"
	proxyNodesName = "proxynodes"
	dataNodesName  = "datanodes"

	metadataRoot = "metadata"
	ruleNodeName = "rule"
)

// DisabledStatus is the value stored at a status path to disable the
// instance or data source it belongs to.
const DisabledStatus = "DISABLED"

// ErrInvalidName marks a name that cannot be used as a single path segment.
var ErrInvalidName = errors.New("invalid node name")

// ValidateName reports whether name can stand for exactly one path segment,
// so that every child key listed under a parent can be written back under
// that parent. Names are otherwise opaque.
func ValidateName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty", ErrInvalidName)
	case name == "." || name == "..":
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	case strings.Contains(name, separator):
		return fmt.Errorf("%w: %q contains %q", ErrInvalidName, name, separator)
	}
	return nil
}

func join(segments ...string) string {
	return separator + strings.Join(segments, separator)
}

// ProxyNodePath returns the status path of a proxy instance.
func ProxyNodePath(instanceID string) string {
	return join(statesRoot, proxyNodesName, instanceID)
}

// ProxyNodesRootPath returns the parent of every proxy status path. It is
// derived from ProxyNodePath so the two never drift apart.
func ProxyNodesRootPath() string {
	return strings.TrimSuffix(ProxyNodePath(""), separator)
}

// DataNodesPath returns the parent of every per-schema data source subtree.
func DataNodesPath() string {
	return join(statesRoot, dataNodesName)
}

// SchemaPath returns the path whose children are the data sources of a schema.
func SchemaPath(schemaName string) string {
	return join(statesRoot, dataNodesName, schemaName)
}

// DataSourcePath returns the status path of a data source within a schema.
func DataSourcePath(schemaName, dataSourceName string) string {
	return join(statesRoot, dataNodesName, schemaName, dataSourceName)
}

// MetadataPath returns the parent of every schema's configuration subtree.
func MetadataPath() string {
	return join(metadataRoot)
}

// RulePath returns the path holding a schema's raw YAML rule configuration.
func RulePath(schemaName string) string {
	return join(metadataRoot, schemaName, ruleNodeName)
}

// IsDisabled reports whether a stored status value marks its node disabled.
// Absent and empty values are enabled.
func IsDisabled(value string) bool {
	return strings.EqualFold(value, DisabledStatus)
}

// StatusValue returns the value to persist for the given enablement.
func StatusValue(enabled bool) string {
	if enabled {
		return ""
	}
	return DisabledStatus
}

// parentOf returns the parent key, or "" for a top-level key.
func parentOf(key string) string {
	i := strings.LastIndex(key, separator)
	if i <= 0 {
		return ""
	}
	return key[:i]
}

// ancestorsOf returns every proper ancestor of key, outermost first.
func ancestorsOf(key string) []string {
	var result []string
	for p := parentOf(key); p != ""; p = parentOf(p) {
		result = append([]string{p}, result...)
	}
	return result
}

// childName strips the parent prefix from a child key.
func childName(parent, key string) string {
	return strings.TrimPrefix(key, parent+separator)
}
