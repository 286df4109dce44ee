// Package api provides the cluster governance REST API: proxy instance and
// replica data source enablement over the registry, plus the MCP endpoint.
package api
