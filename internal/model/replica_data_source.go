package model

// ReplicaDataSource is one primary to replica edge of a schema's topology.
type ReplicaDataSource struct {
	SchemaName            string `json:"schemaName"`
	PrimaryDataSourceName string `json:"primaryDataSourceName"`
	ReplicaDataSourceName string `json:"replicaDataSourceName"`
	Enabled               bool   `json:"enabled"`
}
