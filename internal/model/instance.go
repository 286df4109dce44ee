package model

// Instance is a proxy node registered under the instances root.
type Instance struct {
	InstanceID string `json:"instanceId"`
	Enabled    bool   `json:"enabled"`
}
