package request

// UpdateStatus is the body of the instance and data source status endpoints.
// Enabled is a pointer so an explicit false passes the required check.
type UpdateStatus struct {
	Enabled *bool `json:"enabled" validate:"required"`
}
