package model

// Schema summarises the rule configuration stored for a schema.
type Schema struct {
	Name    string `json:"name"`
	Dialect string `json:"dialect"`
	HasRule bool   `json:"hasRule"`
}
