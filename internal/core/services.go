package core

import (
	"github.com/edvin/governance/internal/registry"
	"github.com/edvin/governance/internal/schema"
)

type Services struct {
	Governance *GovernanceService
	Schema     *schema.Service
}

func NewServices(store registry.Store) *Services {
	schemas := schema.NewService(store)
	return &Services{
		Governance: NewGovernanceService(store, schemas),
		Schema:     schemas,
	}
}
