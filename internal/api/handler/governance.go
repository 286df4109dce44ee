package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/edvin/governance/internal/api/request"
	"github.com/edvin/governance/internal/api/response"
	"github.com/edvin/governance/internal/core"
)

type Governance struct {
	svc *core.GovernanceService
}

func NewGovernance(svc *core.GovernanceService) *Governance {
	return &Governance{svc: svc}
}

func (h *Governance) ListInstances(w http.ResponseWriter, r *http.Request) {
	instances, err := h.svc.ListInstances(r.Context())
	if err != nil {
		writeGovernanceError(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, instances)
}

func (h *Governance) UpdateInstanceStatus(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireName("instance id", chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req request.UpdateStatus
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.UpdateInstanceStatus(r.Context(), id, *req.Enabled); err != nil {
		writeGovernanceError(w, r, err)
		return
	}

	response.WriteNoContent(w)
}

func (h *Governance) ListReplicaDataSources(w http.ResponseWriter, r *http.Request) {
	replicas, err := h.svc.ListReplicaDataSources(r.Context())
	if err != nil {
		writeGovernanceError(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, replicas)
}

func (h *Governance) UpdateReplicaDataSourceStatus(w http.ResponseWriter, r *http.Request) {
	schemaName, err := request.RequireName("schema name", chi.URLParam(r, "schema"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	dataSourceName, err := request.RequireName("data source name", chi.URLParam(r, "name"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req request.UpdateStatus
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.UpdateReplicaDataSourceStatus(r.Context(), schemaName, dataSourceName, *req.Enabled); err != nil {
		writeGovernanceError(w, r, err)
		return
	}

	response.WriteNoContent(w)
}

func (h *Governance) ListSchemas(w http.ResponseWriter, r *http.Request) {
	schemas, err := h.svc.ListSchemas(r.Context())
	if err != nil {
		writeGovernanceError(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, schemas)
}

// writeGovernanceError maps a governance failure onto an HTTP status.
func writeGovernanceError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, core.ErrInvalidName):
		status = http.StatusBadRequest
	case errors.Is(err, core.ErrStoreUnavailable):
		status = http.StatusServiceUnavailable
	}

	zerolog.Ctx(r.Context()).Error().Err(err).Int("status", status).Msg("governance operation failed")
	response.WriteError(w, status, err.Error())
}
