package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/melodykoh/the-mini-mint/internal/adapter/http/dto"
	"github.com/melodykoh/the-mini-mint/internal/usecase"
)

// SnapshotService defines the behavior needed by SnapshotHandler.
type SnapshotService interface {
	RecordSnapshot(ctx context.Context, input usecase.RecordSnapshotInput) (*usecase.SnapshotResult, error)
}

// SnapshotHandler handles external counter snapshot HTTP requests.
type SnapshotHandler struct {
	snapshotUC SnapshotService
}

// NewSnapshotHandler creates a new SnapshotHandler.
func NewSnapshotHandler(snapshotUC SnapshotService) *SnapshotHandler {
	return &SnapshotHandler{snapshotUC: snapshotUC}
}

// Record reports a counter total and deposits the increment's cash value.
func (h *SnapshotHandler) Record(w http.ResponseWriter, r *http.Request) {
	memberID := chi.URLParam(r, "id")

	var req dto.SnapshotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput(memberID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid total", err.Error())
		return
	}

	result, err := h.snapshotUC.RecordSnapshot(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to record snapshot", err.Error())
		return
	}

	status := http.StatusCreated
	if !result.Recorded {
		status = http.StatusOK
	}

	writeJSON(w, status, dto.SnapshotFromUseCase(result))
}
