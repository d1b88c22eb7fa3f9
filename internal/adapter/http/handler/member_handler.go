package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/melodykoh/the-mini-mint/internal/adapter/http/dto"
	"github.com/melodykoh/the-mini-mint/internal/domain"
	"github.com/melodykoh/the-mini-mint/internal/usecase"
)

// MemberService defines the behavior needed by MemberHandler.
type MemberService interface {
	CreateMember(ctx context.Context, input usecase.CreateMemberInput) (*domain.Member, error)
	GetMember(ctx context.Context, id string) (*domain.Member, error)
	ListMembers(ctx context.Context, limit, offset int) ([]*domain.Member, error)
}

// MemberHandler handles member-related HTTP requests.
type MemberHandler struct {
	memberUC MemberService
}

// NewMemberHandler creates a new MemberHandler.
func NewMemberHandler(memberUC MemberService) *MemberHandler {
	return &MemberHandler{memberUC: memberUC}
}

// Create creates a new member.
func (h *MemberHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	member, err := h.memberUC.CreateMember(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create member", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.MemberFromDomain(member))
}

// Get retrieves a member by ID.
func (h *MemberHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing member ID", "")
		return
	}

	member, err := h.memberUC.GetMember(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get member", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.MemberFromDomain(member))
}

// List lists members.
func (h *MemberHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	members, err := h.memberUC.ListMembers(r.Context(), limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list members", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListMembersResponse{
		Members: dto.MembersFromDomain(members),
		Total:   int64(len(members)),
	})
}
