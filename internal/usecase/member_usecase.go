package usecase

import (
	"context"
	"strings"

	"github.com/melodykoh/the-mini-mint/internal/domain"
)

// MemberUseCase manages household members.
type MemberUseCase struct {
	memberRepo MemberRepository
	idGen      IDGenerator
	clock      Clock
}

// NewMemberUseCase creates a new MemberUseCase.
func NewMemberUseCase(memberRepo MemberRepository, idGen IDGenerator, clock Clock) *MemberUseCase {
	return &MemberUseCase{memberRepo: memberRepo, idGen: idGen, clock: clock}
}

// CreateMemberInput represents input for creating a member.
type CreateMemberInput struct {
	Name     string
	Nickname string
}

// CreateMember creates a new member. New members start with zero in every
// bucket because balances are sums over entries and there are none yet.
func (uc *MemberUseCase) CreateMember(ctx context.Context, input CreateMemberInput) (*domain.Member, error) {
	if _, err := mutatingUser(ctx); err != nil {
		return nil, err
	}

	if err := domain.ValidateMemberName(input.Name); err != nil {
		return nil, err
	}

	member := &domain.Member{
		ID:        uc.idGen.Generate(),
		Name:      strings.TrimSpace(input.Name),
		Nickname:  strings.TrimSpace(input.Nickname),
		CreatedAt: uc.clock.Now(),
	}

	if err := uc.memberRepo.Create(ctx, member); err != nil {
		return nil, err
	}

	return member, nil
}

// GetMember retrieves a member by ID.
func (uc *MemberUseCase) GetMember(ctx context.Context, id string) (*domain.Member, error) {
	return uc.memberRepo.GetByID(ctx, id)
}

// ListMembers lists members.
func (uc *MemberUseCase) ListMembers(ctx context.Context, limit, offset int) ([]*domain.Member, error) {
	if limit <= 0 {
		limit = 50
	}

	if offset < 0 {
		offset = 0
	}

	return uc.memberRepo.List(ctx, limit, offset)
}
