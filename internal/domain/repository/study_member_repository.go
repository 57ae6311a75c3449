package repository

import (
	"context"

	"github.com/studyforest/study-forest-api/internal/domain/entity"
)

// StudyMemberRepository persists memberships keyed by (study, user).
type StudyMemberRepository interface {
	Find(ctx context.Context, studyID, userID string) (*entity.StudyMember, error)
	// Create inserts m and fills ID and JoinedAt. An existing pair yields ErrDuplicate.
	Create(ctx context.Context, m *entity.StudyMember) error
	// Delete removes the pair and returns the deleted row, or ErrNotFound.
	Delete(ctx context.Context, studyID, userID string) (*entity.StudyMember, error)
}
