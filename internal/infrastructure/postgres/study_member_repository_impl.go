package postgres

import (
	"context"

	"github.com/studyforest/study-forest-api/internal/domain/entity"
	"github.com/studyforest/study-forest-api/internal/domain/repository"
)

type StudyMemberRepository struct {
	db DBTX
}

func NewStudyMemberRepository(db DBTX) *StudyMemberRepository {
	return &StudyMemberRepository{db: db}
}

func (r *StudyMemberRepository) Find(ctx context.Context, studyID, userID string) (*entity.StudyMember, error) {
	m := &entity.StudyMember{}
	row := r.db.QueryRow(ctx, `
		SELECT id, study_id, user_id, role, joined_at
		FROM study_members
		WHERE study_id = $1 AND user_id = $2
	`, studyID, userID)
	if err := row.Scan(&m.ID, &m.StudyID, &m.UserID, &m.Role, &m.JoinedAt); err != nil {
		return nil, mapError(err)
	}
	return m, nil
}

func (r *StudyMemberRepository) Create(ctx context.Context, m *entity.StudyMember) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO study_members (study_id, user_id, role)
		VALUES ($1, $2, $3)
		RETURNING id, joined_at
	`, m.StudyID, m.UserID, m.Role)
	return mapError(row.Scan(&m.ID, &m.JoinedAt))
}

func (r *StudyMemberRepository) Delete(ctx context.Context, studyID, userID string) (*entity.StudyMember, error) {
	m := &entity.StudyMember{}
	row := r.db.QueryRow(ctx, `
		DELETE FROM study_members
		WHERE study_id = $1 AND user_id = $2
		RETURNING id, study_id, user_id, role, joined_at
	`, studyID, userID)
	if err := row.Scan(&m.ID, &m.StudyID, &m.UserID, &m.Role, &m.JoinedAt); err != nil {
		return nil, mapError(err)
	}
	return m, nil
}

var _ repository.StudyMemberRepository = (*StudyMemberRepository)(nil)
