package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/studyforest/study-forest-api/internal/domain/entity"
	"github.com/studyforest/study-forest-api/internal/domain/repository"
)

const studyColumns = `id, owner_id, name, introduce, background_key, is_public, created_at, updated_at`

type StudyRepository struct {
	db DBTX
}

func NewStudyRepository(db DBTX) *StudyRepository {
	return &StudyRepository{db: db}
}

func (r *StudyRepository) Create(ctx context.Context, s *entity.Study) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO studies (id, owner_id, name, introduce, background_key, is_public)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`, s.ID, s.OwnerID, s.Name, s.Introduce, s.BackgroundKey, s.IsPublic)

	return mapError(row.Scan(&s.CreatedAt, &s.UpdatedAt))
}

func (r *StudyRepository) FindActive(ctx context.Context, id string) (*entity.StudyRef, error) {
	ref := &entity.StudyRef{}
	row := r.db.QueryRow(ctx, `
		SELECT id, owner_id, is_public
		FROM studies
		WHERE id = $1 AND deleted_at IS NULL
	`, id)
	if err := row.Scan(&ref.ID, &ref.OwnerID, &ref.IsPublic); err != nil {
		return nil, mapError(err)
	}
	return ref, nil
}

func (r *StudyRepository) GetWithOwner(ctx context.Context, id string) (*entity.StudyWithOwner, error) {
	s := &entity.StudyWithOwner{}
	row := r.db.QueryRow(ctx, `
		SELECT s.id, s.owner_id, s.name, s.introduce, s.background_key, s.is_public,
		       s.created_at, s.updated_at, u.nickname
		FROM studies s
		JOIN users u ON u.id = s.owner_id
		WHERE s.id = $1 AND s.deleted_at IS NULL
	`, id)
	if err := row.Scan(&s.ID, &s.OwnerID, &s.Name, &s.Introduce, &s.BackgroundKey, &s.IsPublic,
		&s.CreatedAt, &s.UpdatedAt, &s.OwnerNickname); err != nil {
		return nil, mapError(err)
	}
	return s, nil
}

func (r *StudyRepository) ListPublic(ctx context.Context, q repository.StudyListQuery) ([]entity.Study, int, error) {
	where := "is_public = true AND deleted_at IS NULL"
	args := []any{}
	if q.Keyword != "" {
		args = append(args, "%"+escapeLike(q.Keyword)+"%")
		where += " AND (name ILIKE $1 OR introduce ILIKE $1)"
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM studies WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	order := "created_at DESC, id DESC"
	if q.Sort == repository.SortOldest {
		order = "created_at ASC, id ASC"
	}
	args = append(args, q.Limit, q.Offset)
	sql := fmt.Sprintf("SELECT %s FROM studies WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d",
		studyColumns, where, order, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	studies := make([]entity.Study, 0, q.Limit)
	for rows.Next() {
		var s entity.Study
		if err := rows.Scan(&s.ID, &s.OwnerID, &s.Name, &s.Introduce, &s.BackgroundKey, &s.IsPublic,
			&s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, 0, err
		}
		studies = append(studies, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return studies, total, nil
}

func (r *StudyRepository) SumPoints(ctx context.Context, studyIDs []string) (map[string]int, error) {
	out := make(map[string]int, len(studyIDs))
	if len(studyIDs) == 0 {
		return out, nil
	}
	rows, err := r.db.Query(ctx, `
		SELECT study_id, COALESCE(SUM(delta), 0)
		FROM point_logs
		WHERE study_id = ANY($1)
		GROUP BY study_id
	`, studyIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		var total int
		if err := rows.Scan(&id, &total); err != nil {
			return nil, err
		}
		out[id] = total
	}
	return out, rows.Err()
}

func (r *StudyRepository) CountEmojis(ctx context.Context, studyIDs []string) (map[string][]entity.EmojiCount, error) {
	out := make(map[string][]entity.EmojiCount, len(studyIDs))
	if len(studyIDs) == 0 {
		return out, nil
	}
	rows, err := r.db.Query(ctx, `
		SELECT r.study_id, e.emoji_unified_code, COUNT(*)
		FROM study_emoji_reactions r
		JOIN emojis e ON e.id = r.emoji_id
		WHERE r.study_id = ANY($1)
		GROUP BY r.study_id, e.emoji_unified_code
		ORDER BY r.study_id, MIN(r.id)
	`, studyIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		var ec entity.EmojiCount
		if err := rows.Scan(&id, &ec.Code, &ec.Count); err != nil {
			return nil, err
		}
		out[id] = append(out[id], ec)
	}
	return out, rows.Err()
}

func (r *StudyRepository) Update(ctx context.Context, id string, patch entity.StudyPatch, at time.Time) (*entity.Study, error) {
	sets := make([]string, 0, 5)
	args := make([]any, 0, 6)
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Introduce != nil {
		add("introduce", *patch.Introduce)
	}
	if patch.BackgroundKey != nil {
		add("background_key", *patch.BackgroundKey)
	}
	if patch.IsPublic != nil {
		add("is_public", *patch.IsPublic)
	}
	add("updated_at", at)
	args = append(args, id)

	sql := fmt.Sprintf("UPDATE studies SET %s WHERE id = $%d AND deleted_at IS NULL RETURNING %s",
		strings.Join(sets, ", "), len(args), studyColumns)

	s := &entity.Study{}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&s.ID, &s.OwnerID, &s.Name, &s.Introduce,
		&s.BackgroundKey, &s.IsPublic, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, mapError(err)
	}
	return s, nil
}

func (r *StudyRepository) SoftDelete(ctx context.Context, id string, at time.Time) error {
	res, err := r.db.Exec(ctx, `
		UPDATE studies
		SET deleted_at = $1, updated_at = $1
		WHERE id = $2 AND deleted_at IS NULL
	`, at, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// escapeLike escapes ILIKE wildcards so the keyword matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

var _ repository.StudyRepository = (*StudyRepository)(nil)
