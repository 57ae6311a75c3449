package repository

import (
	"context"
	"time"

	"github.com/studyforest/study-forest-api/internal/domain/entity"
)

// StudySort selects the list ordering.
type StudySort string

const (
	SortRecent StudySort = "recent"
	SortOldest StudySort = "oldest"
)

// ParseStudySort maps a query value to a StudySort; anything unknown is SortRecent.
func ParseStudySort(v string) StudySort {
	if StudySort(v) == SortOldest {
		return SortOldest
	}
	return SortRecent
}

// StudyListQuery filters public, non-deleted studies.
type StudyListQuery struct {
	Keyword string
	Sort    StudySort
	Offset  int
	Limit   int
}

// StudyRepository defines study persistence. Every read and write skips soft-deleted rows.
type StudyRepository interface {
	Create(ctx context.Context, s *entity.Study) error
	// FindActive returns the minimal record of a non-deleted study or ErrNotFound.
	FindActive(ctx context.Context, id string) (*entity.StudyRef, error)
	GetWithOwner(ctx context.Context, id string) (*entity.StudyWithOwner, error)
	// ListPublic returns one page and the total number of matching studies.
	ListPublic(ctx context.Context, q StudyListQuery) ([]entity.Study, int, error)
	// SumPoints returns the point total per study id. Studies without logs are absent.
	SumPoints(ctx context.Context, studyIDs []string) (map[string]int, error)
	// CountEmojis returns reaction counts per study id, each slice ordered by the
	// first reaction of every emoji.
	CountEmojis(ctx context.Context, studyIDs []string) (map[string][]entity.EmojiCount, error)
	// Update applies the patch to a non-deleted study or returns ErrNotFound.
	Update(ctx context.Context, id string, patch entity.StudyPatch, at time.Time) (*entity.Study, error)
	// SoftDelete marks a non-deleted study as deleted or returns ErrNotFound.
	SoftDelete(ctx context.Context, id string, at time.Time) error
}
