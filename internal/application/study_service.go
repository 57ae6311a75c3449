package application

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/unicode/norm"

	"github.com/studyforest/study-forest-api/internal/domain/entity"
	repo "github.com/studyforest/study-forest-api/internal/domain/repository"
	"github.com/studyforest/study-forest-api/pkg/validation"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 6
	MaxPageSize     = 30
)

func init() {
	validation.RegisterAlias("study_name", "min=2,max=30")
	validation.RegisterAlias("study_introduce", "min=2,max=200")
	validation.RegisterAlias("background_key", "oneof="+strings.Join(entity.BackgroundKeys, " "))
}

// StudyService lists, aggregates and mutates studies.
type StudyService struct {
	Stores repo.Stores
	Events EventPublisher
	Logger *logrus.Logger
	Now    func() time.Time
}

func NewStudyService(stores repo.Stores, events EventPublisher, logger *logrus.Logger) *StudyService {
	return &StudyService{Stores: stores, Events: events, Logger: logger, Now: time.Now}
}

type ListParams struct {
	Page     int
	PageSize int
	Keyword  string
	Sort     repo.StudySort
}

type StudySummary struct {
	StudyID       string      `json:"studyId"`
	Name          string      `json:"name"`
	Introduce     string      `json:"introduce"`
	BackgroundKey string      `json:"backgroundKey"`
	TotalPoints   int         `json:"totalPoints"`
	CreatedAt     time.Time   `json:"createdAt"`
	TopEmojis     []EmojiStat `json:"topEmojis"`
}

type Pagination struct {
	Page        int  `json:"page"`
	PageSize    int  `json:"pageSize"`
	TotalCount  int  `json:"totalCount"`
	HasNextPage bool `json:"hasNextPage"`
}

type StudyPage struct {
	Studies    []StudySummary `json:"studies"`
	Pagination Pagination     `json:"pagination"`
}

type StudyOwner struct {
	UserID   string `json:"userId"`
	Nickname string `json:"nickname"`
}

type StudyDetail struct {
	StudySummary
	IsPublic  bool       `json:"isPublic"`
	UpdatedAt time.Time  `json:"updatedAt"`
	Owner     StudyOwner `json:"owner"`
}

// StudyRecord is a study as written, without aggregates.
type StudyRecord struct {
	StudyID       string    `json:"studyId"`
	OwnerID       string    `json:"ownerId"`
	Name          string    `json:"name"`
	Introduce     string    `json:"introduce"`
	BackgroundKey string    `json:"backgroundKey"`
	IsPublic      bool      `json:"isPublic"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func toRecord(s *entity.Study) *StudyRecord {
	return &StudyRecord{
		StudyID:       s.ID,
		OwnerID:       s.OwnerID,
		Name:          s.Name,
		Introduce:     s.Introduce,
		BackgroundKey: s.BackgroundKey,
		IsPublic:      s.IsPublic,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

type CreateStudyInput struct {
	Name          string `json:"name" validate:"required,study_name"`
	Introduce     string `json:"introduce" validate:"required,study_introduce"`
	BackgroundKey string `json:"backgroundKey" validate:"required,background_key"`
	IsPublic      *bool  `json:"isPublic"`
}

type UpdateStudyInput struct {
	Name          *string `json:"name" validate:"omitnil,study_name"`
	Introduce     *string `json:"introduce" validate:"omitnil,study_introduce"`
	BackgroundKey *string `json:"backgroundKey" validate:"omitnil,background_key"`
	IsPublic      *bool   `json:"isPublic"`
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}

// pageOffset returns (page-1)*size, saturating at math.MaxInt so huge pages
// read past the end instead of wrapping negative.
func pageOffset(page, size int) int {
	if page-1 > math.MaxInt/size {
		return math.MaxInt
	}
	return (page - 1) * size
}

// List returns one page of public studies with their aggregates.
// PageSize above MaxPageSize is clamped.
func (s *StudyService) List(ctx context.Context, p ListParams) (*StudyPage, error) {
	details := map[string]string{}
	if p.Page < 1 {
		details["page"] = "must be a positive integer"
	}
	if p.PageSize < 1 {
		details["pageSize"] = "must be a positive integer"
	}
	if len(details) > 0 {
		return nil, invalid("page and pageSize must be positive integers", details)
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}

	offset := pageOffset(p.Page, p.PageSize)
	studies, total, err := s.Stores.Studies.ListPublic(ctx, repo.StudyListQuery{
		Keyword: norm.NFC.String(strings.TrimSpace(p.Keyword)),
		Sort:    p.Sort,
		Offset:  offset,
		Limit:   p.PageSize,
	})
	if err != nil {
		return nil, err
	}

	summaries, err := s.summarize(ctx, studies)
	if err != nil {
		return nil, err
	}
	return &StudyPage{
		Studies: summaries,
		Pagination: Pagination{
			Page:        p.Page,
			PageSize:    p.PageSize,
			TotalCount:  total,
			HasNextPage: offset < total && total-offset > p.PageSize,
		},
	}, nil
}

func (s *StudyService) summarize(ctx context.Context, studies []entity.Study) ([]StudySummary, error) {
	out := make([]StudySummary, 0, len(studies))
	if len(studies) == 0 {
		return out, nil
	}
	ids := make([]string, len(studies))
	for i, st := range studies {
		ids[i] = st.ID
	}
	points, err := s.Stores.Studies.SumPoints(ctx, ids)
	if err != nil {
		return nil, err
	}
	emojis, err := s.Stores.Studies.CountEmojis(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, st := range studies {
		out = append(out, StudySummary{
			StudyID:       st.ID,
			Name:          st.Name,
			Introduce:     st.Introduce,
			BackgroundKey: st.BackgroundKey,
			TotalPoints:   points[st.ID],
			CreatedAt:     st.CreatedAt,
			TopEmojis:     TopEmojis(emojis[st.ID], TopEmojiLimit),
		})
	}
	return out, nil
}

// Detail aggregates a single non-deleted study. Visibility of private studies
// is decided by the caller from IsPublic.
func (s *StudyService) Detail(ctx context.Context, studyID string) (*StudyDetail, error) {
	st, err := s.Stores.Studies.GetWithOwner(ctx, studyID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrStudyNotFound
		}
		return nil, err
	}
	summaries, err := s.summarize(ctx, []entity.Study{st.Study})
	if err != nil {
		return nil, err
	}
	return &StudyDetail{
		StudySummary: summaries[0],
		IsPublic:     st.IsPublic,
		UpdatedAt:    st.UpdatedAt,
		Owner:        StudyOwner{UserID: st.OwnerID, Nickname: st.OwnerNickname},
	}, nil
}

// Create inserts the study and its OWNER membership in one transaction.
func (s *StudyService) Create(ctx context.Context, ownerID string, in CreateStudyInput) (*StudyRecord, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Introduce = strings.TrimSpace(in.Introduce)
	in.BackgroundKey = strings.TrimSpace(in.BackgroundKey)
	if details := validation.Struct(in); details != nil {
		return nil, invalid("invalid study", details)
	}

	study := &entity.Study{
		ID:            uuid.NewString(),
		OwnerID:       ownerID,
		Name:          in.Name,
		Introduce:     in.Introduce,
		BackgroundKey: in.BackgroundKey,
		IsPublic:      in.IsPublic == nil || *in.IsPublic,
	}
	err := s.Stores.Tx.RunInTx(ctx, func(tx repo.Tx) error {
		if err := tx.Studies.Create(ctx, study); err != nil {
			return err
		}
		return tx.Members.Create(ctx, &entity.StudyMember{
			StudyID: study.ID,
			UserID:  ownerID,
			Role:    entity.RoleOwner,
		})
	})
	if err != nil {
		return nil, err
	}

	s.Logger.WithFields(logrus.Fields{"study_id": study.ID, "owner_id": ownerID}).Info("study created")
	notify(ctx, s.Events, s.Logger, EventStudyCreated, study.ID, ownerID, study.CreatedAt)
	return toRecord(study), nil
}

// Update applies a partial patch. Fields left nil are not written.
func (s *StudyService) Update(ctx context.Context, studyID, actorID string, in UpdateStudyInput) (*StudyRecord, error) {
	patch := entity.StudyPatch{
		Name:          trimPtr(in.Name),
		Introduce:     trimPtr(in.Introduce),
		BackgroundKey: trimPtr(in.BackgroundKey),
		IsPublic:      in.IsPublic,
	}
	if patch.Empty() {
		return nil, invalid("at least one field is required", nil)
	}
	in = UpdateStudyInput{
		Name:          patch.Name,
		Introduce:     patch.Introduce,
		BackgroundKey: patch.BackgroundKey,
		IsPublic:      patch.IsPublic,
	}
	if details := validation.Struct(in); details != nil {
		return nil, invalid("invalid study", details)
	}

	st, err := s.Stores.Studies.Update(ctx, studyID, patch, s.Now())
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrStudyNotFound
		}
		return nil, err
	}
	notify(ctx, s.Events, s.Logger, EventStudyUpdated, st.ID, actorID, st.UpdatedAt)
	return toRecord(st), nil
}

// Delete soft-deletes the study. Already deleted studies report ErrStudyNotFound.
func (s *StudyService) Delete(ctx context.Context, studyID, actorID string) error {
	at := s.Now()
	if err := s.Stores.Studies.SoftDelete(ctx, studyID, at); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrStudyNotFound
		}
		return err
	}
	s.Logger.WithFields(logrus.Fields{"study_id": studyID, "user_id": actorID}).Info("study deleted")
	notify(ctx, s.Events, s.Logger, EventStudyDeleted, studyID, actorID, at)
	return nil
}
