package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/studyforest/study-forest-api/internal/domain/entity"
	repo "github.com/studyforest/study-forest-api/internal/domain/repository"
)

// MembershipService manages (study, user) membership rows.
type MembershipService struct {
	Studies repo.StudyRepository
	Members repo.StudyMemberRepository
	Events  EventPublisher
	Logger  *logrus.Logger
}

func NewMembershipService(stores repo.Stores, events EventPublisher, logger *logrus.Logger) *MembershipService {
	return &MembershipService{Studies: stores.Studies, Members: stores.Members, Events: events, Logger: logger}
}

// Membership is the wire view of a membership row.
type Membership struct {
	MembershipID string      `json:"membershipId"`
	StudyID      string      `json:"studyId"`
	UserID       string      `json:"userId"`
	Role         entity.Role `json:"role"`
	JoinedAt     time.Time   `json:"joinedAt"`
}

// MembershipStatus answers whether the caller belongs to a study.
type MembershipStatus struct {
	IsMember   bool        `json:"isMember"`
	Membership *Membership `json:"membership"`
}

func toMembership(m *entity.StudyMember) *Membership {
	if m == nil {
		return nil
	}
	return &Membership{
		MembershipID: m.ID,
		StudyID:      m.StudyID,
		UserID:       m.UserID,
		Role:         m.Role,
		JoinedAt:     m.JoinedAt,
	}
}

// FindStudy returns the minimal record of a non-deleted study.
func (s *MembershipService) FindStudy(ctx context.Context, studyID string) (*entity.StudyRef, error) {
	ref, err := s.Studies.FindActive(ctx, studyID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrStudyNotFound
		}
		return nil, err
	}
	return ref, nil
}

// FindMembership returns nil, nil when userID is not a member of studyID.
func (s *MembershipService) FindMembership(ctx context.Context, studyID, userID string) (*entity.StudyMember, error) {
	m, err := s.Members.Find(ctx, studyID, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return m, nil
}

func (s *MembershipService) Status(ctx context.Context, studyID, userID string) (*MembershipStatus, error) {
	m, err := s.FindMembership(ctx, studyID, userID)
	if err != nil {
		return nil, err
	}
	return &MembershipStatus{IsMember: m != nil, Membership: toMembership(m)}, nil
}

// Join adds userID as a MEMBER. A concurrent duplicate insert is caught by the
// unique (study, user) key and reported as ErrAlreadyMember as well.
func (s *MembershipService) Join(ctx context.Context, studyID, userID string) (*Membership, error) {
	existing, err := s.FindMembership(ctx, studyID, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyMember
	}

	m := &entity.StudyMember{StudyID: studyID, UserID: userID, Role: entity.RoleMember}
	if err := s.Members.Create(ctx, m); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrAlreadyMember
		}
		return nil, err
	}
	notify(ctx, s.Events, s.Logger, EventMemberJoined, studyID, userID, m.JoinedAt)
	return toMembership(m), nil
}

// Leave removes a non-owner membership and returns the deleted row.
func (s *MembershipService) Leave(ctx context.Context, studyID, userID string) (*Membership, error) {
	existing, err := s.FindMembership(ctx, studyID, userID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotMember
	}
	if existing.IsOwner() {
		return nil, ErrOwnerCannotLeave
	}

	deleted, err := s.Members.Delete(ctx, studyID, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotMember
		}
		return nil, err
	}
	notify(ctx, s.Events, s.Logger, EventMemberLeft, studyID, userID, time.Now())
	return toMembership(deleted), nil
}
