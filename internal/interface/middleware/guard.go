package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/studyforest/study-forest-api/internal/application"
	"github.com/studyforest/study-forest-api/internal/domain/entity"
	"github.com/studyforest/study-forest-api/pkg/helpers"
	"github.com/studyforest/study-forest-api/pkg/response"
	"github.com/studyforest/study-forest-api/pkg/validation"
)

const (
	CtxStudyKey      = "study"
	CtxMembershipKey = "membership"
)

// Rejection short-circuits a guard chain with a fail envelope.
type Rejection struct {
	Status  int
	Message string
}

func reject(status int, message string) *Rejection {
	return &Rejection{Status: status, Message: message}
}

// Guard either enriches the context and returns nil, or rejects the request.
type Guard func(c *gin.Context) *Rejection

// Chain runs guards in order and stops at the first rejection.
func Chain(guards ...Guard) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, g := range guards {
			if r := g(c); r != nil {
				response.Abort(c, r.Status, r.Message)
				return
			}
		}
		c.Next()
	}
}

// StudyLookup resolves studies and memberships for the study guards.
// *application.MembershipService implements it.
type StudyLookup interface {
	FindStudy(ctx context.Context, studyID string) (*entity.StudyRef, error)
	FindMembership(ctx context.Context, studyID, userID string) (*entity.StudyMember, error)
}

// StudyIDFunc extracts the study id from a request.
type StudyIDFunc func(c *gin.Context) string

// FromParam reads the study id from a route parameter.
func FromParam(name string) StudyIDFunc {
	return func(c *gin.Context) string { return c.Param(name) }
}

func resolveStudyID(c *gin.Context, id StudyIDFunc) (string, *Rejection) {
	studyID := id(c)
	if studyID == "" {
		return "", reject(http.StatusBadRequest, "studyId is required")
	}
	if !validation.IsStudyID(studyID) {
		return "", reject(http.StatusBadRequest, "studyId must be a valid UUID")
	}
	return studyID, nil
}

func verifyFailed(c *gin.Context, logger *logrus.Logger, err error) *Rejection {
	helpers.LogError(logger, "study guard lookup failed", err, logrus.Fields{
		"request_id": c.GetString(CtxRequestIDKey),
		"path":       c.Request.URL.Path,
	})
	return reject(http.StatusInternalServerError, "could not verify study access")
}

// StudyFromCtx returns the study resolved by StudyExists.
func StudyFromCtx(c *gin.Context) *entity.StudyRef {
	if v, ok := c.Get(CtxStudyKey); ok {
		if ref, ok := v.(*entity.StudyRef); ok {
			return ref
		}
	}
	return nil
}

// MembershipFromCtx returns the membership resolved by RequireMember.
func MembershipFromCtx(c *gin.Context) *entity.StudyMember {
	if v, ok := c.Get(CtxMembershipKey); ok {
		if m, ok := v.(*entity.StudyMember); ok {
			return m
		}
	}
	return nil
}

// StudyExists admits only well-formed ids of studies that are not soft-deleted.
func StudyExists(lookup StudyLookup, id StudyIDFunc, logger *logrus.Logger) Guard {
	return func(c *gin.Context) *Rejection {
		studyID, rej := resolveStudyID(c, id)
		if rej != nil {
			return rej
		}
		ref, err := lookup.FindStudy(c.Request.Context(), studyID)
		if err != nil {
			if errors.Is(err, application.ErrStudyNotFound) {
				return reject(http.StatusNotFound, "study not found")
			}
			return verifyFailed(c, logger, err)
		}
		c.Set(CtxStudyKey, ref)
		return nil
	}
}

// StudyVisible runs after StudyExists. Private studies answer 404, exactly like
// missing ones, unless the caller is one of their members.
func StudyVisible(lookup StudyLookup, logger *logrus.Logger) Guard {
	return func(c *gin.Context) *Rejection {
		ref := StudyFromCtx(c)
		if ref == nil {
			return reject(http.StatusNotFound, "study not found")
		}
		if ref.IsPublic {
			return nil
		}
		userID := UserID(c)
		if userID == "" {
			return reject(http.StatusNotFound, "study not found")
		}
		m, err := lookup.FindMembership(c.Request.Context(), ref.ID, userID)
		if err != nil {
			return verifyFailed(c, logger, err)
		}
		if m == nil {
			return reject(http.StatusNotFound, "study not found")
		}
		c.Set(CtxMembershipKey, m)
		return nil
	}
}

// RequireMember admits authenticated members of the study.
func RequireMember(lookup StudyLookup, id StudyIDFunc, logger *logrus.Logger) Guard {
	return func(c *gin.Context) *Rejection {
		userID := UserID(c)
		if userID == "" {
			return reject(http.StatusUnauthorized, "authentication required")
		}
		studyID, rej := resolveStudyID(c, id)
		if rej != nil {
			return rej
		}
		m, err := lookup.FindMembership(c.Request.Context(), studyID, userID)
		if err != nil {
			return verifyFailed(c, logger, err)
		}
		if m == nil {
			return reject(http.StatusForbidden, "members only")
		}
		c.Set(CtxMembershipKey, m)
		return nil
	}
}

// RequireOwner is RequireMember restricted to the OWNER role.
func RequireOwner(lookup StudyLookup, id StudyIDFunc, logger *logrus.Logger) Guard {
	member := RequireMember(lookup, id, logger)
	return func(c *gin.Context) *Rejection {
		if rej := member(c); rej != nil {
			return rej
		}
		if !MembershipFromCtx(c).IsOwner() {
			return reject(http.StatusForbidden, "owner only")
		}
		return nil
	}
}
