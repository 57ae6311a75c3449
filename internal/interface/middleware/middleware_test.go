package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/studyforest/study-forest-api/internal/application"
	"github.com/studyforest/study-forest-api/internal/domain/entity"
	"github.com/studyforest/study-forest-api/pkg/helpers"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

const (
	cookieName = "access_token"
	publicID   = "3f1c2a8e-5b7d-4c9e-8a1b-2d3e4f5a6b7c"
	privateID  = "9a8b7c6d-5e4f-4a3b-9c2d-1e0f9a8b7c6d"
	ownerID    = "owner-1"
	memberID   = "member-1"
	outsiderID = "outsider-1"
	testSecret = "middleware-secret"
)

type envelope struct {
	Result  string          `json:"result"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

type fakeLookup struct {
	studies map[string]*entity.StudyRef
	members map[string]*entity.StudyMember
	err     error
}

func newFakeLookup() *fakeLookup {
	return &fakeLookup{
		studies: map[string]*entity.StudyRef{
			publicID:  {ID: publicID, OwnerID: ownerID, IsPublic: true},
			privateID: {ID: privateID, OwnerID: ownerID, IsPublic: false},
		},
		members: map[string]*entity.StudyMember{
			publicID + "/" + ownerID:   {StudyID: publicID, UserID: ownerID, Role: entity.RoleOwner},
			publicID + "/" + memberID:  {StudyID: publicID, UserID: memberID, Role: entity.RoleMember},
			privateID + "/" + ownerID:  {StudyID: privateID, UserID: ownerID, Role: entity.RoleOwner},
			privateID + "/" + memberID: {StudyID: privateID, UserID: memberID, Role: entity.RoleMember},
		},
	}
}

func (f *fakeLookup) FindStudy(_ context.Context, id string) (*entity.StudyRef, error) {
	if f.err != nil {
		return nil, f.err
	}
	ref, ok := f.studies[id]
	if !ok {
		return nil, application.ErrStudyNotFound
	}
	return ref, nil
}

func (f *fakeLookup) FindMembership(_ context.Context, studyID, userID string) (*entity.StudyMember, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.members[studyID+"/"+userID], nil
}

var errStoreDown = errors.New("store down")

func newJWT(t *testing.T) *helpers.JWTManager {
	t.Helper()
	jwt, err := helpers.NewJWTManager(testSecret, time.Hour)
	require.NoError(t, err)
	return jwt
}

func sessionCookie(t *testing.T, jwt *helpers.JWTManager, userID string) *http.Cookie {
	t.Helper()
	token, _, err := jwt.Sign(userID)
	require.NoError(t, err)
	return &http.Cookie{Name: cookieName, Value: token}
}

// asUser stands in for the auth gate by setting the user id directly.
func asUser(userID string) Guard {
	return func(c *gin.Context) *Rejection {
		if userID != "" {
			c.Set(CtxUserIDKey, userID)
		}
		return nil
	}
}

func serve(r *gin.Engine, method, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func newRequest(method, path string) *http.Request {
	return httptest.NewRequest(method, path, nil)
}

func serveRequest(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
