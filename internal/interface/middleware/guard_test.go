package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/studyforest/study-forest-api/pkg/helpers"
)

func guardedEngine(guards ...Guard) *gin.Engine {
	r := gin.New()
	r.GET("/studies/:studyId", Chain(guards...), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return r
}

func TestStudyExists(t *testing.T) {
	lookup := newFakeLookup()
	logger := helpers.NewDiscardLogger()
	r := guardedEngine(StudyExists(lookup, FromParam("studyId"), logger))

	cases := []struct {
		name    string
		id      string
		status  int
		message string
	}{
		{"public study", publicID, http.StatusOK, ""},
		{"upper case id", "3F1C2A8E-5B7D-4C9E-8A1B-2D3E4F5A6B7C", http.StatusNotFound, "study not found"},
		{"malformed id", "abc", http.StatusBadRequest, "studyId must be a valid UUID"},
		{"bad version nibble", "3f1c2a8e-5b7d-7c9e-8a1b-2d3e4f5a6b7c", http.StatusBadRequest, "studyId must be a valid UUID"},
		{"unknown study", "7d0c8b9e-1f2a-4b3c-9d4e-5f6a7b8c9d0e", http.StatusNotFound, "study not found"},
		{"private study exists", privateID, http.StatusOK, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := serve(r, http.MethodGet, "/studies/"+tc.id)
			assert.Equal(t, tc.status, w.Code)
			if tc.message != "" {
				env := decode(t, w)
				assert.Equal(t, "fail", env.Result)
				assert.Equal(t, tc.message, env.Message)
				assert.Equal(t, "null", string(env.Data))
			}
		})
	}
}

func TestStudyExistsMissingID(t *testing.T) {
	r := gin.New()
	r.GET("/studies", Chain(StudyExists(newFakeLookup(), FromParam("studyId"), helpers.NewDiscardLogger())), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := serve(r, http.MethodGet, "/studies")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "studyId is required", decode(t, w).Message)
}

func TestStudyExistsStoreFailure(t *testing.T) {
	lookup := newFakeLookup()
	lookup.err = errStoreDown
	r := guardedEngine(StudyExists(lookup, FromParam("studyId"), helpers.NewDiscardLogger()))

	w := serve(r, http.MethodGet, "/studies/"+publicID)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	env := decode(t, w)
	assert.Equal(t, "could not verify study access", env.Message)
	assert.NotContains(t, w.Body.String(), "store down")
}

// A private study must be indistinguishable from a missing one for outsiders.
func TestStudyVisibleHidesPrivateStudies(t *testing.T) {
	lookup := newFakeLookup()
	logger := helpers.NewDiscardLogger()
	visible := func(userID string) *gin.Engine {
		return guardedEngine(asUser(userID), StudyExists(lookup, FromParam("studyId"), logger), StudyVisible(lookup, logger))
	}

	missing := serve(visible(""), http.MethodGet, "/studies/7d0c8b9e-1f2a-4b3c-9d4e-5f6a7b8c9d0e")
	anonymous := serve(visible(""), http.MethodGet, "/studies/"+privateID)
	outsider := serve(visible(outsiderID), http.MethodGet, "/studies/"+privateID)

	for _, w := range []*httptest.ResponseRecorder{missing, anonymous, outsider} {
		assert.Equal(t, http.StatusNotFound, w.Code)
	}
	assert.Equal(t, missing.Body.String(), anonymous.Body.String())
	assert.Equal(t, missing.Body.String(), outsider.Body.String())

	assert.Equal(t, http.StatusOK, serve(visible(memberID), http.MethodGet, "/studies/"+privateID).Code)
	assert.Equal(t, http.StatusOK, serve(visible(""), http.MethodGet, "/studies/"+publicID).Code)
}

func TestRequireMember(t *testing.T) {
	lookup := newFakeLookup()
	logger := helpers.NewDiscardLogger()
	engine := func(userID string) *gin.Engine {
		return guardedEngine(asUser(userID), RequireMember(lookup, FromParam("studyId"), logger))
	}

	w := serve(engine(""), http.MethodGet, "/studies/"+publicID)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = serve(engine(outsiderID), http.MethodGet, "/studies/"+publicID)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "members only", decode(t, w).Message)

	w = serve(engine(memberID), http.MethodGet, "/studies/not-a-uuid")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, http.StatusOK, serve(engine(memberID), http.MethodGet, "/studies/"+publicID).Code)
}

func TestRequireOwner(t *testing.T) {
	lookup := newFakeLookup()
	logger := helpers.NewDiscardLogger()
	engine := func(userID string) *gin.Engine {
		return guardedEngine(asUser(userID), RequireOwner(lookup, FromParam("studyId"), logger))
	}

	w := serve(engine(memberID), http.MethodGet, "/studies/"+publicID)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "owner only", decode(t, w).Message)

	w = serve(engine(outsiderID), http.MethodGet, "/studies/"+publicID)
	assert.Equal(t, "members only", decode(t, w).Message)

	assert.Equal(t, http.StatusOK, serve(engine(ownerID), http.MethodGet, "/studies/"+publicID).Code)

	lookup.err = errStoreDown
	assert.Equal(t, http.StatusInternalServerError, serve(engine(ownerID), http.MethodGet, "/studies/"+publicID).Code)
}

func TestChainStopsAtFirstRejection(t *testing.T) {
	calls := 0
	counting := func(c *gin.Context) *Rejection { calls++; return nil }
	refuse := func(c *gin.Context) *Rejection { return reject(http.StatusTeapot, "no") }

	w := serve(guardedEngine(counting, refuse, counting), http.MethodGet, "/studies/x")

	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Equal(t, 1, calls)
}
