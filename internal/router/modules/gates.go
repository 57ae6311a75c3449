package modules

import (
	"github.com/sirupsen/logrus"

	"github.com/studyforest/study-forest-api/internal/interface/middleware"
)

// Gates bundles the guards shared by the study-related modules.
type Gates struct {
	Authenticated middleware.Guard
	OptionalAuth  middleware.Guard
	Lookup        middleware.StudyLookup
	Logger        *logrus.Logger
}

var studyIDParam = middleware.FromParam("studyId")

func (g Gates) studyExists() middleware.Guard {
	return middleware.StudyExists(g.Lookup, studyIDParam, g.Logger)
}

func (g Gates) owner() middleware.Guard {
	return middleware.RequireOwner(g.Lookup, studyIDParam, g.Logger)
}
