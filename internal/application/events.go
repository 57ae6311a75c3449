package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/studyforest/study-forest-api/pkg/helpers"
)

// Study activity event types.
const (
	EventStudyCreated = "study.created"
	EventStudyUpdated = "study.updated"
	EventStudyDeleted = "study.deleted"
	EventMemberJoined = "member.joined"
	EventMemberLeft   = "member.left"
)

// EventPublisher delivers domain events to a broker. *helpers.EventBroker implements it.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, body any) error
}

// StudyEvent is the payload of every study activity event.
type StudyEvent struct {
	StudyID    string    `json:"studyId"`
	UserID     string    `json:"userId"`
	OccurredAt time.Time `json:"occurredAt"`
}

// notify publishes best-effort: failures are logged and never reach the caller.
func notify(ctx context.Context, pub EventPublisher, logger *logrus.Logger, eventType, studyID, userID string, at time.Time) {
	if pub == nil {
		return
	}
	ev := StudyEvent{StudyID: studyID, UserID: userID, OccurredAt: at.UTC()}
	if err := pub.Publish(ctx, eventType, ev); err != nil {
		helpers.LogWarn(logger, "publish event failed", err, logrus.Fields{
			"event":    eventType,
			"study_id": studyID,
		})
	}
}
