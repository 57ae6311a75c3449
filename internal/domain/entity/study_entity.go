package entity

import "time"

// Background keys accepted for a study card.
const (
	BackgroundGreen      = "green"
	BackgroundYellow     = "yellow"
	BackgroundBlue       = "blue"
	BackgroundPink       = "pink"
	BackgroundWorkspace1 = "workspace-1"
	BackgroundWorkspace2 = "workspace-2"
	BackgroundPattern    = "pattern"
	BackgroundLeaf       = "leaf"
)

// BackgroundKeys lists every allowed background key.
var BackgroundKeys = []string{
	BackgroundGreen,
	BackgroundYellow,
	BackgroundBlue,
	BackgroundPink,
	BackgroundWorkspace1,
	BackgroundWorkspace2,
	BackgroundPattern,
	BackgroundLeaf,
}

// Study is the aggregate root for a study group.
// A non-nil DeletedAt hides the study from every normal query.
type Study struct {
	ID            string
	OwnerID       string
	Name          string
	Introduce     string
	BackgroundKey string
	IsPublic      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     *time.Time
}

// StudyRef is the minimal record resolved by the study gates.
type StudyRef struct {
	ID       string
	OwnerID  string
	IsPublic bool
}

// StudyWithOwner is a study joined with its owner's nickname.
type StudyWithOwner struct {
	Study
	OwnerNickname string
}

// StudyPatch carries the fields of a partial update; nil means untouched.
type StudyPatch struct {
	Name          *string
	Introduce     *string
	BackgroundKey *string
	IsPublic      *bool
}

// Empty reports whether the patch changes nothing.
func (p StudyPatch) Empty() bool {
	return p.Name == nil && p.Introduce == nil && p.BackgroundKey == nil && p.IsPublic == nil
}

// EmojiCount is the number of reactions a study received for one emoji.
type EmojiCount struct {
	Code  string
	Count int
}
