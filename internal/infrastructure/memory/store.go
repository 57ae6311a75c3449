// Package memory implements every repository on in-process maps.
// It keeps the same constraints as the Postgres schema: unique emails, a unique
// (study, user) membership pair and soft-deleted studies hidden from reads.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/studyforest/study-forest-api/internal/domain/entity"
	"github.com/studyforest/study-forest-api/internal/domain/repository"
)

type reaction struct {
	studyID string
	code    string
}

type pointLog struct {
	studyID string
	delta   int
}

type state struct {
	users     map[string]entity.User
	studies   map[string]entity.Study
	members   map[string]entity.StudyMember
	points    []pointLog
	reactions []reaction
}

func (s state) clone() state {
	c := state{
		users:     make(map[string]entity.User, len(s.users)),
		studies:   make(map[string]entity.Study, len(s.studies)),
		members:   make(map[string]entity.StudyMember, len(s.members)),
		points:    append([]pointLog(nil), s.points...),
		reactions: append([]reaction(nil), s.reactions...),
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.studies {
		c.studies[k] = v
	}
	for k, v := range s.members {
		c.members[k] = v
	}
	return c
}

// Store is a concurrency-safe in-memory database.
type Store struct {
	mu  sync.Mutex
	txm sync.Mutex
	st  state
	now func() time.Time
	// last keeps creation stamps strictly increasing so list ordering is stable.
	last time.Time

	// FailMemberCreate, when set, is returned by the next membership insert.
	FailMemberCreate error
}

func NewStore() *Store {
	return &Store{
		st: state{
			users:   map[string]entity.User{},
			studies: map[string]entity.Study{},
			members: map[string]entity.StudyMember{},
		},
		now: time.Now,
	}
}

// Stores exposes the store through the repository interfaces.
func (s *Store) Stores() repository.Stores {
	return repository.Stores{
		Users:   userRepo{s},
		Studies: studyRepo{s},
		Members: memberRepo{s},
		Tx:      s,
	}
}

// RunInTx serialises transactions and restores the previous state when fn fails.
func (s *Store) RunInTx(ctx context.Context, fn func(tx repository.Tx) error) error {
	s.txm.Lock()
	defer s.txm.Unlock()

	s.mu.Lock()
	snapshot := s.st.clone()
	s.mu.Unlock()

	if err := fn(repository.Tx{Studies: studyRepo{s}, Members: memberRepo{s}}); err != nil {
		s.mu.Lock()
		s.st = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// Ping always succeeds; it lets the store back the /db-check probe in tests.
func (s *Store) Ping(context.Context) error { return nil }

// AddPoints appends a point log row for studyID.
func (s *Store) AddPoints(studyID string, delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.points = append(s.st.points, pointLog{studyID: studyID, delta: delta})
}

// AddReactions appends n reactions with the given emoji code.
func (s *Store) AddReactions(studyID, code string, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := 0; i < n; i++ {
		s.st.reactions = append(s.st.reactions, reaction{studyID: studyID, code: code})
	}
}

// MemberCount returns the number of membership rows of studyID.
func (s *Store) MemberCount(studyID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, m := range s.st.members {
		if m.StudyID == studyID {
			n++
		}
	}
	return n
}

// StudyCount returns the number of study rows, deleted ones included.
func (s *Store) StudyCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.st.studies)
}

func (s *Store) stamp() time.Time {
	t := s.now()
	if !t.After(s.last) {
		t = s.last.Add(time.Microsecond)
	}
	s.last = t
	return t
}

func memberKey(studyID, userID string) string {
	return studyID + "/" + userID
}

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.st.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicate
		}
	}
	u.ID = uuid.NewString()
	u.CreatedAt = r.s.stamp()
	r.s.st.users[u.ID] = *u
	return nil
}

func (r userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.st.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.st.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

type studyRepo struct{ s *Store }

func (r studyRepo) Create(_ context.Context, st *entity.Study) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.studies[st.ID]; ok {
		return repository.ErrDuplicate
	}
	now := r.s.stamp()
	st.CreatedAt, st.UpdatedAt = now, now
	r.s.st.studies[st.ID] = *st
	return nil
}

func (r studyRepo) active(id string) (entity.Study, bool) {
	st, ok := r.s.st.studies[id]
	if !ok || st.DeletedAt != nil {
		return entity.Study{}, false
	}
	return st, true
}

func (r studyRepo) FindActive(_ context.Context, id string) (*entity.StudyRef, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	st, ok := r.active(id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &entity.StudyRef{ID: st.ID, OwnerID: st.OwnerID, IsPublic: st.IsPublic}, nil
}

func (r studyRepo) GetWithOwner(_ context.Context, id string) (*entity.StudyWithOwner, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	st, ok := r.active(id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	owner, ok := r.s.st.users[st.OwnerID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &entity.StudyWithOwner{Study: st, OwnerNickname: owner.Nickname}, nil
}

func (r studyRepo) ListPublic(_ context.Context, q repository.StudyListQuery) ([]entity.Study, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	kw := strings.ToLower(q.Keyword)
	matched := make([]entity.Study, 0)
	for _, st := range r.s.st.studies {
		if !st.IsPublic || st.DeletedAt != nil {
			continue
		}
		if kw != "" && !strings.Contains(strings.ToLower(st.Name), kw) &&
			!strings.Contains(strings.ToLower(st.Introduce), kw) {
			continue
		}
		matched = append(matched, st)
	}
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			if q.Sort == repository.SortOldest {
				return a.CreatedAt.Before(b.CreatedAt)
			}
			return a.CreatedAt.After(b.CreatedAt)
		}
		if q.Sort == repository.SortOldest {
			return a.ID < b.ID
		}
		return a.ID > b.ID
	})
	total := len(matched)
	if q.Offset >= total {
		return []entity.Study{}, total, nil
	}
	end := q.Offset + q.Limit
	if end > total {
		end = total
	}
	return append([]entity.Study(nil), matched[q.Offset:end]...), total, nil
}

func (r studyRepo) SumPoints(_ context.Context, studyIDs []string) (map[string]int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	want := toSet(studyIDs)
	out := make(map[string]int, len(studyIDs))
	for _, p := range r.s.st.points {
		if want[p.studyID] {
			out[p.studyID] += p.delta
		}
	}
	return out, nil
}

func (r studyRepo) CountEmojis(_ context.Context, studyIDs []string) (map[string][]entity.EmojiCount, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	want := toSet(studyIDs)
	out := make(map[string][]entity.EmojiCount, len(studyIDs))
	index := make(map[string]int)
	for _, re := range r.s.st.reactions {
		if !want[re.studyID] {
			continue
		}
		key := memberKey(re.studyID, re.code)
		if i, ok := index[key]; ok {
			out[re.studyID][i].Count++
			continue
		}
		index[key] = len(out[re.studyID])
		out[re.studyID] = append(out[re.studyID], entity.EmojiCount{Code: re.code, Count: 1})
	}
	return out, nil
}

func (r studyRepo) Update(_ context.Context, id string, patch entity.StudyPatch, at time.Time) (*entity.Study, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	st, ok := r.active(id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	if patch.Name != nil {
		st.Name = *patch.Name
	}
	if patch.Introduce != nil {
		st.Introduce = *patch.Introduce
	}
	if patch.BackgroundKey != nil {
		st.BackgroundKey = *patch.BackgroundKey
	}
	if patch.IsPublic != nil {
		st.IsPublic = *patch.IsPublic
	}
	st.UpdatedAt = at
	r.s.st.studies[id] = st
	return &st, nil
}

func (r studyRepo) SoftDelete(_ context.Context, id string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	st, ok := r.active(id)
	if !ok {
		return repository.ErrNotFound
	}
	st.DeletedAt = &at
	st.UpdatedAt = at
	r.s.st.studies[id] = st
	return nil
}

type memberRepo struct{ s *Store }

func (r memberRepo) Find(_ context.Context, studyID, userID string) (*entity.StudyMember, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.st.members[memberKey(studyID, userID)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &m, nil
}

func (r memberRepo) Create(_ context.Context, m *entity.StudyMember) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.FailMemberCreate; err != nil {
		r.s.FailMemberCreate = nil
		return err
	}
	key := memberKey(m.StudyID, m.UserID)
	if _, ok := r.s.st.members[key]; ok {
		return repository.ErrDuplicate
	}
	m.ID = uuid.NewString()
	m.JoinedAt = r.s.stamp()
	r.s.st.members[key] = *m
	return nil
}

func (r memberRepo) Delete(_ context.Context, studyID, userID string) (*entity.StudyMember, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := memberKey(studyID, userID)
	m, ok := r.s.st.members[key]
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(r.s.st.members, key)
	return &m, nil
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

var (
	_ repository.UserRepository        = userRepo{}
	_ repository.StudyRepository       = studyRepo{}
	_ repository.StudyMemberRepository = memberRepo{}
	_ repository.TxRunner              = (*Store)(nil)
)
