package members

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/gymdesk/pkg/domain"
	"github.com/tendant/gymdesk/pkg/membership"
	"github.com/tendant/gymdesk/pkg/repository"
	"github.com/tendant/gymdesk/pkg/storage"
)

type fakeMemberStore struct {
	members  map[uuid.UUID]*domain.Member
	plans    *fakePlanStore
	failNext error
	patches  int
}

func newFakeMemberStore(plans *fakePlanStore) *fakeMemberStore {
	return &fakeMemberStore{members: map[uuid.UUID]*domain.Member{}, plans: plans}
}

func (f *fakeMemberStore) fail() error {
	err := f.failNext
	f.failNext = nil
	return err
}

func (f *fakeMemberStore) put(m *domain.Member) {
	cp := *m
	cp.Plan = nil
	f.members[m.ID] = &cp
}

func (f *fakeMemberStore) Create(ctx context.Context, m *domain.Member) error {
	if err := f.fail(); err != nil {
		return err
	}
	f.put(m)
	return nil
}

func (f *fakeMemberStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Member, error) {
	m, ok := f.members[id]
	if !ok {
		return nil, domain.ErrMemberNotFound
	}
	cp := *m
	if cp.PlanID != nil && f.plans != nil {
		cp.Plan = f.plans.plans[*cp.PlanID]
	}
	return &cp, nil
}

func (f *fakeMemberStore) Update(ctx context.Context, m *domain.Member) error {
	if err := f.fail(); err != nil {
		return err
	}
	if _, ok := f.members[m.ID]; !ok {
		return domain.ErrMemberNotFound
	}
	f.put(m)
	return nil
}

func (f *fakeMemberStore) ApplyPatch(ctx context.Context, id uuid.UUID, p membership.Patch) error {
	if err := f.fail(); err != nil {
		return err
	}
	m, ok := f.members[id]
	if !ok {
		return domain.ErrMemberNotFound
	}
	f.patches++
	next := membership.Apply(*m, p)
	f.members[id] = &next
	return nil
}

func (f *fakeMemberStore) SetPhotoURL(ctx context.Context, id uuid.UUID, photoURL *string) error {
	if err := f.fail(); err != nil {
		return err
	}
	m, ok := f.members[id]
	if !ok {
		return domain.ErrMemberNotFound
	}
	m.PhotoURL = photoURL
	return nil
}

func (f *fakeMemberStore) Delete(ctx context.Context, id uuid.UUID) error {
	if err := f.fail(); err != nil {
		return err
	}
	if _, ok := f.members[id]; !ok {
		return domain.ErrMemberNotFound
	}
	delete(f.members, id)
	return nil
}

func (f *fakeMemberStore) all() []*domain.Member {
	out := make([]*domain.Member, 0, len(f.members))
	for id := range f.members {
		m, _ := f.GetByID(context.Background(), id)
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (f *fakeMemberStore) List(ctx context.Context, filter repository.MemberFilter, today time.Time) (*repository.MemberPage, error) {
	if err := f.fail(); err != nil {
		return nil, err
	}
	list := f.all()
	return &repository.MemberPage{Members: list, Total: len(list), Page: filter.Page, PageSize: filter.PageSize}, nil
}

func (f *fakeMemberStore) ListExpiring(ctx context.Context, today time.Time, windowDays int) ([]*domain.Member, error) {
	if err := f.fail(); err != nil {
		return nil, err
	}
	return f.all(), nil
}

type fakePlanStore struct {
	plans map[uuid.UUID]*domain.Plan
}

func (f *fakePlanStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Plan, error) {
	p, ok := f.plans[id]
	if !ok {
		return nil, domain.ErrPlanNotFound
	}
	return p, nil
}

type fakePhotoStore struct {
	photos  map[uuid.UUID]*storage.Photo
	deleted int
}

func (f *fakePhotoStore) Put(ctx context.Context, memberID uuid.UUID, data []byte) (string, error) {
	contentType, err := storage.DetectPhotoType(data, f.MaxBytes())
	if err != nil {
		return "", err
	}
	f.photos[memberID] = &storage.Photo{ContentType: contentType, Data: data}
	return contentType, nil
}

func (f *fakePhotoStore) Get(ctx context.Context, memberID uuid.UUID) (*storage.Photo, error) {
	p, ok := f.photos[memberID]
	if !ok {
		return nil, domain.ErrPhotoNotFound
	}
	return p, nil
}

func (f *fakePhotoStore) Delete(ctx context.Context, memberID uuid.UUID) error {
	f.deleted++
	delete(f.photos, memberID)
	return nil
}

func (f *fakePhotoStore) MaxBytes() int { return 1024 }

// fixedNow is 2024-06-15 in the afternoon, local to the test.
var fixedNow = time.Date(2024, 6, 15, 15, 30, 0, 0, time.UTC)

type testEnv struct {
	handler *Handler
	members *fakeMemberStore
	plans   *fakePlanStore
	photos  *fakePhotoStore
	monthly *domain.Plan
	retired *domain.Plan
}

func newTestEnv() *testEnv {
	monthly := &domain.Plan{ID: uuid.New(), Name: "Monthly", DurationDays: 30, IsActive: true}
	retired := &domain.Plan{ID: uuid.New(), Name: "Summer promo", DurationDays: 60, IsActive: false}
	plans := &fakePlanStore{plans: map[uuid.UUID]*domain.Plan{monthly.ID: monthly, retired.ID: retired}}
	members := newFakeMemberStore(plans)
	photos := &fakePhotoStore{photos: map[uuid.UUID]*storage.Photo{}}

	h := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), members, plans, photos, Config{
		BaseURL:            "https://gym.example",
		PageSize:           20,
		ExpiringWindowDays: 7,
		Now:                func() time.Time { return fixedNow },
	})
	return &testEnv{handler: h, members: members, plans: plans, photos: photos, monthly: monthly, retired: retired}
}

func (e *testEnv) addMember(name string, status domain.MemberStatus, start, end string, plan *domain.Plan) *domain.Member {
	m := &domain.Member{
		ID:        uuid.New(),
		Name:      name,
		StartDate: start,
		EndDate:   end,
		Status:    status,
	}
	if plan != nil {
		m.PlanID = &plan.ID
	}
	e.members.put(m)
	return m
}
