package application

import (
	"context"
	"testing"
	"time"

	"go-hr/internal/features/apptype"
	"go-hr/internal/features/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memoryBundleRepo struct {
	bundles []ApplicationBundle
	saves   int
}

func (r *memoryBundleRepo) FindAll(ctx context.Context) ([]ApplicationBundle, error) {
	out := make([]ApplicationBundle, len(r.bundles))
	copy(out, r.bundles)
	return out, nil
}

func (r *memoryBundleRepo) SaveAll(ctx context.Context, bundles []ApplicationBundle) error {
	r.saves++
	byID := make(map[int64]int, len(r.bundles))
	for i, bundle := range r.bundles {
		byID[bundle.Application.ID] = i
	}
	for _, bundle := range bundles {
		if i, ok := byID[bundle.Application.ID]; ok {
			r.bundles[i] = bundle
		} else {
			r.bundles = append(r.bundles, bundle)
		}
	}
	return nil
}

func (r *memoryBundleRepo) Save(ctx context.Context, bundle ApplicationBundle) error {
	return r.SaveAll(ctx, []ApplicationBundle{bundle})
}

type stubTypeService struct {
	types []apptype.ApplicationType
}

func (s *stubTypeService) CreateType(ctx context.Context, t apptype.ApplicationType) (*apptype.ApplicationType, error) {
	normalized := apptype.Normalize(t)
	s.types = append(s.types, normalized)
	return &normalized, nil
}

func (s *stubTypeService) GetTypeByID(ctx context.Context, id int64) (*apptype.ApplicationType, error) {
	for i := range s.types {
		if s.types[i].ID == id {
			return &s.types[i], nil
		}
	}
	return nil, apptype.ErrTypeNotFound
}

func (s *stubTypeService) ListTypes(ctx context.Context) ([]apptype.ApplicationType, error) {
	return s.types, nil
}

func (s *stubTypeService) UpdateType(ctx context.Context, id int64, t apptype.ApplicationType) (*apptype.ApplicationType, error) {
	return nil, apptype.ErrTypeNotFound
}

func (s *stubTypeService) DeleteType(ctx context.Context, id int64) error {
	kept := s.types[:0]
	for _, t := range s.types {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	s.types = kept
	return nil
}

func (s *stubTypeService) Lookup(ctx context.Context) (func(id int64) *apptype.ApplicationType, error) {
	byID := make(map[int64]apptype.ApplicationType, len(s.types))
	for _, t := range s.types {
		byID[t.ID] = apptype.Normalize(t)
	}
	return func(id int64) *apptype.ApplicationType {
		if t, ok := byID[id]; ok {
			return &t
		}
		return nil
	}, nil
}

type stubUserService struct {
	roles map[int64]int64
}

func (s *stubUserService) CreateUser(ctx context.Context, u *user.User) (*user.User, error) {
	return u, nil
}
func (s *stubUserService) GetUserByID(ctx context.Context, id int64) (*user.User, error) {
	return nil, user.ErrUserNotFound
}
func (s *stubUserService) ListUsers(ctx context.Context) ([]user.User, error) { return nil, nil }
func (s *stubUserService) UpdateUser(ctx context.Context, id int64, u *user.User) error {
	return nil
}
func (s *stubUserService) DeleteUser(ctx context.Context, id int64) error { return nil }
func (s *stubUserService) RoleOf(ctx context.Context, userID int64) (int64, error) {
	if roleID, ok := s.roles[userID]; ok {
		return roleID, nil
	}
	return 0, user.ErrUserNotFound
}

func newTestService(t *testing.T, at time.Time, types ...apptype.ApplicationType) (*ApplicationServiceImpl, *memoryBundleRepo, *stubTypeService) {
	t.Helper()
	repo := &memoryBundleRepo{}
	typeSvc := &stubTypeService{}
	for _, typ := range types {
		_, err := typeSvc.CreateType(context.Background(), typ)
		require.NoError(t, err)
	}

	svc := &ApplicationServiceImpl{
		Repo:   repo,
		Types:  typeSvc,
		Users:  &stubUserService{roles: map[int64]int64{42: 3, 500: 10, 501: 20}},
		Logger: zap.NewNop(),
		alloc:  NewIDAllocator(),
		now:    fixedClock(at),
	}
	return svc, repo, typeSvc
}

func TestServiceCreateAndSubmit(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestService(t, testNow, vacationType())

	created, err := svc.Create(ctx, 42, 1, []FieldValue{{Key: "reason", Value: "Trip"}})
	require.NoError(t, err)
	assert.Equal(t, StatusDraft, created.Application.Status)
	assert.Len(t, repo.bundles, 1)

	submitted, err := svc.Submit(ctx, created.Application.ID, 42, "", nil)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, submitted.Application.Status)
	assert.Equal(t, StatusPending, repo.bundles[0].Application.Status, "the transition was persisted")
}

func TestServiceCreateUnknownType(t *testing.T) {
	svc, _, _ := newTestService(t, testNow, vacationType())

	_, err := svc.Create(context.Background(), 42, 99, nil)
	assert.ErrorIs(t, err, ErrTypeNotResolved)
}

func TestServiceCreateEnforcesAllowedRoles(t *testing.T) {
	restricted := vacationType()
	restricted.AllowedRoleIDs = []int64{10}
	svc, _, _ := newTestService(t, testNow, restricted)

	_, err := svc.Create(context.Background(), 42, 1, nil) // user 42 has role 3
	assert.ErrorIs(t, err, ErrNotPermitted)

	_, err = svc.Create(context.Background(), 500, 1, nil) // user 500 has role 10
	assert.NoError(t, err)
}

func TestServiceSubmitValidatesRequiredFields(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t, testNow, vacationType())

	created, err := svc.Create(ctx, 42, 1, nil) // reason missing
	require.NoError(t, err)

	_, err = svc.Submit(ctx, created.Application.ID, 42, "", nil)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.UpdateValues(ctx, created.Application.ID, 42, []FieldValue{{Key: "reason", Value: "Trip"}}, "")
	require.NoError(t, err)
	_, err = svc.Submit(ctx, created.Application.ID, 42, "", nil)
	assert.NoError(t, err)
}

func TestServiceRejectRequiresComment(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t, testNow, vacationType())
	created, _ := svc.Create(ctx, 42, 1, []FieldValue{{Key: "reason", Value: "x"}})
	_, err := svc.Submit(ctx, created.Application.ID, 42, "", nil)
	require.NoError(t, err)

	_, err = svc.Reject(ctx, created.Application.ID, 500, "   ")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Reject(ctx, created.Application.ID, 500, "not enough detail")
	assert.NoError(t, err)
}

func TestServiceTransitionAfterTypeDeleted(t *testing.T) {
	ctx := context.Background()
	svc, _, typeSvc := newTestService(t, testNow, vacationType())
	created, _ := svc.Create(ctx, 42, 1, []FieldValue{{Key: "reason", Value: "x"}})

	require.NoError(t, typeSvc.DeleteType(ctx, 1))

	_, err := svc.Submit(ctx, created.Application.ID, 42, "", nil)
	assert.ErrorIs(t, err, ErrTypeNotResolved)
}

func TestServiceAttachmentRules(t *testing.T) {
	ctx := context.Background()

	withFiles := vacationType()
	withFiles.Capabilities.AllowsAttachments = true
	withFiles.Capabilities.AttachmentMaxSizeMB = 1

	noFiles := vacationType()
	noFiles.ID = 2

	svc, _, _ := newTestService(t, testNow, withFiles, noFiles)

	a, _ := svc.Create(ctx, 42, 1, []FieldValue{{Key: "reason", Value: "x"}})
	b, _ := svc.Create(ctx, 42, 2, []FieldValue{{Key: "reason", Value: "x"}})

	_, err := svc.AddAttachment(ctx, a.Application.ID, 42, AttachmentDraft{Name: "a.pdf", SizeBytes: 512 * 1024})
	assert.NoError(t, err)

	_, err = svc.AddAttachment(ctx, a.Application.ID, 42, AttachmentDraft{Name: "big.pdf", SizeBytes: 2 * 1024 * 1024})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.AddAttachment(ctx, b.Application.ID, 42, AttachmentDraft{Name: "a.pdf", SizeBytes: 10})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestServiceListTabs(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t, testNow, vacationType())

	created, _ := svc.Create(ctx, 42, 1, []FieldValue{{Key: "reason", Value: "x"}})
	_, err := svc.Submit(ctx, created.Application.ID, 42, "", nil)
	require.NoError(t, err)

	sent, err := svc.List(ctx, 42, 3, TabSent)
	require.NoError(t, err)
	assert.Len(t, sent, 1)

	pending, err := svc.List(ctx, 500, 10, TabPending)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	pendingForLater, err := svc.List(ctx, 501, 20, TabPending)
	require.NoError(t, err)
	assert.Empty(t, pendingForLater)

	invisible, err := svc.List(ctx, 999, 99, TabAll)
	require.NoError(t, err)
	assert.Empty(t, invisible)
}

func TestServiceSweepPersistsDuringLoad(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestService(t, testNow, vacationType())

	created, _ := svc.Create(ctx, 42, 1, []FieldValue{{Key: "reason", Value: "x"}})
	_, err := svc.Submit(ctx, created.Application.ID, 42, "", nil)
	require.NoError(t, err)

	// jump past the first step's one hour SLA
	svc.now = fixedClock(testNow.Add(2 * time.Hour))
	require.NoError(t, svc.RunAutomation(ctx))

	assert.Equal(t, 1, repo.bundles[0].Application.CurrentStepIndex, "the expired step auto-approved and was persisted")

	got, err := svc.Get(ctx, created.Application.ID, 42, 3)
	require.NoError(t, err)
	last := got.AuditTrail[len(got.AuditTrail)-1]
	assert.Equal(t, ActionAutoApprove, last.Action)
	assert.Nil(t, last.ActorID)
}

func TestServiceGetEnforcesVisibility(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t, testNow, vacationType())
	created, _ := svc.Create(ctx, 42, 1, []FieldValue{{Key: "reason", Value: "x"}})

	_, err := svc.Get(ctx, created.Application.ID, 42, 3)
	assert.NoError(t, err)

	_, err = svc.Get(ctx, created.Application.ID, 999, 99)
	assert.ErrorIs(t, err, ErrApplicationNotFound, "invisible bundles read as missing")
}
