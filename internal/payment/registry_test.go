package payment

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateSession(ctx context.Context, s *Session) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}
func (m *MockRepository) GetByID(ctx context.Context, sessionID string) (*Session, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Session), args.Error(1)
}
func (m *MockRepository) GetPendingByFingerprint(ctx context.Context, fingerprint string) (*Session, error) {
	args := m.Called(ctx, fingerprint)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Session), args.Error(1)
}
func (m *MockRepository) MarkCompleted(ctx context.Context, sessionID, evidencePath string, at time.Time) error {
	args := m.Called(ctx, sessionID, evidencePath, at)
	return args.Error(0)
}
func (m *MockRepository) MarkFailed(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}
func (m *MockRepository) DeleteStale(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func newTestRegistry(t *testing.T, repo Repository) *registry {
	t.Helper()
	return &registry{
		repo:     repo,
		evidence: NewEvidenceStore(t.TempDir()),
		now:      time.Now,
	}
}

func TestRegistry_CreateSession(t *testing.T) {
	ctx := context.Background()

	t.Run("Expiry is exactly 15 minutes from creation", func(t *testing.T) {
		repo := new(MockRepository)
		reg := newTestRegistry(t, repo)

		var persisted *Session
		repo.On("CreateSession", ctx, mock.Anything).Run(func(args mock.Arguments) {
			persisted = args.Get(1).(*Session)
		}).Return(nil)

		res, err := reg.CreateSession(ctx, 200, "USD", nil, nil, "ORD-7")
		require.NoError(t, err)
		require.NotNil(t, persisted)

		assert.Equal(t, 15*time.Minute, persisted.ExpiresAt.Sub(persisted.CreatedAt))
		assert.Equal(t, StatusPending, persisted.Status)
		assert.Equal(t, res.SessionID, persisted.SessionID)
	})

	t.Run("Fingerprint derives from the QR payload", func(t *testing.T) {
		repo := new(MockRepository)
		reg := newTestRegistry(t, repo)

		repo.On("CreateSession", ctx, mock.Anything).Return(nil)

		res, err := reg.CreateSession(ctx, 200, "USD", nil, nil, "ORD-7")
		require.NoError(t, err)
		assert.Equal(t, Fingerprint(res.QRPayload), res.Fingerprint)
		assert.True(t, strings.Contains(res.QRPayload, res.BillNumber))
	})
}

func TestRegistry_LookupByFingerprint(t *testing.T) {
	ctx := context.Background()

	t.Run("Live pending session", func(t *testing.T) {
		repo := new(MockRepository)
		reg := newTestRegistry(t, repo)

		repo.On("GetPendingByFingerprint", ctx, "fp").Return(&Session{
			SessionID: "sess-1", Status: StatusPending,
			ExpiresAt: time.Now().Add(10 * time.Minute),
		}, nil)

		s, err := reg.LookupByFingerprint(ctx, "fp")
		require.NoError(t, err)
		assert.Equal(t, "sess-1", s.SessionID)
	})

	t.Run("Expired but not yet swept", func(t *testing.T) {
		repo := new(MockRepository)
		reg := newTestRegistry(t, repo)

		repo.On("GetPendingByFingerprint", ctx, "fp").Return(&Session{
			SessionID: "sess-1", Status: StatusPending,
			ExpiresAt: time.Now().Add(-time.Minute),
		}, nil)

		_, err := reg.LookupByFingerprint(ctx, "fp")
		assert.ErrorIs(t, err, ErrSessionExpired)
	})

	t.Run("Unknown fingerprint", func(t *testing.T) {
		repo := new(MockRepository)
		reg := newTestRegistry(t, repo)

		repo.On("GetPendingByFingerprint", ctx, "nope").Return(nil, ErrSessionNotFound)

		_, err := reg.LookupByFingerprint(ctx, "nope")
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})
}

func TestRegistry_AttachEvidence(t *testing.T) {
	ctx := context.Background()

	t.Run("Completes the session", func(t *testing.T) {
		repo := new(MockRepository)
		reg := newTestRegistry(t, repo)

		repo.On("GetByID", ctx, "sess-1").Return(&Session{
			SessionID: "sess-1", Status: StatusPending,
			ExpiresAt: time.Now().Add(10 * time.Minute),
		}, nil)
		repo.On("MarkCompleted", ctx, "sess-1", mock.Anything, mock.Anything).Return(nil)

		s, err := reg.AttachEvidence(ctx, "sess-1", "proof.png", strings.NewReader("img"), 3)
		require.NoError(t, err)
		assert.Equal(t, StatusCompleted, s.Status)
		require.NotNil(t, s.EvidencePath)
		assert.Contains(t, *s.EvidencePath, "sess-1_")
	})

	t.Run("Terminal session rejects", func(t *testing.T) {
		repo := new(MockRepository)
		reg := newTestRegistry(t, repo)

		repo.On("GetByID", ctx, "sess-1").Return(&Session{
			SessionID: "sess-1", Status: StatusCompleted,
			ExpiresAt: time.Now().Add(10 * time.Minute),
		}, nil)

		_, err := reg.AttachEvidence(ctx, "sess-1", "proof.png", strings.NewReader("img"), 3)
		assert.ErrorIs(t, err, ErrSessionClosed)
	})

	t.Run("Expired session rejects", func(t *testing.T) {
		repo := new(MockRepository)
		reg := newTestRegistry(t, repo)

		repo.On("GetByID", ctx, "sess-1").Return(&Session{
			SessionID: "sess-1", Status: StatusPending,
			ExpiresAt: time.Now().Add(-time.Minute),
		}, nil)

		_, err := reg.AttachEvidence(ctx, "sess-1", "proof.png", strings.NewReader("img"), 3)
		assert.ErrorIs(t, err, ErrSessionExpired)
	})

	t.Run("Bad upload rejects before touching state", func(t *testing.T) {
		repo := new(MockRepository)
		reg := newTestRegistry(t, repo)

		repo.On("GetByID", ctx, "sess-1").Return(&Session{
			SessionID: "sess-1", Status: StatusPending,
			ExpiresAt: time.Now().Add(10 * time.Minute),
		}, nil)

		_, err := reg.AttachEvidence(ctx, "sess-1", "proof.pdf", strings.NewReader("img"), 3)
		var rejected *EvidenceRejectedError
		assert.ErrorAs(t, err, &rejected)
		repo.AssertNotCalled(t, "MarkCompleted", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestRegistry_FailSession(t *testing.T) {
	ctx := context.Background()

	t.Run("Marks a pending session failed", func(t *testing.T) {
		repo := new(MockRepository)
		reg := newTestRegistry(t, repo)
		repo.On("MarkFailed", ctx, "sess-1").Return(nil)

		require.NoError(t, reg.FailSession(ctx, "sess-1"))
		repo.AssertExpectations(t)
	})

	t.Run("Closed session surfaces the error", func(t *testing.T) {
		repo := new(MockRepository)
		reg := newTestRegistry(t, repo)
		repo.On("MarkFailed", ctx, "sess-2").Return(ErrSessionClosed)

		assert.ErrorIs(t, reg.FailSession(ctx, "sess-2"), ErrSessionClosed)
	})
}

func TestRegistry_ExpireStale(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	reg := newTestRegistry(t, repo)

	repo.On("DeleteStale", ctx, mock.Anything).Return(int64(2), nil)

	count, err := reg.ExpireStale(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestManualChecker(t *testing.T) {
	status, err := NewManualChecker().Check(context.Background(), &Session{})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, status)
}
