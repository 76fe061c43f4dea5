package session

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/me/loginhub/pkg/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError}))
}

func strPtr(s string) *string { return &s }

func tenantSession(token, userID, companyID string) model.Session {
	return model.NewTenantSession(model.LoginResult{
		Token: token,
		User: model.Identity{
			ID:        userID,
			Name:      "Ana Souza",
			Email:     "ana@co.com",
			Role:      model.RoleAdmin,
			CompanyID: strPtr(companyID),
		},
		Company: &model.CompanySummary{ID: companyID, Name: "Acme", Status: model.StatusActive},
	})
}

func newTestStore() (*Store, *MemoryScope, *MemoryScope) {
	durable, tab := NewMemoryScope(), NewMemoryScope()
	return NewStore(durable, tab, testLogger()), durable, tab
}

func TestStore_ReadEmptyIsAnonymous(t *testing.T) {
	st, _, _ := newTestStore()

	sess, err := st.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.TierNone, sess.Tier)
	assert.False(t, sess.IsAuthenticated())
}

func TestStore_WriteReadTenant(t *testing.T) {
	st, durable, tab := newTestStore()
	ctx := context.Background()

	require.NoError(t, st.Write(ctx, tenantSession("abc123", "u1", "c1")))

	sess, err := st.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.TierTenantUser, sess.Tier)
	assert.Equal(t, "abc123", sess.Token)
	assert.Equal(t, "u1", sess.Identity.ID)
	assert.Equal(t, "c1", sess.CompanyID())
	require.NotNil(t, sess.Company)
	assert.Equal(t, "Acme", sess.Company.Name)

	assert.Equal(t, 3, durable.Len())
	assert.Equal(t, 0, tab.Len())
}

func TestStore_WriteReadMaster(t *testing.T) {
	st, durable, _ := newTestStore()
	ctx := context.Background()

	require.NoError(t, st.Write(ctx, model.NewMasterSession()))

	sess, err := st.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.TierMaster, sess.Tier)
	assert.True(t, sess.MasterFlag)
	assert.Empty(t, sess.Token)
	assert.Nil(t, sess.Identity.CompanyID)
	assert.Equal(t, 0, durable.Len(), "master sessions keep nothing in durable storage")
}

func TestStore_MutualExclusion(t *testing.T) {
	sequences := map[string][]model.Session{
		"tenant then master":   {tenantSession("t1", "u1", "c1"), model.NewMasterSession()},
		"master then tenant":   {model.NewMasterSession(), tenantSession("t2", "u2", "c2")},
		"tenant then tenant":   {tenantSession("t1", "u1", "c1"), tenantSession("t2", "u2", "c2")},
		"master, tenant, none": {model.NewMasterSession(), tenantSession("t1", "u1", "c1"), model.AnonymousSession()},
		"alternating":          {model.NewMasterSession(), tenantSession("t1", "u1", "c1"), model.NewMasterSession(), tenantSession("t3", "u3", "c3")},
	}

	for name, seq := range sequences {
		t.Run(name, func(t *testing.T) {
			st, durable, tab := newTestStore()
			ctx := context.Background()

			for _, want := range seq {
				require.NoError(t, st.Write(ctx, want))

				got, err := st.Read(ctx)
				require.NoError(t, err)
				assert.Equal(t, want.Tier, got.Tier)

				_, hasToken, _ := durable.Get(ctx, KeyToken)
				_, hasFlag, _ := tab.Get(ctx, KeyMaster)
				assert.False(t, hasToken && hasFlag, "token and master flag must never coexist")

				if want.Tier == model.TierTenantUser {
					assert.Equal(t, want.Token, got.Token)
					assert.Equal(t, want.Identity.ID, got.Identity.ID)
				}
			}
		})
	}
}

func TestStore_ClearIsIdempotent(t *testing.T) {
	st, durable, tab := newTestStore()
	ctx := context.Background()

	require.NoError(t, st.Write(ctx, tenantSession("abc123", "u1", "c1")))
	require.NoError(t, tab.Set(ctx, KeyMaster, "true"))

	require.NoError(t, st.Clear(ctx))
	first, err := st.Read(ctx)
	require.NoError(t, err)

	require.NoError(t, st.Clear(ctx))
	second, err := st.Read(ctx)
	require.NoError(t, err)

	assert.Equal(t, model.TierNone, first.Tier)
	assert.Equal(t, first, second)
	assert.Equal(t, 0, durable.Len())
	assert.Equal(t, 0, tab.Len())
}

func TestStore_CorruptIdentityIsAnonymous(t *testing.T) {
	st, durable, _ := newTestStore()
	ctx := context.Background()

	require.NoError(t, durable.Set(ctx, KeyToken, "abc123"))
	require.NoError(t, durable.Set(ctx, KeyUser, "{not json"))

	var sess model.Session
	require.NotPanics(t, func() {
		var err error
		sess, err = st.Read(ctx)
		require.NoError(t, err)
	})
	assert.Equal(t, model.TierNone, sess.Tier)
}

func TestStore_PartialTenantDataIsAnonymous(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]string
	}{
		{"token only", map[string]string{KeyToken: "abc123"}},
		{"identity only", map[string]string{KeyUser: `{"id":"u1","role":"admin","empresa_id":"c1"}`}},
		{"empty token", map[string]string{KeyToken: "", KeyUser: `{"id":"u1","role":"admin","empresa_id":"c1"}`}},
		{"identity without company", map[string]string{KeyToken: "abc123", KeyUser: `{"id":"u1","role":"admin"}`}},
		{"master identity in durable storage", map[string]string{KeyToken: "master-session-token", KeyUser: `{"id":"master","nome":"Super Administrator","role":"master"}`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, durable, _ := newTestStore()
			ctx := context.Background()
			for k, v := range tt.values {
				require.NoError(t, durable.Set(ctx, k, v))
			}

			sess, err := st.Read(ctx)
			require.NoError(t, err)
			assert.Equal(t, model.TierNone, sess.Tier)
		})
	}
}

func TestStore_CorruptCompanyIsIgnored(t *testing.T) {
	st, durable, _ := newTestStore()
	ctx := context.Background()

	require.NoError(t, st.Write(ctx, tenantSession("abc123", "u1", "c1")))
	require.NoError(t, durable.Set(ctx, KeyCompany, "[broken"))

	sess, err := st.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.TierTenantUser, sess.Tier)
	assert.Nil(t, sess.Company)
}

func TestStore_MasterFlagShortCircuits(t *testing.T) {
	st, durable, tab := newTestStore()
	ctx := context.Background()

	// Written behind the store's back, e.g. by another tab sharing durable storage.
	require.NoError(t, durable.Set(ctx, KeyToken, "abc123"))
	require.NoError(t, durable.Set(ctx, KeyUser, `{"id":"u1","role":"admin","empresa_id":"c1"}`))
	require.NoError(t, tab.Set(ctx, KeyMaster, "true"))

	sess, err := st.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.TierMaster, sess.Tier)
}

func TestStore_WriteRejectsIncompleteTenant(t *testing.T) {
	st, durable, _ := newTestStore()
	ctx := context.Background()

	err := st.Write(ctx, model.Session{Tier: model.TierTenantUser, Token: "abc123"})
	assert.ErrorIs(t, err, ErrIncompleteSession)

	err = st.Write(ctx, model.Session{Tier: model.TierTenantUser, Identity: tenantSession("x", "u1", "c1").Identity})
	assert.ErrorIs(t, err, ErrIncompleteSession)

	assert.Equal(t, 0, durable.Len())
}

func TestStore_InterruptedTenantWriteReadsAnonymous(t *testing.T) {
	durable := &failingScope{Scope: NewMemoryScope(), failSetKey: KeyToken}
	st := NewStore(durable, NewMemoryScope(), testLogger())
	ctx := context.Background()

	err := st.Write(ctx, tenantSession("abc123", "u1", "c1"))
	require.Error(t, err)

	sess, err := st.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.TierNone, sess.Tier)
}

func TestStore_ReadPropagatesStorageErrors(t *testing.T) {
	boom := errors.New("disk on fire")
	st := NewStore(NewMemoryScope(), &failingScope{Scope: NewMemoryScope(), getErr: boom}, testLogger())

	sess, err := st.Read(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, model.TierNone, sess.Tier)
}

// failingScope wraps a Scope and injects errors.
type failingScope struct {
	Scope
	failSetKey string
	getErr     error
}

func (f *failingScope) Get(ctx context.Context, key string) (string, bool, error) {
	if f.getErr != nil {
		return "", false, f.getErr
	}
	return f.Scope.Get(ctx, key)
}

func (f *failingScope) Set(ctx context.Context, key, value string) error {
	if key == f.failSetKey {
		return errors.New("write interrupted")
	}
	return f.Scope.Set(ctx, key, value)
}
