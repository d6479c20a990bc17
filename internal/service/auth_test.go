package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/target/clinic-portal/internal/adapters/clinicapi"
	"github.com/target/clinic-portal/internal/adapters/tokencodec"
	domainauth "github.com/target/clinic-portal/internal/domain/auth"
	"github.com/target/clinic-portal/internal/mocks"
	mockauth "github.com/target/clinic-portal/internal/mocks/auth"
	"github.com/target/clinic-portal/internal/ports"
	"github.com/target/clinic-portal/internal/session"
)

type authFixture struct {
	svc     *AuthService
	store   *session.Store
	storage *mockauth.MemoryCredentialStorage
	gateway *mockauth.StubGateway
}

func newAuthFixture(t *testing.T, roles map[string]domainauth.Role) *authFixture {
	t.Helper()
	storage := mockauth.NewMemoryCredentialStorage(nil)
	decoder := mockauth.StaticRoleDecoder{Roles: roles}
	store := session.NewStore(session.StoreOptions{Storage: storage, Decoder: decoder})
	gateway := &mockauth.StubGateway{}
	msgs, err := clinicapi.NewMessageExtractor("")
	require.NoError(t, err)

	return &authFixture{
		svc: NewAuthService(AuthServiceOptions{
			Gateway:  gateway,
			Decoder:  decoder,
			Sessions: store,
			Messages: msgs,
		}),
		store:   store,
		storage: storage,
		gateway: gateway,
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	f := newAuthFixture(t, map[string]domainauth.Role{"tok-admin": domainauth.RoleAdmin})
	f.gateway.Token = "tok-admin"

	sess, err := f.svc.Login(context.Background(), ports.Credentials{Username: "root", Password: "pw"})

	require.NoError(t, err)
	assert.True(t, sess.IsAuthenticated())
	assert.Equal(t, domainauth.RoleAdmin, sess.Role)
	assert.Equal(t, domainauth.StatusIdle, sess.Status)
	assert.Empty(t, sess.Error)
	assert.Equal(t, map[string]string{ports.KeyToken: "tok-admin", ports.KeyRole: "ADMIN"}, f.storage.Values())
}

func TestAuthService_Login_RealToken(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"role": "ROLE_DOCTOR"}).SignedString([]byte("k"))
	require.NoError(t, err)

	storage := mockauth.NewMemoryCredentialStorage(nil)
	store := session.NewStore(session.StoreOptions{Storage: storage})
	svc := NewAuthService(AuthServiceOptions{
		Gateway:  &mockauth.StubGateway{Token: token},
		Decoder:  tokencodec.Codec{},
		Sessions: store,
	})

	sess, err := svc.Login(context.Background(), ports.Credentials{Username: "doc", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleDoctor, sess.Role)
	assert.Equal(t, "/doctor", sess.Role.HomePath())
}

func TestAuthService_Login_Rejected(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{"server message", &clinicapi.HTTPError{StatusCode: http.StatusUnauthorized, Body: []byte(`{"message":"Bad credentials"}`)}, "Bad credentials"},
		{"string body", &clinicapi.HTTPError{StatusCode: http.StatusForbidden, Body: []byte(`"User disabled"`)}, "User disabled"},
		{"status only", &clinicapi.HTTPError{StatusCode: http.StatusInternalServerError}, "Request failed with status code 500"},
		{"transport", errors.New("connection refused"), "connection refused"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t, nil)
			f.gateway.Err = tt.err

			sess, err := f.svc.Login(context.Background(), ports.Credentials{Username: "u", Password: "bad"})

			var loginErr *LoginError
			require.ErrorAs(t, err, &loginErr)
			assert.Equal(t, tt.wantMsg, loginErr.Message)
			assert.ErrorIs(t, err, tt.err)
			assert.False(t, sess.IsAuthenticated())
			assert.Equal(t, tt.wantMsg, sess.Error)
			assert.Equal(t, domainauth.StatusIdle, sess.Status)
			assert.Empty(t, f.storage.Values())
		})
	}
}

func TestAuthService_Login_UnknownRole(t *testing.T) {
	f := newAuthFixture(t, map[string]domainauth.Role{"tok-nurse": "NURSE"})

	for _, token := range []string{"tok-nurse", "undecodable"} {
		f.gateway.Token = token
		sess, err := f.svc.Login(context.Background(), ports.Credentials{Username: "u", Password: "p"})

		assert.ErrorIs(t, err, ErrUnknownRole)
		assert.False(t, sess.IsAuthenticated())
		assert.Equal(t, UnknownRoleMessage, sess.Error)
		assert.Equal(t, domainauth.StatusIdle, sess.Status)
		assert.Empty(t, f.storage.Values())
	}
}

func TestAuthService_Login_ClearsPreviousError(t *testing.T) {
	f := newAuthFixture(t, map[string]domainauth.Role{"tok": domainauth.RolePatient})
	f.gateway.Err = errors.New("boom")
	_, err := f.svc.Login(context.Background(), ports.Credentials{})
	require.Error(t, err)
	require.Equal(t, "boom", f.store.Snapshot().Error)

	f.gateway.Err = nil
	f.gateway.Token = "tok"
	sess, err := f.svc.Login(context.Background(), ports.Credentials{})
	require.NoError(t, err)
	assert.Empty(t, sess.Error)
}

func TestAuthService_Login_DoubleSubmit(t *testing.T) {
	f := newAuthFixture(t, map[string]domainauth.Role{"tok": domainauth.RoleAdmin})
	entered := make(chan struct{})
	release := make(chan struct{})
	f.gateway.LoginFunc = func(context.Context, ports.Credentials) (string, error) {
		close(entered)
		<-release
		return "tok", nil
	}

	done := make(chan error, 1)
	go func() {
		_, err := f.svc.Login(context.Background(), ports.Credentials{Username: "a"})
		done <- err
	}()
	<-entered

	sess, err := f.svc.Login(context.Background(), ports.Credentials{Username: "a"})
	assert.ErrorIs(t, err, ErrLoginInProgress)
	assert.True(t, sess.IsLoading())

	close(release)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("first login did not finish")
	}
	assert.Len(t, f.gateway.Calls(), 1)
	assert.False(t, f.store.Snapshot().IsLoading())
}

func TestAuthService_Login_DiscardedAfterLogout(t *testing.T) {
	f := newAuthFixture(t, map[string]domainauth.Role{"new": domainauth.RoleDoctor})
	require.NoError(t, f.store.SetCredentials(context.Background(), "old", domainauth.RoleAdmin))

	f.gateway.LoginFunc = func(ctx context.Context, _ ports.Credentials) (string, error) {
		require.NoError(t, f.svc.Logout(ctx))
		return "new", nil
	}

	sess, err := f.svc.Login(context.Background(), ports.Credentials{})
	assert.ErrorIs(t, err, ErrStaleSession)
	assert.False(t, sess.IsAuthenticated())
	assert.Empty(t, f.storage.Values())
}

func TestAuthService_Login_PersistFailureStillSucceeds(t *testing.T) {
	f := newAuthFixture(t, map[string]domainauth.Role{"tok": domainauth.RolePatient})
	f.storage.SetErr = errors.New("read-only filesystem")
	f.gateway.Token = "tok"

	sess, err := f.svc.Login(context.Background(), ports.Credentials{})
	require.NoError(t, err)
	assert.True(t, sess.HasRole(domainauth.RolePatient))
}

func TestAuthService_Login_WithGeneratedMock(t *testing.T) {
	ctrl := gomock.NewController(t)
	gateway := mocks.NewMockLoginGateway(ctrl)
	creds := ports.Credentials{Username: "pat", Password: "pw"}
	gateway.EXPECT().Login(gomock.Any(), creds).Return("tok", nil).Times(1)

	store := session.NewStore(session.StoreOptions{})
	svc := NewAuthService(AuthServiceOptions{
		Gateway:  gateway,
		Decoder:  mockauth.StaticRoleDecoder{Roles: map[string]domainauth.Role{"tok": domainauth.RolePatient}},
		Sessions: store,
	})

	sess, err := svc.Login(context.Background(), creds)
	require.NoError(t, err)
	assert.True(t, sess.HasRole(domainauth.RolePatient))
}

func TestAuthService_Logout(t *testing.T) {
	f := newAuthFixture(t, map[string]domainauth.Role{"tok": domainauth.RoleAdmin})
	f.gateway.Token = "tok"
	_, err := f.svc.Login(context.Background(), ports.Credentials{})
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(context.Background()))
	first := f.svc.Session()
	gen := f.store.Generation()

	require.NoError(t, f.svc.Logout(context.Background()))
	assert.Equal(t, first, f.svc.Session())
	assert.Equal(t, gen, f.store.Generation())
	assert.False(t, first.IsAuthenticated())
	assert.Empty(t, f.storage.Values())
}

func TestAuthService_Logout_StorageFailure(t *testing.T) {
	f := newAuthFixture(t, nil)
	f.storage.RemoveErr = errors.New("locked")

	err := f.svc.Logout(context.Background())
	assert.Error(t, err)
	assert.False(t, f.svc.Session().IsAuthenticated())
}
