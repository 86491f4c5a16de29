package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"pairauth/internal/api"
	"pairauth/internal/crypto"
	"pairauth/internal/domain"
	"pairauth/internal/store"
)

// backend is a scriptable fake of the auth endpoints.
type backend struct {
	mu sync.Mutex

	registerCalls int
	verifyCalls   int
	revokeCalls   int

	lastRegister domain.RegisterRequest
	lastVerify   domain.VerifyRequest
	lastRevoked  string

	registerStatus int
	registerBody   string
	verifyStatus   int
	verifyBody     string
	revokeStatus   int
}

func newBackend() *backend {
	return &backend{
		registerStatus: http.StatusOK,
		registerBody:   `{"challenge":"abc123"}`,
		verifyStatus:   http.StatusOK,
		verifyBody:     `{"access_token":"tok-1","expires_in":3600,"refresh_token":"ref-1"}`,
		revokeStatus:   http.StatusOK,
	}
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch r.URL.Path {
	case "/api/v1/auth/register":
		b.registerCalls++
		_ = json.NewDecoder(r.Body).Decode(&b.lastRegister)
		w.WriteHeader(b.registerStatus)
		fmt.Fprint(w, b.registerBody)
	case "/api/v1/auth/verify":
		b.verifyCalls++
		_ = json.NewDecoder(r.Body).Decode(&b.lastVerify)
		w.WriteHeader(b.verifyStatus)
		fmt.Fprint(w, b.verifyBody)
	case "/oauth/revoke":
		b.revokeCalls++
		_ = r.ParseForm()
		b.lastRevoked = r.PostForm.Get("token")
		w.WriteHeader(b.revokeStatus)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

type fixture struct {
	svc     *Service
	backend *backend
	keyring *store.KeyringStore
	tokens  *store.TokenFileStore
}

func setup(t *testing.T) *fixture {
	t.Helper()

	b := newBackend()
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)

	kv := store.NewFileKV(filepath.Join(t.TempDir(), "state.json"))
	keyring := store.NewKeyringStore(kv)
	tokens := store.NewTokenFileStore(kv)

	svc, err := New(keyring, tokens, api.New(srv.URL, srv.Client()), zerolog.Nop())
	require.NoError(t, err)

	return &fixture{svc: svc, backend: b, keyring: keyring, tokens: tokens}
}

func TestNew_StartsLoggedOutAndEnsuresKeys(t *testing.T) {
	f := setup(t)

	require.Equal(t, domain.LoggedOut, f.svc.Status().State)

	// Keys must exist even before first login.
	id, err := f.keyring.EnsureIdentity()
	require.NoError(t, err)
	require.NotEmpty(t, id.Public)
	pair, err := f.keyring.EnsurePairingPair()
	require.NoError(t, err)
	require.NotEmpty(t, pair.Public)
}

func TestNew_StartsLoggedInWithValidToken(t *testing.T) {
	f := setup(t)

	_, err := f.tokens.Save(domain.TokenResponse{AccessToken: "tok", ExpiresIn: 3600}, time.Now())
	require.NoError(t, err)

	svc, err := New(f.keyring, f.tokens, f.svc.api, zerolog.Nop())
	require.NoError(t, err)
	require.Equal(t, domain.LoggedIn, svc.Status().State)
}

func TestSendCode_InvalidEmailMakesNoCall(t *testing.T) {
	f := setup(t)

	_, err := f.svc.SendCode(context.Background(), "not-an-email")
	require.ErrorIs(t, err, domain.ErrInvalidEmail)
	require.Zero(t, f.backend.registerCalls)
	require.Equal(t, domain.LoggedOut, f.svc.Status().State)
}

func TestSendCode_TransitionsToAwaitingVerification(t *testing.T) {
	f := setup(t)

	res, err := f.svc.SendCode(context.Background(), "user@example.com")
	require.NoError(t, err)
	require.Equal(t, "abc123", res.Challenge)
	require.Equal(t, 1, f.backend.registerCalls)

	status := f.svc.Status()
	require.Equal(t, domain.AwaitingVerification, status.State)
	require.Equal(t, "user@example.com", status.Email)
	require.Equal(t, "abc123", status.Challenge)
}

func TestSendCode_SendsPersistedPublicKey(t *testing.T) {
	f := setup(t)

	id, err := f.keyring.EnsureIdentity()
	require.NoError(t, err)

	_, err = f.svc.SendCode(context.Background(), "user@example.com")
	require.NoError(t, err)

	require.Equal(t, crypto.B64(id.Public.Slice()), f.backend.lastRegister.PublicKey)
	require.NotEmpty(t, f.backend.lastRegister.DeviceInfo.Platform)
	require.Equal(t, "user@example.com", f.backend.lastRegister.Email)
}

func TestSendCode_ServerErrorSurfacesStatusAndBody(t *testing.T) {
	f := setup(t)
	f.backend.registerStatus = http.StatusTooManyRequests
	f.backend.registerBody = "slow down"

	_, err := f.svc.SendCode(context.Background(), "user@example.com")
	var re *domain.RequestError
	require.ErrorAs(t, err, &re)
	require.Equal(t, domain.StageRegister, re.Stage)
	require.Equal(t, http.StatusTooManyRequests, re.Status)
	require.Equal(t, "slow down", re.Body)
	require.Equal(t, domain.LoggedOut, f.svc.Status().State)
}

func TestVerifyCode_UnauthorizedStaysAwaiting(t *testing.T) {
	f := setup(t)
	_, err := f.svc.SendCode(context.Background(), "user@example.com")
	require.NoError(t, err)

	f.backend.verifyStatus = http.StatusUnauthorized
	f.backend.verifyBody = "bad code"

	_, err = f.svc.VerifyCode(context.Background(), domain.VerifyParams{
		Email: "user@example.com", Code: "000000", Challenge: "abc123",
	})
	var re *domain.RequestError
	require.ErrorAs(t, err, &re)
	require.Equal(t, domain.StageVerify, re.Stage)
	require.Equal(t, domain.AwaitingVerification, f.svc.Status().State)

	// No token must have been persisted.
	rec, err := f.tokens.Load(time.Now())
	require.NoError(t, err)
	require.Nil(t, rec)
}

func TestVerifyCode_SuccessLogsInAndPersists(t *testing.T) {
	f := setup(t)

	rec, err := f.svc.VerifyCode(context.Background(), domain.VerifyParams{
		Email: "user@example.com", Code: "123456", Challenge: "abc123",
	})
	require.NoError(t, err)
	require.Equal(t, "tok-1", rec.AccessToken)
	require.Equal(t, domain.LoggedIn, f.svc.Status().State)

	loaded, err := f.tokens.Load(time.Now())
	require.NoError(t, err)
	require.NotNil(t, loaded)
	require.Equal(t, "tok-1", loaded.AccessToken)

	// The posted signature is a valid Ed25519 signature over the challenge.
	id, err := f.keyring.EnsureIdentity()
	require.NoError(t, err)
	sig, err := crypto.B64Decode(f.backend.lastVerify.Signature)
	require.NoError(t, err)
	require.True(t, crypto.VerifyEd25519(id.Public, []byte("abc123"), sig))
}

func TestVerifyCode_EmptyCodeMakesNoCall(t *testing.T) {
	f := setup(t)

	_, err := f.svc.VerifyCode(context.Background(), domain.VerifyParams{
		Email: "user@example.com", Challenge: "abc123",
	})
	require.ErrorIs(t, err, domain.ErrInvalidCode)
	require.Zero(t, f.backend.verifyCalls)
}

func TestAccessToken_LazyExpiryDegradesToLoggedOut(t *testing.T) {
	f := setup(t)

	_, err := f.svc.VerifyCode(context.Background(), domain.VerifyParams{
		Email: "user@example.com", Code: "123456", Challenge: "abc123",
	})
	require.NoError(t, err)

	token, err := f.svc.AccessToken()
	require.NoError(t, err)
	require.Equal(t, "tok-1", token)

	// Jump past expiry.
	f.svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	token, err = f.svc.AccessToken()
	require.NoError(t, err)
	require.Empty(t, token)
	require.Equal(t, domain.LoggedOut, f.svc.Status().State)

	// Storage was cleared as a side effect.
	rec, err := f.tokens.Load(time.Now())
	require.NoError(t, err)
	require.Nil(t, rec)
}

func TestSignOut_RevokesRefreshToken(t *testing.T) {
	f := setup(t)
	_, err := f.svc.VerifyCode(context.Background(), domain.VerifyParams{
		Email: "user@example.com", Code: "123456", Challenge: "abc123",
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.SignOut(context.Background()))
	require.Equal(t, 1, f.backend.revokeCalls)
	require.Equal(t, "ref-1", f.backend.lastRevoked)
	require.Equal(t, domain.LoggedOut, f.svc.Status().State)
}

func TestSignOut_RevocationFailureIsSwallowed(t *testing.T) {
	f := setup(t)
	_, err := f.svc.VerifyCode(context.Background(), domain.VerifyParams{
		Email: "user@example.com", Code: "123456", Challenge: "abc123",
	})
	require.NoError(t, err)

	f.backend.revokeStatus = http.StatusInternalServerError

	require.NoError(t, f.svc.SignOut(context.Background()))
	require.Equal(t, domain.LoggedOut, f.svc.Status().State)

	rec, err := f.tokens.Load(time.Now())
	require.NoError(t, err)
	require.Nil(t, rec)
}

func TestVerifyCode_ConcurrentCallsLeaveCompleteRecord(t *testing.T) {
	f := setup(t)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = f.svc.VerifyCode(context.Background(), domain.VerifyParams{
				Email: "user@example.com", Code: "123456", Challenge: "abc123",
			})
		}()
	}
	wg.Wait()

	// Last write wins; the surviving record is complete either way.
	rec, err := f.tokens.Load(time.Now())
	require.NoError(t, err)
	require.NotNil(t, rec)
	require.Equal(t, "tok-1", rec.AccessToken)
	require.Equal(t, "ref-1", rec.RefreshToken)
	require.True(t, rec.ExpiresAt.After(time.Now()))
	require.Equal(t, domain.LoggedIn, f.svc.Status().State)
}

func TestSubscribe_NotifiedOnTransition(t *testing.T) {
	f := setup(t)

	var got []domain.AuthState
	f.svc.Subscribe(func(s domain.AuthStatus) { got = append(got, s.State) })

	_, err := f.svc.SendCode(context.Background(), "user@example.com")
	require.NoError(t, err)
	_, err = f.svc.VerifyCode(context.Background(), domain.VerifyParams{
		Email: "user@example.com", Code: "123456", Challenge: "abc123",
	})
	require.NoError(t, err)

	require.Equal(t, []domain.AuthState{domain.AwaitingVerification, domain.LoggedIn}, got)
}
