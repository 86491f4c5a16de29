package store

import (
	"testing"

	"github.com/stretchr/testify/require"

	"pairauth/internal/crypto"
	"pairauth/internal/domain"
)

func TestEnsureIdentity_GeneratesOnceAndPersists(t *testing.T) {
	kv := newKV(t)
	ks := NewKeyringStore(kv)

	first, err := ks.EnsureIdentity()
	require.NoError(t, err)

	// Persisted halves match the returned pair.
	m, err := kv.GetAll(keyEdPriv, keyEdPub)
	require.NoError(t, err)
	require.Equal(t, crypto.B64(first.Private.Slice()), m[keyEdPriv])
	require.Equal(t, crypto.B64(first.Public.Slice()), m[keyEdPub])

	// Second call returns byte-identical material, no regeneration.
	second, err := ks.EnsureIdentity()
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestEnsureIdentity_PublicMatchesPrivate(t *testing.T) {
	ks := NewKeyringStore(newKV(t))

	id, err := ks.EnsureIdentity()
	require.NoError(t, err)

	msg := []byte("any message")
	sig := crypto.SignEd25519(id.Private, msg)
	require.True(t, crypto.VerifyEd25519(id.Public, msg, sig))
}

func TestEnsureIdentity_RegeneratesWhenHalfMissing(t *testing.T) {
	kv := newKV(t)
	ks := NewKeyringStore(kv)

	first, err := ks.EnsureIdentity()
	require.NoError(t, err)

	// A half-written pair counts as not persisted at all.
	require.NoError(t, kv.Delete(keyEdPub))

	second, err := ks.EnsureIdentity()
	require.NoError(t, err)
	require.NotEqual(t, first.Private, second.Private)

	m, err := kv.GetAll(keyEdPriv, keyEdPub)
	require.NoError(t, err)
	require.Len(t, m, 2)
}

func TestEnsureIdentity_CorruptKeyIsKeyStoreError(t *testing.T) {
	kv := newKV(t)
	require.NoError(t, kv.Set(map[string]string{
		keyEdPriv: "%%% not base64 %%%",
		keyEdPub:  "also bad",
	}))

	_, err := NewKeyringStore(kv).EnsureIdentity()
	var kse *domain.KeyStoreError
	require.ErrorAs(t, err, &kse)
}

func TestEnsurePairingPair_Idempotent(t *testing.T) {
	ks := NewKeyringStore(newKV(t))

	first, err := ks.EnsurePairingPair()
	require.NoError(t, err)
	second, err := ks.EnsurePairingPair()
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestPairingAndIdentityNamespacesAreIndependent(t *testing.T) {
	kv := newKV(t)
	ks := NewKeyringStore(kv)

	id, err := ks.EnsureIdentity()
	require.NoError(t, err)
	pairing, err := ks.EnsurePairingPair()
	require.NoError(t, err)

	// Dropping the pairing pair must not disturb the identity pair.
	require.NoError(t, kv.Delete(keyXSecret, keyXPublic))
	again, err := ks.EnsureIdentity()
	require.NoError(t, err)
	require.Equal(t, id, again)

	regenerated, err := ks.EnsurePairingPair()
	require.NoError(t, err)
	require.NotEqual(t, pairing, regenerated)
}
