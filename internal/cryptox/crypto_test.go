package cryptox

import (
	"bytes"
	"strings"
	"testing"

	"github.com/eventsync/eventsync/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey() []byte {
	return bytes.Repeat([]byte{0x42}, KeySize)
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	plaintext := []byte("field node snapshot")

	blob, err := Encrypt(plaintext, testKey())
	require.NoError(t, err)
	require.Greater(t, len(blob), len(plaintext), "blob carries nonce and tag")

	got, err := Decrypt(blob, testKey())
	require.NoError(t, err)
	assert.Equal(t, plaintext, got)
}

func TestEncrypt_FreshNoncePerCall(t *testing.T) {
	plaintext := []byte("same input")

	a, err := Encrypt(plaintext, testKey())
	require.NoError(t, err)
	b, err := Encrypt(plaintext, testKey())
	require.NoError(t, err)

	assert.NotEqual(t, a[:12], b[:12], "nonce must differ between calls")
	assert.NotEqual(t, a, b)
}

func TestDecrypt_TamperedByte(t *testing.T) {
	blob, err := Encrypt([]byte("payload"), testKey())
	require.NoError(t, err)

	for _, idx := range []int{0, 12, len(blob) - 1} {
		tampered := append([]byte(nil), blob...)
		tampered[idx] ^= 0x01
		_, err := Decrypt(tampered, testKey())
		require.ErrorIs(t, err, common.ErrIntegrity, "flip at byte %d", idx)
	}
}

func TestDecrypt_WrongKey(t *testing.T) {
	blob, err := Encrypt([]byte("payload"), testKey())
	require.NoError(t, err)

	other := bytes.Repeat([]byte{0x24}, KeySize)
	_, err = Decrypt(blob, other)
	require.ErrorIs(t, err, common.ErrIntegrity)
}

func TestDecrypt_TooShort(t *testing.T) {
	_, err := Decrypt(make([]byte, 27), testKey())
	require.ErrorIs(t, err, common.ErrIntegrity)
}

func TestHashBytes_DeterministicLowercaseHex(t *testing.T) {
	a := HashBytes([]byte("abc"))
	b := HashBytes([]byte("abc"))
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
	assert.Equal(t, strings.ToLower(a), a)
	// known sha256("abc")
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", a)
}

func TestHashReader_MatchesHashBytes(t *testing.T) {
	data := []byte("attachment contents")
	got, err := HashReader(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, HashBytes(data), got)
}

func TestDeriveOrgKey_Deterministic(t *testing.T) {
	k1 := DeriveOrgKey([]byte("passphrase"), []byte("salt"))
	k2 := DeriveOrgKey([]byte("passphrase"), []byte("salt"))
	k3 := DeriveOrgKey([]byte("passphrase"), []byte("other"))

	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)
	assert.Len(t, k1, KeySize)
}

func TestSignVerify(t *testing.T) {
	priv, pub, err := GenerateKeyPair()
	require.NoError(t, err)

	data := []byte("manifest bytes")
	sig, err := Sign(data, priv)
	require.NoError(t, err)

	require.NoError(t, Verify(data, sig, pub))

	require.ErrorIs(t, Verify([]byte("other bytes"), sig, pub), common.ErrIntegrity)

	sig[0] ^= 0x01
	require.ErrorIs(t, Verify(data, sig, pub), common.ErrIntegrity)
}
