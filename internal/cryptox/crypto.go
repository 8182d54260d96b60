// Package cryptox implements the cryptographic primitives behind dump
// exchange: AES-256-GCM authenticated encryption, SHA-256 content hashing,
// and optional RSA signatures for attributable dumps.
//
// The encrypted framing is nonce(12) ‖ ciphertext ‖ tag(16), one opaque
// buffer. A fresh nonce is drawn from crypto/rand on every call, so the
// same key never sees a repeated nonce.
package cryptox

import (
	"crypto"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/eventsync/eventsync/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	nonceSize = 12
	tagSize   = 16

	// KeySize is the AES-256 key length expected for organization keys.
	KeySize = 32
)

// Encrypt seals plaintext with key (32 bytes) and returns
// nonce ‖ ciphertext ‖ tag.
func Encrypt(plaintext, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("new cipher: %w", err)
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("new gcm: %w", err)
	}

	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("nonce: %w", err)
	}

	// Seal appends ciphertext+tag after the nonce prefix.
	return aesgcm.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt opens a blob produced by Encrypt. It fails with
// common.ErrIntegrity when the blob is shorter than nonce+tag or when
// authentication fails (tampered data, wrong key, truncation).
func Decrypt(blob, key []byte) ([]byte, error) {
	if len(blob) < nonceSize+tagSize {
		return nil, fmt.Errorf("%w: blob too short (%d bytes)", common.ErrIntegrity, len(blob))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("new cipher: %w", err)
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("new gcm: %w", err)
	}

	plaintext, err := aesgcm.Open(nil, blob[:nonceSize], blob[nonceSize:], nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrIntegrity, err)
	}
	return plaintext, nil
}

// HashBytes returns the lowercase hex SHA-256 digest of data.
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashReader hashes everything readable from r. Used for attachment
// content-addressing so large files never need to be buffered whole.
func HashReader(r io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// DeriveOrgKey stretches a passphrase into a 32-byte organization key using
// argon2id. Same inputs always yield the same key.
func DeriveOrgKey(passphrase, salt []byte) []byte {
	return argon2.IDKey(passphrase, salt, 1, 64*1024, 4, KeySize)
}

// Sign produces an RSA PKCS#1 v1.5 signature over the SHA-256 digest of
// data. privDER is a PKCS#1 DER-encoded private key.
func Sign(data, privDER []byte) ([]byte, error) {
	priv, err := x509.ParsePKCS1PrivateKey(privDER)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	digest := sha256.Sum256(data)
	return rsa.SignPKCS1v15(rand.Reader, priv, crypto.SHA256, digest[:])
}

// Verify checks sig against data using a PKCS#1 DER-encoded public key.
func Verify(data, sig, pubDER []byte) error {
	pub, err := x509.ParsePKCS1PublicKey(pubDER)
	if err != nil {
		return fmt.Errorf("parse public key: %w", err)
	}
	digest := sha256.Sum256(data)
	if err := rsa.VerifyPKCS1v15(pub, crypto.SHA256, digest[:], sig); err != nil {
		return fmt.Errorf("%w: %v", common.ErrIntegrity, err)
	}
	return nil
}

// GenerateKeyPair creates a 2048-bit RSA keypair and returns both halves in
// PKCS#1 DER encoding.
func GenerateKeyPair() (privDER, pubDER []byte, err error) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, nil, err
	}
	return x509.MarshalPKCS1PrivateKey(priv), x509.MarshalPKCS1PublicKey(&priv.PublicKey), nil
}
