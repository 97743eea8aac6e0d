package lib

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "0123456789abcdef0123456789abcdef"

func TestEncryptDecryptRoundTrip(t *testing.T) {
	plaintexts := []string{
		"Ayşe Yılmaz",
		"ayse@example.com",
		"+90 532 123 45 67",
		"Kumbahçe Mah. Atatürk Cad. 14",
	}

	for _, plaintext := range plaintexts {
		encrypted, err := Encrypt(plaintext, testKey)
		require.NoError(t, err)
		require.NotEqual(t, plaintext, encrypted)

		decrypted, err := Decrypt(encrypted, testKey)
		require.NoError(t, err)
		assert.Equal(t, plaintext, decrypted)
	}
}

func TestEncryptEmptyPassthrough(t *testing.T) {
	encrypted, err := Encrypt("", testKey)
	require.NoError(t, err)
	assert.Empty(t, encrypted)

	decrypted, err := Decrypt("", testKey)
	require.NoError(t, err)
	assert.Empty(t, decrypted)
}

func TestEncryptRejectsShortKey(t *testing.T) {
	_, err := Encrypt("secret", "too-short")
	assert.Error(t, err)

	_, err = Decrypt("anything", "too-short")
	assert.Error(t, err)
}

func TestDecryptWrongKeyFails(t *testing.T) {
	encrypted, err := Encrypt("secret", testKey)
	require.NoError(t, err)

	otherKey := "fedcba9876543210fedcba9876543210"
	_, err = Decrypt(encrypted, otherKey)
	assert.Error(t, err)
}

func TestEncryptNonDeterministic(t *testing.T) {
	a, err := Encrypt("same input", testKey)
	require.NoError(t, err)
	b, err := Encrypt("same input", testKey)
	require.NoError(t, err)

	// Random nonce per call; equal outputs would mean nonce reuse.
	assert.NotEqual(t, a, b)
}

func TestDecryptGarbageFails(t *testing.T) {
	_, err := Decrypt("not-base64!!!", testKey)
	assert.Error(t, err)

	// Valid base64 but shorter than a nonce.
	_, err = Decrypt("AAAA", testKey)
	assert.Error(t, err)
}
