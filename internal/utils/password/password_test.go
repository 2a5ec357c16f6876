package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testParams keeps hashing cheap in tests.
var testParams = &Params{
	Memory:      8 * 1024,
	Iterations:  1,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
}

func TestHashAndVerify(t *testing.T) {
	encoded, err := Hash("correct horse battery staple", testParams)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(encoded, "$argon2id$v=19$"))

	ok, err := Verify("correct horse battery staple", encoded)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyWrongPassword(t *testing.T) {
	encoded, err := Hash("secret123", testParams)
	require.NoError(t, err)

	ok, err := Verify("secret124", encoded)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashIsSalted(t *testing.T) {
	first, err := Hash("secret123", testParams)
	require.NoError(t, err)
	second, err := Hash("secret123", testParams)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)

	ok, err := Verify("secret123", first)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = Verify("secret123", second)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestHashNilParamsUsesDefaults(t *testing.T) {
	encoded, err := Hash("secret123", nil)
	require.NoError(t, err)
	assert.Contains(t, encoded, "m=65536,t=3,p=4")
}

func TestVerifyMalformedHash(t *testing.T) {
	tests := []struct {
		name    string
		encoded string
		wantErr error
	}{
		{"empty", "", ErrInvalidHash},
		{"not a hash", "plaintext", ErrInvalidHash},
		{"wrong algorithm", "$bcrypt$v=19$m=8192,t=1,p=1$c2FsdHNhbHQ$aGFzaA", ErrInvalidHash},
		{"wrong version", "$argon2id$v=18$m=8192,t=1,p=1$c2FsdHNhbHQ$aGFzaA", ErrIncompatibleVersion},
		{"bad salt encoding", "$argon2id$v=19$m=8192,t=1,p=1$!!!$aGFzaA", ErrInvalidHash},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := Verify("secret123", tt.encoded)
			assert.False(t, ok)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
