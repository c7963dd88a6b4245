package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprintDeterminism(t *testing.T) {
	v := Object{"table": String("cake"), "limit": Int(10)}

	a, err := Fingerprint(DomainStatement, v)
	require.NoError(t, err)
	b, err := Fingerprint(DomainStatement, Object{"limit": Int(10), "table": String("cake")})
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Len(t, a, 64, "SHA-256 hex is 64 characters")
}

func TestFingerprintChangesWithInput(t *testing.T) {
	a, err := Fingerprint(DomainStatement, Object{"id": Int(11)})
	require.NoError(t, err)
	b, err := Fingerprint(DomainStatement, Object{"id": Int(12)})
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestFingerprintDomainSeparation(t *testing.T) {
	v := Object{"id": Int(1)}

	a, err := Fingerprint(DomainStatement, v)
	require.NoError(t, err)
	b, err := Fingerprint(DomainSchema, v)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestFingerprintError(t *testing.T) {
	_, err := Fingerprint(DomainStatement, 1.5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), DomainStatement)
}
