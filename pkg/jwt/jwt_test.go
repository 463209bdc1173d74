package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoicing-api/pkg/jwt"
)

func TestGenerateParse_RoundTrip(t *testing.T) {
	token, err := jwt.Generate("secreto", "u-1", "ana.perez", "admin", "invoicing-api", 5)
	require.NoError(t, err)

	id, username, role, err := jwt.Parse("secreto", token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", id)
	assert.Equal(t, "ana.perez", username)
	assert.Equal(t, "admin", role)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	token, err := jwt.Generate("secreto", "u-1", "ana", "user", "x", 5)
	require.NoError(t, err)

	_, _, _, err = jwt.Parse("otro", token)
	assert.Error(t, err)
}

func TestParse_TokenExpirado(t *testing.T) {
	token, err := jwt.Generate("secreto", "u-1", "ana", "user", "x", -1)
	require.NoError(t, err)

	_, _, _, err = jwt.Parse("secreto", token)
	assert.Error(t, err)
}

func TestSecretVacio(t *testing.T) {
	_, err := jwt.Generate("", "u", "n", "user", "x", 5)
	assert.Error(t, err)
	_, _, _, err = jwt.Parse("", "abc")
	assert.Error(t, err)
}
