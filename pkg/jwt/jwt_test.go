package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque/pkg/jwt"
)

func TestGenerateParse(t *testing.T) {
	tok, err := jwt.Generate("s3cret", jwt.Identity{UserID: "u1", Email: "a@b.com", Role: jwt.RoleAdmin}, "estoque", 5)
	require.NoError(t, err)

	id, err := jwt.Parse("s3cret", tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", id.UserID)
	assert.Equal(t, "a@b.com", id.Email)
	assert.True(t, id.IsAdmin())
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	tok, err := jwt.Generate("uno", jwt.Identity{UserID: "u1"}, "estoque", 5)
	require.NoError(t, err)

	_, err = jwt.Parse("otro", tok)
	assert.Error(t, err)
}

func TestParse_Expirado(t *testing.T) {
	tok, err := jwt.Generate("s", jwt.Identity{UserID: "u1"}, "estoque", -1)
	require.NoError(t, err)

	_, err = jwt.Parse("s", tok)
	assert.Error(t, err)
}

func TestSecretVacio(t *testing.T) {
	_, err := jwt.Generate("", jwt.Identity{}, "", 1)
	assert.ErrorIs(t, err, jwt.ErrEmptySecret)
	_, err = jwt.Parse("", "x")
	assert.ErrorIs(t, err, jwt.ErrEmptySecret)
}
