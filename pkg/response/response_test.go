package response

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecomarket/user-service/internal/domain/entity"
)

func sample() *entity.User {
	return &entity.User{
		ID:           7,
		Username:     "busterblade",
		PasswordHash: "$2a$10$secret",
		Email:        "buster@example.com",
		FullName:     "Buster Blade",
	}
}

func TestUserPayloadPlain(t *testing.T) {
	b := NewBuilder("http://localhost:8080", false)

	p := b.User(sample())
	assert.EqualValues(t, 7, p.ID)
	assert.Nil(t, p.Links)

	raw, err := json.Marshal(p)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "password")
	assert.NotContains(t, string(raw), "_links")
	assert.NotContains(t, string(raw), "secret")
}

func TestUserPayloadHypermedia(t *testing.T) {
	b := NewBuilder("https://api.ecomarket.example", true)

	p := b.User(sample())
	require.NotNil(t, p.Links)
	assert.Equal(t, "https://api.ecomarket.example/api/users/7", p.Links["self"].Href)
	assert.Equal(t, "https://api.ecomarket.example/api/users", p.Links["users"].Href)
	assert.Equal(t, p.Links["self"], p.Links["update"])
	assert.Equal(t, p.Links["self"], p.Links["delete"])
}

func TestUsersKeepsOrder(t *testing.T) {
	b := NewBuilder("http://localhost:8080", false)
	out := b.Users([]*entity.User{
		{ID: 1, Username: "a"},
		{ID: 2, Username: "b"},
	})
	require.Len(t, out, 2)
	assert.Equal(t, "a", out[0].Username)
	assert.Equal(t, "b", out[1].Username)
}
