package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCategory(t *testing.T) {
	for _, c := range Categories() {
		got, ok := ParseCategory(string(c))
		assert.True(t, ok)
		assert.Equal(t, c, got)
	}

	for _, raw := range []string{"", "billing", "PURCHASE", "staff "} {
		_, ok := ParseCategory(raw)
		assert.False(t, ok, "expected %q to be rejected", raw)
	}
}

func TestCategoryLabels(t *testing.T) {
	for _, c := range Categories() {
		assert.NotEmpty(t, c.Label())
		assert.NotEmpty(t, c.Description())
	}
}

func TestActorHasRole(t *testing.T) {
	actor := Actor{ID: "u1", RoleIDs: []string{"r1", "r2"}}
	assert.True(t, actor.HasRole("r1"))
	assert.True(t, actor.HasRole("r2"))
	assert.False(t, actor.HasRole("r3"))
	assert.False(t, Actor{ID: "u2"}.HasRole("r1"))
}
