package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/library-service/internal/domain"
)

func TestAuthorServiceCreateAndGet(t *testing.T) {
	repo := newFakeAuthorRepo(newFakeBookRepo())
	svc := NewAuthorService(repo)
	ctx := context.Background()

	author := &domain.Author{FirstName: "Ursula", LastName: "Le Guin"}
	require.NoError(t, svc.Create(ctx, author))
	require.NotEmpty(t, author.ID)

	loaded, err := svc.Get(ctx, author.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ursula Le Guin", loaded.FullName())

	_, err = svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrAuthorNotFound)
}

func TestAuthorServiceSearch(t *testing.T) {
	repo := newFakeAuthorRepo(newFakeBookRepo())
	svc := NewAuthorService(repo)
	ctx := context.Background()

	for _, a := range []*domain.Author{
		{FirstName: "Frank", LastName: "Herbert"},
		{FirstName: "frank", LastName: "Miller"},
		{FirstName: "Brian", LastName: "Herbert"},
	} {
		require.NoError(t, svc.Create(ctx, a))
	}

	// First name alone is case-insensitive.
	result, err := svc.Search(ctx, "FRANK", "")
	require.NoError(t, err)
	assert.Len(t, result, 2)

	// Adding a last name switches to an exact match on both.
	result, err = svc.Search(ctx, "Frank", "Herbert")
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "Herbert", result[0].LastName)

	result, err = svc.Search(ctx, "FRANK", "Herbert")
	require.NoError(t, err)
	assert.Empty(t, result)
}
