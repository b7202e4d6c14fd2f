package db_test

import (
	"context"
	"testing"
	"time"

	"news_gateway/internal/db"
	"news_gateway/internal/models"

	"github.com/stretchr/testify/require"
)

// runStoreSuite проверяет общий контракт Store на пустом хранилище.
func runStoreSuite(t *testing.T, store db.Store) {
	ctx := context.Background()
	base := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

	sport := &models.Article{
		Title:           "Victoire du FC Sion",
		Lead:            "Le club valaisan s'impose",
		Body:            "Un match serré",
		PublicationDate: base.Add(-48 * time.Hour),
		Sections:        []string{"Sport", "Suisse"},
		Link:            "https://example.com/sion",
	}
	culture := &models.Article{
		Title:           "Festival de Locarno",
		PublicationDate: base.Add(-2 * time.Hour),
		Sections:        []string{"Culture"},
	}
	plain := &models.Article{
		Title:           "Sans rubrique",
		Body:            "texte",
		PublicationDate: base.Add(-240 * time.Hour),
	}

	t.Run("save assigns ids", func(t *testing.T) {
		for _, a := range []*models.Article{sport, culture, plain} {
			require.NoError(t, store.SaveArticle(ctx, a))
			require.NotZero(t, a.ID)
			require.False(t, a.CreatedAt.IsZero())
		}
	})

	t.Run("fetch all", func(t *testing.T) {
		articles, err := store.FetchAll(ctx)
		require.NoError(t, err)
		require.Len(t, articles, 3)
		require.Equal(t, []int64{sport.ID, culture.ID, plain.ID}, []int64{articles[0].ID, articles[1].ID, articles[2].ID})
	})

	t.Run("fetch by id", func(t *testing.T) {
		got, err := store.FetchByID(ctx, sport.ID)
		require.NoError(t, err)
		require.Equal(t, sport.Title, got.Title)
		require.Equal(t, sport.Lead, got.Lead)
		require.Equal(t, sport.Body, got.Body)
		require.Equal(t, sport.Sections, got.Sections)
		require.Equal(t, sport.Link, got.Link)
		require.True(t, sport.PublicationDate.Equal(got.PublicationDate))

		got, err = store.FetchByID(ctx, plain.ID)
		require.NoError(t, err)
		require.Empty(t, got.Sections)
		require.Empty(t, got.Lead)
	})

	t.Run("fetch missing id", func(t *testing.T) {
		_, err := store.FetchByID(ctx, 999999)
		require.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("upsert by link", func(t *testing.T) {
		updated := &models.Article{
			Title:           "Victoire du FC Sion (mis à jour)",
			PublicationDate: sport.PublicationDate,
			Sections:        []string{"Sport"},
			Link:            sport.Link,
		}
		require.NoError(t, store.SaveArticle(ctx, updated))
		require.Equal(t, sport.ID, updated.ID)

		articles, err := store.FetchAll(ctx)
		require.NoError(t, err)
		require.Len(t, articles, 3)

		got, err := store.FetchByID(ctx, sport.ID)
		require.NoError(t, err)
		require.Equal(t, updated.Title, got.Title)
		require.Equal(t, []string{"Sport"}, got.Sections)
	})

	t.Run("find by title", func(t *testing.T) {
		found, err := store.FindByTitle(ctx, "locarno")
		require.NoError(t, err)
		require.Len(t, found, 1)
		require.Equal(t, culture.ID, found[0].ID)
	})

	t.Run("find by section", func(t *testing.T) {
		found, err := store.FindBySection(ctx, "Culture")
		require.NoError(t, err)
		require.Len(t, found, 1)
		require.Equal(t, culture.ID, found[0].ID)
	})

	t.Run("find published after", func(t *testing.T) {
		found, err := store.FindPublishedAfter(ctx, base.Add(-72*time.Hour))
		require.NoError(t, err)
		require.Len(t, found, 2)
	})

	t.Run("find published between", func(t *testing.T) {
		found, err := store.FindPublishedBetween(ctx, base.Add(-300*time.Hour), base)
		require.NoError(t, err)
		require.Len(t, found, 3)
		require.Equal(t, culture.ID, found[0].ID)
		require.Equal(t, plain.ID, found[2].ID)
	})

	t.Run("find latest", func(t *testing.T) {
		found, err := store.FindLatest(ctx, 2)
		require.NoError(t, err)
		require.Len(t, found, 2)
		require.Equal(t, culture.ID, found[0].ID)
		require.Equal(t, sport.ID, found[1].ID)
	})

	t.Run("ping", func(t *testing.T) {
		require.NoError(t, store.Ping(ctx))
	})
}
