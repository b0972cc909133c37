package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/venuebot/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSessionStoreContract runs a suite of tests to verify that a SessionStore
// implementation adheres to the defined interface contract.
func RunSessionStoreContract(t *testing.T, store SessionStore) {
	ctx := context.Background()
	userID := "contract-test-user-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		session := domain.NewSession(userID)
		session.State = domain.StateSelectingCity
		session.Offered = []domain.City{{ID: "4", Name: "Новосибирск"}, {ID: "5", Name: "Новоалтайск"}}
		session.PromptID = "prompt-1"

		err := store.Save(ctx, userID, session)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, userID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, userID, loaded.UserID)
		assert.Equal(t, domain.StateSelectingCity, loaded.State)
		assert.Equal(t, session.Offered, loaded.Offered)
		assert.Equal(t, "prompt-1", loaded.PromptID)
	})

	t.Run("Load Is Isolated", func(t *testing.T) {
		session := domain.NewSession(userID)
		session.State = domain.StateAwaitingCategory
		session.CityID = "1"
		session.CityName = "Москва"
		require.NoError(t, store.Save(ctx, userID, session))

		// Mutating the caller's copy must not leak into the store.
		session.CityName = "changed"

		loaded, err := store.Load(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, "Москва", loaded.CityName)
		assert.Equal(t, domain.CityID("1"), loaded.CityID)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+userID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, userID, domain.NewSession(userID))
		require.NoError(t, err)

		err = store.Delete(ctx, userID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, userID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := userID + "-1"
		id2 := userID + "-2"
		_ = store.Save(ctx, id1, domain.NewSession(id1))
		_ = store.Save(ctx, id2, domain.NewSession(id2))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		users, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, users, id1)
		assert.Contains(t, users, id2)
	})
}
