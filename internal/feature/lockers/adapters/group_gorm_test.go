package adapters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"locker_backend/internal/feature/lockers/domain/entity"
	"locker_backend/internal/feature/lockers/usecase"
)

func TestGroupGorm_CreateAndList(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGroupRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &entity.LockerGroup{Name: "Kraków", Location: "50.06,19.94"}))
	require.NoError(t, repo.Create(ctx, &entity.LockerGroup{Name: "Tarnów", Location: "50.01,20.99"}))

	groups, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "Kraków", groups[0].Name)
	assert.Equal(t, "Tarnów", groups[1].Name)
}

func TestGroupGorm_Get(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGroupRepository(db)
	ctx := context.Background()

	g := &entity.LockerGroup{Name: "Warszawa", Location: "52.23,21.01"}
	require.NoError(t, repo.Create(ctx, g))

	got, err := repo.Get(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, "Warszawa", got.Name)

	_, err = repo.Get(ctx, 404)
	assert.ErrorIs(t, err, usecase.ErrGroupNotFound)
}

func TestGroupGorm_Exists(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGroupRepository(db)
	ctx := context.Background()

	g := &entity.LockerGroup{Name: "Kraków"}
	require.NoError(t, repo.Create(ctx, g))

	ok, err := repo.Exists(ctx, g.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Exists(ctx, 404)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGroupGorm_AddLockers(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGroupRepository(db)
	ctx := context.Background()

	g := &entity.LockerGroup{Name: "Kraków"}
	require.NoError(t, repo.Create(ctx, g))
	require.NoError(t, repo.AddLockers(ctx, g.ID, 3))

	var lockers []entity.Locker
	require.NoError(t, db.Where("group_id = ?", g.ID).Find(&lockers).Error)
	require.Len(t, lockers, 3)
	for _, l := range lockers {
		assert.Equal(t, entity.StatusFree, l.Status)
	}
}
