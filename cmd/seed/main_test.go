package main

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zapshift/internal/db"
	"zapshift/internal/model"
	"zapshift/internal/repository"
)

func TestSeedUsersPromotesOwner(t *testing.T) {
	gormDB, err := db.NewGorm("sqlite", "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, repository.AutoMigrate(gormDB))
	store := repository.NewGormStore(gormDB)
	ctx := context.Background()

	require.NoError(t, store.Users.Create(ctx, &model.User{Email: "owner@zap.example", Role: model.RoleUser}))

	seeded, updated, skipped, err := seedUsers(ctx, store.Users, "owner@zap.example", []SeedUser{
		{Email: "Owner@Zap.example", Role: "user"},
		{Email: "karim@zap.example", DisplayName: "Karim", Region: "Dhaka", District: "Gazipur", Role: "rider"},
		{Email: "", Role: "user"},
		{Email: "x@zap.example", Role: "superuser"},
	})

	require.NoError(t, err)
	assert.Equal(t, 1, seeded)
	assert.Equal(t, 1, updated)
	assert.Equal(t, 2, skipped)

	owner, err := store.Users.FindByEmail(ctx, "owner@zap.example")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, owner.Role)

	karim, err := store.Users.FindByEmail(ctx, "karim@zap.example")
	require.NoError(t, err)
	assert.Equal(t, model.RoleRider, karim.Role)
}
