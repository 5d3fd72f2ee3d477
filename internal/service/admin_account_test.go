package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateAdminValidatesAndHashes(t *testing.T) {
	svc, _ := setupAuthServiceTest(t)
	ctx := context.Background()

	_, err := svc.CreateAdmin(ctx, AdminCreateInput{Username: "a b", Password: "long-enough"})
	require.ErrorIs(t, err, ErrAdminUsernameInvalid)
	_, err = svc.CreateAdmin(ctx, AdminCreateInput{Username: "packer", Password: "short"})
	require.ErrorIs(t, err, ErrInvalidPassword)
	_, err = svc.CreateAdmin(ctx, AdminCreateInput{Username: "ops", Password: "long-enough"})
	require.ErrorIs(t, err, ErrAdminUsernameExists)

	created, err := svc.CreateAdmin(ctx, AdminCreateInput{Username: " packer ", Password: "packer-pass"})
	require.NoError(t, err)
	require.Equal(t, "packer", created.Username)
	require.False(t, created.IsSuper)
	require.NoError(t, svc.VerifyPassword(created.PasswordHash, "packer-pass"))

	root, err := svc.CreateAdmin(ctx, AdminCreateInput{Username: "Admin", Password: "root-password"})
	require.NoError(t, err)
	require.True(t, root.IsSuper, "default admin username is always super")
}

func TestUpdateAdminResetsPasswordAndBumpsVersion(t *testing.T) {
	svc, admin := setupAuthServiceTest(t)
	ctx := context.Background()

	_, err := svc.UpdateAdmin(ctx, admin.ID, AdminUpdateInput{Password: strPtr("tiny")})
	require.ErrorIs(t, err, ErrInvalidPassword)

	isSuper := true
	updated, err := svc.UpdateAdmin(ctx, admin.ID, AdminUpdateInput{Password: strPtr("brand-new-pass"), IsSuper: &isSuper})
	require.NoError(t, err)
	require.True(t, updated.IsSuper)
	require.Equal(t, admin.TokenVersion+1, updated.TokenVersion)
	require.NoError(t, svc.VerifyPassword(updated.PasswordHash, "brand-new-pass"))

	_, err = svc.UpdateAdmin(ctx, 9999, AdminUpdateInput{IsSuper: &isSuper})
	require.ErrorIs(t, err, ErrAdminNotFound)
}

func TestDeleteAdminGuards(t *testing.T) {
	svc, ops := setupAuthServiceTest(t)
	ctx := context.Background()

	_, err := svc.DeleteAdmin(ctx, 42, ops.ID)
	require.ErrorIs(t, err, ErrAdminDeleteForbidden, "last admin must survive")

	root, err := svc.CreateAdmin(ctx, AdminCreateInput{Username: "admin", Password: "root-password"})
	require.NoError(t, err)
	_, err = svc.DeleteAdmin(ctx, ops.ID, root.ID)
	require.ErrorIs(t, err, ErrAdminDeleteForbidden, "default admin is protected")
	_, err = svc.DeleteAdmin(ctx, ops.ID, ops.ID)
	require.ErrorIs(t, err, ErrAdminDeleteForbidden, "self delete is forbidden")

	deleted, err := svc.DeleteAdmin(ctx, root.ID, ops.ID)
	require.NoError(t, err)
	require.Equal(t, "ops", deleted.Username)
	_, err = svc.GetAdmin(ops.ID)
	require.ErrorIs(t, err, ErrAdminNotFound)
}

func strPtr(v string) *string { return &v }
