package account

import (
	"context"
	"testing"

	"project-service/internal/security"
	apperrors "project-service/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type changeFixture struct {
	store   *Store
	changer *PasswordChanger
	bob     security.Principal
}

func newChangeFixture(t *testing.T) changeFixture {
	t.Helper()

	repo := newTestRepo(t)
	hasher := newTestHasher(t)
	store := NewStore(repo, hasher)

	bob, err := store.RegisterPrincipal(context.Background(), RegisterInput{
		Identifier: "bob@example.com", Secret: "old1234", DisplayName: "Bob",
	})
	require.NoError(t, err)

	return changeFixture{
		store:   store,
		changer: NewPasswordChanger(repo, hasher, nil),
		bob:     bob,
	}
}

func (f changeFixture) assertSecret(t *testing.T, secret string, want bool) {
	t.Helper()
	ok, err := f.store.VerifySecret(context.Background(), f.bob.Identifier, secret)
	require.NoError(t, err)
	assert.Equal(t, want, ok, "secret %q", secret)
}

func TestChange_WrongCurrentSecret(t *testing.T) {
	f := newChangeFixture(t)

	err := f.changer.Change(context.Background(), ChangePasswordInput{
		PrincipalID: f.bob.ID, CurrentSecret: "wrong", NewSecret: "new123", ConfirmSecret: "new123",
	})
	assert.ErrorIs(t, err, ErrInvalidCredential)
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	f.assertSecret(t, "old1234", true)
	f.assertSecret(t, "new123", false)
}

func TestChange_ConfirmationMismatch(t *testing.T) {
	f := newChangeFixture(t)

	err := f.changer.Change(context.Background(), ChangePasswordInput{
		PrincipalID: f.bob.ID, CurrentSecret: "old1234", NewSecret: "new123", ConfirmSecret: "new124",
	})
	assert.ErrorIs(t, err, ErrConfirmationMismatch)

	f.assertSecret(t, "old1234", true)
}

func TestChange_CurrentSecretCheckedFirst(t *testing.T) {
	f := newChangeFixture(t)

	err := f.changer.Change(context.Background(), ChangePasswordInput{
		PrincipalID: f.bob.ID, CurrentSecret: "wrong", NewSecret: "new123", ConfirmSecret: "new124",
	})
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestChange_Success(t *testing.T) {
	f := newChangeFixture(t)

	err := f.changer.Change(context.Background(), ChangePasswordInput{
		PrincipalID: f.bob.ID, CurrentSecret: "old1234", NewSecret: "new123", ConfirmSecret: "new123",
	})
	require.NoError(t, err)

	f.assertSecret(t, "new123", true)
	f.assertSecret(t, "old1234", false)
}

func TestChange_NewSecretTooShort(t *testing.T) {
	f := newChangeFixture(t)

	err := f.changer.Change(context.Background(), ChangePasswordInput{
		PrincipalID: f.bob.ID, CurrentSecret: "old1234", NewSecret: "abc", ConfirmSecret: "abc",
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	f.assertSecret(t, "old1234", true)
}

func TestChange_UnknownPrincipal(t *testing.T) {
	f := newChangeFixture(t)

	err := f.changer.Change(context.Background(), ChangePasswordInput{
		PrincipalID: 9999, CurrentSecret: "old1234", NewSecret: "new123", ConfirmSecret: "new123",
	})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
