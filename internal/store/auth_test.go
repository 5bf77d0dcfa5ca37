package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyLoginMatchesNameAndPassword(t *testing.T) {
	client, _ := newTestClient(t)
	repo := NewAuthRepository(client, "AUTH")
	ctx := context.Background()

	cred, err := repo.VerifyLogin(ctx, "kim", "123456")
	require.NoError(t, err)
	assert.Equal(t, "kim", cred.Name)
	assert.Equal(t, 2, cred.Row)
	assert.Equal(t, "N", cred.PasswordChanged, "blank flag defaults to N")

	cred, err = repo.VerifyLogin(ctx, "kim", "999999")
	require.NoError(t, err)
	assert.Equal(t, 4, cred.Row)

	_, err = repo.VerifyLogin(ctx, "kim", "000000")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.VerifyLogin(ctx, "KIM", "123456")
	assert.ErrorIs(t, err, ErrNotFound, "names are case-sensitive")

	_, err = repo.VerifyLogin(ctx, "이름", "비밀번호")
	assert.ErrorIs(t, err, ErrNotFound, "header row is never a credential")
}

func TestFindByToken(t *testing.T) {
	client, _ := newTestClient(t)
	repo := NewAuthRepository(client, "AUTH")
	ctx := context.Background()

	cred, err := repo.FindByToken(ctx, "tok-lee")
	require.NoError(t, err)
	assert.Equal(t, "lee", cred.Name)
	assert.Equal(t, "Y", cred.PasswordChanged)
	assert.Equal(t, 3, cred.Row)

	_, err = repo.FindByToken(ctx, "")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.FindByToken(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSingleCellUpdates(t *testing.T) {
	client, mem := newTestClient(t)
	repo := NewAuthRepository(client, "AUTH")
	ctx := context.Background()

	at := time.Date(2025, 11, 17, 14, 19, 11, 794_000_000, time.UTC)
	require.NoError(t, repo.UpdateToken(ctx, 2, "tok-kim"))
	require.NoError(t, repo.UpdateLastLogin(ctx, 2, at))
	require.NoError(t, repo.UpdatePassword(ctx, 2, "111111"))
	require.NoError(t, repo.UpdatePasswordChanged(ctx, 2, "Y"))

	assert.Equal(t, []string{"kim", "111111", "tok-kim", "Y", "2025-11-17T14:19:11.794Z"}, mem.Rows("AUTH")[1])
	assert.Equal(t, []string{"lee", "654321", "tok-lee", "Y", "2025-11-17T01:02:03.000Z"}, mem.Rows("AUTH")[2])

	cred, err := repo.FindByToken(ctx, "tok-kim")
	require.NoError(t, err)
	assert.Equal(t, "111111", cred.Password)
}

func TestIssueToken(t *testing.T) {
	a, err := IssueToken()
	require.NoError(t, err)
	b, err := IssueToken()
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.Regexp(t, `^[0-9a-f]{64}$`, a)
	assert.NotEqual(t, a, b)
}
