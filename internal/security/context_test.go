package security

import (
	"context"
	"sync"
	"testing"

	"project-service/internal/domain/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContext_Unbound(t *testing.T) {
	sc := FromContext(context.Background())
	assert.False(t, sc.Authenticated())

	_, ok := sc.Principal()
	assert.False(t, ok)
	assert.False(t, sc.HasRole(user.RoleUser, user.RoleAdmin))

	//nolint:staticcheck // nil context is tolerated
	assert.False(t, FromContext(nil).Authenticated())
}

func TestBind_RoundTrip(t *testing.T) {
	p := Principal{ID: 7, Identifier: "alice@example.com", DisplayName: "Alice", Role: user.RoleAdmin}

	ctx, err := Bind(context.Background(), p)
	require.NoError(t, err)

	got, ok := FromContext(ctx).Principal()
	require.True(t, ok)
	assert.Equal(t, p, got)
	assert.True(t, FromContext(ctx).HasRole(user.RoleAdmin))
	assert.False(t, FromContext(ctx).HasRole(user.RoleUser))
}

func TestBind_OnlyOnce(t *testing.T) {
	first := Principal{Identifier: "first@example.com", Role: user.RoleUser}
	second := Principal{Identifier: "second@example.com", Role: user.RoleAdmin}

	ctx, err := Bind(context.Background(), first)
	require.NoError(t, err)

	again, err := Bind(ctx, second)
	assert.ErrorIs(t, err, ErrAlreadyBound)

	got, _ := FromContext(again).Principal()
	assert.Equal(t, "first@example.com", got.Identifier)
}

func TestPrincipal_HasRole(t *testing.T) {
	p := Principal{Role: user.RoleUser}
	assert.True(t, p.HasRole(user.RoleUser, user.RoleAdmin))
	assert.False(t, p.HasRole(user.RoleAdmin))
	assert.False(t, p.HasRole())
	assert.False(t, p.IsAdmin())

	assert.False(t, Principal{}.HasRole(user.Role(0)))
}

func TestBind_ConcurrentIsolation(t *testing.T) {
	const n = 64
	base := context.Background()

	var wg sync.WaitGroup
	errs := make(chan string, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			ctx, err := Bind(base, Principal{ID: id})
			if err != nil {
				errs <- err.Error()
				return
			}
			got, ok := FromContext(ctx).Principal()
			if !ok || got.ID != id {
				errs <- "principal leaked between contexts"
			}
		}(int64(i))
	}
	wg.Wait()
	close(errs)

	for e := range errs {
		t.Error(e)
	}
	assert.False(t, FromContext(base).Authenticated())
}
