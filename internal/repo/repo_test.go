package repo

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/noteet/internal/models"
	"github.com/Skotchmaster/noteet/pkg/db"
)

func newTestRepo(t *testing.T) *GormRepo {
	t.Helper()

	gdb, err := db.Open(context.Background(), db.DriverSQLite, ":memory:")
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	r := NewGormRepo(gdb)
	require.NoError(t, r.Migrate(context.Background()))
	return r
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r := newTestRepo(t)

	u := &models.User{Email: "ann@example.com", FirstName: "Ann", LastName: "Lee", Username: "ann", PasswordHash: "h"}
	require.NoError(t, r.CreateUser(ctx, u))
	assert.NotEqual(t, uuid.Nil, u.ID)

	dup := &models.User{Email: "ann@example.com", FirstName: "Other", LastName: "Person", Username: "o", PasswordHash: "h2"}
	err := r.CreateUser(ctx, dup)
	require.ErrorIs(t, err, ErrDuplicate)

	got, err := r.FindUserByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Ann", got.FirstName)
	assert.Equal(t, "h", got.PasswordHash)

	byID, err := r.FindUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, byID.Email)
}

func TestFindUser_NotFound(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r := newTestRepo(t)

	_, err := r.FindUserByEmail(ctx, "nobody@example.com")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = r.FindUserByID(ctx, uuid.New())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestConsumeRefreshToken_OnlyOnce(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r := newTestRepo(t)

	require.NoError(t, r.SaveTokenPair(ctx, "access-1", "refresh-1"))

	pair, err := r.FindTokenPair(ctx, "refresh-1")
	require.NoError(t, err)
	assert.Equal(t, "access-1", pair.AccessToken)

	ok, err := r.ConsumeRefreshToken(ctx, "refresh-1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.ConsumeRefreshToken(ctx, "refresh-1")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = r.FindTokenPair(ctx, "refresh-1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestConsumeRefreshToken_Concurrent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r := newTestRepo(t)

	require.NoError(t, r.SaveTokenPair(ctx, "access", "refresh"))

	const workers = 8
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := r.ConsumeRefreshToken(ctx, "refresh")
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
}

func TestNotes_OwnerScoped(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r := newTestRepo(t)

	alice, bob := uuid.New(), uuid.New()
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	older := &models.Note{Value: "groceries", Color: "red", Owner: alice, CreatedAt: base}
	newer := &models.Note{Value: "Gym at 7", Color: "blue", Owner: alice, CreatedAt: base.Add(time.Hour)}
	other := &models.Note{Value: "bob's note", Color: "green", Owner: bob, CreatedAt: base}
	for _, n := range []*models.Note{older, newer, other} {
		require.NoError(t, r.CreateNote(ctx, n))
	}

	list, err := r.ListNotes(ctx, alice)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)
	assert.Equal(t, older.ID, list[1].ID)

	_, err = r.FindNote(ctx, other.ID, alice)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = r.UpdateNote(ctx, other.ID, alice, "hijack", "black")
	require.ErrorIs(t, err, ErrNotFound)

	require.ErrorIs(t, r.DeleteNote(ctx, other.ID, alice), ErrNotFound)

	still, err := r.FindNote(ctx, other.ID, bob)
	require.NoError(t, err)
	assert.Equal(t, "bob's note", still.Value)

	updated, err := r.UpdateNote(ctx, older.ID, alice, "groceries: milk", "yellow")
	require.NoError(t, err)
	assert.Equal(t, "groceries: milk", updated.Value)
	assert.Equal(t, "yellow", updated.Color)

	require.NoError(t, r.DeleteNote(ctx, older.ID, alice))
	_, err = r.FindNote(ctx, older.ID, alice)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListNotes_Empty(t *testing.T) {
	t.Parallel()
	r := newTestRepo(t)

	list, err := r.ListNotes(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSearchNotes(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r := newTestRepo(t)

	owner := uuid.New()
	for _, v := range []string{"Buy MILK", "call mom", "100% done", "milkshake recipe"} {
		require.NoError(t, r.CreateNote(ctx, &models.Note{Value: v, Color: "white", Owner: owner}))
	}
	require.NoError(t, r.CreateNote(ctx, &models.Note{Value: "milk for bob", Color: "white", Owner: uuid.New()}))

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{name: "case insensitive", query: "milk", want: 2},
		{name: "percent is literal", query: "100%", want: 1},
		{name: "underscore is literal", query: "_", want: 0},
		{name: "no match", query: "zebra", want: 0},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.SearchNotes(ctx, owner, tt.query, 0)
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestRedisTokens(t *testing.T) {
	url := os.Getenv("NOTEET_TEST_REDIS_URL")
	if url == "" {
		t.Skip("NOTEET_TEST_REDIS_URL not set")
	}
	ctx := context.Background()

	store, err := NewRedisTokens(ctx, url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	refresh := "test-" + uuid.NewString()
	require.NoError(t, store.SaveTokenPair(ctx, "access", refresh))
	require.ErrorIs(t, store.SaveTokenPair(ctx, "access", refresh), ErrDuplicate)

	pair, err := store.FindTokenPair(ctx, refresh)
	require.NoError(t, err)
	assert.Equal(t, "access", pair.AccessToken)

	ok, err := store.ConsumeRefreshToken(ctx, refresh)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.ConsumeRefreshToken(ctx, refresh)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = store.FindTokenPair(ctx, refresh)
	require.ErrorIs(t, err, ErrNotFound)
}
