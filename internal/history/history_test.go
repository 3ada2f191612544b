package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"HoldemServer/internal/game/engine"
	"HoldemServer/internal/game/table"
)

func record(session string, hand int) Record {
	return Record{
		SessionID: session,
		HandResult: engine.HandResult{
			HandNumber:  hand,
			Seat:        hand % 3,
			PlayerID:    fmt.Sprintf("p%d", hand%3),
			Name:        "Alice",
			Amount:      int64(hand * 10),
			Description: "Pair of Aces",
			Cards:       []table.Card{table.NewCard(table.Ace, table.Spades), table.NewCard(table.Ace, table.Hearts)},
			ByShowdown:  true,
		},
		At: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

// 通用行为：最新在前、按对局隔离、数量受限
func exerciseRepo(t *testing.T, repo Repo, keep int) {
	ctx := context.Background()
	s1, s2 := uuid.NewString(), uuid.NewString()

	for i := 1; i <= keep+3; i++ {
		require.NoError(t, repo.Append(ctx, record(s1, i)))
	}
	require.NoError(t, repo.Append(ctx, record(s2, 99)))

	got, err := repo.Recent(ctx, s1, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, keep+3, got[0].HandNumber, "newest first")
	assert.Equal(t, keep+2, got[1].HandNumber)
	assert.Equal(t, record(s1, keep+3), got[0])

	all, err := repo.Recent(ctx, s1, 0)
	require.NoError(t, err)
	assert.Len(t, all, keep, "older records are trimmed")

	other, err := repo.Recent(ctx, s2, 10)
	require.NoError(t, err)
	require.Len(t, other, 1)
	assert.Equal(t, 99, other[0].HandNumber)

	none, err := repo.Recent(ctx, "missing", 5)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func Test_MemoryRepo(t *testing.T) {
	exerciseRepo(t, NewMemoryRepo(5), 5)
}

func Test_RedisRepo(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	exerciseRepo(t, NewRedisRepo(rdb, 5, time.Hour), 5)

	// TTL 生效
	keys := mr.Keys()
	require.NotEmpty(t, keys)
	assert.Equal(t, time.Hour, mr.TTL(keys[0]))
}

func Test_RedisRepo_BadPayload(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	_, err := mr.Lpush(sessionKey("s"), "not json")
	require.NoError(t, err)

	_, err = NewRedisRepo(rdb, 5, 0).Recent(context.Background(), "s", 1)
	assert.Error(t, err)
}

// 需要真实数据库：HOLDEM_TEST_POSTGRES_DSN=postgres://... go test ./internal/history
func Test_PostgresRepo(t *testing.T) {
	dsn := os.Getenv("HOLDEM_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("HOLDEM_TEST_POSTGRES_DSN not set")
	}
	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	require.NoError(t, EnsureSchema(ctx, db))

	repo := NewPostgresRepo(db)
	s := uuid.NewString()
	for i := 1; i <= 3; i++ {
		require.NoError(t, repo.Append(ctx, record(s, i)))
	}
	got, err := repo.Recent(ctx, s, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 3, got[0].HandNumber)
	assert.Equal(t, record(s, 3).Cards, got[0].Cards)
	assert.True(t, got[0].At.Equal(record(s, 3).At))
}
