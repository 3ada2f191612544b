package storage

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitRedis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	require.NoError(t, InitRedis(mr.Addr(), "", 0))
	require.NotNil(t, Rdb)
	require.NoError(t, Rdb.Set(Ctx, "k", "v", 0).Err())
	got, err := mr.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)

	Close()
	assert.Nil(t, Rdb)
}

func TestInitRedisUnreachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	assert.Error(t, InitRedis(addr, "", 0))
	assert.Nil(t, Rdb)
}

func TestInitPostgresBadDSN(t *testing.T) {
	assert.Error(t, InitPostgres("postgres://nobody@127.0.0.1:1/none?sslmode=disable&connect_timeout=1"))
	assert.Nil(t, DB)
}
