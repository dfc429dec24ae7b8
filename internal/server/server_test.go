package server

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestRelease_ClosesRedis(t *testing.T) {
	nop := zerolog.Nop()
	s := &Server{
		Logger: &nop,
		Redis:  redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"}),
	}

	assert.Empty(t, s.release(context.Background()))
	assert.ErrorIs(t, s.Redis.Ping(context.Background()).Err(), redis.ErrClosed)
}

func TestShutdown_NothingToRelease(t *testing.T) {
	nop := zerolog.Nop()
	s := &Server{Logger: &nop}

	assert.NoError(t, s.Shutdown(context.Background()))
}
