//go:build integration

package store_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/Traveler1145141/TRWhitelist/internal/registration/store"
	"github.com/Traveler1145141/TRWhitelist/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *store.RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.store = store.NewRedis(s.redis.Client)
}

func (s *RedisStoreSuite) SetupTest() {
	err := s.redis.FlushAll(context.Background())
	s.Require().NoError(err)
}

func (s *RedisStoreSuite) TestInsertAndContains() {
	ctx := context.Background()

	ok, err := s.store.Contains(ctx, "alice@school.edu")
	s.Require().NoError(err)
	s.False(ok)

	err = s.store.Insert(ctx, "alice@school.edu")
	s.Require().NoError(err)

	ok, err = s.store.Contains(ctx, "alice@school.edu")
	s.Require().NoError(err)
	s.True(ok)
}

// TestContainsIsCaseInsensitive verifies addresses are normalized before
// hitting the set, so casing and surrounding whitespace never split an entry.
func (s *RedisStoreSuite) TestContainsIsCaseInsensitive() {
	ctx := context.Background()

	err := s.store.Insert(ctx, "Alice@School.EDU")
	s.Require().NoError(err)

	for _, addr := range []string{"alice@school.edu", "ALICE@SCHOOL.EDU", "  alice@school.edu  "} {
		ok, err := s.store.Contains(ctx, addr)
		s.Require().NoError(err)
		s.True(ok, "address %q should match the stored entry", addr)
	}

	// Only one set member despite the casing variants.
	n, err := s.redis.Client.SCard(ctx, "trwhitelist:registered").Result()
	s.Require().NoError(err)
	s.Equal(int64(1), n)
}

func (s *RedisStoreSuite) TestInsertIsIdempotent() {
	ctx := context.Background()

	s.Require().NoError(s.store.Insert(ctx, "bob@school.edu"))
	s.Require().NoError(s.store.Insert(ctx, "BOB@school.edu"))

	n, err := s.redis.Client.SCard(ctx, "trwhitelist:registered").Result()
	s.Require().NoError(err)
	s.Equal(int64(1), n)
}

func (s *RedisStoreSuite) TestClearEmptiesTheSet() {
	ctx := context.Background()

	s.Require().NoError(s.store.Insert(ctx, "alice@school.edu"))
	s.Require().NoError(s.store.Insert(ctx, "bob@school.edu"))

	err := s.store.Clear(ctx)
	s.Require().NoError(err)

	ok, err := s.store.Contains(ctx, "alice@school.edu")
	s.Require().NoError(err)
	s.False(ok)

	// Clear on an already-empty set is fine.
	s.Require().NoError(s.store.Clear(ctx))
}

// TestConcurrentInsertsSameAddress verifies SADD keeps the set consistent
// when many goroutines register the same address at once.
func (s *RedisStoreSuite) TestConcurrentInsertsSameAddress() {
	ctx := context.Background()

	const goroutines = 20
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.store.Insert(ctx, "carol@school.edu")
		}()
	}
	wg.Wait()

	n, err := s.redis.Client.SCard(ctx, "trwhitelist:registered").Result()
	s.Require().NoError(err)
	s.Equal(int64(1), n)
}

func (s *RedisStoreSuite) TestLoadAndPersistAreNoOps() {
	ctx := context.Background()

	s.Require().NoError(s.store.Insert(ctx, "dave@school.edu"))
	s.Require().NoError(s.store.Load(ctx))
	s.Require().NoError(s.store.Persist(ctx))

	ok, err := s.store.Contains(ctx, "dave@school.edu")
	s.Require().NoError(err)
	s.True(ok)
}
