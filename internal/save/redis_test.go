package save_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/peterkuimelis/cardcrawl/internal/save"
	"github.com/peterkuimelis/cardcrawl/internal/save/mocks"
)

const testKey = "cardcrawl:test"

type RedisStoreTestSuite struct {
	suite.Suite
	mockClient *redis.Client
	mock       redismock.ClientMock
	mockCtrl   *gomock.Controller
	clock      *mocks.MockClock
	manager    *save.Manager
}

func (s *RedisStoreTestSuite) SetupTest() {
	s.mockClient, s.mock = redismock.NewClientMock()
	s.mockCtrl = gomock.NewController(s.T())
	s.clock = mocks.NewMockClock(s.mockCtrl)
	s.manager = save.NewManager(save.NewRedisStore(s.mockClient, testKey), s.clock)
}

func (s *RedisStoreTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
	s.NoError(s.mock.ExpectationsWereMet())
}

func TestRedisStoreTestSuite(t *testing.T) {
	suite.Run(t, new(RedisStoreTestSuite))
}

func (s *RedisStoreTestSuite) TestSave() {
	ctx := context.Background()
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	s.clock.EXPECT().Now().Return(now)

	p := save.NewProgress()
	p.PlayerID = "player-1"
	p.LastSaved = now
	expected, err := json.Marshal(p)
	s.Require().NoError(err)

	s.mock.ExpectSet(testKey, expected, 0).SetVal("OK")

	s.NoError(s.manager.Save(ctx, p))
}

func (s *RedisStoreTestSuite) TestSaveError() {
	ctx := context.Background()
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	s.clock.EXPECT().Now().Return(now)

	p := save.NewProgress()
	p.PlayerID = "player-1"
	p.LastSaved = now
	expected, err := json.Marshal(p)
	s.Require().NoError(err)

	s.mock.ExpectSet(testKey, expected, 0).SetErr(errors.New("connection refused"))

	err = s.manager.Save(ctx, p)
	s.Error(err)
	s.Contains(err.Error(), "connection refused")
}

func (s *RedisStoreTestSuite) TestLoad() {
	ctx := context.Background()
	p := save.NewProgress()
	p.PlayerID = "player-1"
	p.Player.Gold = 75
	data, err := json.Marshal(p)
	s.Require().NoError(err)

	s.mock.ExpectGet(testKey).SetVal(string(data))

	got, err := s.manager.Load(ctx)
	s.Require().NoError(err)
	s.Equal("player-1", got.PlayerID)
	s.Equal(75, got.Player.Gold)
}

func (s *RedisStoreTestSuite) TestLoadNotFound() {
	s.mock.ExpectGet(testKey).RedisNil()

	_, err := s.manager.Load(context.Background())
	s.ErrorIs(err, save.ErrNotFound)
}

func (s *RedisStoreTestSuite) TestLoadCorrupt() {
	s.mock.ExpectGet(testKey).SetVal(`{"player":`)

	_, err := s.manager.Load(context.Background())
	s.ErrorIs(err, save.ErrInvalidSave)
}

func (s *RedisStoreTestSuite) TestLoadMissingFields() {
	s.mock.ExpectGet(testKey).SetVal(`{"player":{"level":2},"ownedCards":[]}`)

	_, err := s.manager.Load(context.Background())
	s.ErrorIs(err, save.ErrInvalidSave)
}

func (s *RedisStoreTestSuite) TestDelete() {
	s.mock.ExpectDel(testKey).SetVal(1)

	s.NoError(s.manager.Delete(context.Background()))
}
