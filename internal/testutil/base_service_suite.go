package testutil

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/subtally/subtally/internal/config"
	"github.com/subtally/subtally/internal/logger"
)

// Stores holds the repository fakes shared by service test suites
type Stores struct {
	SubscriptionRepo *InMemorySubscriptionStore
}

// BaseServiceTestSuite provides common functionality for service test
// suites: a default config, a nop logger, a mock clock and fresh in-memory
// stores per test.
type BaseServiceTestSuite struct {
	suite.Suite
	ctx    context.Context
	cfg    *config.Configuration
	log    *logger.Logger
	clock  *MockClock
	stores Stores
	rates  *StaticRateProvider
}

// SetupTest initializes fresh state before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.cfg = config.GetDefaultConfig()
	s.log = logger.NewNopLogger()
	s.clock = NewMockClock(time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC))
	s.stores = Stores{
		SubscriptionRepo: NewInMemorySubscriptionStore(),
	}
	s.rates = NewStaticRateProvider()
}

// TearDownTest cleans up after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.stores.SubscriptionRepo.Clear()
}

func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.cfg
}

func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.log
}

func (s *BaseServiceTestSuite) GetClock() *MockClock {
	return s.clock
}

func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

func (s *BaseServiceTestSuite) GetRates() *StaticRateProvider {
	return s.rates
}
