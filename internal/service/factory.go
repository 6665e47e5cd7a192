package service

import (
	"github.com/subtally/subtally/internal/cache"
	"github.com/subtally/subtally/internal/config"
	"github.com/subtally/subtally/internal/domain/rates"
	"github.com/subtally/subtally/internal/domain/schedule"
	"github.com/subtally/subtally/internal/domain/subscription"
	"github.com/subtally/subtally/internal/logger"
	"github.com/subtally/subtally/internal/types"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	Clock  types.Clock

	// Repositories
	SubRepo subscription.Repository

	// Collaborators
	Generator     *schedule.Generator
	RateConverter rates.Converter
	ScheduleCache *cache.ScheduleCache
}

// NewServiceParams wires the common dependency set with sensible fallbacks
// so callers only inject what they care about.
func NewServiceParams(
	log *logger.Logger,
	cfg *config.Configuration,
	clock types.Clock,
	subRepo subscription.Repository,
	converter rates.Converter,
) ServiceParams {
	if log == nil {
		log = logger.NewNopLogger()
	}
	if cfg == nil {
		cfg = config.GetDefaultConfig()
	}
	if clock == nil {
		clock = types.RealClock()
	}
	if converter == nil {
		converter = rates.Identity()
	}

	generator := schedule.NewGeneratorWithCap(cfg.Schedule.MaxIterations)
	scheduleCache := cache.NewScheduleCache(generator, log, cfg.Cache.Enabled, cfg.Cache.HorizonYears)

	return ServiceParams{
		Logger:        log,
		Config:        cfg,
		Clock:         clock,
		SubRepo:       subRepo,
		Generator:     generator,
		RateConverter: converter,
		ScheduleCache: scheduleCache,
	}
}
