package app

import (
	"context"
	"time"

	"songcraft/internal/song"
	"songcraft/internal/songwriter"
	"songcraft/internal/storage"
	"songcraft/internal/usage"
	"songcraft/pkg/config"
)

type Service struct {
	cfg        *config.Config
	songwriter *songwriter.Client
	store      storage.Store
	usage      *usage.Tracker
	close      func() error
	now        func() time.Time
}

type ServiceOptions struct {
	Config     *config.Config
	Songwriter *songwriter.Client
	Store      storage.Store
	Usage      *usage.Tracker
	Close      func() error
}

func NewService(opts ServiceOptions) *Service {
	return &Service{
		cfg:        opts.Config,
		songwriter: opts.Songwriter,
		store:      opts.Store,
		usage:      opts.Usage,
		close:      opts.Close,
		now:        time.Now,
	}
}

func (s *Service) Config() *config.Config {
	return s.cfg
}

func (s *Service) Songwriter() *songwriter.Client {
	return s.songwriter
}

func (s *Service) Store() storage.Store {
	return s.store
}

func (s *Service) GenerateSong(ctx context.Context, params song.Parameters) (*song.Result, error) {
	return s.songwriter.GenerateSong(ctx, params)
}

func (s *Service) SuggestTopic(ctx context.Context) (string, error) {
	return s.songwriter.GenerateRandomTopic(ctx)
}

// Save writes the song to the configured store and returns where it went.
func (s *Service) Save(ctx context.Context, result *song.Result) ([]string, error) {
	return storage.SaveSong(ctx, s.store, result, s.now())
}

func (s *Service) History(ctx context.Context) ([]string, error) {
	return s.store.List(ctx)
}

// UsageToday returns today's request count and the daily limit (0 means
// unlimited).
func (s *Service) UsageToday() (int, int) {
	limit := 0
	if s.cfg != nil {
		limit = s.cfg.Usage.DailyLimit
	}
	return s.usage.Count(s.now()), limit
}

func (s *Service) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}
