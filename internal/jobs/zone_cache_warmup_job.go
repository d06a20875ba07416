package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

const runTimeout = 30 * time.Second

// ZoneCacheWarmer reloads the active-zone snapshot into the cache.
type ZoneCacheWarmer interface {
	Warm(ctx context.Context) (int, error)
}

// ZoneCacheWarmupJob refreshes the cached active zones on a schedule, so
// coordinate lookups rarely fall through to the database.
type ZoneCacheWarmupJob struct {
	spec   string
	warmer ZoneCacheWarmer
	cron   *cron.Cron
	logger *slog.Logger
}

// NewZoneCacheWarmupJob creates the job. spec is a six-field cron expression
// with seconds, such as "0 */5 * * * *".
func NewZoneCacheWarmupJob(spec string, warmer ZoneCacheWarmer, logger *slog.Logger) *ZoneCacheWarmupJob {
	return &ZoneCacheWarmupJob{
		spec:   spec,
		warmer: warmer,
		cron:   cron.New(cron.WithSeconds()),
		logger: logger.With("component", "zone_cache_warmup_job"),
	}
}

func (j *ZoneCacheWarmupJob) Name() string {
	return "zone cache warmup"
}

func (j *ZoneCacheWarmupJob) Start() error {
	if _, err := j.cron.AddFunc(j.spec, j.run); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Zone cache warmup job started", "spec", j.spec)
	return nil
}

func (j *ZoneCacheWarmupJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Zone cache warmup job stopped")
}

func (j *ZoneCacheWarmupJob) run() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	count, err := j.warmer.Warm(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Zone cache warmup failed", "error", err)
		return
	}
	j.logger.DebugContext(ctx, "Zone cache warmed", "zones", count)
}
