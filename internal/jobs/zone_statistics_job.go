package jobs

import (
	"context"
	"log/slog"

	"marketplace/internal/core/application/usecases/queries"

	"github.com/robfig/cron/v3"
)

// ZoneStatisticsReader is satisfied by queries.GetZoneStatisticsQueryHandler.
type ZoneStatisticsReader interface {
	Handle(ctx context.Context, query queries.GetZoneStatisticsQuery) (queries.ZoneStatisticsResponse, error)
}

// ZoneStatisticsJob periodically logs zone coverage and order volume per zone.
type ZoneStatisticsJob struct {
	spec   string
	reader ZoneStatisticsReader
	cron   *cron.Cron
	logger *slog.Logger
}

func NewZoneStatisticsJob(spec string, reader ZoneStatisticsReader, logger *slog.Logger) *ZoneStatisticsJob {
	return &ZoneStatisticsJob{
		spec:   spec,
		reader: reader,
		cron:   cron.New(cron.WithSeconds()),
		logger: logger.With("component", "zone_statistics_job"),
	}
}

func (j *ZoneStatisticsJob) Name() string {
	return "zone statistics"
}

func (j *ZoneStatisticsJob) Start() error {
	if _, err := j.cron.AddFunc(j.spec, j.run); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Zone statistics job started", "spec", j.spec)
	return nil
}

func (j *ZoneStatisticsJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Zone statistics job stopped")
}

func (j *ZoneStatisticsJob) run() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	stats, err := j.reader.Handle(ctx, queries.NewGetZoneStatisticsQuery())
	if err != nil {
		j.logger.ErrorContext(ctx, "Zone statistics job failed", "error", err)
		return
	}

	byStatus := make([]any, 0, 2*len(stats.ZonesByStatus))
	for status, count := range stats.ZonesByStatus {
		byStatus = append(byStatus, status.String(), count)
	}
	var orders int64
	for _, z := range stats.OrdersPerZone {
		orders += z.OrderCount
	}
	attrs := []any{"total_zones", stats.TotalZones, "orders", orders, slog.Group("zones_by_status", byStatus...)}
	if len(stats.OrdersPerZone) > 0 && stats.OrdersPerZone[0].OrderCount > 0 {
		busiest := stats.OrdersPerZone[0]
		attrs = append(attrs, "busiest_zone", busiest.Code, "busiest_zone_orders", busiest.OrderCount)
	}
	j.logger.InfoContext(ctx, "Zone statistics", attrs...)
}
