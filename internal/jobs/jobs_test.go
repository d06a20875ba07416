package jobs

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/zone"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockZoneCacheWarmer struct{ mock.Mock }

func (m *MockZoneCacheWarmer) Warm(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type MockZoneStatisticsReader struct{ mock.Mock }

func (m *MockZoneStatisticsReader) Handle(
	ctx context.Context,
	query queries.GetZoneStatisticsQuery,
) (queries.ZoneStatisticsResponse, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(queries.ZoneStatisticsResponse), args.Error(1)
}

func bufferLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestZoneCacheWarmupJob_Run(t *testing.T) {
	t.Run("logs the number of warmed zones", func(t *testing.T) {
		var buf bytes.Buffer
		warmer := new(MockZoneCacheWarmer)
		warmer.On("Warm", mock.Anything).Return(4, nil).Once()

		NewZoneCacheWarmupJob("0 */5 * * * *", warmer, bufferLogger(&buf)).run()

		warmer.AssertExpectations(t)
		assert.Contains(t, buf.String(), "zones=4")
		assert.Contains(t, buf.String(), "component=zone_cache_warmup_job")
	})

	t.Run("logs failures", func(t *testing.T) {
		var buf bytes.Buffer
		warmer := new(MockZoneCacheWarmer)
		warmer.On("Warm", mock.Anything).Return(0, errors.New("redis down")).Once()

		NewZoneCacheWarmupJob("0 */5 * * * *", warmer, bufferLogger(&buf)).run()

		assert.Contains(t, buf.String(), "level=ERROR")
		assert.Contains(t, buf.String(), "redis down")
	})
}

func TestZoneStatisticsJob_Run(t *testing.T) {
	var buf bytes.Buffer
	reader := new(MockZoneStatisticsReader)
	reader.On("Handle", mock.Anything, mock.Anything).Return(queries.ZoneStatisticsResponse{
		TotalZones:    2,
		ZonesByStatus: map[zone.Status]int64{zone.StatusActive: 1, zone.StatusInactive: 1},
		OrdersPerZone: []queries.ZoneOrderCount{
			{ZoneID: kernel.NewUUID(), Code: "NBO-WL", Name: "Westlands", OrderCount: 5},
			{ZoneID: kernel.NewUUID(), Code: "NBO-KL", Name: "Kilimani", OrderCount: 2},
		},
	}, nil).Once()

	NewZoneStatisticsJob("0 0 * * * *", reader, bufferLogger(&buf)).run()

	reader.AssertExpectations(t)
	out := buf.String()
	assert.Contains(t, out, "total_zones=2")
	assert.Contains(t, out, "orders=7")
	assert.Contains(t, out, "zones_by_status.ACTIVE=1")
	assert.Contains(t, out, "busiest_zone=NBO-WL")
}

func TestZoneStatisticsJob_RunLogsFailure(t *testing.T) {
	var buf bytes.Buffer
	reader := new(MockZoneStatisticsReader)
	reader.On("Handle", mock.Anything, mock.Anything).
		Return(queries.ZoneStatisticsResponse{}, errors.New("database is unavailable")).Once()

	NewZoneStatisticsJob("0 0 * * * *", reader, bufferLogger(&buf)).run()

	assert.Contains(t, buf.String(), "Zone statistics job failed")
}

func TestNewJobManager_SkipsDisabledJobs(t *testing.T) {
	logger := bufferLogger(&bytes.Buffer{})

	tests := []struct {
		name   string
		cfg    Config
		warmer ZoneCacheWarmer
		want   []string
	}{
		{
			name:   "both jobs",
			cfg:    Config{ZoneCacheWarmupSpec: "0 */5 * * * *", ZoneStatisticsSpec: "0 0 * * * *"},
			warmer: new(MockZoneCacheWarmer),
			want:   []string{"zone cache warmup", "zone statistics"},
		},
		{
			name: "no cache",
			cfg:  Config{ZoneCacheWarmupSpec: "0 */5 * * * *", ZoneStatisticsSpec: "0 0 * * * *"},
			want: []string{"zone statistics"},
		},
		{
			name:   "empty schedules",
			warmer: new(MockZoneCacheWarmer),
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jm := NewJobManager(tt.cfg, tt.warmer, new(MockZoneStatisticsReader), logger)

			var names []string
			for _, job := range jm.Jobs() {
				names = append(names, job.Name())
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestJobManager_StartAndStop(t *testing.T) {
	jm := NewJobManager(
		Config{ZoneCacheWarmupSpec: "0 0 0 1 1 *", ZoneStatisticsSpec: "0 0 0 1 1 *"},
		new(MockZoneCacheWarmer), new(MockZoneStatisticsReader), bufferLogger(&bytes.Buffer{}),
	)

	require.NoError(t, jm.StartAll())
	assert.Len(t, jm.started, 2)

	jm.StopAll()
	assert.Empty(t, jm.started)
}

func TestJobManager_StartAll_InvalidSpecStopsStartedJobs(t *testing.T) {
	var buf bytes.Buffer
	jm := NewJobManager(
		Config{ZoneCacheWarmupSpec: "0 0 0 1 1 *", ZoneStatisticsSpec: "every hour"},
		new(MockZoneCacheWarmer), new(MockZoneStatisticsReader), bufferLogger(&buf),
	)

	err := jm.StartAll()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "zone statistics")
	assert.Empty(t, jm.started)
	assert.Contains(t, buf.String(), "Zone cache warmup job stopped")
}
