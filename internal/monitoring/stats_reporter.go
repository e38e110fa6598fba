package monitoring

import (
	"context"
	"fmt"
	"time"

	"github.com/isdelr/social-be/internal/models"
	"github.com/isdelr/social-be/internal/services"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// reportTimeout bounds a single stats run.
const reportTimeout = 30 * time.Second

// HostSampler reads host CPU and memory usage in percent.
type HostSampler func(ctx context.Context) (cpuPercent, memPercent float64, err error)

// StatsReporter periodically logs content counts and host load and
// broadcasts them as a stats event.
type StatsReporter struct {
	statsSvc services.StatsServiceProvider
	eventSvc services.EventServiceProvider
	sampler  HostSampler
	cron     *cron.Cron
	spec     string
}

// NewStatsReporter creates a reporter that runs on the given cron spec
// (standard five fields or descriptors such as "@every 5m").
func NewStatsReporter(statsSvc services.StatsServiceProvider, eventSvc services.EventServiceProvider, spec string) *StatsReporter {
	return &StatsReporter{
		statsSvc: statsSvc,
		eventSvc: eventSvc,
		sampler:  sampleHost,
		cron:     cron.New(),
		spec:     spec,
	}
}

// Start validates the schedule and starts the background runner.
func (r *StatsReporter) Start() error {
	if _, err := cron.ParseStandard(r.spec); err != nil {
		return fmt.Errorf("invalid stats schedule %q: %w", r.spec, err)
	}
	if _, err := r.cron.AddFunc(r.spec, func() { r.Report(context.Background()) }); err != nil {
		return err
	}

	log.Info().Str("schedule", r.spec).Msg("Starting background stats reporter...")
	r.cron.Start()
	return nil
}

// Stop halts the schedule and waits for a running report to finish.
func (r *StatsReporter) Stop() {
	<-r.cron.Stop().Done()
	log.Info().Msg("Stopped background stats reporter.")
}

// Report collects one snapshot, logs it and emits it as an event.
func (r *StatsReporter) Report(ctx context.Context) (models.Stats, error) {
	ctx, cancel := context.WithTimeout(ctx, reportTimeout)
	defer cancel()

	stats, err := r.statsSvc.Counts(ctx)
	if err != nil {
		log.Error().Err(err).Msg("StatsReporter: Failed to count content")
		return models.Stats{}, err
	}

	cpuPercent, memPercent, err := r.sampler(ctx)
	if err != nil {
		// Host load is informational; counts are still worth reporting.
		log.Warn().Err(err).Msg("StatsReporter: Failed to sample host load")
	}
	stats.CPUPercent = cpuPercent
	stats.MemoryPercent = memPercent

	log.Info().
		Int64("users", stats.Users).
		Int64("posts", stats.Posts).
		Int64("comments", stats.Comments).
		Int64("likes", stats.Likes).
		Float64("cpu_percent", stats.CPUPercent).
		Float64("memory_percent", stats.MemoryPercent).
		Msg("Content stats")

	r.eventSvc.Emit(ctx, models.EventStats, stats)
	return stats, nil
}

func sampleHost(ctx context.Context) (float64, float64, error) {
	cpuPercents, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return 0, 0, err
	}
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return 0, 0, err
	}

	var cpuPercent float64
	if len(cpuPercents) > 0 {
		cpuPercent = cpuPercents[0]
	}
	return cpuPercent, vm.UsedPercent, nil
}
