// Package jobs holds the scheduled job implementations.
package jobs

import (
	"context"

	"github.com/ozanyurt/bifx/internal/pipeline"
	"github.com/ozanyurt/bifx/pkg/logger"
)

// DailyPipelineJob runs the full index pipeline after the Istanbul
// close, weekdays at 18:30.
type DailyPipelineJob struct {
	pipeline *pipeline.Pipeline
	log      *logger.Logger
}

func NewDailyPipelineJob(p *pipeline.Pipeline, log *logger.Logger) *DailyPipelineJob {
	return &DailyPipelineJob{pipeline: p, log: log}
}

func (j *DailyPipelineJob) Name() string { return "daily_pipeline" }

func (j *DailyPipelineJob) Schedule() string { return "0 30 18 * * 1-5" }

func (j *DailyPipelineJob) Run(ctx context.Context) error {
	result, err := j.pipeline.Run(ctx)
	if err != nil {
		return err
	}

	if latest, ok := result.Index.Latest(); ok {
		j.log.WithFields(map[string]interface{}{
			"date":  latest.Date.Format("2006-01-02"),
			"value": latest.Value,
		}).Info("Daily fear index updated")
	}
	return nil
}
