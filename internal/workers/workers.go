package workers

import (
	"context"

	"github.com/stfnfhrmnn/vocabsync/internal/logger"
	"github.com/stfnfhrmnn/vocabsync/internal/service"
)

// Workers aggregates the client's background workers behind a single
// start/stop lifecycle.
type Workers struct {
	workers []Worker

	logger *logger.Logger
}

// NewWorkers collects the background workers of the client application.
// Currently that is the periodic sync job.
func NewWorkers(services *service.ClientServices, logger *logger.Logger) *Workers {
	return &Workers{
		workers: []Worker{services.SyncJob},
		logger:  logger,
	}
}

func (w *Workers) Start(ctx context.Context) {
	for _, worker := range w.workers {
		worker.Start(ctx)
	}
	w.logger.Info().Int("count", len(w.workers)).Msg("background workers started")
}

// Stop stops workers in reverse start order.
func (w *Workers) Stop() {
	for i := len(w.workers) - 1; i >= 0; i-- {
		w.workers[i].Stop()
	}
	w.logger.Info().Msg("background workers stopped")
}
