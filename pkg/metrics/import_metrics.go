package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ImportPreviewsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "crewdir_import_previews_total",
		Help: "Validation previews served by the bulk import pipeline.",
	})

	ImportRowsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crewdir_import_rows_total",
		Help: "Committed bulk import rows by terminal status.",
	}, []string{"status"})

	ImportBatchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "crewdir_import_batches_total",
		Help: "Bulk import commit batches processed.",
	})

	DecodeFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "crewdir_import_decode_failures_total",
		Help: "Uploads whose container failed to decode entirely.",
	})
)
