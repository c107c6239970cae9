package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "dxvk_manager"

const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultPartial = "partial"
)

var (
	Downloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "downloads_total",
		Help:      "Archive downloads by result.",
	}, []string{"result"})

	DownloadBytes = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "download_bytes_total",
		Help:      "Bytes written by archive downloads.",
	})

	Extractions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "extractions_total",
		Help:      "Archive extractions by strategy and result.",
	}, []string{"strategy", "result"})

	CatalogFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "catalog_fetches_total",
		Help:      "Release index fetches by channel and result.",
	}, []string{"channel", "result"})

	PatchOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "patch_operations_total",
		Help:      "Apply, restore and remove operations by result.",
	}, []string{"operation", "result"})
)

// Result maps an operation outcome to a label value.
func Result(ok bool) string {
	if ok {
		return ResultSuccess
	}
	return ResultFailure
}
