// Package metrics defines the custom Prometheus metrics of the user service.
// Metrics register with the default registry on import, so the /metrics
// route exposes them together with the echoprometheus request metrics.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/theatharvamuley10/backendPro/internal/core/domain"
)

const namespace = "backendpro"

// Operation labels.
const (
	OpRegister       = "register"
	OpLogin          = "login"
	OpLogout         = "logout"
	OpRefresh        = "refresh"
	OpChangePassword = "change_password"
	OpUpdateAccount  = "update_account"
)

// AuthOperationsTotal counts session operations by outcome.
// Labels:
//   - operation: one of the Op* constants
//   - result: "success" or the domain error kind (e.g. "invalid_credentials")
var AuthOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_operations_total",
		Help:      "Total number of account and session operations, by operation and result.",
	},
	[]string{"operation", "result"},
)

// UploadBytes measures the size of files accepted on register.
// Label:
//   - field: "avatar" or "coverImage"
var UploadBytes = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upload_size_bytes",
		Help:      "Size of uploaded images received by the register endpoint.",
		Buckets:   prometheus.ExponentialBuckets(16<<10, 4, 6), // 16KiB .. 16MiB
	},
	[]string{"field"},
)

// ObserveAuth records the outcome of operation.
func ObserveAuth(operation string, err error) {
	AuthOperationsTotal.WithLabelValues(operation, Result(err)).Inc()
}

// Result maps err to a bounded label value.
func Result(err error) string {
	if err == nil {
		return "success"
	}
	var de *domain.Error
	if errors.As(err, &de) {
		return string(de.Kind)
	}
	return string(domain.KindInternal)
}
