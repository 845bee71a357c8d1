package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
)

// Service names accepted by RegisterMetrics.
const (
	ServiceHTTP   = "http"
	ServiceBridge = "bridge"
)

// RegisterMetrics registers metrics for the specified services.
func RegisterMetrics(services []string, logger *logrus.Logger) {
	registerIfNotExists(collectors.NewGoCollector(), "go_collector", logger)
	registerIfNotExists(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}), "process_collector", logger)

	for _, service := range services {
		switch service {
		case ServiceHTTP:
			registerIfNotExists(httpRequestsTotal, "http_requests_total", logger)
			registerIfNotExists(httpRequestDuration, "http_request_duration", logger)
			registerIfNotExists(httpErrorsTotal, "http_errors_total", logger)
		case ServiceBridge:
			registerIfNotExists(bridgeAttemptsTotal, "bridge_attempts_total", logger)
			registerIfNotExists(bridgePartialFailuresTotal, "bridge_partial_failures_total", logger)
			registerIfNotExists(bridgeStepDuration, "bridge_step_duration", logger)
		default:
			logger.Warnf("unknown service type for metrics registration: %s", service)
		}
	}
}

func registerIfNotExists(collector prometheus.Collector, name string, logger *logrus.Logger) {
	if err := prometheus.Register(collector); err != nil {
		var alreadyRegErr prometheus.AlreadyRegisteredError
		if errors.As(err, &alreadyRegErr) {
			logger.Debugf("%s already registered", name)
		} else {
			logger.Errorf("failed to register %s: %v", name, err)
		}
	}
}
