package metrics

import (
	"strconv"
	"strings"
	"time"
)

// RecordExternalAPICall records external API call metrics.
// endpoint should already be a template such as "/rooms/{id}/tokens".
func (m *Metrics) RecordExternalAPICall(endpoint, method string, statusCode int, duration time.Duration, err error) {
	m.safeExecute("RecordExternalAPICall", func() {
		status := strconv.Itoa(statusCode)

		m.ExternalAPIRequestsTotal.WithLabelValues(endpoint, method, status).Inc()
		m.ExternalAPIRequestDuration.WithLabelValues(endpoint, status).Observe(duration.Seconds())

		if err != nil || statusCode >= 400 {
			errorType := getErrorType(statusCode, err)
			m.ExternalAPIErrors.WithLabelValues(endpoint, errorType).Inc()
		}
	})
}

// getErrorType categorizes error types based on status code and error
func getErrorType(statusCode int, err error) string {
	switch {
	case statusCode == 400:
		return "bad_request"
	case statusCode == 401:
		return "unauthorized"
	case statusCode == 403:
		return "forbidden"
	case statusCode == 404:
		return "not_found"
	case statusCode == 429:
		return "too_many_requests"
	case statusCode >= 400 && statusCode < 500:
		return "client_error"
	case statusCode == 502:
		return "bad_gateway"
	case statusCode == 503:
		return "service_unavailable"
	case statusCode == 504:
		return "gateway_timeout"
	case statusCode >= 500 && statusCode < 600:
		return "server_error"
	}

	if err != nil {
		errMsg := err.Error()

		switch {
		case strings.Contains(errMsg, "connection refused"):
			return "connection_refused"
		case strings.Contains(errMsg, "no such host"):
			return "dns_error"
		case strings.Contains(errMsg, "timeout"), strings.Contains(errMsg, "deadline exceeded"):
			return "timeout"
		case strings.Contains(errMsg, "EOF"), strings.Contains(errMsg, "connection reset"):
			return "connection_reset"
		case strings.Contains(errMsg, "TLS"), strings.Contains(errMsg, "certificate"):
			return "tls_error"
		}
		return "network_error"
	}

	return "unknown"
}
