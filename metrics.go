package oauthaccess

import "github.com/prometheus/client_golang/prometheus"

const (
	protocolOAuth1 = "oauth1"
	protocolOAuth2 = "oauth2"

	outcomeOK            = "ok"
	outcomeNotAuthorized = "not_authorized"
	outcomeServiceFail   = "service_fail"
	outcomeError         = "error"
)

var (
	requestTokenSuccess = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "oauthaccess_request_token_success_total",
			Help: "Successful OAuth1 request-token fetches",
		},
	)
	requestTokenFailure = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "oauthaccess_request_token_failure_total",
			Help: "Failed OAuth1 request-token fetches",
		},
	)
	exchangeSuccess = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oauthaccess_exchange_success_total",
			Help: "Successful access-token exchanges",
		},
		[]string{"protocol"},
	)
	exchangeFailure = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oauthaccess_exchange_failure_total",
			Help: "Failed access-token exchanges",
		},
		[]string{"protocol"},
	)
	apiCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oauthaccess_api_calls_total",
			Help: "Authenticated API calls by outcome",
		},
		[]string{"protocol", "outcome"},
	)
)

// MetricsCollectors returns the library's collectors. Registration is the
// caller's business; nothing is registered by default.
func MetricsCollectors() []prometheus.Collector {
	return []prometheus.Collector{
		requestTokenSuccess,
		requestTokenFailure,
		exchangeSuccess,
		exchangeFailure,
		apiCalls,
	}
}
