package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "talknest_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// AuthFailures counts rejected session tokens by reason.
	AuthFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "talknest_auth_failures_total",
		Help: "Total number of failed session authentications by reason",
	}, []string{"reason"})

	// FriendTransitions counts friend graph state changes by operation.
	FriendTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "talknest_friend_transitions_total",
		Help: "Total number of friend graph transitions by operation",
	}, []string{"operation"})

	// ChatSyncFailures counts chat identity upserts that failed.
	ChatSyncFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "talknest_chat_sync_failures_total",
		Help: "Total number of failed chat identity upserts",
	})
)
