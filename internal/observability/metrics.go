// Package observability provides domain metrics and tracing setup.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestTransitions counts lifecycle actions by action and outcome
	// (applied, rejected, lost_race).
	RequestTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skillswap_request_transitions_total",
		Help: "Service request lifecycle actions by outcome",
	}, []string{"action", "outcome"})

	// ReviewsCreated counts persisted reviews.
	ReviewsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "skillswap_reviews_created_total",
		Help: "Total number of reviews created",
	})

	// ChatFramesRelayed counts inbound chat frames that were fanned out.
	ChatFramesRelayed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "skillswap_chat_frames_relayed_total",
		Help: "Total number of chat frames broadcast to a room group",
	})

	// ChatFramesIgnored counts inbound chat frames that carried no message.
	ChatFramesIgnored = promauto.NewCounter(prometheus.CounterOpts{
		Name: "skillswap_chat_frames_ignored_total",
		Help: "Total number of chat frames dropped for lacking a message",
	})

	// ChatGroupMembers is the number of local connections per room group.
	ChatGroupMembers = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "skillswap_chat_group_members",
		Help: "Number of local websocket connections per chat group",
	}, []string{"group"})

	// WebSocketBackpressureDrops counts messages dropped due to backpressure by hub and reason.
	WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skillswap_websocket_backpressure_drops_total",
		Help: "Total number of WebSocket messages dropped due to backpressure",
	}, []string{"hub", "reason"})
)
