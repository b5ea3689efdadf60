package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	PostsCreated    prometheus.Counter
	PostsEdited     prometheus.Counter
	CommentsAdded   prometheus.Counter
	FollowRequests  *prometheus.CounterVec
	Unfollows       prometheus.Counter
	CacheLookups    *prometheus.CounterVec
	ProcessingTasks *prometheus.CounterVec
}

// New registers all collectors with reg, pass a fresh registry in tests
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "postboard_http_requests_total",
				Help: "Total number of HTTP requests by route and status code",
			},
			[]string{"route", "code"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "postboard_http_request_duration_seconds",
				Help:    "HTTP request latency by route",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		PostsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "postboard_posts_created_total",
			Help: "Total number of created posts",
		}),
		PostsEdited: factory.NewCounter(prometheus.CounterOpts{
			Name: "postboard_posts_edited_total",
			Help: "Total number of edited posts",
		}),
		CommentsAdded: factory.NewCounter(prometheus.CounterOpts{
			Name: "postboard_comments_added_total",
			Help: "Total number of added comments",
		}),
		FollowRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "postboard_follow_requests_total",
				Help: "Follow requests by result (created, exists, self)",
			},
			[]string{"result"},
		),
		Unfollows: factory.NewCounter(prometheus.CounterOpts{
			Name: "postboard_unfollows_total",
			Help: "Total number of removed follow edges",
		}),
		CacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "postboard_page_cache_lookups_total",
				Help: "Index page cache lookups by result (hit, miss)",
			},
			[]string{"result"},
		),
		ProcessingTasks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "postboard_processing_tasks_total",
				Help: "Background image tasks by task name and status",
			},
			[]string{"task", "status"},
		),
	}
}

// Middleware counts requests per matched route, unmatched paths are grouped together
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.Requests.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
		m.RequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}
