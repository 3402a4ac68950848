package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/agamariel/shopmart/internal/models"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

// Значения метки result.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// ShopMetrics содержит метрики заказов и HTTP-запросов.
type ShopMetrics struct {
	transitions     *prometheus.CounterVec
	reviews         *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewShopMetrics регистрирует метрики в registerer (nil - DefaultRegisterer).
func NewShopMetrics(registerer prometheus.Registerer) *ShopMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &ShopMetrics{
		transitions: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "shopmart_order_transitions_total",
			Help: "Order status transition attempts by source status, target status and result",
		}, []string{"from", "to", "result"}),
		reviews: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "shopmart_order_reviews_total",
			Help: "Order review attempts by result",
		}, []string{"result"}),
		requestDuration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "shopmart_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "code"}),
	}
}

// RecordTransition учитывает попытку смены статуса.
// Для отклонённых попыток result - код причины отказа.
func (m *ShopMetrics) RecordTransition(from, to models.OrderStatus, result string) {
	m.transitions.WithLabelValues(string(from), string(to), result).Inc()
}

// RecordReview учитывает попытку оставить отзыв.
func (m *ShopMetrics) RecordReview(result string) {
	m.reviews.WithLabelValues(result).Inc()
}

// Middleware замеряет длительность запросов. route - шаблон маршрута echo,
// а не сырой путь, чтобы ID в URL не раздували кардинальность.
func (m *ShopMetrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			code := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					code = he.Code
				} else if !c.Response().Committed {
					code = 500
				}
			}

			route := c.Path()
			if route == "" {
				route = "unknown"
			}

			m.requestDuration.
				WithLabelValues(c.Request().Method, route, strconv.Itoa(code)).
				Observe(time.Since(start).Seconds())
			return err
		}
	}
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogramVec(registerer prometheus.Registerer, opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	collector := prometheus.NewHistogramVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.HistogramVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram vec %q: %v", opts.Name, err))
	}
	return collector
}
