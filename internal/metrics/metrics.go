// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder はメトリクス収集のインターフェース。
// ハンドラー層から利用する。
type Recorder interface {
	RecordSignup()
	RecordLogin(result string)
	RecordTransaction()
}

// ログイン結果のラベル値。
const (
	LoginResultSuccess = "success"
	LoginResultFailure = "failure"
)

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	httpRequests    *prometheus.CounterVec
	httpDuration    prometheus.Histogram
	signups         prometheus.Counter
	logins          *prometheus.CounterVec
	transactions    prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kakeibo_http_requests_total",
			Help: "HTTPリクエストの合計数",
		}, []string{"method", "path", "status"}),
		httpDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "kakeibo_http_request_duration_seconds",
			Help:    "HTTPリクエスト処理時間（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		signups: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kakeibo_signups_total",
			Help: "成功したサインアップの合計数",
		}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kakeibo_logins_total",
			Help: "ログイン試行の結果別合計数",
		}, []string{"result"}),
		transactions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kakeibo_transactions_recorded_total",
			Help: "記録された取引の合計数",
		}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpDuration,
		c.signups,
		c.logins,
		c.transactions,
	)

	return c
}

// RecordSignup はサインアップ成功を記録する。
func (c *Collector) RecordSignup() {
	c.signups.Inc()
}

// RecordLogin はログイン試行の結果を記録する。
func (c *Collector) RecordLogin(result string) {
	c.logins.WithLabelValues(result).Inc()
}

// RecordTransaction は取引の記録を記録する。
func (c *Collector) RecordTransaction() {
	c.transactions.Inc()
}

// recordHTTPRequest はHTTPリクエストの完了を記録する。
func (c *Collector) recordHTTPRequest(method, path string, status int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	c.httpDuration.Observe(duration.Seconds())
}

// statusWriter はhttp.ResponseWriterをラップし、ステータスコードを捕捉する。
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (sw *statusWriter) WriteHeader(code int) {
	if sw.status == 0 {
		sw.status = code
	}
	sw.ResponseWriter.WriteHeader(code)
}

func (sw *statusWriter) Write(b []byte) (int, error) {
	if sw.status == 0 {
		sw.status = http.StatusOK
	}
	return sw.ResponseWriter.Write(b)
}

// Middleware は全HTTPリクエストの件数と処理時間を計測するミドルウェアを返す。
func (c *Collector) Middleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w}

			next.ServeHTTP(sw, r)

			if sw.status == 0 {
				sw.status = http.StatusOK
			}
			c.recordHTTPRequest(r.Method, r.URL.Path, sw.status, time.Since(start))
		})
	}
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
