package server

import (
	"bytes"
	"context"
	"encoding/json"
	stdlog "log"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/fasthttp/router"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/royalcat/islandsupport/batch"
	"github.com/royalcat/islandsupport/sampler"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const MaxBodySize = 32 * 1000 * 1000 // 32MB

var meter = otel.Meter("github.com/royalcat/islandsupport/server")

// Run serves POST /sample and GET /metrics until ctx is done. The prometheus
// handler only reports otel metrics when a prometheus reader is installed.
func Run(ctx context.Context, address string, s *sampler.Sampler) error {
	log := slog.Default()

	srv, err := newServer(s)
	if err != nil {
		return err
	}

	server := &fasthttp.Server{
		ReadTimeout:        time.Second,
		MaxRequestBodySize: MaxBodySize,
		Handler:            srv.router().Handler,
	}

	go func() {
		log.Info("Server listening", "address", address)
		if err := server.ListenAndServe(address); err != http.ErrServerClosed {
			stdlog.Fatalf("ListenAndServe(): %v", err)
		}
	}()
	slog.Info("Server started")

	// wait cancel
	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	return server.ShutdownWithContext(shutdownCtx)
}

type server struct {
	runner batch.Runner

	metricHttpSampleCallCount metric.Int64Counter
}

func newServer(s *sampler.Sampler) (*server, error) {
	metricHttpSampleCallCount, err := meter.Int64Counter("http_sample_call_total")
	if err != nil {
		return nil, err
	}
	return &server{
		runner:                    batch.Runner{Sampler: s, Threads: 1},
		metricHttpSampleCallCount: metricHttpSampleCallCount,
	}, nil
}

func (s *server) router() *router.Router {
	r := router.New()
	r.POST("/sample", s.SampleHandler)
	r.Handle(http.MethodGet, "/metrics", fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler()))
	return r
}

var bufPool = sync.Pool{
	New: func() any {
		return &bytes.Buffer{}
	},
}

func (s *server) SampleHandler(ctx *fasthttp.RequestCtx) {
	s.metricHttpSampleCallCount.Add(ctx, 1)

	dec := json.NewDecoder(bytes.NewReader(ctx.Request.Body()))
	dec.DisallowUnknownFields()

	var req batch.IslandInput
	if err := dec.Decode(&req); err != nil {
		ctx.Response.SetStatusCode(http.StatusBadRequest)
		ctx.Response.SetBodyString("failed to parse request: " + err.Error())
		return
	}

	island, err := req.Build()
	if err != nil {
		ctx.Response.SetStatusCode(http.StatusBadRequest)
		ctx.Response.SetBodyString(err.Error())
		return
	}

	results, err := s.runner.Run(ctx, []sampler.Island{island})
	if err != nil {
		ctx.Response.SetStatusCode(http.StatusInternalServerError)
		return
	}

	buf := bufPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer bufPool.Put(buf)

	if err := batch.WriteGeoJSON(buf, results); err != nil {
		ctx.Response.SetStatusCode(http.StatusInternalServerError)
		ctx.Response.SetBodyString("failed to marshal response")
		return
	}

	ctx.Response.SetStatusCode(http.StatusOK)
	ctx.Response.Header.SetContentType("application/geo+json")
	ctx.Response.SetBody(buf.Bytes())
}
