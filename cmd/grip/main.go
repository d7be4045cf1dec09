package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/GlintPay/grip/api"
	"github.com/GlintPay/grip/config"
	"github.com/GlintPay/grip/health"
	"github.com/GlintPay/grip/insights"
	"github.com/GlintPay/grip/logging"
	"github.com/GlintPay/grip/store"
	"github.com/GlintPay/grip/utils"
	"github.com/caarlos0/env/v6"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.10.0"
	"golang.org/x/sync/errgroup"
	"sigs.k8s.io/yaml"
)

const serviceName = "grip"

var envConfig = config.Configuration{}

func main() {
	logging.Setup(os.Stdout)

	if err := env.Parse(&envConfig); err != nil {
		log.Fatal().Msgf("Configuration loading failed: %+v", err)
	}
	logging.SetLevel(envConfig.LogLevel)

	appConfig := config.ApplicationConfiguration{}
	readConfig(envConfig.ApplicationConfigFileYmlPath, &appConfig)
	appConfig.ApplyEnvironment(envConfig)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	////////////////////////////////////////////

	db, err := store.Open(appConfig.Database.Dir, appConfig.Database.FileName)
	if err != nil {
		log.Fatal().Stack().Err(err).Msg("Database open failed")
	}
	defer func() { _ = db.Close() }()

	if err := db.Init(ctx); err != nil {
		log.Fatal().Stack().Err(err).Msg("Database init failed")
	}

	////////////////////////////////////////////

	traceShutdown, e := setupTracing(ctx, appConfig)
	if e != nil {
		log.Fatal().Stack().Err(e).Msg("Trace setup failed")
	}
	defer traceShutdown()

	router := setupRouter(appConfig, db, setupCoach(appConfig, db))
	setupHealthCheck(router, db)

	////////////////////////////////////////////

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		addr := net.JoinHostPort(appConfig.Server.Host, strconv.Itoa(appConfig.Server.Port))
		log.Info().Msgf("Listening on %s", addr)
		if err := http.ListenAndServe(addr, router); err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	err = g.Wait()
	if err != nil {
		log.Fatal().Stack().Err(err).Msg("startup failed")
	}
}

func readConfig(filePath string, config *config.ApplicationConfiguration) {
	yamlFile, err := os.ReadFile(filePath)
	if err == nil {
		log.Debug().Msgf("Loading YAML config from %s", utils.FriendlyFileName(filePath))
		err = yaml.Unmarshal(yamlFile, config)
		if err != nil {
			log.Fatal().Stack().Err(err).Msg("Unmarshal")
		}
	} else {
		log.Printf("No config file found: %s", utils.FriendlyFileName(filePath))
	}
}

// setupCoach returns nil without an API key, the insights endpoint then answers 503
func setupCoach(config config.ApplicationConfiguration, db *store.Store) api.Coach {
	if envConfig.AnthropicApiKey == "" {
		log.Warn().Msg("ANTHROPIC_API_KEY is not set, insights are disabled")
		return nil
	}

	return &insights.Coach{
		Asker:       insights.NewClaudeAsker(envConfig.AnthropicApiKey, config.Insights),
		Source:      db,
		Days:        config.Insights.ContextDays,
		EnableTrace: config.Tracing.Enabled,
	}
}

var emptyShutdown = func() {}

func setupTracing(ctx context.Context, config config.ApplicationConfiguration) (func(), error) {
	if !config.Tracing.Enabled {
		return emptyShutdown, nil
	}

	if config.Tracing.Endpoint == "" {
		return emptyShutdown, fmt.Errorf("missing tracing endpoint")
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(serviceName),
		),
	)
	if err != nil {
		log.Fatal().Stack().Err(err).Msg("failed to create resource")
	}

	traceExporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithInsecure(),
		otlptracehttp.WithEndpoint(config.Tracing.Endpoint),
	)
	if err != nil {
		return emptyShutdown, fmt.Errorf("failed to create trace exporter %v", err)
	}

	bsp := sdktrace.NewBatchSpanProcessor(traceExporter)

	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(config.Tracing.SamplerFraction)),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(bsp),
	)
	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	log.Info().Msgf("OpenTelemetry export is enabled, to: %s", config.Tracing.Endpoint)

	return func() {
		if err = tracerProvider.Shutdown(ctx); err != nil {
			log.Fatal().Stack().Err(err).Msg("failed to shutdown TracerProvider")
		}
	}, nil
}

func setupRouter(config config.ApplicationConfiguration, db *store.Store, coach api.Coach) *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.StripSlashes)
	router.Use(middleware.Recoverer)
	router.Use(requestLogger)

	routing := api.Routing{
		ServerName:   serviceName,
		ParentRouter: router,

		AppConfig: config,
		Store:     db,
		Coach:     coach,
	}

	router.Route("/", func(r chi.Router) {
		if e := routing.SetupFunctionalRoutes(r); e != nil {
			log.Fatal().Stack().Err(e).Msg("route setup failed")
		}
	})

	if len(config.Prometheus.Path) > 0 {
		log.Info().Msgf("Registering metrics endpoint at: %s", config.Prometheus.Path)
		router.Handle(config.Prometheus.Path, promhttp.Handler())
	}

	return router
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("elapsed", time.Since(start)).
			Msg("Request")
	})
}

func setupHealthCheck(router *chi.Mux, db *store.Store) {
	healthChk := health.New(health.WithChiMux(router), health.WithDatabase(db.DB()))
	healthChk.StartListening()
}
