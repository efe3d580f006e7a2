package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	appapi "github.com/farmart-ke/farmart-api/internal/app/api"
	paymentscachememory "github.com/farmart-ke/farmart-api/internal/domains/payments/adapters/cache/memory"
	paymentscacheredis "github.com/farmart-ke/farmart-api/internal/domains/payments/adapters/cache/redis"
	"github.com/farmart-ke/farmart-api/internal/domains/payments/adapters/mpesa"
	paymentsports "github.com/farmart-ke/farmart-api/internal/domains/payments/ports"
	paymentactivities "github.com/farmart-ke/farmart-api/internal/durable/temporal/activities/payments"
	paymentworkflows "github.com/farmart-ke/farmart-api/internal/durable/temporal/workflows/payments"
	platformobservability "github.com/farmart-ke/farmart-api/internal/platform/observability"
	platformredis "github.com/farmart-ke/farmart-api/internal/platform/redis"
)

func main() {
	ctx := context.Background()
	const serviceName = "farmart-worker"
	cfg, err := appapi.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	redisClient, cleanupRedis := platformredis.ConnectFromEnv(ctx, cfg.RedisAddr, logger)
	defer cleanupRedis()
	var tokenCache paymentsports.TokenCache = paymentscachememory.NewTokenCache()
	if redisClient != nil {
		tokenCache = paymentscacheredis.NewTokenCache(redisClient)
	}
	stkClient := mpesa.NewClient(cfg.Mpesa, tokenCache)
	activities := paymentactivities.NewActivities(stkClient)

	tracerOptions := temporalotel.TracerOptions{Tracer: instruments.Tracer("temporal-worker")}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		logger.Error("failed to configure Temporal tracing interceptor", slog.String("error", err.Error()))
		os.Exit(1)
	}
	clientOptions := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(logger),
	}
	clientOptions.Interceptors = append(clientOptions.Interceptors, tracingInterceptor)
	temporalClient, err := client.Dial(clientOptions)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, paymentworkflows.StkPushTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(paymentworkflows.StkPushWorkflow, workflow.RegisterOptions{Name: paymentworkflows.StkPushWorkflowName})
	w.RegisterActivityWithOptions(activities.PushStk, activity.RegisterOptions{Name: paymentactivities.PushStkActivityName})

	logger.Info("worker listening", slog.String("taskQueue", paymentworkflows.StkPushTaskQueue), slog.String("namespace", clientOptions.Namespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}
