package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/vigil/internal/adapters/analyzer"
	"github.com/okian/vigil/internal/adapters/http/api"
	"github.com/okian/vigil/internal/adapters/notify"
	"github.com/okian/vigil/internal/adapters/source"
	app "github.com/okian/vigil/internal/app"
	"github.com/okian/vigil/internal/config"
	"github.com/okian/vigil/internal/domain/alert"
	"github.com/okian/vigil/internal/domain/facial"
	"github.com/okian/vigil/internal/domain/movement"
	"github.com/okian/vigil/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	// Initialize logging
	if err := logger.Init(); err != nil {
		// Use stderr for initialization errors since logger isn't available yet
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}

	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env). Invalid
	// threshold/cooldown/window values refuse to start.
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	notifier, err := buildNotifier(cfg)
	if err != nil {
		os.Stderr.WriteString("failed to build notifier: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Raw grayscale frames arrive on stdin, e.g. from an ffmpeg rawvideo
	// pipe; capture itself stays outside this process.
	frames := source.NewReaderSource(os.Stdin, cfg.FrameWidth, cfg.FrameHeight,
		source.WithFrameRate(cfg.FrameRate),
	)

	var faceAnalyzer facial.FaceAnalyzer
	if cfg.AnalyzerURL != "" {
		faceAnalyzer = analyzer.NewHTTPAnalyzer(cfg.AnalyzerURL,
			analyzer.WithTimeout(time.Duration(cfg.AnalyzerTimeoutMS)*time.Millisecond),
		)
	}

	svc := app.New(
		app.WithLogger(log),
		app.WithSource(frames),
		app.WithAnalyzer(faceAnalyzer),
		app.WithNotifier(notifier),
		app.WithThreshold(cfg.PainThreshold),
		app.WithCooldown(time.Duration(cfg.AlertCooldownSeconds)*time.Second),
		app.WithRetryOnFailure(cfg.AlertRetryOnFailure),
		app.WithSmoothingWindow(cfg.SmoothingWindow),
		app.WithIndicatorWeights(cfg.IndicatorWeights),
		app.WithMovementWeight(cfg.MovementWeight),
		app.WithMovementOptions(
			movement.WithLearningRate(cfg.MovementLearningRate),
			movement.WithDiffThreshold(cfg.MovementDiffThreshold),
			movement.WithScalingFactor(cfg.MovementScalingFactor),
			movement.WithWarmupFrames(cfg.MovementWarmupFrames),
		),
	)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer svc.Stop()

	// Run the frame loop; when the stream ends the whole process winds down.
	runDone := make(chan error, 1)
	go func() {
		runDone <- svc.Run(ctx)
	}()

	// HTTP mux and routes.
	mux := http.NewServeMux()
	apiServer := api.NewServer(svc)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
		}
	}()

	// Wait for a shutdown signal or the end of the frame stream.
	select {
	case <-ctx.Done():
		log.Info(ctx, "shutting down...")
	case err := <-runDone:
		if err != nil {
			log.Error(ctx, "frame loop failed", logger.Error(err))
		}
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}

// buildNotifier constructs the alert transport selected by configuration.
func buildNotifier(cfg *config.Config) (alert.Notifier, error) {
	switch cfg.Notifier {
	case config.NotifierMQTT:
		return notify.NewMQTTNotifier(cfg.MQTTBroker, cfg.MQTTTopic)
	case config.NotifierSMS:
		return notify.NewSMSNotifier(cfg.SMSAPIURL, cfg.SMSAccountSID, cfg.SMSAuthToken, cfg.SMSFrom, cfg.SMSTo), nil
	default:
		return notify.NewLogNotifier(), nil
	}
}
