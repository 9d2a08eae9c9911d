package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"github.com/kyiku/wordsearch-back/internal/ai"
	"github.com/kyiku/wordsearch-back/internal/batch"
	"github.com/kyiku/wordsearch-back/internal/config"
	"github.com/kyiku/wordsearch-back/internal/definition"
	"github.com/kyiku/wordsearch-back/internal/handler"
	"github.com/kyiku/wordsearch-back/internal/middleware"
	"github.com/kyiku/wordsearch-back/internal/queue"
	"github.com/kyiku/wordsearch-back/internal/storage"
	"github.com/kyiku/wordsearch-back/internal/store"
	"github.com/kyiku/wordsearch-back/internal/wordlist"
)

const s3Timeout = 15 * time.Second

// S3Adapter adapts AWS S3 client to our interface
type S3Adapter struct {
	client *s3.Client
	bucket string
}

func (a *S3Adapter) GetObject(key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s3Timeout)
	defer cancel()
	output, err := a.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &a.bucket,
		Key:    &key,
	})
	if err != nil {
		return nil, err
	}
	defer output.Body.Close()
	return io.ReadAll(output.Body)
}

func (a *S3Adapter) PutObject(key string, data []byte) error {
	contentType := "application/octet-stream"
	if strings.HasSuffix(key, ".json") {
		contentType = "application/json"
	}
	ctx, cancel := context.WithTimeout(context.Background(), s3Timeout)
	defer cancel()
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &a.bucket,
		Key:         &key,
		Body:        bytes.NewReader(data),
		ContentType: &contentType,
	})
	return err
}

func (a *S3Adapter) ListObjects(prefix string) ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s3Timeout)
	defer cancel()
	var keys []string
	paginator := s3.NewListObjectsV2Paginator(a.client, &s3.ListObjectsV2Input{
		Bucket: &a.bucket,
		Prefix: &prefix,
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, obj := range page.Contents {
			keys = append(keys, *obj.Key)
		}
	}
	return keys, nil
}

// BedrockAdapter adapts AWS Bedrock client to our interface
type BedrockAdapter struct {
	client *bedrockruntime.Client
}

// BedrockRequest represents the request body for Claude via Bedrock
type BedrockRequest struct {
	AnthropicVersion string           `json:"anthropic_version"`
	MaxTokens        int              `json:"max_tokens"`
	Messages         []BedrockMessage `json:"messages"`
}

// BedrockMessage represents a message in the Bedrock request
type BedrockMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (a *BedrockAdapter) InvokeModel(modelID string, prompt string) (string, error) {
	req := BedrockRequest{
		AnthropicVersion: "bedrock-2023-05-31",
		MaxTokens:        512,
		Messages: []BedrockMessage{
			{Role: "user", Content: prompt},
		},
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	output, err := a.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     &modelID,
		Body:        body,
		ContentType: stringPtr("application/json"),
	})
	if err != nil {
		return "", err
	}

	return string(output.Body), nil
}

func stringPtr(s string) *string {
	return &s
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logrus.WithError(err).Fatal("invalid config")
	}

	logger := logrus.New()
	logger.SetLevel(cfg.Level())
	logger.SetFormatter(&logrus.JSONFormatter{})

	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogMethod:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			logger.WithFields(logrus.Fields{
				"method":    v.Method,
				"uri":       v.URI,
				"status":    v.Status,
				"latency":   v.Latency.String(),
				"remote_ip": v.RemoteIP,
			}).Info("request")
			return nil
		},
	}))
	e.Use(echomw.Recover())
	cors := middleware.CORSConfig{
		Origins:          []string{cfg.AllowedOrigin},
		CloudfrontDomain: cfg.CloudfrontDomain,
	}
	e.Use(middleware.CORSMiddleware(cors))

	stop := make(chan struct{})

	// Initialize dependencies
	puzzleStore := store.NewPuzzleStoreWithExpiry(cfg.PuzzleTTL)
	puzzleStore.StartCleanup(cfg.PuzzleTTL/4, stop)
	hub := queue.NewHub()
	limiter := middleware.NewRateLimiter(cfg.RateLimit, time.Minute)
	limiter.StartCleanup(stop)

	dataset := wordlist.NewDataset(rand.New(rand.NewSource(time.Now().UnixNano())))
	if cfg.WordlistDir != "" {
		themes, err := dataset.LoadDir(cfg.WordlistDir)
		if err != nil {
			logger.WithError(err).Warn("some word lists could not be loaded")
		}
		logger.WithField("themes", themes).Info("loaded word lists")
	}

	// Load AWS config
	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(), awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		logger.WithError(err).Warn("failed to load AWS config, some features may not work")
	}

	// S3 client
	var s3Storage *storage.S3Client
	if err == nil && cfg.S3Bucket != "" {
		cloudfrontURL := "https://" + strings.TrimPrefix(cfg.CloudfrontDomain, "https://")
		if cfg.CloudfrontDomain == "" {
			cloudfrontURL = "https://" + cfg.S3Bucket + ".s3." + cfg.AWSRegion + ".amazonaws.com"
		}
		s3Storage = storage.NewS3Client(&S3Adapter{
			client: s3.NewFromConfig(awsCfg),
			bucket: cfg.S3Bucket,
		}, cfg.S3Bucket, cloudfrontURL)
	}

	// Bedrock client
	var suggester *ai.BedrockClient
	if err == nil {
		suggester = ai.NewBedrockClient(&BedrockAdapter{
			client: bedrockruntime.NewFromConfig(awsCfg),
		}, cfg.BedrockModelID)
		suggester.EnableFallback(true) // Use the built-in lists if Bedrock fails
		suggester.SetFallbackSource(dataset)
	}

	buildOpts := definition.BuildOptions{
		MaxFitTries: cfg.MaxFitTries,
		Logger:      logger,
	}

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(puzzleStore)

	puzzleHandler := handler.NewPuzzleHandler(puzzleStore, hub)
	puzzleHandler.SetMaxFitTries(cfg.MaxFitTries)
	puzzleHandler.SetLogger(logger)

	wsHandler := handler.NewWebSocketHandler(puzzleStore, hub)
	wsHandler.SetCheckOrigin(cors.Allowed)
	wsHandler.SetLogger(logger)

	wordsHandler := handler.NewWordsHandler(dataset)
	shapesHandler := handler.NewShapesHandler()

	// Handlers that use S3
	if s3Storage != nil {
		buildOpts.ImageSource = s3Storage
		puzzleHandler.SetImageSource(s3Storage)
		puzzleHandler.SetExporter(s3Storage)
		shapesHandler.SetLibrary(s3Storage)
	}

	// Handlers that use Bedrock
	if suggester != nil {
		wordsHandler.SetSuggester(suggester)
	}

	batchHandler := handler.NewBatchHandler(puzzleStore, batch.NewRunner(cfg.BatchWorkers, buildOpts))
	batchHandler.SetLogger(logger)

	// Health check (root level for ALB)
	e.GET("/health", healthHandler.Check)

	// WebSocket endpoint
	e.GET("/ws", wsHandler.Connect)

	// API routes
	api := e.Group("/api")
	api.GET("/health", healthHandler.Check)

	// Puzzle endpoints. Anything that generates a grid is rate limited.
	limited := limiter.Middleware()
	api.POST("/puzzles", puzzleHandler.Create, limited)
	api.POST("/puzzles/batch", batchHandler.Create, limited)
	api.GET("/puzzles/:id", puzzleHandler.Get)
	api.DELETE("/puzzles/:id", puzzleHandler.Delete)
	api.POST("/puzzles/:id/words", puzzleHandler.Words, limited)
	api.POST("/puzzles/:id/size", puzzleHandler.Size, limited)
	api.POST("/puzzles/:id/level", puzzleHandler.Level, limited)
	api.POST("/puzzles/:id/masks", puzzleHandler.Masks, limited)
	api.POST("/puzzles/:id/masks/:op", puzzleHandler.MaskOp, limited)
	api.POST("/puzzles/:id/generate", puzzleHandler.Generate, limited)
	if s3Storage != nil {
		api.POST("/puzzles/:id/export", puzzleHandler.Export)
	} else {
		api.POST("/puzzles/:id/export", unavailableHandler("S3"))
	}

	// Word endpoints
	api.GET("/words/themes", wordsHandler.Themes)
	api.GET("/words/random", wordsHandler.Random)
	if suggester != nil {
		api.POST("/words/suggest", wordsHandler.Suggest, limited)
	} else {
		api.POST("/words/suggest", unavailableHandler("Bedrock"))
	}

	// Mask shape endpoints
	api.GET("/shapes", shapesHandler.List)
	if s3Storage != nil {
		api.POST("/masks/images", shapesHandler.Upload, limited)
	} else {
		api.POST("/masks/images", unavailableHandler("S3"))
	}

	for _, r := range e.Routes() {
		logger.Debugf("  %-6s %s", r.Method, r.Path)
	}

	// Start server
	go func() {
		logger.WithField("port", cfg.Port).Info("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	close(stop)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("failed to shut down server")
	}
}

// unavailableHandler returns a handler that responds with service unavailable
func unavailableHandler(service string) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusServiceUnavailable, map[string]interface{}{
			"error":   true,
			"message": service + " is not configured",
		})
	}
}
