// The widget command is the page shell around the data layer: it wires
// the backend clients together, opens the synchronization store and logs
// every state transition until interrupted. The rendering components
// bind to exactly the contract printed here.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"reviewwall/internal/config"
	"reviewwall/internal/gateway"
	"reviewwall/internal/identity"
	"reviewwall/internal/store"
)

// NewLogger creates a zap logger with a console encoder and colored
// levels.
func NewLogger() (*zap.SugaredLogger, error) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder

	consoleEncoder := zapcore.NewConsoleEncoder(encoderCfg)
	core := zapcore.NewCore(consoleEncoder, zapcore.AddSync(os.Stdout), zapcore.InfoLevel)

	return zap.New(core).Sugar(), nil
}

func main() {
	// The .env file is optional; every setting has a checked-in default.
	_ = godotenv.Load()

	cfg := config.Load()

	logger, err := NewLogger()
	if err != nil {
		fmt.Println("Error creating logger:", err)
		return
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()

	clientOptions := options.Client().
		ApplyURI(cfg.MongoURI).
		SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		logger.Fatalf("mongodb connect: %v", err)
	}
	defer client.Disconnect(context.Background())
	logger.Info("document store connection established")

	cld, err := cloudinary.NewFromURL(cfg.CloudinaryURL)
	if err != nil {
		logger.Fatalf("cloudinary client: %v", err)
	}

	gw := gateway.New(
		client.Database(cfg.MongoDatabase),
		cfg.ReviewCollection,
		cld,
		cfg.UploadFolder,
		logger,
	)

	ids := identity.NewFileProvider(cfg.IdentityFile)
	logger.Infow("client identity", "userId", ids.UserID())

	st := store.Open(gw, ids, logger, store.WithOnChange(func(s store.State) {
		if s.Err != nil {
			logger.Warnw("review list errored", "error", s.Err, "stale", len(s.Reviews))
			return
		}
		logger.Infow("review list updated", "count", len(s.Reviews), "loading", s.Loading)
	}))
	defer st.Close()

	// Keep the subscription alive until the shell is dismissed.
	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-sigCtx.Done()

	logger.Info("shutting down")
}
