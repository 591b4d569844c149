package container

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/asaase-aban/registry/cmd/registry/repository"
	"github.com/asaase-aban/registry/cmd/registry/service"
	"github.com/asaase-aban/registry/common/bootstrap"
	"github.com/asaase-aban/registry/common/events"
	"github.com/asaase-aban/registry/common/policy"
	"github.com/asaase-aban/registry/common/ratelimit"
	rediscommon "github.com/asaase-aban/registry/common/redis"
	"github.com/asaase-aban/registry/common/storage"
)

// Container holds all initialized services and repositories (singleton pattern)
type Container struct {
	// Components
	Components  *bootstrap.Components
	Redis       *rediscommon.Client
	RedisRaw    *redis.Client
	RateLimiter *ratelimit.RateLimiter
	Documents   *storage.DocumentStore
	Publisher   *events.Publisher
	Projector   *events.Projector

	// Repositories
	SubmissionRepo  *repository.SubmissionRepository
	LandRepo        *repository.LandRepository
	OwnershipRepo   *repository.OwnershipRepository
	UserRepo        *repository.UserRepository
	TransactionRepo *repository.TransactionRepository

	// Services
	SubmissionService  *service.SubmissionService
	ReviewService      *service.ReviewService
	TransferService    *service.TransferService
	LandService        *service.LandService
	UserService        *service.UserService
	TransactionService *service.TransactionService
}

// NewContainer initializes all services and repositories once
func NewContainer(ctx context.Context, components *bootstrap.Components) (*Container, error) {
	cfg := components.Config

	// Redis backs the rate limiter and the transfer claim fence
	redisRaw := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	redisClient := rediscommon.NewClient(redisRaw, components.Logger)
	rateLimiter := ratelimit.NewRateLimiter(redisRaw, components.Logger)

	// Document store
	documents, err := storage.NewDocumentStore(
		cfg.Uploads.Dir,
		cfg.Uploads.MaxBytes,
		cfg.Uploads.AllowedExts,
		components.Logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create document store: %w", err)
	}

	// Domain events: publisher on the queue, projector consuming it
	publisher := events.NewPublisher(components.Queue)
	projector := events.NewProjector(components.Cache, components.Logger)
	if err := projector.Start(ctx, components.Queue); err != nil {
		return nil, fmt.Errorf("failed to start projector: %w", err)
	}

	// Initialize repositories
	submissionRepo := repository.NewSubmissionRepository(components.DB)
	landRepo := repository.NewLandRepository(components.DB, components.Logger)
	ownershipRepo := repository.NewOwnershipRepository(components.DB)
	userRepo := repository.NewUserRepository(components.DB)
	transactionRepo := repository.NewTransactionRepository(components.DB)

	// Initialize services (bottom-up: dependencies first)
	userService := service.NewUserService(userRepo, components.Logger)
	submissionService := service.NewSubmissionService(
		submissionRepo,
		documents,
		policy.NewEvaluator(),
		cfg.Registry.IntakeRule,
		components.Logger,
	)
	reviewService := service.NewReviewService(submissionRepo, publisher, components.Logger)
	transferService := service.NewTransferService(
		ownershipRepo,
		userRepo,
		redisClient,
		publisher,
		components.Logger,
	)
	landService := service.NewLandService(
		landRepo,
		components.Cache,
		cfg.Cache.DefaultTTL,
		components.Logger,
	)
	transactionService := service.NewTransactionService(transactionRepo, components.Logger)

	return &Container{
		Components:  components,
		Redis:       redisClient,
		RedisRaw:    redisRaw,
		RateLimiter: rateLimiter,
		Documents:   documents,
		Publisher:   publisher,
		Projector:   projector,

		SubmissionRepo:  submissionRepo,
		LandRepo:        landRepo,
		OwnershipRepo:   ownershipRepo,
		UserRepo:        userRepo,
		TransactionRepo: transactionRepo,

		SubmissionService:  submissionService,
		ReviewService:      reviewService,
		TransferService:    transferService,
		LandService:        landService,
		UserService:        userService,
		TransactionService: transactionService,
	}, nil
}
