package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/Abraxas-365/sift/internal/ai/embeddings"
	"github.com/Abraxas-365/sift/internal/ai/resumereader"
	"github.com/Abraxas-365/sift/internal/ai/textgen"
	"github.com/Abraxas-365/sift/pkg/fsx"
	"github.com/Abraxas-365/sift/pkg/fsx/fsxs3"
	"github.com/Abraxas-365/sift/pkg/iam/auth"
	"github.com/Abraxas-365/sift/pkg/logx"
	"github.com/Abraxas-365/sift/screening/candidate/candidateapi"
	"github.com/Abraxas-365/sift/screening/candidate/candidateinfra"
	"github.com/Abraxas-365/sift/screening/candidate/candidatesrv"
	"github.com/Abraxas-365/sift/screening/job/jobapi"
	"github.com/Abraxas-365/sift/screening/job/jobinfra"
	"github.com/Abraxas-365/sift/screening/job/jobsrv"
	"github.com/Abraxas-365/sift/screening/match"
	"github.com/Abraxas-365/sift/screening/match/matchapi"
	"github.com/Abraxas-365/sift/screening/match/matchinfra"
	"github.com/Abraxas-365/sift/screening/match/matchsrv"
	"github.com/Abraxas-365/sift/screening/match/worker"
	"github.com/Abraxas-365/sift/screening/pipeline"
)

// Container holds all application dependencies
type Container struct {
	// Infrastructure
	DB         *sqlx.DB
	Redis      *redis.Client
	S3Client   *s3.Client
	FileSystem fsx.FileSystem
	MatchQueue match.JobQueue

	// Screening pipeline
	Pipeline *pipeline.Pipeline

	// Domain Services
	JobService       *jobsrv.JobService
	CandidateService *candidatesrv.CandidateService
	MatchService     *matchsrv.MatchService

	// Background Workers
	MatchWorker *worker.MatchWorker

	// API Handlers
	AuthHandlers      *auth.Handlers
	JobHandlers       *jobapi.Handlers
	CandidateHandlers *candidateapi.Handlers
	MatchHandlers     *matchapi.Handlers

	// Middleware
	AuthMiddleware *auth.Middleware
}

// NewContainer initializes the dependency injection container
func NewContainer() *Container {
	c := &Container{}
	c.initInfrastructure()
	c.initServices()
	return c
}

func (c *Container) initInfrastructure() {
	// 1. Database Connection
	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPass := os.Getenv("DB_PASS")
	dbName := os.Getenv("DB_NAME")
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		dbHost, dbPort, dbUser, dbPass, dbName)

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		logx.Fatalf("Failed to connect to database: %v", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	c.DB = db

	// 2. Redis Connection
	c.Redis = redis.NewClient(&redis.Options{
		Addr:     os.Getenv("REDIS_ADDR"),
		Password: os.Getenv("REDIS_PASS"),
		DB:       0,
	})
	if err := c.Redis.Ping(context.Background()).Err(); err != nil {
		logx.Warnf("Failed to connect to Redis: %v", err)
	}
	c.MatchQueue = matchinfra.NewRedisQueue(c.Redis, "matching_jobs")

	// 3. AWS S3 Configuration
	awsRegion := os.Getenv("AWS_REGION")
	awsBucket := os.Getenv("AWS_BUCKET")
	cfg, err := config.LoadDefaultConfig(context.TODO(), config.WithRegion(awsRegion))
	if err != nil {
		logx.Fatalf("unable to load SDK config, %v", err)
	}
	c.S3Client = s3.NewFromConfig(cfg)
	c.FileSystem = fsxs3.NewS3FileSystem(c.S3Client, awsBucket, "uploads")
}

func (c *Container) initServices() {
	// --- Repositories ---
	jobRepo := jobinfra.NewPostgresJobRepository(c.DB)
	candidateRepo := candidateinfra.NewPostgresCandidateRepository(c.DB)
	matchRepo := matchinfra.NewPostgresMatchRepository(c.DB)

	// --- AI Adapters ---
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		logx.Warn("OPENAI_API_KEY is not set, AI calls will fail")
	}
	generator := textgen.NewGenerator(apiKey)
	embedder := embeddings.NewGenerator(apiKey)
	reader := resumereader.NewReader(apiKey)

	// --- Screening Pipeline ---
	pipeCfg := pipeline.DefaultConfig(envOr("COMPANY_NAME", "Sift"))
	pipeCfg.Threshold = envFloat("MATCH_SHORTLIST_THRESHOLD", pipeCfg.Threshold)
	pipeCfg.MaxShortlist = envInt("MATCH_MAX_SHORTLIST", pipeCfg.MaxShortlist)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	c.Pipeline = pipeline.New(generator, rng, pipeCfg)

	// --- Domain Services ---
	c.JobService = jobsrv.NewJobService(jobRepo, c.Pipeline)
	c.CandidateService = candidatesrv.NewCandidateService(candidateRepo, c.Pipeline, c.FileSystem, reader, embedder)
	c.MatchService = matchsrv.NewMatchService(matchRepo, jobRepo, candidateRepo, c.MatchQueue, c.Pipeline)

	// --- Background Workers ---
	c.MatchWorker = worker.NewMatchWorker(c.MatchService, c.MatchQueue, envInt("MATCH_WORKERS", 2))

	// --- Auth ---
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logx.Warn("JWT_SECRET is not set, using default (unsafe for production)")
		jwtSecret = "super-secret-key-please-change-me-in-production"
	}
	tokens := auth.NewTokenService(jwtSecret, 24*time.Hour)
	admin := auth.AdminCredential{
		Email:        os.Getenv("ADMIN_EMAIL"),
		PasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
	}
	if admin.Email == "" {
		logx.Warn("ADMIN_EMAIL is not set, login is effectively disabled")
	}

	// --- Handlers ---
	c.AuthHandlers = auth.NewHandlers(tokens, admin)
	c.JobHandlers = jobapi.NewHandlers(c.JobService)
	c.CandidateHandlers = candidateapi.NewHandlers(c.CandidateService)
	c.MatchHandlers = matchapi.NewHandlers(c.MatchService)

	// --- Middleware ---
	c.AuthMiddleware = auth.NewMiddleware(tokens)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logx.Warnf("Invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func envFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		logx.Warnf("Invalid %s=%q, using %.1f", key, v, fallback)
		return fallback
	}
	return f
}
