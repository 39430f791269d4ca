package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	adaptershttp "github.com/drajad/kasbuku/internal/adapter/http"
	"github.com/drajad/kasbuku/internal/adapter/http/dto"
	"github.com/drajad/kasbuku/internal/adapter/http/handler"
	"github.com/drajad/kasbuku/internal/adapter/repository/postgres"
	redisrepo "github.com/drajad/kasbuku/internal/adapter/repository/redis"
	"github.com/drajad/kasbuku/internal/infrastructure/auth"
	infraredis "github.com/drajad/kasbuku/internal/infrastructure/redis"
	"github.com/drajad/kasbuku/internal/usecase"
	"github.com/drajad/kasbuku/tests/testutil"
)

// testStack wires the full HTTP stack against the test database and a
// real redis, the way cmd/server does.
type testStack struct {
	router          http.Handler
	transactionRepo *postgres.TransactionRepository
	invoiceRepo     *postgres.InvoiceRepository
	outboxRepo      *postgres.OutboxRepository
	redisClient     *redis.Client
}

func newTestStack(t *testing.T, ctx context.Context, testDB *testutil.TestDB) *testStack {
	t.Helper()

	pool := testDB.Pool
	transactionRepo := postgres.NewTransactionRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	profileRepo := postgres.NewProfileRepository(pool)
	outboxRepo := postgres.NewOutboxRepository(pool)
	txManager := postgres.NewTxManager(pool)
	idGen := postgres.NewULIDGenerator()
	retrier := postgres.NewRetrier()

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	redisClient, err := infraredis.NewClient(ctx, redisURL)
	if err != nil {
		t.Fatalf("failed to connect to redis: %v", err)
	}
	t.Cleanup(func() { redisClient.Close() })

	cache := redisrepo.NewCache(redisClient)
	idempotencyStore := redisrepo.NewIdempotencyStore(redisClient)

	transactionUC := usecase.NewTransactionUseCase(txManager, transactionRepo, invoiceRepo, outboxRepo, cache, idGen, nil).WithRetrier(retrier)
	invoiceUC := usecase.NewInvoiceUseCase(txManager, invoiceRepo, transactionRepo, outboxRepo, idGen, nil).WithRetrier(retrier)
	reportUC := usecase.NewReportUseCase(transactionRepo, invoiceRepo, cache, nil)
	userUC := usecase.NewUserUseCase(userRepo, idGen)
	profileUC := usecase.NewProfileUseCase(profileRepo)

	jwtManager := auth.NewJWTManager("integration-secret", time.Hour)

	router := adaptershttp.NewRouter(adaptershttp.RouterConfig{
		AuthHandler:        handler.NewAuthHandler(userUC, jwtManager),
		TransactionHandler: handler.NewTransactionHandler(transactionUC),
		InvoiceHandler:     handler.NewInvoiceHandler(invoiceUC),
		ReportHandler:      handler.NewReportHandler(reportUC, nil),
		ProfileHandler:     handler.NewProfileHandler(profileUC),
		HealthHandler:      handler.NewHealthHandler(pool, redisClient),
		JWTManager:         jwtManager,
		IdempotencyStore:   idempotencyStore,
	})

	return &testStack{
		router:          router,
		transactionRepo: transactionRepo,
		invoiceRepo:     invoiceRepo,
		outboxRepo:      outboxRepo,
		redisClient:     redisClient,
	}
}

// login signs in through the API and returns the bearer token.
func (s *testStack) login(t *testing.T, email, password string) string {
	t.Helper()

	w := s.do(t, http.MethodPost, "/api/v1/auth/login", "", dto.LoginRequest{
		Email:    email,
		Password: password,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", w.Code, w.Body.String())
	}

	var resp dto.LoginResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse login response: %v", err)
	}

	return resp.Token
}

// do sends a JSON request through the router. A nil payload sends no body.
func (s *testStack) do(t *testing.T, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	r := httptest.NewRequest(method, path, body)
	r.Header.Set("Content-Type", "application/json")
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, r)

	return w
}
