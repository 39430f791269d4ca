package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"github.com/drajad/kasbuku/internal/adapter/http/dto"
	"github.com/drajad/kasbuku/internal/adapter/http/handler"
	apimiddleware "github.com/drajad/kasbuku/internal/adapter/http/middleware"
	"github.com/drajad/kasbuku/internal/domain"
	"github.com/drajad/kasbuku/internal/infrastructure/auth"
	"github.com/drajad/kasbuku/internal/usecase"
	"github.com/drajad/kasbuku/internal/usecase/mocks"
)

type routerMocks struct {
	transactionRepo *mocks.MockTransactionRepository
	invoiceRepo     *mocks.MockInvoiceRepository
	userRepo        *mocks.MockUserRepository
	profileRepo     *mocks.MockProfileRepository
}

func newRouterConfig(t *testing.T, opts ...func(*RouterConfig)) (RouterConfig, *routerMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)

	m := &routerMocks{
		transactionRepo: mocks.NewMockTransactionRepository(ctrl),
		invoiceRepo:     mocks.NewMockInvoiceRepository(ctrl),
		userRepo:        mocks.NewMockUserRepository(ctrl),
		profileRepo:     mocks.NewMockProfileRepository(ctrl),
	}

	txManager := mocks.NewMockTransactionManager(ctrl)
	outboxRepo := mocks.NewMockOutboxRepository(ctrl)
	cache := mocks.NewMockCache(ctrl)
	idGen := mocks.NewMockIDGenerator(ctrl)
	idGen.EXPECT().Generate().Return("generated-id").AnyTimes()

	jwtManager := auth.NewJWTManager("router-test-secret", time.Minute)

	transactionUC := usecase.NewTransactionUseCase(
		txManager, m.transactionRepo, m.invoiceRepo, outboxRepo, cache, idGen, nil,
	)
	invoiceUC := usecase.NewInvoiceUseCase(
		txManager, m.invoiceRepo, m.transactionRepo, outboxRepo, idGen, nil,
	)
	reportUC := usecase.NewReportUseCase(m.transactionRepo, m.invoiceRepo, cache, nil)
	userUC := usecase.NewUserUseCase(m.userRepo, idGen)
	profileUC := usecase.NewProfileUseCase(m.profileRepo)

	cfg := RouterConfig{
		AuthHandler:        handler.NewAuthHandler(userUC, jwtManager),
		TransactionHandler: handler.NewTransactionHandler(transactionUC),
		InvoiceHandler:     handler.NewInvoiceHandler(invoiceUC),
		ReportHandler:      handler.NewReportHandler(reportUC, nil),
		ProfileHandler:     handler.NewProfileHandler(profileUC),
		HealthHandler:      &handler.HealthHandler{},
		JWTManager:         jwtManager,
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg, m
}

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	cfg, _ := newRouterConfig(t)
	router := NewRouter(cfg)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /health to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_RateLimiterBlocksExcessRequests(t *testing.T) {
	rl := apimiddleware.NewRateLimiter(1, 1)
	cfg, _ := newRouterConfig(t, func(cfg *RouterConfig) {
		cfg.RateLimiter = rl
	})
	router := NewRouter(cfg)

	req1 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req1.RemoteAddr = "1.2.3.4:1234"
	rec1 := httptest.NewRecorder()
	router.ServeHTTP(rec1, req1)
	if rec1.Code != http.StatusOK {
		t.Fatalf("expected first request to succeed, got %d", rec1.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req2.RemoteAddr = "1.2.3.4:1234"
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled, got %d", rec2.Code)
	}
}

func TestNewRouter_IdempotencyMiddlewareInvokesStore(t *testing.T) {
	store := &stubIdempotencyStore{}
	cfg, _ := newRouterConfig(t, func(cfg *RouterConfig) {
		cfg.IdempotencyStore = store
	})
	router := NewRouter(cfg)

	body := `{"email":"ibu@warung.id","password":"wrong"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apimiddleware.IdempotencyKeyHeader, "key-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if !store.checkCalled {
		t.Fatalf("expected idempotency store to be used")
	}
}

func TestNewRouter_ProtectedRoutesRequireToken(t *testing.T) {
	cfg, _ := newRouterConfig(t)
	router := NewRouter(cfg)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
}

func TestNewRouter_LoginThenListTransactions(t *testing.T) {
	cfg, m := newRouterConfig(t)
	router := NewRouter(cfg)

	hash, err := bcrypt.GenerateFromPassword([]byte("rahasia-123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	m.userRepo.EXPECT().GetByEmail(gomock.Any(), "ibu@warung.id").Return(&domain.User{
		ID:             "user-1",
		Email:          "ibu@warung.id",
		Name:           "Ibu Sri",
		HashedPassword: string(hash),
		Role:           domain.RoleOwner,
		Active:         true,
	}, nil)

	body := `{"email":"ibu@warung.id","password":"rahasia-123"}`
	loginReq := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
	loginRec := httptest.NewRecorder()
	router.ServeHTTP(loginRec, loginReq)

	if loginRec.Code != http.StatusOK {
		t.Fatalf("expected login to succeed, got %d: %s", loginRec.Code, loginRec.Body.String())
	}

	var login dto.LoginResponse
	if err := json.NewDecoder(loginRec.Body).Decode(&login); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if login.Token == "" {
		t.Fatal("expected a token")
	}

	m.transactionRepo.EXPECT().List(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, f usecase.TransactionFilter) ([]*domain.Transaction, error) {
			if f.OwnerID != "user-1" {
				t.Errorf("expected owner scope user-1, got %q", f.OwnerID)
			}
			return []*domain.Transaction{}, nil
		})

	listReq := httptest.NewRequest(http.MethodGet, "/api/v1/transactions/", nil)
	listReq.Header.Set("Authorization", "Bearer "+login.Token)
	listRec := httptest.NewRecorder()
	router.ServeHTTP(listRec, listReq)

	if listRec.Code != http.StatusOK {
		t.Fatalf("expected list to succeed, got %d: %s", listRec.Code, listRec.Body.String())
	}
}

func TestNewRouter_RegistersKeyRoutes(t *testing.T) {
	cfg, _ := newRouterConfig(t)
	router := NewRouter(cfg)

	chiRoutes, ok := router.(chi.Router)
	if !ok {
		t.Fatal("router does not implement chi.Routes")
	}

	seen := map[string]bool{}
	if err := chi.Walk(chiRoutes, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		seen[method+" "+route] = true
		return nil
	}); err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	expected := []string{
		"GET /health",
		"GET /ready",
		"POST /api/v1/auth/login",
		"POST /api/v1/auth/register",
		"GET /api/v1/auth/me",
		"POST /api/v1/transactions/",
		"GET /api/v1/transactions/{id}",
		"DELETE /api/v1/transactions/{id}",
		"POST /api/v1/invoices/",
		"GET /api/v1/invoices/unpaid",
		"POST /api/v1/invoices/{id}/pay",
		"GET /api/v1/reports/export",
		"GET /api/v1/dashboard",
		"PUT /api/v1/profile/",
	}

	for _, route := range expected {
		if !seen[route] {
			t.Fatalf("expected route %s to be registered", route)
		}
	}
}

type stubIdempotencyStore struct {
	checkCalled bool
}

func (s *stubIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	s.checkCalled = true
	return false, nil, nil
}

func (s *stubIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	return nil
}
