package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/CR1SI/CarbonFootPrinters/module/core/domain"
)

type mockUserSvc struct {
	createUserFn   func(ctx context.Context, user *domain.User) (*domain.User, error)
	getUserFn      func(ctx context.Context, userID string) (*domain.User, error)
	updateUserFn   func(ctx context.Context, userID string, patch *domain.UserPatch) error
	deleteUserFn   func(ctx context.Context, userID string) error
	getMovementsFn func(ctx context.Context, userID string) ([]domain.LocationSample, error)
	addEmissionFn  func(ctx context.Context, userID string, kg float64) (float64, error)
}

func (m *mockUserSvc) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	return m.createUserFn(ctx, user)
}

func (m *mockUserSvc) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	return m.getUserFn(ctx, userID)
}

func (m *mockUserSvc) UpdateUser(ctx context.Context, userID string, patch *domain.UserPatch) error {
	return m.updateUserFn(ctx, userID, patch)
}

func (m *mockUserSvc) DeleteUser(ctx context.Context, userID string) error {
	return m.deleteUserFn(ctx, userID)
}

func (m *mockUserSvc) GetMovements(ctx context.Context, userID string) ([]domain.LocationSample, error) {
	return m.getMovementsFn(ctx, userID)
}

func (m *mockUserSvc) AddEmission(ctx context.Context, userID string, kg float64) (float64, error) {
	return m.addEmissionFn(ctx, userID, kg)
}

type mockAnalyzer struct {
	analyzeFn func(ctx context.Context, samples []domain.LocationSample) (domain.TripSummary, error)
}

func (m *mockAnalyzer) Analyze(ctx context.Context, samples []domain.LocationSample) (domain.TripSummary, error) {
	return m.analyzeFn(ctx, samples)
}

func setupRouter(svc userService, analyzer tripAnalyzer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewUserHandler(svc, analyzer).Register(r.Group("/api"))
	return r
}

func TestCreateUser(t *testing.T) {
	svc := &mockUserSvc{
		createUserFn: func(ctx context.Context, user *domain.User) (*domain.User, error) {
			user.UserID = "u1"
			return user, nil
		},
	}
	r := setupRouter(svc, &mockAnalyzer{})

	body, _ := json.Marshal(map[string]any{"name": "Kyle", "email": "kyle@gmail.com"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/users", bytes.NewReader(body))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}

	var created domain.User
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	if created.UserID != "u1" {
		t.Errorf("expected u1, got %s", created.UserID)
	}
}

func TestCreateUser_BadPayload(t *testing.T) {
	r := setupRouter(&mockUserSvc{}, &mockAnalyzer{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/users", bytes.NewReader([]byte("not json")))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestGetUser_NotFound(t *testing.T) {
	svc := &mockUserSvc{
		getUserFn: func(ctx context.Context, userID string) (*domain.User, error) {
			return nil, domain.ErrUserNotFound
		},
	}
	r := setupRouter(svc, &mockAnalyzer{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/users/missing", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestGetUser_Success(t *testing.T) {
	svc := &mockUserSvc{
		getUserFn: func(ctx context.Context, userID string) (*domain.User, error) {
			return &domain.User{UserID: userID, Name: "Kyle", CarbonEmission: 12.5}, nil
		},
	}
	r := setupRouter(svc, &mockAnalyzer{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/users/u1", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var user domain.User
	if err := json.Unmarshal(w.Body.Bytes(), &user); err != nil {
		t.Fatal(err)
	}
	if user.Name != "Kyle" {
		t.Errorf("expected Kyle, got %s", user.Name)
	}
}

func TestUpdateUser_NotFound(t *testing.T) {
	svc := &mockUserSvc{
		updateUserFn: func(ctx context.Context, userID string, patch *domain.UserPatch) error {
			return domain.ErrUserNotFound
		},
	}
	r := setupRouter(svc, &mockAnalyzer{})

	body, _ := json.Marshal(map[string]any{"country": "Brazil"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPut, "/api/users/missing", bytes.NewReader(body))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestDeleteUser_Success(t *testing.T) {
	svc := &mockUserSvc{
		deleteUserFn: func(ctx context.Context, userID string) error { return nil },
	}
	r := setupRouter(svc, &mockAnalyzer{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodDelete, "/api/users/u1", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestGetTrip_Success(t *testing.T) {
	svc := &mockUserSvc{
		getMovementsFn: func(ctx context.Context, userID string) ([]domain.LocationSample, error) {
			return []domain.LocationSample{
				{Latitude: 10, Longitude: 20, SpeedKmh: 15, Timestamp: "July 10, 2025 at 2:00:00 PM UTC-4"},
				{Latitude: 10.1, Longitude: 20, SpeedKmh: 15, Timestamp: "July 10, 2025 at 2:30:00 PM UTC-4"},
			}, nil
		},
	}
	analyzer := &mockAnalyzer{
		analyzeFn: func(ctx context.Context, samples []domain.LocationSample) (domain.TripSummary, error) {
			return domain.TripSummary{Transportation: domain.TransportBicycle, DistanceKm: 11.12, Country: "Brazil"}, nil
		},
	}
	r := setupRouter(svc, analyzer)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/users/u1/trip", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var summary domain.TripSummary
	if err := json.Unmarshal(w.Body.Bytes(), &summary); err != nil {
		t.Fatal(err)
	}
	if summary.Transportation != domain.TransportBicycle {
		t.Errorf("expected bicycle, got %s", summary.Transportation)
	}
	if summary.DistanceKm != 11.12 {
		t.Errorf("expected 11.12, got %f", summary.DistanceKm)
	}
}

func TestGetTrip_AnalysisError(t *testing.T) {
	svc := &mockUserSvc{
		getMovementsFn: func(ctx context.Context, userID string) ([]domain.LocationSample, error) {
			return []domain.LocationSample{{Timestamp: "garbage"}, {Timestamp: "garbage"}}, nil
		},
	}
	analyzer := &mockAnalyzer{
		analyzeFn: func(ctx context.Context, samples []domain.LocationSample) (domain.TripSummary, error) {
			return domain.TripSummary{}, errors.New("bad timestamp")
		},
	}
	r := setupRouter(svc, analyzer)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/users/u1/trip", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}
}

func TestGetMovements_EmptyReturnsArray(t *testing.T) {
	svc := &mockUserSvc{
		getMovementsFn: func(ctx context.Context, userID string) ([]domain.LocationSample, error) {
			return nil, nil
		},
	}
	r := setupRouter(svc, &mockAnalyzer{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/users/u1/movements", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Body.String() != "[]" {
		t.Errorf("expected empty array, got %s", w.Body.String())
	}
}

func TestAddEmission_Success(t *testing.T) {
	var gotKg float64
	svc := &mockUserSvc{
		addEmissionFn: func(ctx context.Context, userID string, kg float64) (float64, error) {
			gotKg = kg
			return 12.5, nil
		},
	}
	r := setupRouter(svc, &mockAnalyzer{})

	body, _ := json.Marshal(map[string]any{"saved_kg": 2.5})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/users/u1/emissions/add", bytes.NewReader(body))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if gotKg != 2.5 {
		t.Errorf("expected 2.5, got %f", gotKg)
	}

	var resp map[string]float64
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["carbonEmission"] != 12.5 {
		t.Errorf("expected total 12.5, got %f", resp["carbonEmission"])
	}
}

func TestAddEmission_MissingBody(t *testing.T) {
	r := setupRouter(&mockUserSvc{}, &mockAnalyzer{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/users/u1/emissions/add", bytes.NewReader([]byte("{}")))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
