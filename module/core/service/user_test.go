package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/CR1SI/CarbonFootPrinters/module/core/domain"
)

type mockUserRepo struct {
	getFn          func(ctx context.Context, userID string) (*domain.User, error)
	createFn       func(ctx context.Context, user *domain.User) error
	updateFn       func(ctx context.Context, userID string, patch *domain.UserPatch) error
	deleteFn       func(ctx context.Context, userID string) error
	addMovementFn  func(ctx context.Context, userID string, sample *domain.LocationSample) error
	getMovementsFn func(ctx context.Context, userID string) ([]domain.LocationSample, error)
}

func (m *mockUserRepo) Get(ctx context.Context, userID string) (*domain.User, error) {
	return m.getFn(ctx, userID)
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) error {
	return m.createFn(ctx, user)
}

func (m *mockUserRepo) Update(ctx context.Context, userID string, patch *domain.UserPatch) error {
	return m.updateFn(ctx, userID, patch)
}

func (m *mockUserRepo) Delete(ctx context.Context, userID string) error {
	return m.deleteFn(ctx, userID)
}

func (m *mockUserRepo) AddMovement(ctx context.Context, userID string, sample *domain.LocationSample) error {
	return m.addMovementFn(ctx, userID, sample)
}

func (m *mockUserRepo) GetMovements(ctx context.Context, userID string) ([]domain.LocationSample, error) {
	return m.getMovementsFn(ctx, userID)
}

type mockPublisher struct {
	publishFn func(ctx context.Context, payload domain.Payload) error
	published []domain.Payload
}

func (m *mockPublisher) Publish(ctx context.Context, payload domain.Payload) error {
	m.published = append(m.published, payload)
	if m.publishFn != nil {
		return m.publishFn(ctx, payload)
	}
	return nil
}

func TestCreateUser_AssignsID(t *testing.T) {
	repo := &mockUserRepo{createFn: func(ctx context.Context, user *domain.User) error { return nil }}
	svc := NewUserService(repo, &mockPublisher{}, zerolog.Nop())

	user, err := svc.CreateUser(context.Background(), &domain.User{Name: "Kyle"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.UserID == "" {
		t.Error("expected a generated user id")
	}
}

func TestCreateUser_KeepsProvidedID(t *testing.T) {
	repo := &mockUserRepo{createFn: func(ctx context.Context, user *domain.User) error { return nil }}
	svc := NewUserService(repo, &mockPublisher{}, zerolog.Nop())

	user, err := svc.CreateUser(context.Background(), &domain.User{UserID: "u1", Name: "Kyle"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.UserID != "u1" {
		t.Errorf("expected u1, got %s", user.UserID)
	}
}

func TestAddEmission_PublishesForOptedInUser(t *testing.T) {
	var patched *domain.UserPatch
	repo := &mockUserRepo{
		getFn: func(ctx context.Context, userID string) (*domain.User, error) {
			return &domain.User{UserID: userID, Name: "Alex", CarbonEmission: 10, NotiFlag: true, FCMToken: "tok-1"}, nil
		},
		updateFn: func(ctx context.Context, userID string, patch *domain.UserPatch) error {
			patched = patch
			return nil
		},
	}
	pub := &mockPublisher{}
	svc := NewUserService(repo, pub, zerolog.Nop())

	total, err := svc.AddEmission(context.Background(), "u1", 2.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 12.5 {
		t.Errorf("expected 12.5, got %f", total)
	}
	if patched == nil || patched.CarbonEmission == nil || *patched.CarbonEmission != 12.5 {
		t.Errorf("expected carbon emission patch 12.5, got %+v", patched)
	}

	if len(pub.published) != 1 {
		t.Fatalf("expected 1 published payload, got %d", len(pub.published))
	}
	payload := pub.published[0]
	if payload.Token() != "tok-1" {
		t.Errorf("expected tok-1, got %s", payload.Token())
	}
	if payload.Title() != "Daily Carbon Summary" {
		t.Errorf("expected daily summary title, got %s", payload.Title())
	}
	if payload.Event()["saved_kg"] != 2.5 {
		t.Errorf("expected saved_kg 2.5, got %v", payload.Event()["saved_kg"])
	}
}

func TestAddEmission_SkipsPublishWhenOptedOut(t *testing.T) {
	repo := &mockUserRepo{
		getFn: func(ctx context.Context, userID string) (*domain.User, error) {
			return &domain.User{UserID: userID, NotiFlag: false, FCMToken: "tok-1"}, nil
		},
		updateFn: func(ctx context.Context, userID string, patch *domain.UserPatch) error { return nil },
	}
	pub := &mockPublisher{}
	svc := NewUserService(repo, pub, zerolog.Nop())

	if _, err := svc.AddEmission(context.Background(), "u1", 1.0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pub.published) != 0 {
		t.Errorf("expected no publishes, got %d", len(pub.published))
	}
}

func TestAddEmission_SkipsPublishWithoutToken(t *testing.T) {
	repo := &mockUserRepo{
		getFn: func(ctx context.Context, userID string) (*domain.User, error) {
			return &domain.User{UserID: userID, NotiFlag: true}, nil
		},
		updateFn: func(ctx context.Context, userID string, patch *domain.UserPatch) error { return nil },
	}
	pub := &mockPublisher{}
	svc := NewUserService(repo, pub, zerolog.Nop())

	if _, err := svc.AddEmission(context.Background(), "u1", 1.0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pub.published) != 0 {
		t.Errorf("expected no publishes, got %d", len(pub.published))
	}
}

func TestAddEmission_PublishFailureIsNotFatal(t *testing.T) {
	repo := &mockUserRepo{
		getFn: func(ctx context.Context, userID string) (*domain.User, error) {
			return &domain.User{UserID: userID, NotiFlag: true, FCMToken: "tok-1"}, nil
		},
		updateFn: func(ctx context.Context, userID string, patch *domain.UserPatch) error { return nil },
	}
	pub := &mockPublisher{publishFn: func(ctx context.Context, payload domain.Payload) error {
		return errors.New("broker down")
	}}
	svc := NewUserService(repo, pub, zerolog.Nop())

	total, err := svc.AddEmission(context.Background(), "u1", 1.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1.0 {
		t.Errorf("expected 1.0, got %f", total)
	}
}

func TestAddEmission_UserNotFound(t *testing.T) {
	repo := &mockUserRepo{
		getFn: func(ctx context.Context, userID string) (*domain.User, error) {
			return nil, domain.ErrUserNotFound
		},
	}
	svc := NewUserService(repo, &mockPublisher{}, zerolog.Nop())

	_, err := svc.AddEmission(context.Background(), "missing", 1.0)
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
