package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/CR1SI/CarbonFootPrinters/module/core/domain"
	"github.com/CR1SI/CarbonFootPrinters/module/core/internal/repository/database"
)

var _ database.UserRepository = (*UserRepo)(nil)

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) Get(ctx context.Context, userID string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT user_id, name, email, password, pfp, country, transportation, carbon_emission, noti_flag, fcm_token FROM users WHERE user_id = $1`,
		userID,
	)

	var u domain.User
	err := row.Scan(&u.UserID, &u.Name, &u.Email, &u.Password, &u.Pfp, &u.Country, &u.Transportation, &u.CarbonEmission, &u.NotiFlag, &u.FCMToken)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) Create(ctx context.Context, user *domain.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (user_id, name, email, password, pfp, country, transportation, carbon_emission, noti_flag, fcm_token)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		user.UserID, user.Name, user.Email, user.Password, user.Pfp, user.Country, user.Transportation, user.CarbonEmission, user.NotiFlag, user.FCMToken,
	)
	return err
}

func (r *UserRepo) Update(ctx context.Context, userID string, patch *domain.UserPatch) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET
			name            = COALESCE($2, name),
			email           = COALESCE($3, email),
			password        = COALESCE($4, password),
			pfp             = COALESCE($5, pfp),
			country         = COALESCE($6, country),
			transportation  = COALESCE($7, transportation),
			carbon_emission = COALESCE($8, carbon_emission),
			noti_flag       = COALESCE($9, noti_flag),
			fcm_token       = COALESCE($10, fcm_token)
		 WHERE user_id = $1`,
		userID, patch.Name, patch.Email, patch.Password, patch.Pfp, patch.Country, patch.Transportation, patch.CarbonEmission, patch.NotiFlag, patch.FCMToken,
	)
	if err != nil {
		return err
	}
	return checkFound(res)
}

func (r *UserRepo) Delete(ctx context.Context, userID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE user_id = $1`, userID)
	if err != nil {
		return err
	}
	return checkFound(res)
}

func (r *UserRepo) AddMovement(ctx context.Context, userID string, sample *domain.LocationSample) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO movements (user_id, latitude, longitude, speed_kmh, speed_mps, recorded_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		userID, sample.Latitude, sample.Longitude, sample.SpeedKmh, sample.SpeedMps, sample.Timestamp,
	)
	return err
}

func (r *UserRepo) GetMovements(ctx context.Context, userID string) ([]domain.LocationSample, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT latitude, longitude, speed_kmh, speed_mps, recorded_at FROM movements WHERE user_id = $1 ORDER BY id ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var samples []domain.LocationSample
	for rows.Next() {
		var s domain.LocationSample
		if err := rows.Scan(&s.Latitude, &s.Longitude, &s.SpeedKmh, &s.SpeedMps, &s.Timestamp); err != nil {
			return nil, err
		}
		samples = append(samples, s)
	}
	return samples, rows.Err()
}

func checkFound(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
