package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	customErrors "github.com/Miraines/Connecto/auth-service/internal/domain/auth/errors"
	"github.com/Miraines/Connecto/auth-service/internal/domain/auth/model"
	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"gorm.io/gorm"
)

// userRecord отделяет схему от доменной модели: пара otp_code/otp_expires_at
// в базе nullable, в домене — единый опциональный challenge.
type userRecord struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	FirstName    string
	LastName     string
	Email        string `gorm:"uniqueIndex"`
	PasswordHash string
	GoogleID     string
	IsVerified   bool
	OTPCode      sql.NullString `gorm:"column:otp_code"`
	OTPExpiresAt sql.NullTime   `gorm:"column:otp_expires_at"`
	AvatarURL    string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (userRecord) TableName() string { return "users" }

func toRecord(u model.User) userRecord {
	rec := userRecord{
		ID:           u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		GoogleID:     u.GoogleID,
		IsVerified:   u.IsVerified,
		AvatarURL:    u.AvatarURL,
		Role:         string(u.Role),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
	if u.OTP != nil {
		rec.OTPCode = sql.NullString{String: u.OTP.Code, Valid: true}
		rec.OTPExpiresAt = sql.NullTime{Time: u.OTP.ExpiresAt, Valid: true}
	}
	return rec
}

func toModel(rec userRecord) model.User {
	u := model.User{
		ID:           rec.ID,
		FirstName:    rec.FirstName,
		LastName:     rec.LastName,
		Email:        rec.Email,
		PasswordHash: rec.PasswordHash,
		GoogleID:     rec.GoogleID,
		IsVerified:   rec.IsVerified,
		AvatarURL:    rec.AvatarURL,
		Role:         model.Role(rec.Role),
		CreatedAt:    rec.CreatedAt,
		UpdatedAt:    rec.UpdatedAt,
	}
	if rec.OTPCode.Valid && rec.OTPExpiresAt.Valid {
		u.OTP = &model.OTPChallenge{
			Code:      rec.OTPCode.String,
			ExpiresAt: rec.OTPExpiresAt.Time,
		}
	}
	return u
}

type PostgresUserRepo struct {
	db *gorm.DB
}

func NewPostgresUserRepo(db *gorm.DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

func (p *PostgresUserRepo) CreateUser(ctx context.Context, user model.User) (uuid.UUID, error) {
	rec := toRecord(user)
	res := p.db.WithContext(ctx).Create(&rec)
	if err := res.Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return uuid.Nil, customErrors.ErrAlreadyExists
		}
		return uuid.Nil, customErrors.WrapInternal(err, "CreateUser")
	}
	return rec.ID, nil
}

func (p *PostgresUserRepo) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	return p.getOne(ctx, "email = ?", email)
}

func (p *PostgresUserRepo) GetUserByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	return p.getOne(ctx, "id = ?", id)
}

func (p *PostgresUserRepo) GetUserByGoogleID(ctx context.Context, googleID string) (model.User, error) {
	return p.getOne(ctx, "google_id = ?", googleID)
}

func (p *PostgresUserRepo) getOne(ctx context.Context, query string, arg any) (model.User, error) {
	var rec userRecord
	res := p.db.WithContext(ctx).Where(query, arg).First(&rec)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return model.User{}, customErrors.ErrNotFound
	}
	if err := res.Error; err != nil {
		return model.User{}, customErrors.WrapInternal(err, "getOne")
	}
	return toModel(rec), nil
}

func (p *PostgresUserRepo) UpdateUser(ctx context.Context, user model.User) error {
	rec := toRecord(user)
	res := p.db.WithContext(ctx).Save(&rec)
	if err := res.Error; err != nil {
		return customErrors.WrapInternal(err, "UpdateUser")
	}
	return nil
}

// MarkVerified — compare-and-set: переход срабатывает ровно один раз и
// только пока в базе лежит тот же код. Конкурентный resend или повторный
// submit проигрывают гонку и получают ErrNotFound.
func (p *PostgresUserRepo) MarkVerified(ctx context.Context, id uuid.UUID, code string) error {
	res := p.db.WithContext(ctx).Model(&userRecord{}).
		Where("id = ? AND otp_code = ? AND is_verified = false", id, code).
		Updates(map[string]any{
			"is_verified":    true,
			"otp_code":       nil,
			"otp_expires_at": nil,
		})
	if err := res.Error; err != nil {
		return customErrors.WrapInternal(err, "MarkVerified")
	}
	if res.RowsAffected == 0 {
		return customErrors.ErrNotFound
	}
	return nil
}

func (p *PostgresUserRepo) ReplaceChallenge(ctx context.Context, id uuid.UUID, ch model.OTPChallenge) error {
	res := p.db.WithContext(ctx).Model(&userRecord{}).
		Where("id = ? AND is_verified = false", id).
		Updates(map[string]any{
			"otp_code":       ch.Code,
			"otp_expires_at": ch.ExpiresAt,
		})
	if err := res.Error; err != nil {
		return customErrors.WrapInternal(err, "ReplaceChallenge")
	}
	if res.RowsAffected == 0 {
		return customErrors.ErrNotFound
	}
	return nil
}

func (p *PostgresUserRepo) UpdateRole(ctx context.Context, id uuid.UUID, role model.Role) error {
	res := p.db.WithContext(ctx).Model(&userRecord{}).
		Where("id = ?", id).
		Update("role", string(role))
	if err := res.Error; err != nil {
		return customErrors.WrapInternal(err, "UpdateRole")
	}
	if res.RowsAffected == 0 {
		return customErrors.ErrNotFound
	}
	return nil
}

func (p *PostgresUserRepo) DeleteUser(ctx context.Context, id uuid.UUID) error {
	res := p.db.WithContext(ctx).Delete(&userRecord{}, "id = ?", id)
	if err := res.Error; err != nil {
		return customErrors.WrapInternal(err, "DeleteUser")
	}
	if res.RowsAffected == 0 {
		return customErrors.ErrNotFound
	}
	return nil
}
