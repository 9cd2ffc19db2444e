package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/blaisecz/health-simulator/internal/domain"
	"github.com/blaisecz/health-simulator/pkg/pagination"
)

type VirtualUserRepository interface {
	Create(ctx context.Context, user *domain.VirtualUser) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.VirtualUser, error)
	List(ctx context.Context, filter domain.VirtualUserFilter) ([]domain.VirtualUser, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type virtualUserRepository struct {
	db *gorm.DB
}

func NewVirtualUserRepository(db *gorm.DB) VirtualUserRepository {
	return &virtualUserRepository{db: db}
}

func (r *virtualUserRepository) Create(ctx context.Context, user *domain.VirtualUser) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *virtualUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.VirtualUser, error) {
	var user domain.VirtualUser
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *virtualUserRepository) List(ctx context.Context, filter domain.VirtualUserFilter) ([]domain.VirtualUser, error) {
	query := r.db.WithContext(ctx).Order("created_at DESC, id DESC")

	if filter.Cursor != "" {
		cursor, err := pagination.DecodeCursor(filter.Cursor)
		if err == nil && cursor != nil {
			query = query.Where(
				"(created_at < ?) OR (created_at = ? AND id < ?)",
				cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
			)
		}
	}

	// Fetch one extra to determine if there are more results.
	limit := pagination.NormalizeLimit(filter.Limit)
	query = query.Limit(limit + 1)

	var users []domain.VirtualUser
	if err := query.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *virtualUserRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.VirtualUser{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *virtualUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&domain.VirtualUser{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
