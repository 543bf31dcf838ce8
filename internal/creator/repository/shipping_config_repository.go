package repository

import (
	"context"
	"database/sql"
	"fmt"

	"vitrine/internal/domain"
	"vitrine/internal/errors"
)

type MySQLShippingConfigRepository struct {
	db *sql.DB
}

func NewMySQLShippingConfigRepository(db *sql.DB) *MySQLShippingConfigRepository {
	return &MySQLShippingConfigRepository{db: db}
}

func (r *MySQLShippingConfigRepository) FindByCreatorID(ctx context.Context, creatorID int) (*domain.CreatorShippingConfig, error) {
	query := `
		SELECT id, creatorId, originPostalCode, handlingDays, createdAt, updatedAt
		FROM CreatorShippingConfig
		WHERE creatorId = ?
	`

	var config domain.CreatorShippingConfig
	err := r.db.QueryRowContext(ctx, query, creatorID).Scan(
		&config.ID, &config.CreatorID, &config.OriginPostalCode, &config.HandlingDays,
		&config.CreatedAt, &config.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("shipping config for creator id %d not found", creatorID))
	}
	if err != nil {
		return nil, fmt.Errorf("querying shipping config by creator id: %w", err)
	}

	return &config, nil
}
