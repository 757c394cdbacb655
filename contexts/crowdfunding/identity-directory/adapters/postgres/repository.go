package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"crowdfund/contexts/crowdfunding/identity-directory/domain/entities"
	domainerrors "crowdfund/contexts/crowdfunding/identity-directory/domain/errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Models lists the gorm models owned by this repository for migrations.
func Models() []any {
	return []any{&profileModel{}}
}

func (r *Repository) UpsertProfile(ctx context.Context, profile entities.Profile) (entities.Profile, error) {
	var stored entities.Profile
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row profileModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("identity = ?", strings.TrimSpace(profile.Identity)).
			First(&row).
			Error
		existing := entities.Profile{}
		switch {
		case err == nil:
			existing = row.toEntity()
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		stored = existing.Merge(profile)
		next := profileModelFromEntity(stored)
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "identity"}},
			DoUpdates: clause.AssignmentColumns([]string{"display_name", "contact", "registered", "updated_at"}),
		}).Create(&next).Error
	})
	if err != nil {
		return entities.Profile{}, err
	}
	return stored, nil
}

func (r *Repository) GetProfile(ctx context.Context, identity string) (entities.Profile, error) {
	var row profileModel
	err := r.db.WithContext(ctx).
		Where("identity = ?", strings.TrimSpace(identity)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Profile{}, domainerrors.ErrIdentityNotFound
		}
		return entities.Profile{}, err
	}
	return row.toEntity(), nil
}

type profileModel struct {
	Identity     string    `gorm:"column:identity;primaryKey"`
	DisplayName  string    `gorm:"column:display_name;not null"`
	Contact      string    `gorm:"column:contact;not null"`
	Registered   bool      `gorm:"column:registered;not null"`
	RegisteredAt time.Time `gorm:"column:registered_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (profileModel) TableName() string {
	return "identity_profiles"
}

func profileModelFromEntity(item entities.Profile) profileModel {
	return profileModel{
		Identity:     strings.TrimSpace(item.Identity),
		DisplayName:  strings.TrimSpace(item.DisplayName),
		Contact:      strings.TrimSpace(item.Contact),
		Registered:   item.Registered,
		RegisteredAt: item.RegisteredAt.UTC(),
		UpdatedAt:    item.UpdatedAt.UTC(),
	}
}

func (m profileModel) toEntity() entities.Profile {
	return entities.Profile{
		Identity:     m.Identity,
		DisplayName:  m.DisplayName,
		Contact:      m.Contact,
		Registered:   m.Registered,
		RegisteredAt: m.RegisteredAt.UTC(),
		UpdatedAt:    m.UpdatedAt.UTC(),
	}
}
