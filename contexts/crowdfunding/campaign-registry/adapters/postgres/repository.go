package postgresadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"crowdfund/contexts/crowdfunding/campaign-registry/domain/entities"
	domainerrors "crowdfund/contexts/crowdfunding/campaign-registry/domain/errors"
	"crowdfund/contexts/crowdfunding/campaign-registry/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

// Repository stores campaigns in one table. The owner and global indices are
// the live rows ordered by global_seq, so a single row write keeps both in
// step.
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
	return []any{&campaignModel{}, &ownerCounterModel{}, &outboxModel{}}
}

func (r *Repository) CreateCampaign(ctx context.Context, campaign entities.Campaign) (entities.Campaign, error) {
	owner := strings.TrimSpace(campaign.Owner)
	if owner == "" {
		return entities.Campaign{}, domainerrors.ErrInvalidArgument
	}

	var stored entities.Campaign
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		counter := ownerCounterModel{Owner: owner, LastLocalID: 1}
		if err := tx.Clauses(
			clause.OnConflict{
				Columns: []clause.Column{{Name: "owner"}},
				DoUpdates: clause.Assignments(map[string]any{
					"last_local_id": gorm.Expr("campaign_owner_counters.last_local_id + 1"),
				}),
			},
			clause.Returning{Columns: []clause.Column{{Name: "last_local_id"}}},
		).Create(&counter).Error; err != nil {
			return err
		}

		campaign.Owner = owner
		campaign.LocalID = counter.LastLocalID
		campaign.Active = true
		row := campaignModelFromEntity(campaign)
		if err := tx.Create(&row).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrInvalidArgument
			}
			return err
		}
		stored = row.toEntity()
		return nil
	})
	if err != nil {
		return entities.Campaign{}, err
	}

	r.logger.Debug("campaign row inserted",
		"event", "campaign_row_inserted",
		"module", "crowdfunding/campaign-registry",
		"layer", "adapter",
		"owner", stored.Owner,
		"local_id", stored.LocalID,
		"global_seq", stored.Sequence,
	)
	return stored, nil
}

func (r *Repository) GetCampaign(ctx context.Context, key entities.Key) (entities.Campaign, error) {
	var row campaignModel
	err := r.db.WithContext(ctx).
		Where("owner = ? AND local_id = ? AND active = ?", strings.TrimSpace(key.Owner), key.LocalID, true).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Campaign{}, domainerrors.ErrCampaignNotFound
		}
		return entities.Campaign{}, err
	}
	return row.toEntity(), nil
}

// UpdateCampaign locks the row for the merge so replicas updating different
// fields of one campaign serialize on it.
func (r *Repository) UpdateCampaign(ctx context.Context, key entities.Key, patch entities.Patch, updatedAt time.Time) (entities.Campaign, error) {
	var stored entities.Campaign
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row campaignModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("owner = ? AND local_id = ? AND active = ?", strings.TrimSpace(key.Owner), key.LocalID, true).
			First(&row).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrCampaignNotFound
			}
			return err
		}

		updated := row.toEntity().Apply(patch, updatedAt.UTC())
		if err := tx.Model(&campaignModel{}).
			Where("owner = ? AND local_id = ?", row.Owner, row.LocalID).
			Updates(map[string]any{
				"name":        updated.Name,
				"description": updated.Description,
				"target_fund": updated.TargetFund,
				"deadline":    updated.Deadline,
				"updated_at":  updated.UpdatedAt,
			}).Error; err != nil {
			return err
		}
		stored = updated
		return nil
	})
	if err != nil {
		return entities.Campaign{}, err
	}
	return stored, nil
}

func (r *Repository) DeleteCampaign(ctx context.Context, key entities.Key, deletedAt time.Time) error {
	timestamp := deletedAt.UTC()
	result := r.db.WithContext(ctx).
		Model(&campaignModel{}).
		Where("owner = ? AND local_id = ? AND active = ?", strings.TrimSpace(key.Owner), key.LocalID, true).
		Updates(map[string]any{
			"active":     false,
			"deleted_at": &timestamp,
			"updated_at": timestamp,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrCampaignNotFound
	}
	return nil
}

func (r *Repository) ListByOwner(ctx context.Context, owner string, page entities.Page) ([]entities.Campaign, error) {
	owner = strings.TrimSpace(owner)
	return r.listPage(ctx, page, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("owner = ?", owner)
	})
}

func (r *Repository) CountByOwner(ctx context.Context, owner string) (int, error) {
	owner = strings.TrimSpace(owner)
	return r.count(ctx, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("owner = ?", owner)
	})
}

func (r *Repository) ListAll(ctx context.Context, page entities.Page) ([]entities.Campaign, error) {
	return r.listPage(ctx, page, nil)
}

func (r *Repository) CountAll(ctx context.Context) (int, error) {
	return r.count(ctx, nil)
}

func (r *Repository) listPage(
	ctx context.Context,
	page entities.Page,
	scope func(*gorm.DB) *gorm.DB,
) ([]entities.Campaign, error) {
	total, err := r.count(ctx, scope)
	if err != nil {
		return nil, err
	}
	start, end, ok := page.Bounds(total)
	if !ok {
		return []entities.Campaign{}, nil
	}

	tx := r.db.WithContext(ctx).Model(&campaignModel{}).Where("active = ?", true)
	if scope != nil {
		tx = scope(tx)
	}
	var rows []campaignModel
	if err := tx.Order("global_seq ASC").
		Offset(start).
		Limit(end - start).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}

	items := make([]entities.Campaign, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) count(ctx context.Context, scope func(*gorm.DB) *gorm.DB) (int, error) {
	tx := r.db.WithContext(ctx).Model(&campaignModel{}).Where("active = ?", true)
	if scope != nil {
		tx = scope(tx)
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return 0, err
	}
	return int(total), nil
}

func (r *Repository) AppendOutbox(ctx context.Context, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	row := outboxModel{
		OutboxID:     strings.TrimSpace(envelope.EventID),
		EventType:    strings.TrimSpace(envelope.EventType),
		PartitionKey: strings.TrimSpace(envelope.PartitionKey),
		Payload:      payload,
		Status:       outboxStatusPending,
		CreatedAt:    envelope.OccurredAt.UTC(),
	}
	if row.OutboxID == "" {
		row.OutboxID = uuid.NewString()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}

	createResult := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "outbox_id"}},
			DoNothing: true,
		}).
		Create(&row)
	if createResult.Error != nil {
		return createResult.Error
	}
	if createResult.RowsAffected > 0 {
		return nil
	}

	var existing outboxModel
	if err := r.db.WithContext(ctx).
		Select("payload").
		Where("outbox_id = ?", row.OutboxID).
		First(&existing).
		Error; err != nil {
		return err
	}
	if !bytes.Equal(existing.Payload, row.Payload) {
		return domainerrors.ErrInvalidArgument
	}
	return nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}

	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}

	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:     row.OutboxID,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Payload:      append([]byte(nil), row.Payload...),
			CreatedAt:    row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": publishedAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrInvalidArgument
	}
	return nil
}

type campaignModel struct {
	Owner       string     `gorm:"column:owner;primaryKey"`
	LocalID     uint64     `gorm:"column:local_id;primaryKey;autoIncrement:false"`
	GlobalSeq   uint64     `gorm:"column:global_seq;autoIncrement;uniqueIndex;not null"`
	Name        string     `gorm:"column:name"`
	Description string     `gorm:"column:description"`
	TargetFund  uint64     `gorm:"column:target_fund;type:numeric(20,0)"`
	CurrentFund uint64     `gorm:"column:current_fund;type:numeric(20,0)"`
	Deadline    int64      `gorm:"column:deadline"`
	Active      bool       `gorm:"column:active;index;not null"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at"`
	DeletedAt   *time.Time `gorm:"column:deleted_at"`
}

func (campaignModel) TableName() string {
	return "campaigns"
}

func campaignModelFromEntity(item entities.Campaign) campaignModel {
	return campaignModel{
		Owner:       strings.TrimSpace(item.Owner),
		LocalID:     item.LocalID,
		Name:        item.Name,
		Description: item.Description,
		TargetFund:  item.TargetFund,
		CurrentFund: item.CurrentFund,
		Deadline:    item.Deadline,
		Active:      item.Active,
		CreatedAt:   item.CreatedAt.UTC(),
		UpdatedAt:   item.UpdatedAt.UTC(),
	}
}

func (m campaignModel) toEntity() entities.Campaign {
	return entities.Campaign{
		Owner:       m.Owner,
		LocalID:     m.LocalID,
		Name:        m.Name,
		Description: m.Description,
		TargetFund:  m.TargetFund,
		CurrentFund: m.CurrentFund,
		Deadline:    m.Deadline,
		Active:      m.Active,
		Sequence:    m.GlobalSeq,
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}

// ownerCounterModel holds the last local id handed out per owner. Rows are
// never decremented, so ids are not reused after a delete.
type ownerCounterModel struct {
	Owner       string `gorm:"column:owner;primaryKey"`
	LastLocalID uint64 `gorm:"column:last_local_id;not null"`
}

func (ownerCounterModel) TableName() string {
	return "campaign_owner_counters"
}

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status;index"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "campaign_outbox"
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
