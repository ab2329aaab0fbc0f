package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/pizzapos-backend/pkg/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Record is one row of the snapshots table.
type Record struct {
	Slot      string    `gorm:"column:slot;primaryKey"`
	Payload   string    `gorm:"column:payload;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (Record) TableName() string { return "snapshots" }

// SQLiteStore keeps slots in the local sqlite database.
type SQLiteStore struct {
	client *db.Client
	now    func() time.Time
}

func NewSQLiteStore(client *db.Client) (*SQLiteStore, error) {
	if client == nil || client.DB() == nil {
		return nil, errors.New("db client required")
	}
	return &SQLiteStore{client: client, now: time.Now}, nil
}

func (s *SQLiteStore) upsert(tx *gorm.DB, slot string, value any) error {
	payload, err := encode(slot, value)
	if err != nil {
		return err
	}
	rec := Record{Slot: slot, Payload: payload, UpdatedAt: s.now().UTC()}
	err = tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slot"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("save snapshot %s: %w", slot, err)
	}
	return nil
}

func (s *SQLiteStore) Save(ctx context.Context, slot string, value any) error {
	return s.upsert(s.client.DB().WithContext(ctx), slot, value)
}

func (s *SQLiteStore) Load(ctx context.Context, slot string, dest any) (bool, error) {
	var rec Record
	err := s.client.DB().WithContext(ctx).Where("slot = ?", slot).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load snapshot %s: %w", slot, err)
	}
	return true, decode(slot, rec.Payload, dest)
}

// SaveAll writes every slot in one transaction.
func (s *SQLiteStore) SaveAll(ctx context.Context, values map[string]any) error {
	return s.client.WithTx(ctx, func(tx *gorm.DB) error {
		for _, slot := range sortedSlots(values) {
			if err := s.upsert(tx, slot, values[slot]); err != nil {
				return err
			}
		}
		return nil
	})
}
