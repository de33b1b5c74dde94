package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// documentRow holds one JSON document. Per-document atomicity comes from
// running every single-document mutation in its own DB transaction with a
// row lock where the dialect supports one.
type documentRow struct {
	Collection string    `gorm:"primaryKey;size:64"`
	DocID      string    `gorm:"primaryKey;size:64;column:doc_id"`
	Data       string    `gorm:"type:text"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (documentRow) TableName() string { return "documents" }

// documentKeyRow claims a unique field value for a document. The composite
// primary key is what turns duplicate usernames/emails into a
// database-reported duplicate-key error instead of a racy pre-check.
type documentKeyRow struct {
	Collection string `gorm:"primaryKey;size:64"`
	Field      string `gorm:"primaryKey;size:64"`
	Value      string `gorm:"primaryKey;size:255"`
	DocID      string `gorm:"size:64;column:doc_id"`
}

func (documentKeyRow) TableName() string { return "document_keys" }

// SQL is a Store backed by a relational database through GORM. Documents
// live as JSON text in a two-table layout, so filters are evaluated
// client-side after loading the collection.
type SQL struct {
	db    *gorm.DB
	specs map[string]Collection
	newID func() string
}

// NewSQL creates a SQL-backed store and migrates its tables.
func NewSQL(db *gorm.DB, specs ...Collection) (*SQL, error) {
	if err := db.AutoMigrate(&documentRow{}, &documentKeyRow{}); err != nil {
		return nil, fmt.Errorf("store: migrate document tables: %w", err)
	}
	s := &SQL{
		db:    db,
		specs: make(map[string]Collection, len(specs)),
		newID: uuid.NewString,
	}
	for _, spec := range specs {
		s.specs[spec.Name] = spec
	}
	return s, nil
}

// lockForUpdate applies a row lock on dialects that support it. SQLite
// serializes writers on its own.
func (s *SQL) lockForUpdate(tx *gorm.DB) *gorm.DB {
	if s.db.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

func (s *SQL) Insert(ctx context.Context, collection string, doc Doc) (string, error) {
	stored, err := cloneDoc(doc)
	if err != nil {
		return "", err
	}
	id := docID(stored)
	if id == "" {
		id = s.newID()
		stored[IDField] = id
	}
	raw, err := json.Marshal(stored)
	if err != nil {
		return "", fmt.Errorf("store: encode document: %w", err)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for field, value := range uniqueValues(s.specs[collection], stored) {
			row := documentKeyRow{Collection: collection, Field: field, Value: value, DocID: id}
			if err := tx.Create(&row).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return &DuplicateKeyError{Collection: collection, Field: field, Value: value}
				}
				return err
			}
		}
		return tx.Create(&documentRow{Collection: collection, DocID: id, Data: string(raw)}).Error
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *SQL) Get(ctx context.Context, collection, id string) (Doc, error) {
	var row documentRow
	err := s.db.WithContext(ctx).
		Where("collection = ? AND doc_id = ?", collection, id).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: sql get: %w", err)
	}
	return decodeRow(row)
}

func (s *SQL) Find(ctx context.Context, collection string, filter Filter) ([]Doc, error) {
	var rows []documentRow
	err := s.db.WithContext(ctx).
		Where("collection = ?", collection).
		Order("created_at").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("store: sql find: %w", err)
	}

	var out []Doc
	for _, row := range rows {
		doc, err := decodeRow(row)
		if err != nil {
			return nil, err
		}
		hit, err := filter.Matches(doc)
		if err != nil {
			return nil, err
		}
		if hit {
			out = append(out, doc)
		}
	}
	return out, nil
}

func (s *SQL) UpdateOne(ctx context.Context, collection, id string, ops ...Op) (Doc, error) {
	var updated Doc
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row documentRow
		err := s.lockForUpdate(tx).
			Where("collection = ? AND doc_id = ?", collection, id).
			First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		current, err := decodeRow(row)
		if err != nil {
			return err
		}
		updated, err = cloneDoc(current)
		if err != nil {
			return err
		}
		if err := applyOps(updated, ops); err != nil {
			return err
		}

		spec := s.specs[collection]
		oldUniq := uniqueValues(spec, current)
		newUniq := uniqueValues(spec, updated)
		for field, value := range oldUniq {
			if newUniq[field] == value {
				continue
			}
			err := tx.Where("collection = ? AND field = ? AND value = ?", collection, field, value).
				Delete(&documentKeyRow{}).Error
			if err != nil {
				return err
			}
		}
		for field, value := range newUniq {
			if oldUniq[field] == value {
				continue
			}
			keyRow := documentKeyRow{Collection: collection, Field: field, Value: value, DocID: id}
			if err := tx.Create(&keyRow).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return &DuplicateKeyError{Collection: collection, Field: field, Value: value}
				}
				return err
			}
		}

		raw, err := json.Marshal(updated)
		if err != nil {
			return fmt.Errorf("store: encode document: %w", err)
		}
		return tx.Model(&documentRow{}).
			Where("collection = ? AND doc_id = ?", collection, id).
			Update("data", string(raw)).Error
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *SQL) DeleteOne(ctx context.Context, collection, id string) (Doc, error) {
	var deleted Doc
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row documentRow
		err := s.lockForUpdate(tx).
			Where("collection = ? AND doc_id = ?", collection, id).
			First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		deleted, err = decodeRow(row)
		if err != nil {
			return err
		}
		err = tx.Where("collection = ? AND doc_id = ?", collection, id).
			Delete(&documentRow{}).Error
		if err != nil {
			return err
		}
		return tx.Where("collection = ? AND doc_id = ?", collection, id).
			Delete(&documentKeyRow{}).Error
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

func (s *SQL) DeleteMany(ctx context.Context, collection string, filter Filter) (int64, error) {
	docs, err := s.Find(ctx, collection, filter)
	if err != nil {
		return 0, err
	}
	var count int64
	for _, doc := range docs {
		_, err := s.DeleteOne(ctx, collection, docID(doc))
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func (s *SQL) UpdateMany(ctx context.Context, collection string, filter Filter, ops ...Op) (int64, error) {
	docs, err := s.Find(ctx, collection, filter)
	if err != nil {
		return 0, err
	}
	var count int64
	for _, doc := range docs {
		_, err := s.UpdateOne(ctx, collection, docID(doc), ops...)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func decodeRow(row documentRow) (Doc, error) {
	var doc Doc
	if err := json.Unmarshal([]byte(row.Data), &doc); err != nil {
		return nil, fmt.Errorf("store: decode document %s/%s: %w", row.Collection, row.DocID, err)
	}
	return doc, nil
}
