package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Redis stores each document as a JSON value keyed by collection and id,
// with a per-collection id index set and one sentinel key per claimed
// unique value. Single-document mutations run inside WATCH/MULTI
// transactions on the document key, so they are atomic and serializable
// per document; multi-document operations commit one document at a time.
type Redis struct {
	client *redis.Client
	specs  map[string]Collection
	newID  func() string
}

// txRetries caps optimistic transaction attempts before giving up.
const txRetries = 16

// NewRedis creates a Redis-backed store serving the given collections.
func NewRedis(client *redis.Client, specs ...Collection) *Redis {
	r := &Redis{
		client: client,
		specs:  make(map[string]Collection, len(specs)),
		newID:  uuid.NewString,
	}
	for _, spec := range specs {
		r.specs[spec.Name] = spec
	}
	return r
}

func (r *Redis) docKey(collection, id string) string {
	return "doc:" + collection + ":" + id
}

func (r *Redis) idxKey(collection string) string {
	return "idx:" + collection
}

func (r *Redis) uniqKey(collection, field, value string) string {
	return "uniq:" + collection + ":" + field + ":" + value
}

// watch runs fn under WATCH on the given keys, retrying on transaction
// conflicts up to txRetries times.
func (r *Redis) watch(ctx context.Context, fn func(tx *redis.Tx) error, keys ...string) error {
	for i := 0; i < txRetries; i++ {
		err := r.client.Watch(ctx, fn, keys...)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return fmt.Errorf("store: redis transaction contention on %v", keys)
}

func (r *Redis) Insert(ctx context.Context, collection string, doc Doc) (string, error) {
	stored, err := cloneDoc(doc)
	if err != nil {
		return "", err
	}
	id := docID(stored)
	if id == "" {
		id = r.newID()
		stored[IDField] = id
	}
	raw, err := json.Marshal(stored)
	if err != nil {
		return "", fmt.Errorf("store: encode document: %w", err)
	}

	uniq := uniqueValues(r.specs[collection], stored)
	watched := []string{r.docKey(collection, id)}
	for field, value := range uniq {
		watched = append(watched, r.uniqKey(collection, field, value))
	}

	err = r.watch(ctx, func(tx *redis.Tx) error {
		for field, value := range uniq {
			owner, err := tx.Get(ctx, r.uniqKey(collection, field, value)).Result()
			if err == nil && owner != id {
				return &DuplicateKeyError{Collection: collection, Field: field, Value: value}
			}
			if err != nil && !errors.Is(err, redis.Nil) {
				return err
			}
		}
		_, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, r.docKey(collection, id), raw, 0)
			pipe.SAdd(ctx, r.idxKey(collection), id)
			for field, value := range uniq {
				pipe.Set(ctx, r.uniqKey(collection, field, value), id, 0)
			}
			return nil
		})
		return err
	}, watched...)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *Redis) Get(ctx context.Context, collection, id string) (Doc, error) {
	raw, err := r.client.Get(ctx, r.docKey(collection, id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: redis get: %w", err)
	}
	var doc Doc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("store: decode document: %w", err)
	}
	return doc, nil
}

func (r *Redis) Find(ctx context.Context, collection string, filter Filter) ([]Doc, error) {
	ids, err := r.client.SMembers(ctx, r.idxKey(collection)).Result()
	if err != nil {
		return nil, fmt.Errorf("store: redis index scan: %w", err)
	}
	sort.Strings(ids)

	var out []Doc
	for _, id := range ids {
		doc, err := r.Get(ctx, collection, id)
		if errors.Is(err, ErrNotFound) {
			continue // deleted between index scan and fetch
		}
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

func (r *Redis) UpdateOne(ctx context.Context, collection, id string, ops ...Op) (Doc, error) {
	key := r.docKey(collection, id)
	spec := r.specs[collection]
	var updated Doc

	err := r.watch(ctx, func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		var current Doc
		if err := json.Unmarshal(raw, &current); err != nil {
			return fmt.Errorf("store: decode document: %w", err)
		}
		updated, err = cloneDoc(current)
		if err != nil {
			return err
		}
		if err := applyOps(updated, ops); err != nil {
			return err
		}

		oldUniq := uniqueValues(spec, current)
		newUniq := uniqueValues(spec, updated)
		for field, value := range newUniq {
			if oldUniq[field] == value {
				continue
			}
			uk := r.uniqKey(collection, field, value)
			if err := tx.Watch(ctx, uk).Err(); err != nil {
				return err
			}
			owner, err := tx.Get(ctx, uk).Result()
			if err == nil && owner != id {
				return &DuplicateKeyError{Collection: collection, Field: field, Value: value}
			}
			if err != nil && !errors.Is(err, redis.Nil) {
				return err
			}
		}

		out, err := json.Marshal(updated)
		if err != nil {
			return fmt.Errorf("store: encode document: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, out, 0)
			for field, value := range oldUniq {
				if newUniq[field] != value {
					pipe.Del(ctx, r.uniqKey(collection, field, value))
				}
			}
			for field, value := range newUniq {
				if oldUniq[field] != value {
					pipe.Set(ctx, r.uniqKey(collection, field, value), id, 0)
				}
			}
			return nil
		})
		return err
	}, key)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *Redis) DeleteOne(ctx context.Context, collection, id string) (Doc, error) {
	key := r.docKey(collection, id)
	var deleted Doc

	err := r.watch(ctx, func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if err := json.Unmarshal(raw, &deleted); err != nil {
			return fmt.Errorf("store: decode document: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			pipe.SRem(ctx, r.idxKey(collection), id)
			for field, value := range uniqueValues(r.specs[collection], deleted) {
				pipe.Del(ctx, r.uniqKey(collection, field, value))
			}
			return nil
		})
		return err
	}, key)
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

func (r *Redis) DeleteMany(ctx context.Context, collection string, filter Filter) (int64, error) {
	docs, err := r.Find(ctx, collection, filter)
	if err != nil {
		return 0, err
	}
	var count int64
	for _, doc := range docs {
		_, err := r.DeleteOne(ctx, collection, docID(doc))
		if errors.Is(err, ErrNotFound) {
			continue // lost a race with a concurrent delete
		}
		if err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func (r *Redis) UpdateMany(ctx context.Context, collection string, filter Filter, ops ...Op) (int64, error) {
	docs, err := r.Find(ctx, collection, filter)
	if err != nil {
		return 0, err
	}
	var count int64
	for _, doc := range docs {
		_, err := r.UpdateOne(ctx, collection, docID(doc), ops...)
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
