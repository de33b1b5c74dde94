package repository

import (
	"context"

	"murmur/internal/models"
	"murmur/internal/observability"
	"murmur/internal/store"
)

// ThoughtRepository defines the interface for thought data operations.
// Reactions are reachable only through their parent thought.
type ThoughtRepository interface {
	Create(ctx context.Context, thought *models.Thought) error
	GetByID(ctx context.Context, id string) (*models.Thought, error)
	List(ctx context.Context) ([]models.Thought, error)
	UpdateFields(ctx context.Context, id string, fields map[string]any) (*models.Thought, error)
	Delete(ctx context.Context, id string) (*models.Thought, error)
	DeleteByIDs(ctx context.Context, ids []string) (int64, error)
	PushReaction(ctx context.Context, thoughtID string, reaction models.Reaction) (*models.Thought, error)
	PullReaction(ctx context.Context, thoughtID, reactionID string) (*models.Thought, error)
}

// thoughtRepository implements ThoughtRepository
type thoughtRepository struct {
	store   store.Store
	logger  *observability.StoreLogger
	metrics *observability.StoreMetrics
}

// NewThoughtRepository creates a new thought repository over the given store.
func NewThoughtRepository(s store.Store) ThoughtRepository {
	return &thoughtRepository{
		store:   s,
		logger:  observability.NewStoreLogger(ThoughtsCollection),
		metrics: observability.NewStoreMetrics(ThoughtsCollection),
	}
}

func (r *thoughtRepository) Create(ctx context.Context, thought *models.Thought) error {
	defer r.metrics.TrackOp("insert")()

	if thought.Reactions == nil {
		thought.Reactions = []models.Reaction{}
	}
	doc, err := store.EncodeDoc(thought)
	if err != nil {
		return models.NewInternalError(err)
	}
	id, err := r.store.Insert(ctx, ThoughtsCollection, doc)
	if err != nil {
		r.logger.LogError(ctx, err, "insert")
		return translateStoreErr("Thought", thought.ID, err)
	}
	thought.ID = id
	r.logger.LogOp(ctx, "insert", map[string]any{"thought_id": id, "username": thought.Username})
	return nil
}

func (r *thoughtRepository) GetByID(ctx context.Context, id string) (*models.Thought, error) {
	defer r.metrics.TrackOp("get")()

	doc, err := r.store.Get(ctx, ThoughtsCollection, id)
	if err != nil {
		return nil, translateStoreErr("Thought", id, err)
	}
	return decodeThought(doc)
}

func (r *thoughtRepository) List(ctx context.Context) ([]models.Thought, error) {
	defer r.metrics.TrackOp("find")()

	docs, err := r.store.Find(ctx, ThoughtsCollection, store.Filter{})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	thoughts := make([]models.Thought, 0, len(docs))
	for _, doc := range docs {
		thought, err := decodeThought(doc)
		if err != nil {
			return nil, err
		}
		thoughts = append(thoughts, *thought)
	}
	return thoughts, nil
}

func (r *thoughtRepository) UpdateFields(ctx context.Context, id string, fields map[string]any) (*models.Thought, error) {
	defer r.metrics.TrackOp("update")()

	doc, err := r.store.UpdateOne(ctx, ThoughtsCollection, id, store.Set(fields))
	if err != nil {
		r.logger.LogError(ctx, err, "update")
		return nil, translateStoreErr("Thought", id, err)
	}
	r.logger.LogOp(ctx, "update", map[string]any{"thought_id": id})
	return decodeThought(doc)
}

func (r *thoughtRepository) Delete(ctx context.Context, id string) (*models.Thought, error) {
	defer r.metrics.TrackOp("delete")()

	doc, err := r.store.DeleteOne(ctx, ThoughtsCollection, id)
	if err != nil {
		return nil, translateStoreErr("Thought", id, err)
	}
	r.logger.LogOp(ctx, "delete", map[string]any{"thought_id": id})
	return decodeThought(doc)
}

func (r *thoughtRepository) DeleteByIDs(ctx context.Context, ids []string) (int64, error) {
	defer r.metrics.TrackOp("delete_many")()

	if len(ids) == 0 {
		return 0, nil
	}
	n, err := r.store.DeleteMany(ctx, ThoughtsCollection, store.Filter{IDs: ids})
	if err != nil {
		r.logger.LogError(ctx, err, "delete_many")
		return n, models.NewInternalError(err)
	}
	r.logger.LogOp(ctx, "delete_many", map[string]any{"count": n})
	return n, nil
}

func (r *thoughtRepository) PushReaction(ctx context.Context, thoughtID string, reaction models.Reaction) (*models.Thought, error) {
	defer r.metrics.TrackOp("update")()

	doc, err := r.store.UpdateOne(ctx, ThoughtsCollection, thoughtID, store.Push("reactions", reaction))
	if err != nil {
		return nil, translateStoreErr("Thought", thoughtID, err)
	}
	return decodeThought(doc)
}

func (r *thoughtRepository) PullReaction(ctx context.Context, thoughtID, reactionID string) (*models.Thought, error) {
	defer r.metrics.TrackOp("update")()

	doc, err := r.store.UpdateOne(ctx, ThoughtsCollection, thoughtID,
		store.Pull("reactions", store.Match{Field: "reactionId", Value: reactionID}))
	if err != nil {
		return nil, translateStoreErr("Thought", thoughtID, err)
	}
	return decodeThought(doc)
}

func decodeThought(doc store.Doc) (*models.Thought, error) {
	var thought models.Thought
	if err := store.DecodeDoc(doc, &thought); err != nil {
		return nil, models.NewInternalError(err)
	}
	return &thought, nil
}
