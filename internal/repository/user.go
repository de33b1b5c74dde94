package repository

import (
	"context"

	"murmur/internal/models"
	"murmur/internal/observability"
	"murmur/internal/store"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	UpdateFields(ctx context.Context, id string, fields map[string]any) (*models.User, error)
	Delete(ctx context.Context, id string) (*models.User, error)
	AddFriend(ctx context.Context, userID, friendID string) (*models.User, error)
	RemoveFriend(ctx context.Context, userID, friendID string) (*models.User, error)
	AppendThought(ctx context.Context, userID, thoughtID string) (*models.User, error)
	PullThoughtAll(ctx context.Context, thoughtID string) (int64, error)
	PullFriendAll(ctx context.Context, friendID string) (int64, error)
}

// userRepository implements UserRepository
type userRepository struct {
	store   store.Store
	logger  *observability.StoreLogger
	metrics *observability.StoreMetrics
}

// NewUserRepository creates a new user repository over the given store.
func NewUserRepository(s store.Store) UserRepository {
	return &userRepository{
		store:   s,
		logger:  observability.NewStoreLogger(UsersCollection),
		metrics: observability.NewStoreMetrics(UsersCollection),
	}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	defer r.metrics.TrackOp("insert")()

	if user.Thoughts == nil {
		user.Thoughts = []string{}
	}
	if user.Friends == nil {
		user.Friends = []string{}
	}
	doc, err := store.EncodeDoc(user)
	if err != nil {
		return models.NewInternalError(err)
	}
	id, err := r.store.Insert(ctx, UsersCollection, doc)
	if err != nil {
		r.logger.LogError(ctx, err, "insert")
		return translateStoreErr("User", user.ID, err)
	}
	user.ID = id
	r.logger.LogOp(ctx, "insert", map[string]any{"user_id": id, "username": user.Username})
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	defer r.metrics.TrackOp("get")()

	doc, err := r.store.Get(ctx, UsersCollection, id)
	if err != nil {
		return nil, translateStoreErr("User", id, err)
	}
	return decodeUser(doc)
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	defer r.metrics.TrackOp("find")()

	docs, err := r.store.Find(ctx, UsersCollection, store.Filter{
		Equals: &store.FieldMatch{Field: "username", Value: username},
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if len(docs) == 0 {
		return nil, nil
	}
	return decodeUser(docs[0])
}

func (r *userRepository) List(ctx context.Context) ([]models.User, error) {
	defer r.metrics.TrackOp("find")()

	docs, err := r.store.Find(ctx, UsersCollection, store.Filter{})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	users := make([]models.User, 0, len(docs))
	for _, doc := range docs {
		user, err := decodeUser(doc)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, nil
}

func (r *userRepository) UpdateFields(ctx context.Context, id string, fields map[string]any) (*models.User, error) {
	defer r.metrics.TrackOp("update")()

	doc, err := r.store.UpdateOne(ctx, UsersCollection, id, store.Set(fields))
	if err != nil {
		r.logger.LogError(ctx, err, "update")
		return nil, translateStoreErr("User", id, err)
	}
	r.logger.LogOp(ctx, "update", map[string]any{"user_id": id})
	return decodeUser(doc)
}

func (r *userRepository) Delete(ctx context.Context, id string) (*models.User, error) {
	defer r.metrics.TrackOp("delete")()

	doc, err := r.store.DeleteOne(ctx, UsersCollection, id)
	if err != nil {
		return nil, translateStoreErr("User", id, err)
	}
	r.logger.LogOp(ctx, "delete", map[string]any{"user_id": id})
	return decodeUser(doc)
}

func (r *userRepository) AddFriend(ctx context.Context, userID, friendID string) (*models.User, error) {
	defer r.metrics.TrackOp("update")()

	doc, err := r.store.UpdateOne(ctx, UsersCollection, userID, store.AddToSet("friends", friendID))
	if err != nil {
		return nil, translateStoreErr("User", userID, err)
	}
	return decodeUser(doc)
}

func (r *userRepository) RemoveFriend(ctx context.Context, userID, friendID string) (*models.User, error) {
	defer r.metrics.TrackOp("update")()

	doc, err := r.store.UpdateOne(ctx, UsersCollection, userID, store.Pull("friends", store.Match{Value: friendID}))
	if err != nil {
		return nil, translateStoreErr("User", userID, err)
	}
	return decodeUser(doc)
}

func (r *userRepository) AppendThought(ctx context.Context, userID, thoughtID string) (*models.User, error) {
	defer r.metrics.TrackOp("update")()

	doc, err := r.store.UpdateOne(ctx, UsersCollection, userID, store.Push("thoughts", thoughtID))
	if err != nil {
		return nil, translateStoreErr("User", userID, err)
	}
	return decodeUser(doc)
}

// PullThoughtAll removes thoughtID from every user's thoughts list, not
// just the presumed owner's, so the scrub stays correct even if ownership
// denormalization ever drifts.
func (r *userRepository) PullThoughtAll(ctx context.Context, thoughtID string) (int64, error) {
	defer r.metrics.TrackOp("update_many")()

	n, err := r.store.UpdateMany(ctx, UsersCollection,
		store.Filter{Contains: &store.FieldMatch{Field: "thoughts", Value: thoughtID}},
		store.Pull("thoughts", store.Match{Value: thoughtID}))
	if err != nil {
		r.logger.LogError(ctx, err, "update_many")
		return n, models.NewInternalError(err)
	}
	return n, nil
}

// PullFriendAll removes friendID from every user's friends set.
func (r *userRepository) PullFriendAll(ctx context.Context, friendID string) (int64, error) {
	defer r.metrics.TrackOp("update_many")()

	n, err := r.store.UpdateMany(ctx, UsersCollection,
		store.Filter{Contains: &store.FieldMatch{Field: "friends", Value: friendID}},
		store.Pull("friends", store.Match{Value: friendID}))
	if err != nil {
		r.logger.LogError(ctx, err, "update_many")
		return n, models.NewInternalError(err)
	}
	return n, nil
}

func decodeUser(doc store.Doc) (*models.User, error) {
	var user models.User
	if err := store.DecodeDoc(doc, &user); err != nil {
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}
