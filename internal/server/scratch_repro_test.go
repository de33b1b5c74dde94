package server

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"murmur/internal/config"
	"murmur/internal/repository"
	"murmur/internal/service"
	"murmur/internal/store"

	"github.com/stretchr/testify/require"
)

type traceStore struct{ inner store.Store }

func (t *traceStore) Insert(ctx context.Context, c string, d store.Doc) (string, error) {
	id, err := t.inner.Insert(ctx, c, d)
	fmt.Printf("STORE Insert %s -> %v %v inner=%p\n", c, id, err, t.inner)
	return id, err
}
func (t *traceStore) Get(ctx context.Context, c, id string) (store.Doc, error) {
	d, err := t.inner.Get(ctx, c, id)
	fmt.Printf("STORE Get %s %s -> err=%v\n", c, id, err)
	return d, err
}
func (t *traceStore) Find(ctx context.Context, c string, f store.Filter) ([]store.Doc, error) {
	d, err := t.inner.Find(ctx, c, f)
	d2, _ := t.inner.Find(context.Background(), c, store.Filter{})
	fmt.Printf("STORE Find %s idsNil=%v eq=%v contains=%v -> n=%d (fresh=%d) err=%v inner=%p\n", c, f.IDs == nil, f.Equals, f.Contains, len(d), len(d2), err, t.inner)
	return d, err
}
func (t *traceStore) UpdateOne(ctx context.Context, c, id string, ops ...store.Op) (store.Doc, error) {
	d, err := t.inner.UpdateOne(ctx, c, id, ops...)
	fmt.Printf("STORE UpdateOne %s %s -> err=%v inner=%p\n", c, id, err, t.inner)
	return d, err
}
func (t *traceStore) DeleteOne(ctx context.Context, c, id string) (store.Doc, error) {
	d, err := t.inner.DeleteOne(ctx, c, id)
	fmt.Printf("STORE DeleteOne %s %s -> err=%v\n", c, id, err)
	return d, err
}
func (t *traceStore) DeleteMany(ctx context.Context, c string, f store.Filter) (int64, error) {
	n, err := t.inner.DeleteMany(ctx, c, f)
	fmt.Printf("STORE DeleteMany %s filter=%+v -> n=%d err=%v\n", c, f, n, err)
	return n, err
}
func (t *traceStore) UpdateMany(ctx context.Context, c string, f store.Filter, ops ...store.Op) (int64, error) {
	n, err := t.inner.UpdateMany(ctx, c, f, ops...)
	fmt.Printf("STORE UpdateMany %s filter=%+v -> n=%d err=%v\n", c, f, n, err)
	return n, err
}

func TestScratchHTTPRepro(t *testing.T) {
	raw0 := store.NewMemory(repository.Collections()...)
	mem := &traceStore{inner: raw0}
	userRepo := repository.NewUserRepository(mem)
	thoughtRepo := repository.NewThoughtRepository(mem)
	s := &Server{
		config:          &config.Config{Env: "test", StoreBackend: config.BackendMemory, Port: "0", RateLimitRPM: 1000},
		store:           mem,
		userRepo:        userRepo,
		thoughtRepo:     thoughtRepo,
		userService:     service.NewUserService(userRepo, thoughtRepo),
		thoughtService:  service.NewThoughtService(thoughtRepo, userRepo),
		reactionService: service.NewReactionService(thoughtRepo),
		friendService:   service.NewFriendService(userRepo),
		repairService:   service.NewRepairService(userRepo, thoughtRepo),
	}
	app := newTestApp(s)

	a := seedUser(t, app, "a", "a@x.com")
	resp, _ := doJSON(t, app, http.MethodPost, "/api/users/"+a.ID+"/friends/ghost", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	store.DebugDump(raw0, "before")
	fmt.Println(">>> REPAIR")
	resp, raw := doJSON(t, app, http.MethodPost, "/api/admin/repair", nil)
	fmt.Printf("repair status=%d body=%s\n", resp.StatusCode, raw)
	store.DebugDump(raw0, "after")
}

func TestScratchInterleaved(t *testing.T) {
	mem := &traceStore{inner: store.NewMemory(repository.Collections()...)}
	userRepo := repository.NewUserRepository(mem)
	thoughtRepo := repository.NewThoughtRepository(mem)
	s := &Server{
		config:          &config.Config{Env: "test", StoreBackend: config.BackendMemory, Port: "0", RateLimitRPM: 1000},
		store:           mem,
		userRepo:        userRepo,
		thoughtRepo:     thoughtRepo,
		userService:     service.NewUserService(userRepo, thoughtRepo),
		thoughtService:  service.NewThoughtService(thoughtRepo, userRepo),
		reactionService: service.NewReactionService(thoughtRepo),
		friendService:   service.NewFriendService(userRepo),
		repairService:   service.NewRepairService(userRepo, thoughtRepo),
	}
	app := newTestApp(s)

	a := seedUser(t, app, "a", "a@x.com")
	resp, _ := doJSON(t, app, http.MethodPost, "/api/users/"+a.ID+"/friends/ghost", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	fmt.Println(">>> OUTSIDE LIST 1")
	u1, e1 := userRepo.List(context.Background())
	fmt.Printf("outside list1 n=%d err=%v\n", len(u1), e1)

	fmt.Println(">>> DIRECT repairService.Repair")
	rep, err := s.repairService.Repair(context.Background())
	fmt.Printf("direct repair %+v err=%v\n", rep, err)
}
