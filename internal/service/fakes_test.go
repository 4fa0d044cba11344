package service

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/BloggingApp/post-interaction-service/internal/model"
	"github.com/BloggingApp/post-interaction-service/internal/rabbitmq"
	"github.com/BloggingApp/post-interaction-service/internal/repository"
	"github.com/BloggingApp/post-interaction-service/internal/repository/postgres"
	"github.com/BloggingApp/post-interaction-service/internal/repository/redisrepo"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type engagementKey struct {
	postID int64
	userID int64
}

// fakeDB mirrors the postgres store: unique (post, user) keys, cascade on delete.
type fakeDB struct {
	mu            sync.Mutex
	nextPostID    int64
	nextCommentID int64
	posts         map[int64]*model.Post
	views         map[engagementKey]time.Time
	likes         map[engagementKey]time.Time
	comments      []*model.Comment
	findByIDCalls int
	err           error
	// afterFind, when set, runs after FindByID has read the row and released the lock.
	afterFind func(id int64)
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		posts: make(map[int64]*model.Post),
		views: make(map[engagementKey]time.Time),
		likes: make(map[engagementKey]time.Time),
	}
}

func (db *fakeDB) failWith(err error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.err = err
}

func copyPost(post *model.Post) *model.Post {
	cp := *post
	cp.Tags = append([]string{}, post.Tags...)
	return &cp
}

func (db *fakeDB) countsLocked(postID int64) model.PostCounts {
	var counts model.PostCounts
	for key := range db.views {
		if key.postID == postID {
			counts.Views++
		}
	}
	for key := range db.likes {
		if key.postID == postID {
			counts.Likes++
		}
	}
	for _, comment := range db.comments {
		if comment.PostID == postID {
			counts.Comments++
		}
	}
	return counts
}

type fakePosts struct{ db *fakeDB }

func (f *fakePosts) Create(ctx context.Context, post model.Post) (*model.Post, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if f.db.err != nil {
		return nil, f.db.err
	}

	f.db.nextPostID++
	post.ID = f.db.nextPostID
	f.db.posts[post.ID] = copyPost(&post)
	return copyPost(&post), nil
}

func (f *fakePosts) FindByID(ctx context.Context, id int64) (*model.Post, error) {
	post, hook, err := f.findLocked(id)
	if err != nil {
		return nil, err
	}
	if hook != nil {
		hook(id)
	}
	return post, nil
}

func (f *fakePosts) findLocked(id int64) (*model.Post, func(int64), error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	f.db.findByIDCalls++
	if f.db.err != nil {
		return nil, nil, f.db.err
	}

	post, ok := f.db.posts[id]
	if !ok {
		return nil, nil, postgres.ErrPostNotFound
	}
	return copyPost(post), f.db.afterFind, nil
}

func (f *fakePosts) Access(ctx context.Context, id int64) (model.PostAccess, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if f.db.err != nil {
		return model.PostAccess{}, f.db.err
	}

	post, ok := f.db.posts[id]
	if !ok {
		return model.PostAccess{}, postgres.ErrPostNotFound
	}
	return model.PostAccess{CreatorID: post.CreatorID, IsPrivate: post.IsPrivate, UpdatedAt: post.UpdatedAt}, nil
}

func (f *fakePosts) Update(ctx context.Context, id int64, update model.PostUpdate, updatedAt time.Time) (*model.Post, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if f.db.err != nil {
		return nil, f.db.err
	}

	post, ok := f.db.posts[id]
	if !ok {
		return nil, postgres.ErrPostNotFound
	}
	if update.Title != nil {
		post.Title = *update.Title
	}
	if update.Description != nil {
		post.Description = *update.Description
	}
	post.IsPrivate = update.IsPrivate
	if update.Tags != nil {
		post.Tags = append([]string{}, (*update.Tags)...)
	}
	post.UpdatedAt = updatedAt
	return copyPost(post), nil
}

func (f *fakePosts) Delete(ctx context.Context, id int64) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if f.db.err != nil {
		return f.db.err
	}

	if _, ok := f.db.posts[id]; !ok {
		return postgres.ErrPostNotFound
	}
	delete(f.db.posts, id)
	for key := range f.db.views {
		if key.postID == id {
			delete(f.db.views, key)
		}
	}
	for key := range f.db.likes {
		if key.postID == id {
			delete(f.db.likes, key)
		}
	}
	kept := f.db.comments[:0]
	for _, comment := range f.db.comments {
		if comment.PostID != id {
			kept = append(kept, comment)
		}
	}
	f.db.comments = kept
	return nil
}

func (f *fakePosts) FindVisible(ctx context.Context, viewerID int64, limit int, offset int) ([]*model.FullPost, int64, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if f.db.err != nil {
		return nil, 0, f.db.err
	}

	var visible []*model.Post
	for _, post := range f.db.posts {
		if !post.IsPrivate || post.CreatorID == viewerID {
			visible = append(visible, post)
		}
	}
	sort.Slice(visible, func(i, j int) bool {
		if visible[i].CreatedAt.Equal(visible[j].CreatedAt) {
			return visible[i].ID > visible[j].ID
		}
		return visible[i].CreatedAt.After(visible[j].CreatedAt)
	})

	var page []*model.FullPost
	for i := offset; i < len(visible) && i < offset+limit; i++ {
		page = append(page, &model.FullPost{Post: *copyPost(visible[i]), Counts: f.db.countsLocked(visible[i].ID)})
	}
	return page, int64(len(visible)), nil
}

func (f *fakePosts) Counts(ctx context.Context, id int64) (model.PostCounts, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if f.db.err != nil {
		return model.PostCounts{}, f.db.err
	}

	if _, ok := f.db.posts[id]; !ok {
		return model.PostCounts{}, postgres.ErrPostNotFound
	}
	return f.db.countsLocked(id), nil
}

type fakeViews struct{ db *fakeDB }

func (f *fakeViews) Record(ctx context.Context, view model.View) (bool, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if f.db.err != nil {
		return false, f.db.err
	}

	if _, ok := f.db.posts[view.PostID]; !ok {
		return false, postgres.ErrPostNotFound
	}
	key := engagementKey{view.PostID, view.UserID}
	if _, ok := f.db.views[key]; ok {
		return false, nil
	}
	f.db.views[key] = view.ViewedAt
	return true, nil
}

func (f *fakeViews) Count(ctx context.Context, postID int64) (int64, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if f.db.err != nil {
		return 0, f.db.err
	}
	return f.db.countsLocked(postID).Views, nil
}

type fakeLikes struct{ db *fakeDB }

func (f *fakeLikes) Set(ctx context.Context, like model.Like, wantLiked bool) (bool, bool, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if f.db.err != nil {
		return false, false, f.db.err
	}

	if _, ok := f.db.posts[like.PostID]; !ok {
		return false, false, postgres.ErrPostNotFound
	}
	key := engagementKey{like.PostID, like.UserID}
	_, liked := f.db.likes[key]
	if liked == wantLiked {
		return false, liked, nil
	}
	if wantLiked {
		f.db.likes[key] = like.LikedAt
	} else {
		delete(f.db.likes, key)
	}
	return true, wantLiked, nil
}

func (f *fakeLikes) IsLiked(ctx context.Context, postID int64, userID int64) (bool, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if f.db.err != nil {
		return false, f.db.err
	}
	_, liked := f.db.likes[engagementKey{postID, userID}]
	return liked, nil
}

func (f *fakeLikes) Count(ctx context.Context, postID int64) (int64, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if f.db.err != nil {
		return 0, f.db.err
	}
	return f.db.countsLocked(postID).Likes, nil
}

type fakeComments struct{ db *fakeDB }

func (f *fakeComments) Create(ctx context.Context, comment model.Comment) (*model.Comment, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if f.db.err != nil {
		return nil, f.db.err
	}

	if _, ok := f.db.posts[comment.PostID]; !ok {
		return nil, postgres.ErrPostNotFound
	}
	f.db.nextCommentID++
	comment.ID = f.db.nextCommentID
	stored := comment
	f.db.comments = append(f.db.comments, &stored)
	return &comment, nil
}

func (f *fakeComments) FindPostComments(ctx context.Context, postID int64, limit int, offset int) ([]*model.Comment, int64, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if f.db.err != nil {
		return nil, 0, f.db.err
	}

	if _, ok := f.db.posts[postID]; !ok {
		return nil, 0, postgres.ErrPostNotFound
	}
	var matched []*model.Comment
	for _, comment := range f.db.comments {
		if comment.PostID == postID {
			matched = append(matched, comment)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	var page []*model.Comment
	for i := offset; i < len(matched) && i < offset+limit; i++ {
		cp := *matched[i]
		page = append(page, &cp)
	}
	return page, int64(len(matched)), nil
}

func (f *fakeComments) Count(ctx context.Context, postID int64) (int64, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if f.db.err != nil {
		return 0, f.db.err
	}
	return f.db.countsLocked(postID).Comments, nil
}

type mockPublisher struct {
	mock.Mock
}

var _ Publisher = (*mockPublisher)(nil)

func (m *mockPublisher) Publish(ctx context.Context, topic rabbitmq.Topic, key string, payload interface{}) bool {
	args := m.Called(ctx, topic, key, payload)
	return args.Bool(0)
}

// fakeRedis stores raw JSON values like the real client does.
type fakeRedis struct {
	mu     sync.Mutex
	values map[string]string
	gets   int
	hits   int
}

var _ redisrepo.Default = (*fakeRedis)(nil)

func newFakeRedis() *fakeRedis {
	return &fakeRedis{values: make(map[string]string)}
}

func (r *fakeRedis) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	valueJSON, err := json.Marshal(value)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[key] = string(valueJSON)
	return nil
}

func (r *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gets++
	value, ok := r.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	r.hits++
	return redis.NewStringResult(value, nil)
}

func (r *fakeRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, key := range keys {
		if _, ok := r.values[key]; ok {
			delete(r.values, key)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

type testEnv struct {
	svc       *Service
	db        *fakeDB
	publisher *mockPublisher
	redis     *fakeRedis
	now       time.Time
}

// tick advances the test clock so successive writes get distinct timestamps.
func (e *testEnv) tick() time.Time {
	e.now = e.now.Add(time.Second)
	return e.now
}

func newTestEnv(withRedis bool) *testEnv {
	env := &testEnv{
		db:        newFakeDB(),
		publisher: new(mockPublisher),
		now:       time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}

	repo := &repository.Repository{
		Postgres: &postgres.PostgresRepository{
			Post:    &fakePosts{env.db},
			View:    &fakeViews{env.db},
			Like:    &fakeLikes{env.db},
			Comment: &fakeComments{env.db},
		},
	}
	if withRedis {
		env.redis = newFakeRedis()
		repo.Redis = &redisrepo.RedisRepository{Default: env.redis}
	}

	var clockMu sync.Mutex
	clock := func() time.Time {
		clockMu.Lock()
		defer clockMu.Unlock()
		return env.tick()
	}

	logger := zap.NewNop()
	posts := newPostCache(logger, repo, time.Hour)
	env.svc = &Service{
		Post:    newPostService(logger, repo, env.publisher, posts, clock),
		Comment: newCommentService(logger, repo, env.publisher, posts, clock),
	}

	return env
}
