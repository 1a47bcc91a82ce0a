package content

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prompt-general/vectorpress/internal/auth"
	"github.com/prompt-general/vectorpress/internal/store"
)

// fakeStore is an in-memory Store used to exercise the service without a
// database. Uniqueness rules mirror the relational schema.
type fakeStore struct {
	mu         sync.Mutex
	users      map[string]*store.User
	categories map[uint]*store.Category
	articles   map[uint]*store.Article
	nextID     uint
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:      make(map[string]*store.User),
		categories: make(map[uint]*store.Category),
		articles:   make(map[uint]*store.Article),
	}
}

func (f *fakeStore) nextSequence() uint {
	f.nextID++
	return f.nextID
}

func (f *fakeStore) ListArticles(ctx context.Context) ([]store.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]store.Article, 0, len(f.articles))
	for _, a := range f.articles {
		out = append(out, *a)
	}
	return out, nil
}

func (f *fakeStore) GetArticle(ctx context.Context, id uint) (*store.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.articles[id]
	if !ok {
		return nil, nil
	}
	copied := *a
	return &copied, nil
}

func (f *fakeStore) ListCategories(ctx context.Context) ([]store.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]store.Category, 0, len(f.categories))
	for _, c := range f.categories {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeStore) GetCategory(ctx context.Context, id uint) (*store.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.categories[id]
	if !ok {
		return nil, nil
	}
	copied := *c
	return &copied, nil
}

func (f *fakeStore) CreateArticle(ctx context.Context, article *store.Article) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	article.ID = f.nextSequence()
	if c, ok := f.categories[article.CategoryID]; ok {
		copied := *c
		article.Category = &copied
	}
	copied := *article
	f.articles[article.ID] = &copied
	return nil
}

func (f *fakeStore) CreateCategory(ctx context.Context, category *store.Category) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.categories {
		if c.Name == category.Name {
			return errors.Wrap(store.ErrDuplicate, "create category")
		}
	}
	category.ID = f.nextSequence()
	copied := *category
	f.categories[category.ID] = &copied
	return nil
}

func (f *fakeStore) CreateUser(ctx context.Context, user *store.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[user.Username]; ok {
		return errors.Wrap(store.ErrDuplicate, "create user")
	}
	user.ID = f.nextSequence()
	copied := *user
	f.users[user.Username] = &copied
	return nil
}

func (f *fakeStore) FindUserByUsername(ctx context.Context, username string) (*store.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[username]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

// fakeEmbedder returns a fixed vector and records the last embedded text.
type fakeEmbedder struct {
	lastText string
	err      error
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.lastText = text
	return []float32{0.1, 0.2, 0.3}, nil
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.Out = io.Discard
	return log
}

func newTestService(t *testing.T) (*Service, *fakeStore, *fakeEmbedder) {
	t.Helper()
	st := newFakeStore()
	embedder := &fakeEmbedder{}
	authSvc := auth.NewService(auth.Config{Secret: "test-secret", TokenTTL: time.Hour})
	return NewService(st, authSvc, embedder, testLogger()), st, embedder
}

func TestRegisterUser(t *testing.T) {
	svc, st, _ := newTestService(t)
	ctx := context.Background()

	user, err := svc.RegisterUser(ctx, "alice", "hunter2")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "user", user.Role)
	assert.NotEqual(t, "hunter2", user.PasswordHash)

	stored, err := st.FindUserByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, user.PasswordHash, stored.PasswordHash)
}

func TestRegisterUserDuplicate(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.RegisterUser(ctx, "alice", "hunter2")
	require.NoError(t, err)

	_, err = svc.RegisterUser(ctx, "alice", "different")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestLogin(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.RegisterUser(ctx, "alice", "hunter2")
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		token, err := svc.Login(ctx, "alice", "hunter2")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "alice", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown username", func(t *testing.T) {
		_, err := svc.Login(ctx, "bob", "hunter2")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestAuthenticate(t *testing.T) {
	svc, st, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.RegisterUser(ctx, "alice", "hunter2")
	require.NoError(t, err)

	token, err := svc.Login(ctx, "alice", "hunter2")
	require.NoError(t, err)

	t.Run("valid token resolves user", func(t *testing.T) {
		user, err := svc.Authenticate(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
	})

	t.Run("invalid token", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("token for removed user", func(t *testing.T) {
		st.mu.Lock()
		delete(st.users, "alice")
		st.mu.Unlock()

		_, err := svc.Authenticate(ctx, token)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestCreateCategory(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	category, err := svc.CreateCategory(ctx, "go")
	require.NoError(t, err)
	assert.NotZero(t, category.ID)
	assert.Equal(t, "go", category.Name)

	_, err = svc.CreateCategory(ctx, "go")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCreateArticle(t *testing.T) {
	svc, st, embedder := newTestService(t)
	ctx := context.Background()

	category, err := svc.CreateCategory(ctx, "go")
	require.NoError(t, err)

	article, err := svc.CreateArticle(ctx, "Generics", "Type parameters landed in Go 1.18.", category.ID)
	require.NoError(t, err)
	assert.NotZero(t, article.ID)
	assert.Equal(t, "Generics", article.Title)
	assert.Equal(t, "Type parameters landed in Go 1.18.", article.Content)
	assert.NotEmpty(t, article.Vector.Slice())
	assert.Equal(t, "generics type parameters landed in go 1.18.", article.SearchText)
	require.NotNil(t, article.Category)
	assert.Equal(t, "go", article.Category.Name)

	// The embedding input is the article content, not the title.
	assert.Equal(t, "Type parameters landed in Go 1.18.", embedder.lastText)

	stored, err := st.GetArticle(ctx, article.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.NotEmpty(t, stored.Vector.Slice())
}

func TestCreateArticleMissingCategory(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.CreateArticle(context.Background(), "Orphan", "No category here.", 42)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestCreateArticleEmbedFailure(t *testing.T) {
	svc, st, embedder := newTestService(t)
	ctx := context.Background()

	category, err := svc.CreateCategory(ctx, "go")
	require.NoError(t, err)

	embedder.err = errors.New("model unavailable")

	_, err = svc.CreateArticle(ctx, "Doomed", "This never persists.", category.ID)
	require.Error(t, err)

	// A failed mutation leaves no persisted record.
	articles, err := st.ListArticles(ctx)
	require.NoError(t, err)
	assert.Empty(t, articles)
}

func TestGetArticleMiss(t *testing.T) {
	svc, _, _ := newTestService(t)

	article, err := svc.GetArticle(context.Background(), 999)
	require.NoError(t, err)
	assert.Nil(t, article)
}
