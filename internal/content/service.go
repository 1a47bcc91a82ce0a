// Package content is the orchestration layer between the API surface and
// the store, auth and embedding collaborators. It owns the domain error
// taxonomy and the authentication flow used by every protected operation.
package content

import (
	"context"
	"strings"

	"github.com/pgvector/pgvector-go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/prompt-general/vectorpress/internal/auth"
	"github.com/prompt-general/vectorpress/internal/store"
)

// Store is the persistence surface the service needs. *store.Store
// satisfies it; tests substitute fakes.
type Store interface {
	ListArticles(ctx context.Context) ([]store.Article, error)
	GetArticle(ctx context.Context, id uint) (*store.Article, error)
	ListCategories(ctx context.Context) ([]store.Category, error)
	GetCategory(ctx context.Context, id uint) (*store.Category, error)
	CreateArticle(ctx context.Context, article *store.Article) error
	CreateCategory(ctx context.Context, category *store.Category) error
	CreateUser(ctx context.Context, user *store.User) error
	FindUserByUsername(ctx context.Context, username string) (*store.User, error)
}

// Embedder converts text into a fixed-length semantic vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Service wires the store, auth and embedding collaborators together.
type Service struct {
	store    Store
	auth     *auth.Service
	embedder Embedder
	log      *logrus.Logger
}

// NewService creates the content service.
func NewService(st Store, authSvc *auth.Service, embedder Embedder, log *logrus.Logger) *Service {
	return &Service{store: st, auth: authSvc, embedder: embedder, log: log}
}

// ListArticles returns all articles.
func (s *Service) ListArticles(ctx context.Context) ([]store.Article, error) {
	return s.store.ListArticles(ctx)
}

// GetArticle returns the article with the given id, or nil on a miss.
func (s *Service) GetArticle(ctx context.Context, id uint) (*store.Article, error) {
	return s.store.GetArticle(ctx, id)
}

// ListCategories returns all categories.
func (s *Service) ListCategories(ctx context.Context) ([]store.Category, error) {
	return s.store.ListCategories(ctx)
}

// CreateArticle validates the referenced category, computes the content
// embedding and persists the article in one transaction. The returned
// record carries the generated id and the resolved category.
func (s *Service) CreateArticle(ctx context.Context, title, body string, categoryID uint) (*store.Article, error) {
	category, err := s.store.GetCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, errors.Wrapf(ErrCategoryNotFound, "id %d", categoryID)
	}

	vector, err := s.embedder.Embed(ctx, body)
	if err != nil {
		return nil, errors.Wrap(err, "embed article content")
	}

	article := &store.Article{
		Title:      title,
		Content:    body,
		Vector:     pgvector.NewVector(vector),
		SearchText: deriveSearchText(title, body),
		CategoryID: categoryID,
	}
	if err := s.store.CreateArticle(ctx, article); err != nil {
		return nil, translateStoreErr(err)
	}

	s.log.WithFields(logrus.Fields{
		"article_id": article.ID,
		"category":   category.Name,
		"dimensions": len(vector),
	}).Info("article created")

	return article, nil
}

// CreateCategory persists a new category. A duplicate name is a conflict.
func (s *Service) CreateCategory(ctx context.Context, name string) (*store.Category, error) {
	category := &store.Category{Name: name}
	if err := s.store.CreateCategory(ctx, category); err != nil {
		return nil, translateStoreErr(err)
	}
	return category, nil
}

// RegisterUser hashes the password and persists the user. A duplicate
// username is a conflict.
func (s *Service) RegisterUser(ctx context.Context, username, password string) (*store.User, error) {
	hash, err := s.auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &store.User{Username: username, PasswordHash: hash, Role: "user"}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, translateStoreErr(err)
	}

	s.log.WithField("username", username).Info("user registered")

	return user, nil
}

// Login verifies the credentials and issues a session token. Unknown
// username and wrong password are deliberately indistinguishable.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.store.FindUserByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if user == nil || !s.auth.CheckPassword(password, user.PasswordHash) {
		return "", ErrInvalidCredentials
	}
	return s.auth.IssueToken(user.Username)
}

// Authenticate verifies a bearer token and resolves its subject to a stored
// user. A valid token whose subject no longer exists is unauthorized.
func (s *Service) Authenticate(ctx context.Context, token string) (*store.User, error) {
	claims, err := s.auth.VerifyToken(token)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidToken, err.Error())
	}

	user, err := s.store.FindUserByUsername(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.Wrapf(ErrUserNotFound, "subject %q", claims.Subject)
	}
	return user, nil
}

// deriveSearchText produces the lowercased text blob stored alongside the
// article for store-side filtering.
func deriveSearchText(title, body string) string {
	return strings.ToLower(strings.TrimSpace(title + " " + body))
}

// translateStoreErr maps store duplicates onto the domain conflict error.
func translateStoreErr(err error) error {
	if errors.Is(err, store.ErrDuplicate) {
		return errors.Wrap(ErrConflict, err.Error())
	}
	return err
}
