// Package auth provides password hashing and bearer token issuance for
// vectorpress. Passwords are salted bcrypt hashes; tokens are HS256-signed
// JWTs carrying the username as subject.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

// ErrInvalidToken indicates a token whose signature, structure or expiry
// failed verification.
var ErrInvalidToken = errors.New("invalid token")

// Config holds token signing settings.
type Config struct {
	Secret   string        `yaml:"secret"`
	TokenTTL time.Duration `yaml:"token_ttl"`
}

// DefaultConfig returns token defaults. The secret has no default; it must
// be configured.
func DefaultConfig() Config {
	return Config{TokenTTL: 24 * time.Hour}
}

// UnmarshalYAML decodes the TTL from a string like "24h" and keeps defaults
// for unset fields.
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	type raw struct {
		Secret   string `yaml:"secret"`
		TokenTTL string `yaml:"token_ttl"`
	}

	var r raw
	if err := value.Decode(&r); err != nil {
		return err
	}

	if r.Secret != "" {
		c.Secret = r.Secret
	}
	if r.TokenTTL != "" {
		ttl, err := time.ParseDuration(r.TokenTTL)
		if err != nil {
			return errors.Wrap(err, "parse auth.token_ttl")
		}
		c.TokenTTL = ttl
	}

	return nil
}

// Claims are the verified contents of a bearer token.
type Claims struct {
	Subject string
}

// Service hashes passwords and issues/verifies session tokens. It holds no
// mutable state and is safe for concurrent use.
type Service struct {
	secret []byte
	ttl    time.Duration
}

// NewService creates an auth service from configuration.
func NewService(cfg Config) *Service {
	return &Service{secret: []byte(cfg.Secret), ttl: cfg.TokenTTL}
}

// HashPassword produces a salted bcrypt hash. Each call salts freshly, so
// the same password never hashes to the same string twice.
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.Wrap(err, "hash password")
	}
	return string(hash), nil
}

// CheckPassword reports whether the password matches the stored hash. Any
// mismatch, including a malformed hash, is simply false.
func (s *Service) CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// IssueToken signs a token with the username as subject and an expiry of
// now plus the configured TTL.
func (s *Service) IssueToken(username string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}
	return signed, nil
}

// VerifyToken checks the signature and structure of a token and returns its
// claims. It does not check that the subject still exists; that lookup
// belongs to the caller.
func (s *Service) VerifyToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &jwt.RegisteredClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return s.secret, nil
		})
	if err != nil {
		return nil, errors.Wrap(ErrInvalidToken, err.Error())
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	registered, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || registered.Subject == "" {
		return nil, errors.Wrap(ErrInvalidToken, "missing subject")
	}

	return &Claims{Subject: registered.Subject}, nil
}
