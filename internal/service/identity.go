package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/templui/medtrack/internal/model"
	"github.com/tidwall/gjson"
)

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid or expired token")
)

// IdentityService resolves bearer tokens issued by the external identity provider.
// Tokens are verified locally when the provider's JWT secret is known and
// otherwise checked against the provider's user endpoint.
type IdentityService struct {
	baseURL   string
	anonKey   string
	jwtSecret []byte
	client    *http.Client
}

func NewIdentityService(baseURL, anonKey, jwtSecret string, timeout time.Duration) *IdentityService {
	s := &IdentityService{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		anonKey: anonKey,
		client:  &http.Client{Timeout: timeout},
	}
	if jwtSecret != "" {
		s.jwtSecret = []byte(jwtSecret)
	}
	return s
}

// Resolve returns the caller behind an Authorization header value.
func (s *IdentityService) Resolve(ctx context.Context, authHeader string) (*model.User, error) {
	token, ok := bearerToken(authHeader)
	if !ok {
		return nil, ErrMissingToken
	}

	if s.jwtSecret != nil {
		user, err := s.verifyLocal(token)
		if err == nil {
			return user, nil
		}
		if s.baseURL == "" {
			return nil, ErrInvalidToken
		}
		slog.Debug("local token verification failed, asking provider", "error", err)
	}

	if s.baseURL == "" {
		return nil, ErrInvalidToken
	}

	return s.verifyRemote(ctx, token)
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func (s *IdentityService) verifyLocal(token string) (*model.User, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("jwt parse: %w", err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}

	sub, _ := claims.GetSubject()
	if sub == "" {
		return nil, fmt.Errorf("token has no subject")
	}
	email, _ := claims["email"].(string)

	return &model.User{ID: sub, Email: email}, nil
}

func (s *IdentityService) verifyRemote(ctx context.Context, token string) (*model.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build identity request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if s.anonKey != "" {
		req.Header.Set("apikey", s.anonKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		slog.Error("identity provider unreachable", "error", err)
		return nil, ErrInvalidToken
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, ErrInvalidToken
	}
	if resp.StatusCode != http.StatusOK {
		return nil, ErrInvalidToken
	}

	id := gjson.GetBytes(body, "id").String()
	if id == "" {
		return nil, ErrInvalidToken
	}

	return &model.User{ID: id, Email: gjson.GetBytes(body, "email").String()}, nil
}
