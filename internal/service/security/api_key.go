package security

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"synclist-hub/internal/domain"
)

// HashAPIKey returns the hex SHA-256 digest under which a raw key is stored.
func HashAPIKey(rawKey string) string {
	sum := sha256.Sum256([]byte(rawKey))
	return hex.EncodeToString(sum[:])
}

// APIKeyService issues API keys.
type APIKeyService struct {
	repo  domain.APIKeyRepository
	audit domain.AuditRepository
}

// NewAPIKeyService creates a new APIKeyService.
func NewAPIKeyService(repo domain.APIKeyRepository, audit domain.AuditRepository) *APIKeyService {
	return &APIKeyService{repo: repo, audit: audit}
}

// Create generates a key for principalID. Admin only. The raw key is
// returned once and never stored.
func (s *APIKeyService) Create(ctx context.Context, principalID int64, name string) (string, *domain.APIKey, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", nil, fmt.Errorf("generate key: %w", err)
	}
	rawKey := hex.EncodeToString(raw)
	key, err := s.Register(ctx, principalID, name, rawKey)
	if err != nil {
		return "", nil, err
	}
	return rawKey, key, nil
}

// Register stores a caller-supplied raw key for principalID. Admin only.
func (s *APIKeyService) Register(ctx context.Context, principalID int64, name, rawKey string) (*domain.APIKey, error) {
	if err := RequireAdmin(ctx); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, domain.ErrValidation("api key name is required")
	}
	if len(rawKey) < 16 {
		return nil, domain.ErrValidation("api key must be at least 16 characters")
	}

	key, err := s.repo.Create(ctx, &domain.APIKey{
		PrincipalID: principalID,
		Name:        name,
		KeyHash:     HashAPIKey(rawKey),
	})
	if err != nil {
		return nil, err
	}
	_ = s.audit.Insert(ctx, &domain.AuditEntry{
		PrincipalName: CallerName(ctx),
		Action:        fmt.Sprintf("CREATE_API_KEY(name=%s)", name),
		Status:        domain.AuditAllowed,
	})
	return key, nil
}
