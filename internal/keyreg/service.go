package keyreg

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrUnknownScheme rejects schemes other than ed25519 and secp256k1.
	ErrUnknownScheme = errors.New("unknown key scheme")

	// ErrEmptyKey rejects registrations without key material.
	ErrEmptyKey = errors.New("public key must be non-empty")
)

// Service exposes key registry operations.
type Service struct {
	repo Repository
}

// NewService builds a key registry service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// RegisterInput captures the data required to register a key.
type RegisterInput struct {
	AccountID int64
	Scheme    string
	PublicKey []byte
}

// Register validates and stores an account key.
func (s *Service) Register(ctx context.Context, input RegisterInput) (AccountKey, error) {
	switch input.Scheme {
	case SchemeEd25519, SchemeSecp256k1:
	default:
		return AccountKey{}, ErrUnknownScheme
	}
	if len(input.PublicKey) == 0 {
		return AccountKey{}, ErrEmptyKey
	}

	key := AccountKey{
		AccountID: input.AccountID,
		Scheme:    input.Scheme,
		PublicKey: input.PublicKey,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Add(ctx, key); err != nil {
		return AccountKey{}, err
	}
	return key, nil
}

// List returns all keys registered for an account.
func (s *Service) List(ctx context.Context, accountID int64) ([]AccountKey, error) {
	return s.repo.ListByAccount(ctx, accountID)
}
