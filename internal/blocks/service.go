package blocks

import (
	"context"

	"github.com/httpay/httpay/internal/blocklog"
)

// Service exposes the block log to the HTTP layer.
type Service struct {
	log blocklog.Log
}

// NewService constructs a block service.
func NewService(log blocklog.Log) *Service {
	return &Service{log: log}
}

// Append stores a new block and returns it with its assigned id.
func (s *Service) Append(ctx context.Context, data []byte) (blocklog.Block, error) {
	id, err := s.log.Append(ctx, data)
	if err != nil {
		return blocklog.Block{}, err
	}
	return s.log.Get(ctx, id)
}

// Get returns the block with the given id.
func (s *Service) Get(ctx context.Context, id int64) (blocklog.Block, error) {
	return s.log.Get(ctx, id)
}
