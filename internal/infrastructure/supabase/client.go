package supabase

import (
	"github.com/cockroachdb/errors"
	supa "github.com/nedpals/supabase-go"

	"github.com/sangkips/invowise-api/internal/config"
)

// NewClient creates a client for the hosted project using the service key
func NewClient(cfg *config.SupabaseConfig) (*supa.Client, error) {
	if cfg.URL == "" || cfg.ServiceKey == "" {
		return nil, errors.New("supabase url and service key are required")
	}
	client := supa.CreateClient(cfg.URL, cfg.ServiceKey)
	if client == nil {
		return nil, errors.New("failed to create supabase client")
	}
	return client, nil
}
