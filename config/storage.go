package config

import (
	"fmt"

	"sareeadmin.GO/core/storage"
	"sareeadmin.GO/core/storage/memory"
	"sareeadmin.GO/core/supabase"
)

// NewSupabaseClient builds the REST client for the hosted backend.
func NewSupabaseClient(cfg *Config) (*supabase.Client, error) {
	return supabase.NewClient(supabase.Options{
		URL:      cfg.SupabaseURL,
		Key:      cfg.SupabaseKey,
		Timeout:  cfg.Storage.Timeout,
		RetryMax: cfg.Storage.RetryMax,
	})
}

// NewBucket returns the media bucket selected by STORAGE_DRIVER.
func NewBucket(cfg *Config) (storage.Bucket, error) {
	switch cfg.Storage.Driver {
	case "memory":
		return memory.NewBucket(cfg.Storage.Bucket, cfg.Storage.PublicBaseURL), nil
	case "supabase", "":
		client, err := NewSupabaseClient(cfg)
		if err != nil {
			return nil, err
		}
		return client.Bucket(cfg.Storage.Bucket), nil
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.Storage.Driver)
	}
}
