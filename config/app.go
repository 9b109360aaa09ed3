package config

import (
	"sync"
	"time"
)

// AppConfig holds global application configuration
var AppConfig *Config
var once sync.Once

type Config struct {
	AppName string
	Port    string
	Env     string
	Debug   bool

	// CachePurgeInterval is how often the server drops expired cache entries. 0 disables it.
	CachePurgeInterval time.Duration

	SupabaseURL string
	SupabaseKey string

	Storage StorageConfig
	Media   MediaConfig
}

// StorageConfig selects and tunes the object storage backend.
type StorageConfig struct {
	Driver        string // supabase | memory
	Bucket        string
	PublicBaseURL string // memory driver only
	Timeout       time.Duration
	RetryMax      int
}

// MediaConfig tunes reconciliation, picker sessions and uploads.
type MediaConfig struct {
	ReferenceTTL   time.Duration
	ListBatchSize  int
	ListSortColumn string
	ListSortOrder  string
	ListPrefix     string
	PageSize       int
	SessionTTL     time.Duration
	Optimize       bool
	MaxDimension   int
	WebPQuality    int
	UploadMaxBytes int64
	ReportSchedule string
}

// LoadAppConfig initializes the global AppConfig variable
func LoadAppConfig() *Config {
	once.Do(func() {
		AppConfig = &Config{
			AppName:     GetEnv("APP_NAME", "saree-admin"),
			Port:        GetEnv("PORT", "8080"),
			Env:         GetEnv("APP_ENV", "development"),
			Debug:       GetEnvBool("DEBUG", false),
			SupabaseURL: GetEnv("SUPABASE_URL", ""),
			SupabaseKey: GetEnv("SUPABASE_SERVICE_KEY", ""),

			CachePurgeInterval: GetEnvDuration("CACHE_PURGE_INTERVAL", 10*time.Minute),

			Storage: StorageConfig{
				Driver:        GetEnv("STORAGE_DRIVER", "supabase"),
				Bucket:        GetEnv("MEDIA_BUCKET", "product-images"),
				PublicBaseURL: GetEnv("MEDIA_PUBLIC_BASE_URL", "http://localhost:8080/media"),
				Timeout:       GetEnvDuration("STORAGE_TIMEOUT", 30*time.Second),
				RetryMax:      GetEnvInt("STORAGE_RETRY_MAX", 0),
			},
			Media: MediaConfig{
				ReferenceTTL:   GetEnvDuration("MEDIA_REFERENCE_TTL", 30*time.Second),
				ListBatchSize:  GetEnvInt("MEDIA_LIST_BATCH", 1000),
				ListSortColumn: GetEnv("MEDIA_LIST_SORT", "name"),
				ListSortOrder:  GetEnv("MEDIA_LIST_ORDER", "asc"),
				ListPrefix:     GetEnv("MEDIA_LIST_PREFIX", ""),
				PageSize:       GetEnvInt("MEDIA_PAGE_SIZE", 60),
				SessionTTL:     GetEnvDuration("MEDIA_SESSION_TTL", 30*time.Minute),
				Optimize:       GetEnvBool("MEDIA_OPTIMIZE", false),
				MaxDimension:   GetEnvInt("MEDIA_MAX_DIMENSION", 2000),
				WebPQuality:    GetEnvInt("MEDIA_WEBP_QUALITY", 82),
				UploadMaxBytes: int64(GetEnvInt("MEDIA_UPLOAD_MAX_BYTES", 10<<20)),
				ReportSchedule: GetEnv("MEDIA_REPORT_SCHEDULE", "@daily"),
			},
		}
	})
	return AppConfig
}
