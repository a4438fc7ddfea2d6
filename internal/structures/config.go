package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type Persistence struct {
	FilePath     string        `yaml:"filePath" validate:"required|unixPath"`
	SaveInterval time.Duration `yaml:"saveInterval" validate:"required|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

// ConverterConfig sets the timestamp strategy and the file_id identity
// written into every produced file.
type ConverterConfig struct {
	Strategy     string `yaml:"strategy" validate:"in:logid,datetime"`
	ProductName  string `yaml:"productName" validate:"maxLen:49"`
	Manufacturer int    `yaml:"manufacturer" validate:"min:0|max:65534"`
	Product      int    `yaml:"product" validate:"min:0|max:65534"`
	SerialNumber int64  `yaml:"serialNumber" validate:"min:0"`
}

type UploadConfig struct {
	MaxFiles    int           `yaml:"maxFiles" validate:"required|min:1"`
	MaxFileSize int64         `yaml:"maxFileSize" validate:"required|min:1"`
	TTL         time.Duration `yaml:"ttl" validate:"required|min:1"`
}

type LimitsConfig struct {
	DailyLimit          int           `yaml:"dailyLimit" validate:"required|min:1"`
	ResetPeriod         time.Duration `yaml:"resetPeriod" validate:"required|min:1"`
	SuspiciousWindow    time.Duration `yaml:"suspiciousWindow" validate:"required|min:1"`
	SuspiciousThreshold int           `yaml:"suspiciousThreshold" validate:"required|min:1"`
}

type StorageConfig struct {
	Type          string        `yaml:"type" validate:"required|in:memory,sqlite"`
	SQLitePath    string        `yaml:"sqlitePath"`
	EvictInterval time.Duration `yaml:"evictInterval" validate:"required|min:1"`
	ConversionTTL time.Duration `yaml:"conversionTTL" validate:"required|min:1"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type RateLimitConfig struct {
	Enabled           bool    `yaml:"enabled"`
	RequestsPerSecond float64 `yaml:"requestsPerSecond"`
	Burst             int     `yaml:"burst"`
	// TrustProxy reads the client address from X-Forwarded-For. Enable only
	// behind a reverse proxy that overwrites the header.
	TrustProxy bool `yaml:"trustProxy"`
}

type Config struct {
	AppName     string
	Debug       bool
	Path        string
	WebServer   Server          `yaml:"webServer"`
	Logger      LoggerConfig    `yaml:"logger"`
	Converter   ConverterConfig `yaml:"converter"`
	Upload      UploadConfig    `yaml:"upload"`
	Limits      LimitsConfig    `yaml:"limits"`
	Storage     StorageConfig   `yaml:"storage"`
	Persistence Persistence     `yaml:"persistence"`
	Cache       CacheConfig     `yaml:"cache"`
	Metrics     MetricsConfig   `yaml:"metrics"`
	RateLimit   RateLimitConfig `yaml:"rateLimit"`
}
