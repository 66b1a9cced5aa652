package common

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	OCR    OCRConfig    `mapstructure:"ocr"`
	NER    NERConfig    `mapstructure:"ner"`
	Pool   PoolConfig   `mapstructure:"pool"`
	Cache  CacheConfig  `mapstructure:"cache"`
	Output OutputConfig `mapstructure:"output"`
	Log    LogConfig    `mapstructure:"log"`
}

// OCRConfig holds OCR-related configuration
type OCRConfig struct {
	Pdftotext        string `mapstructure:"pdftotext"`
	Pdftoppm         string `mapstructure:"pdftoppm"`
	Tesseract        string `mapstructure:"tesseract"`
	Language         string `mapstructure:"language" validate:"required"`
	DPI              int    `mapstructure:"dpi" validate:"min=72,max=1200"`
	MaxPages         int    `mapstructure:"max_pages" validate:"min=0"`
	HeicConverter    string `mapstructure:"heic_converter" validate:"omitempty,oneof=heif-convert magick sips"`
	TessdataDir      string `mapstructure:"tessdata_dir"`
	ArtifactCacheDir string `mapstructure:"artifact_cache_dir"`
	TSVConfidence    bool   `mapstructure:"tsv_confidence"`
}

// NERConfig controls the person-name recognizer.
type NERConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxCandidates int  `mapstructure:"max_candidates" validate:"min=1,max=50"`
}

// PoolConfig sizes the worker pool used for batch and watch runs.
type PoolConfig struct {
	Workers     int           `mapstructure:"workers" validate:"min=0"`
	QueueSize   int           `mapstructure:"queue_size" validate:"min=1"`
	JobTimeout  time.Duration `mapstructure:"job_timeout"`
	BlockOnFull bool          `mapstructure:"block_on_full"`
}

// CacheConfig holds the extracted-text cache configuration
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Driver  string        `mapstructure:"driver" validate:"omitempty,oneof=sqlite postgres"`
	DSN     string        `mapstructure:"dsn" validate:"required_if=Enabled true"`
	TTL     time.Duration `mapstructure:"ttl"`
}

// OutputConfig holds defaults for artifact writing.
type OutputConfig struct {
	Dir         string `mapstructure:"dir"`
	PhoneRegion string `mapstructure:"phone_region" validate:"omitempty,len=2,alpha"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Level      string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format     string `mapstructure:"format" validate:"oneof=text json"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
}

// envBindings keeps the historical environment names working alongside CVX_* keys.
var envBindings = map[string][]string{
	"ocr.tessdata_dir":       {"CVX_OCR_TESSDATA_DIR", "TESSDATA_PREFIX"},
	"ocr.heic_converter":     {"CVX_OCR_HEIC_CONVERTER", "HEIC_CONVERTER"},
	"ocr.artifact_cache_dir": {"CVX_OCR_ARTIFACT_CACHE_DIR", "ARTIFACT_CACHE_DIR"},
	"cache.dsn":              {"CVX_CACHE_DSN", "DB_URL"},
	"output.phone_region":    {"CVX_OUTPUT_PHONE_REGION", "PHONE_REGION"},
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("ocr.pdftotext", "pdftotext")
	v.SetDefault("ocr.pdftoppm", "pdftoppm")
	v.SetDefault("ocr.tesseract", "tesseract")
	v.SetDefault("ocr.language", "eng")
	v.SetDefault("ocr.dpi", 300)
	v.SetDefault("ocr.max_pages", 0)
	v.SetDefault("ocr.heic_converter", "magick")
	v.SetDefault("ocr.artifact_cache_dir", "./tmp")
	v.SetDefault("ocr.tsv_confidence", false)

	v.SetDefault("ner.enabled", true)
	v.SetDefault("ner.max_candidates", 8)

	v.SetDefault("pool.workers", 0)
	v.SetDefault("pool.queue_size", 64)
	v.SetDefault("pool.job_timeout", 3*time.Minute)
	v.SetDefault("pool.block_on_full", false)

	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.driver", "sqlite")
	v.SetDefault("cache.dsn", "")
	v.SetDefault("cache.ttl", 30*time.Minute)

	v.SetDefault("output.dir", "")
	v.SetDefault("output.phone_region", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 20)
	v.SetDefault("log.max_backups", 3)
}

// LoadConfig reads defaults, an optional config file and the environment (.env included) into a Config.
func LoadConfig(v *viper.Viper, configFile string) (*Config, error) {
	if v == nil {
		v = viper.New()
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, NewAppError(CodeConfig, "load .env", err)
	}

	SetDefaults(v)
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, NewAppError(CodeConfig, fmt.Sprintf("read config %s", configFile), err)
		}
	}

	v.SetEnvPrefix("CVX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, names := range envBindings {
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return nil, NewAppError(CodeConfig, "bind env "+key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, NewAppError(CodeConfig, "decode config", err)
	}
	cfg.Output.PhoneRegion = strings.ToUpper(strings.TrimSpace(cfg.Output.PhoneRegion))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var validate = validator.New()

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return NewAppError(CodeConfig, fmt.Sprintf("%s failed on %q", verrs[0].Namespace(), verrs[0].Tag()), errors.Join(ErrInvalidInput, err))
		}
		return NewAppError(CodeConfig, "invalid config", errors.Join(ErrInvalidInput, err))
	}
	return nil
}
