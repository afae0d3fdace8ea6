package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

type Config struct {
	Mode     string `mapstructure:"mode"`
	Dotenv   string `mapstructure:"dotenv"`
	Handlers struct {
		Prometheus struct {
			Port string `mapstructure:"port"`
		} `mapstructure:"prometheus"`
	} `mapstructure:"handlers"`
	Server struct {
		HTTPPort     string        `mapstructure:"HTTPPort"`
		Timeout      time.Duration `mapstructure:"HTTPTimeout"`
		ReadTimeout  time.Duration `mapstructure:"readTimeout"`
		WriteTimeout time.Duration `mapstructure:"writeTimeout"`
		IdleTimeout  time.Duration `mapstructure:"idleTimeout"`
	} `mapstructure:"server"`
	Gemini   GeminiConfig   `mapstructure:"gemini"`
	Amadeus  AmadeusConfig  `mapstructure:"amadeus"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
}

type GeminiConfig struct {
	Model       string  `mapstructure:"model"`
	Temperature float32 `mapstructure:"temperature"`
	APIKey      string  `mapstructure:"apiKey"`
}

type AmadeusConfig struct {
	BaseURL        string        `mapstructure:"baseURL"`
	APIKey         string        `mapstructure:"apiKey"`
	APISecret      string        `mapstructure:"apiSecret"`
	RequestTimeout time.Duration `mapstructure:"requestTimeout"`
	RateLimit      float64       `mapstructure:"rateLimit"` // requests per second
	RateBurst      int           `mapstructure:"rateBurst"`
	MaxRetries     int           `mapstructure:"maxRetries"`
	RetryBackoff   time.Duration `mapstructure:"retryBackoff"`
	MaxLocations   int           `mapstructure:"maxLocations"`
}

// PipelineConfig holds run-wide constants shared by every enrichment run.
type PipelineConfig struct {
	SearchRadiusKm    int           `mapstructure:"searchRadiusKm"`
	MaxResults        int           `mapstructure:"maxResults"`
	Concurrency       int           `mapstructure:"concurrency"`
	ItemTimeout       time.Duration `mapstructure:"itemTimeout"`
	DescriptionLength int           `mapstructure:"descriptionLength"`
	PhotoLimit        int           `mapstructure:"photoLimit"`
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	// Add file-based config paths
	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	// AMADEUS_API_KEY -> amadeus.apiKey etc.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("amadeus.apiKey", "AMADEUS_API_KEY")
	_ = v.BindEnv("amadeus.apiSecret", "AMADEUS_API_SECRET")
	_ = v.BindEnv("amadeus.baseURL", "AMADEUS_BASE_URL")
	_ = v.BindEnv("gemini.apiKey", "GOOGLE_GEMINI_API_KEY")
	_ = v.BindEnv("gemini.model", "GEMINI_MODEL")

	// Try to load file-based config
	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %s", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %s", err)
	}
	config.Pipeline.applyDefaults()
	fmt.Println("Successfully loaded app configs...")
	return config, nil
}

func (p *PipelineConfig) applyDefaults() {
	if p.SearchRadiusKm <= 0 {
		p.SearchRadiusKm = 5
	}
	if p.MaxResults <= 0 {
		p.MaxResults = 20
	}
	if p.Concurrency <= 0 {
		p.Concurrency = 8
	}
	if p.ItemTimeout <= 0 {
		p.ItemTimeout = 30 * time.Second
	}
	if p.DescriptionLength <= 0 {
		p.DescriptionLength = 200
	}
	if p.PhotoLimit <= 0 {
		p.PhotoLimit = 3
	}
}

// DefaultPipeline returns the pipeline constants with defaults applied.
func DefaultPipeline() PipelineConfig {
	var p PipelineConfig
	p.applyDefaults()
	return p
}
