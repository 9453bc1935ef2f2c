package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Pipeline PipelineConfig `yaml:"pipeline" envconfig:"PIPELINE"`
	Storage  StorageConfig  `yaml:"storage" envconfig:"STORAGE"`
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
}

// PipelineConfig controls the data-preparation run.
type PipelineConfig struct {
	// RawGradesFile and PrefixCollegeFile are file names inside the raw
	// data directory. Both .csv and .xlsx are accepted.
	RawGradesFile     string `yaml:"raw_grades_file" envconfig:"RAW_GRADES_FILE" validate:"required"`
	PrefixCollegeFile string `yaml:"prefix_college_file" envconfig:"PREFIX_COLLEGE_FILE" validate:"required"`

	// StrictParsing aborts the whole run on the first row that fails to
	// parse. When false, bad rows are skipped and reported as warnings.
	// Whichever policy is chosen applies uniformly to every row.
	StrictParsing bool `yaml:"strict_parsing" envconfig:"STRICT_PARSING"`

	// RawDataURLs are the public locations of the two raw input files.
	RawDataURLs []string `yaml:"raw_data_urls" envconfig:"RAW_DATA_URLS"`
}

// StorageConfig contains S3-compatible object store configuration.
// EndpointURL is set for R2, MinIO and friends; empty means plain AWS.
type StorageConfig struct {
	Bucket          string `yaml:"bucket" envconfig:"BUCKET"`
	Region          string `yaml:"region" envconfig:"REGION"`
	EndpointURL     string `yaml:"endpoint_url" envconfig:"ENDPOINT_URL"`
	AccessKeyID     string `yaml:"access_key_id" envconfig:"ACCESS_KEY_ID"`
	SecretAccessKey string `yaml:"secret_access_key" envconfig:"SECRET_ACCESS_KEY"`
}

// Validate checks that the credentials needed for uploads are present.
// Only called when an upload is actually requested.
func (s StorageConfig) Validate() error {
	if s.Bucket == "" {
		return fmt.Errorf("storage bucket is not set")
	}
	if s.AccessKeyID == "" || s.SecretAccessKey == "" {
		return fmt.Errorf("missing storage credentials: set GRADES_STORAGE_ACCESS_KEY_ID and GRADES_STORAGE_SECRET_ACCESS_KEY")
	}
	return nil
}

// ServerConfig contains HTTP server configuration for the data server.
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=stdout file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	DataDir string `yaml:"data_dir" envconfig:"DATA_DIR" validate:"required"`
	LogsDir string `yaml:"logs_dir" envconfig:"LOGS_DIR" validate:"required"`
}

// envPrefix is the prefix for all environment variables, e.g.
// GRADES_PIPELINE_STRICT_PARSING.
const envPrefix = "GRADES"

// Default returns the configuration defaults. File and environment values
// layer on top of these.
func Default() Config {
	return Config{
		Pipeline: PipelineConfig{
			RawGradesFile:     "all_years_grade_distribution.csv",
			PrefixCollegeFile: "prefix_to_college.csv",
			StrictParsing:     true,
			RawDataURLs: []string{
				"https://pub-2b49819eca18477991a35a5e2ff85330.r2.dev/all_years_grade_distribution.csv",
				"https://pub-2b49819eca18477991a35a5e2ff85330.r2.dev/prefix_to_college.csv",
			},
		},
		Storage: StorageConfig{
			Region: "us-east-1",
		},
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "stdout",
			FilePath: "logs/pipeline.log",
		},
		Paths: PathsConfig{
			DataDir: "data",
			LogsDir: "logs",
		},
	}
}

// Load layers an optional YAML file and then the environment over the
// defaults, and validates the result. Environment variables win.
func Load(configFile string) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			data, err := os.ReadFile(configFile)
			if err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// validate runs struct-tag validation over the whole configuration.
func (c *Config) validate() error {
	return validator.New().Struct(c)
}
