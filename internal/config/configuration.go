package config

import (
	"errors"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
	"io/fs"
	"os"
	"time"
)

type Configuration struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Storage  StorageConfig  `yaml:"storage"`
	Auth     AuthConfig     `yaml:"auth"`
}

type ServerConfig struct {
	Port          int           `yaml:"port"`
	Concurrency   int           `yaml:"concurrency"`
	RequestConfig RequestConfig `yaml:"request"`
	LogConfig     LogConfig     `yaml:"log"`
	CleanConfig   CleanConfig   `yaml:"clean"`
}

type RequestConfig struct {
	// SizeLimit is the request body limit in megabytes.
	SizeLimit int `yaml:"sizeLimit"`
}

type LogConfig struct {
	Level   string `yaml:"level"`
	Format  string `yaml:"format"`
	Output  string `yaml:"output"`
	LogPath string `yaml:"logPath"`
}

type CleanConfig struct {
	// Schedule is a cron expression for the periodic sweep.
	Schedule string `yaml:"schedule"`
	// Delay between a delete request and the sweep it triggers.
	Delay time.Duration `yaml:"delay"`
	// Workers bounds the number of concurrent blob deletes.
	Workers int `yaml:"workers"`
}

type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`
	TimeZone string `yaml:"timezone"`
	// Path of the database file when Driver is sqlite.
	Path string `yaml:"path"`
}

type StorageConfig struct {
	Endpoint     string        `yaml:"endpoint"`
	AccessKey    string        `yaml:"accessKey"`
	SecretKey    string        `yaml:"secretKey"`
	Bucket       string        `yaml:"bucket"`
	Region       string        `yaml:"region"`
	UseSSL       bool          `yaml:"useSSL"`
	UploadExpiry time.Duration `yaml:"uploadExpiry"`
}

type AuthConfig struct {
	Secret string `yaml:"secret"`
	Issuer string `yaml:"issuer"`
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

func LoadConfiguration(configurationFilePath string) (*Configuration, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	data, err := os.ReadFile(configurationFilePath)
	if err != nil {
		return nil, err
	}
	return ParseConfiguration([]byte(os.ExpandEnv(string(data))))
}

func ParseConfiguration(data []byte) (*Configuration, error) {
	var config Configuration
	err := yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, err
	}
	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Configuration) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.Concurrency == 0 {
		c.Server.Concurrency = 256
	}
	if c.Server.RequestConfig.SizeLimit == 0 {
		c.Server.RequestConfig.SizeLimit = 4
	}
	if c.Server.LogConfig.Level == "" {
		c.Server.LogConfig.Level = "info"
	}
	if c.Server.LogConfig.Output == "" {
		c.Server.LogConfig.Output = "stdout"
	}
	if c.Server.CleanConfig.Schedule == "" {
		c.Server.CleanConfig.Schedule = "@every 15m"
	}
	if c.Server.CleanConfig.Delay == 0 {
		c.Server.CleanConfig.Delay = 2 * time.Second
	}
	if c.Server.CleanConfig.Workers == 0 {
		c.Server.CleanConfig.Workers = 8
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverPostgres
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.TimeZone == "" {
		c.Database.TimeZone = "UTC"
	}
	if c.Storage.UploadExpiry == 0 {
		c.Storage.UploadExpiry = 15 * time.Minute
	}
}

func (c *Configuration) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Server),
		validation.Field(&c.Database),
		validation.Field(&c.Storage),
	)
}

func (s ServerConfig) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&s.LogConfig),
		validation.Field(&s.CleanConfig),
	)
}

func (l LogConfig) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Output, validation.In("stdout", "file")),
		validation.Field(&l.LogPath, validation.When(l.Output == "file", validation.Required)),
	)
}

func (c CleanConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Schedule, validation.Required),
		validation.Field(&c.Workers, validation.Min(1)),
	)
}

func (d DatabaseConfig) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Driver, validation.Required, validation.In(DriverPostgres, DriverSQLite)),
		validation.Field(&d.Host, validation.When(d.Driver == DriverPostgres, validation.Required)),
		validation.Field(&d.Name, validation.When(d.Driver == DriverPostgres, validation.Required)),
		validation.Field(&d.Path, validation.When(d.Driver == DriverSQLite, validation.Required)),
	)
}

func (s StorageConfig) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Bucket, validation.When(s.Endpoint != "", validation.Required)),
	)
}
