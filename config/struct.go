package config

import "time"

type Config struct {
	// General configuration
	Env string `yaml:"env" mapstructure:"env" validate:"required,oneof=local production testing"`
	Log Log    `yaml:"log" mapstructure:"log" validate:"required"`
	App App    `yaml:"app" mapstructure:"app" validate:"required"`

	// Infrastructure components
	Objectstore Objectstore `yaml:"objectstore" mapstructure:"objectstore" validate:"required"`
	Metrics     Metrics     `yaml:"metrics" mapstructure:"metrics"`
}

type App struct {
	Name             string        `yaml:"name" mapstructure:"name" validate:"required"`
	Addr             string        `yaml:"addr" mapstructure:"addr" validate:"required"`
	AllowedOrigin    string        `yaml:"allowedOrigin" mapstructure:"allowedOrigin"`
	PresignTTL       time.Duration `yaml:"presignTTL" mapstructure:"presignTTL" validate:"gt=0"`
	OperationTimeout time.Duration `yaml:"operationTimeout" mapstructure:"operationTimeout" validate:"gt=0"`
}

type Log struct {
	Level     string `yaml:"level" mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format    string `yaml:"format" mapstructure:"format" validate:"oneof=json text"`
	AddSource bool   `yaml:"addSource" mapstructure:"addSource"`
}

type Objectstore struct {
	Type         string           `yaml:"type" mapstructure:"type" validate:"required,oneof=s3 minio"`
	ListPageSize int32            `yaml:"listPageSize" mapstructure:"listPageSize" validate:"gte=0,lte=1000"`
	S3           S3Objectstore    `yaml:"s3" mapstructure:"s3"`
	Minio        MinioObjectstore `yaml:"minio" mapstructure:"minio"`
}

type S3Objectstore struct {
	Region          string        `yaml:"region" mapstructure:"region"`
	Bucket          string        `yaml:"bucket" mapstructure:"bucket"`
	Endpoint        string        `yaml:"endpoint" mapstructure:"endpoint" validate:"omitempty,url"`
	AccessKeyID     string        `yaml:"accessKeyID" mapstructure:"accessKeyID"`
	SecretAccessKey string        `yaml:"secretAccessKey" mapstructure:"secretAccessKey"`
	UsePathStyle    bool          `yaml:"usePathStyle" mapstructure:"usePathStyle"`
	RequestTimeout  time.Duration `yaml:"requestTimeout" mapstructure:"requestTimeout" validate:"gte=0"`
	MaxAttempts     int           `yaml:"maxAttempts" mapstructure:"maxAttempts" validate:"gte=0"`
}

type MinioObjectstore struct {
	Endpoint        string `yaml:"endpoint" mapstructure:"endpoint"`
	Bucket          string `yaml:"bucket" mapstructure:"bucket"`
	Region          string `yaml:"region" mapstructure:"region"`
	AccessKeyID     string `yaml:"accessKeyID" mapstructure:"accessKeyID"`
	SecretAccessKey string `yaml:"secretAccessKey" mapstructure:"secretAccessKey"`
	UseSSL          bool   `yaml:"useSSL" mapstructure:"useSSL"`
}

type Metrics struct {
	Enabled   bool   `yaml:"enabled" mapstructure:"enabled"`
	Path      string `yaml:"path" mapstructure:"path" validate:"required_if=Enabled true"`
	Namespace string `yaml:"namespace" mapstructure:"namespace"`
}
