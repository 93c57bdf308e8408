package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/beanbocchi/multipart/pkg/validator"
)

const envPrefix = "UPLOADS"

// legacyEnv maps config keys to the environment variables older deployments set.
var legacyEnv = map[string]string{
	"objectstore.s3.bucket": "S3_UPLOAD_BUCKET",
	"objectstore.s3.region": "AWS_REGION",
	"app.allowedOrigin":     "ALLOWED_ORIGIN",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "local")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.addSource", false)

	v.SetDefault("app.name", "uploads")
	v.SetDefault("app.addr", ":8080")
	v.SetDefault("app.allowedOrigin", "")
	v.SetDefault("app.presignTTL", time.Hour)
	v.SetDefault("app.operationTimeout", 8*time.Second)

	v.SetDefault("objectstore.type", "s3")
	v.SetDefault("objectstore.listPageSize", 0)
	v.SetDefault("objectstore.s3.region", "")
	v.SetDefault("objectstore.s3.bucket", "")
	v.SetDefault("objectstore.s3.endpoint", "")
	v.SetDefault("objectstore.s3.accessKeyID", "")
	v.SetDefault("objectstore.s3.secretAccessKey", "")
	v.SetDefault("objectstore.s3.usePathStyle", false)
	v.SetDefault("objectstore.s3.requestTimeout", 2*time.Second)
	v.SetDefault("objectstore.s3.maxAttempts", 3)
	v.SetDefault("objectstore.minio.endpoint", "")
	v.SetDefault("objectstore.minio.bucket", "")
	v.SetDefault("objectstore.minio.region", "")
	v.SetDefault("objectstore.minio.accessKeyID", "")
	v.SetDefault("objectstore.minio.secretAccessKey", "")
	v.SetDefault("objectstore.minio.useSSL", true)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("metrics.namespace", "uploads")
}

// Load reads configuration from file (optional), then UPLOADS_* environment
// variables, and validates the result. An empty file searches ./config.yaml
// and ./config/config.yaml.
func Load(file string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range legacyEnv {
		prefixed := envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, env); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", env, err)
		}
	}

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := validator.Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}
