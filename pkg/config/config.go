package config

import (
	"errors"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env string

	Data    DataConfig
	Uploads UploadConfig
	Hash    HashConfig
	Log     LogConfig
}

// DataConfig locates the per-table data files.
type DataConfig struct {
	Dir          string
	BackupSuffix string
	SaveOnChange bool
}

// UploadConfig locates the evidence upload directory.
type UploadConfig struct {
	Dir string
}

// HashConfig tunes credential hashing.
type HashConfig struct {
	Iterations int
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")

	cfg.Data = DataConfig{
		Dir:          v.GetString("DATA_DIR"),
		BackupSuffix: v.GetString("DATA_BACKUP_SUFFIX"),
		SaveOnChange: v.GetBool("DATA_SAVE_ON_CHANGE"),
	}

	cfg.Uploads = UploadConfig{
		Dir: v.GetString("UPLOADS_DIR"),
	}

	cfg.Hash = HashConfig{
		Iterations: v.GetInt("HASH_ITERATIONS"),
	}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("DATA_DIR", "./data")
	v.SetDefault("DATA_BACKUP_SUFFIX", "")
	v.SetDefault("DATA_SAVE_ON_CHANGE", false)
	v.SetDefault("UPLOADS_DIR", "./uploads")
	v.SetDefault("HASH_ITERATIONS", 100000)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}
