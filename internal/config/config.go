package config

import (
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Host       string `mapstructure:"HOST"`
		Port       string `mapstructure:"PORT"`
		MongoURI   string `mapstructure:"MONGO_URI"`
		MongoDB    string `mapstructure:"MONGO_DB"`
		JWTSecret  string `mapstructure:"JWT_SECRET"`
		CORSOrigin string `mapstructure:"CORS_ORIGIN"`
		LogLevel   string `mapstructure:"LOG_LEVEL"`
	}
)

func NewConfig() (*Config, error) {
	viper.SetEnvPrefix("SECONDBRAIN")

	viper.SetDefault("HOST", "0.0.0.0")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("MONGO_URI", "mongodb://0.0.0.0:27017")
	viper.SetDefault("MONGO_DB", "secondbrain")
	viper.SetDefault("CORS_ORIGIN", "*")
	viper.SetDefault("LOG_LEVEL", "info")

	envs := []string{"HOST", "PORT", "MONGO_URI", "MONGO_DB", "JWT_SECRET", "CORS_ORIGIN", "LOG_LEVEL"}
	for _, key := range envs {
		if err := viper.BindEnv(key); err != nil {
			return nil, err
		}
	}

	cfg := Config{}
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	// the signing secret has no sane default
	if cfg.JWTSecret == "" {
		return errors.New("JWT secret is empty")
	}
	return nil
}
