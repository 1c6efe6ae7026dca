package config

import (
	"errors"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type StorageConfig struct {
	// Driver: pgx | sqlite3 | memory
	Driver  string `yaml:"driver" env:"DB_DRIVER" env-default:"sqlite3"`
	Address string `yaml:"address" env:"DB_ADDRESS" env-default:"tasks.db"`
}

type ReminderConfig struct {
	Interval time.Duration `yaml:"interval" env:"REMINDER_INTERVAL" env-default:"60s"`
	Backoff  time.Duration `yaml:"backoff" env:"REMINDER_BACKOFF" env-default:"5m"`
}

type Config struct {
	LogLevel       string         `yaml:"log_level" env:"LOG_LEVEL" env-default:"INFO"`
	HandlerTimeout time.Duration  `yaml:"handler_timeout" env:"HANDLER_TIMEOUT" env-default:"5s"`
	Storage        StorageConfig  `yaml:"storage"`
	Reminder       ReminderConfig `yaml:"reminder"`
}

func MustLoad(configPath string) Config {
	var cfg Config

	// если путь пустой - просто env
	if configPath == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			log.Fatalf("cannot read env: %s", err)
		}
		return cfg
	}

	// пробуем файл, если его нет - env
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		var pe *os.PathError
		if errors.As(err, &pe) {
			if err := cleanenv.ReadEnv(&cfg); err != nil {
				log.Fatalf("cannot read env: %s", err)
			}
			return cfg
		}
		log.Fatalf("cannot read config %q: %s", configPath, err)
	}

	return cfg
}
