package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"strike-bot/model"
)

// Load reads secrets from the environment (.env) and everything else from a
// viper config file.
func Load() (*model.Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: .env file not found, relying on environment variables")
	}

	token := os.Getenv("BOT_TOKEN")
	if token == "" {
		log.Fatal("Error: BOT_TOKEN environment variable not set")
	}

	appID := os.Getenv("APP_ID")
	if appID == "" {
		log.Fatal("Error: APP_ID environment variable not set")
	}

	webhookURL := os.Getenv("LOG_WEBHOOK_URL")
	if webhookURL == "" {
		log.Println("Warning: LOG_WEBHOOK_URL not set, audit webhook logging will be disabled")
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}
	log.Printf("Using config file: %s", v.ConfigFileUsed())

	cfg := &model.Config{
		BotToken:      token,
		AppID:         appID,
		LogWebhookURL: webhookURL,
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// The guild id doubles as the map key; fill it in when the file only
	// sets it once.
	for key, serverCfg := range cfg.ServerConfigs {
		if serverCfg.GuildID == "" {
			serverCfg.GuildID = key
			cfg.ServerConfigs[key] = serverCfg
		}
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database_path", "data/strikes.db")
	v.SetDefault("logger.directory", "logs")
	v.SetDefault("logger.max_size_mb", 20)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age_days", 30)
	v.SetDefault("logger.compress", true)
	v.SetDefault("strikes.decay_days", 90)
	v.SetDefault("strikes.sweep_interval_minutes", 5)
	v.SetDefault("strikes.removal_timeout_seconds", 60)
}
