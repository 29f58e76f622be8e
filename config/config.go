package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// LoadConfig loads configuration from a .env file and config.yaml.
// Environment variables override file settings.
//
// Keys:
//
//	BOT_TOKEN                 Discord bot token (usually from .env)
//	bot.dbPath                SQLite database path
//	bot.adminChannelId        channel for operator log embeds
//	bot.resyncAtStartup       run a full re-sync sweep on startup
//	cache.size                message cache capacity
//	cache.ttlMinutes          message cache entry lifetime
//	starboard.regexTimeoutMs  wall-clock bound for user patterns
func LoadConfig() {
	// Load environment variables from .env, ignored if missing.
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, skipping.")
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("bot.dbPath", "data/starboard.db")
	viper.SetDefault("bot.resyncAtStartup", false)
	viper.SetDefault("cache.size", 5000)
	viper.SetDefault("cache.ttlMinutes", 30)
	viper.SetDefault("starboard.regexTimeoutMs", 100)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// A missing config file is fine; environment variables and
			// defaults still apply.
			log.Printf("Config file (config.yaml) not found, using environment variables and defaults.")
		} else {
			panic(fmt.Errorf("fatal error reading config file: %w", err))
		}
	}
}
