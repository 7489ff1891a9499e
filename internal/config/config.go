package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Port                 string `mapstructure:"PORT"`
	Environment          string `mapstructure:"ENVIRONMENT"`
	AppName              string `mapstructure:"APP_NAME"`
	DatabaseDriver       string `mapstructure:"DATABASE_DRIVER"`
	DatabasePath         string `mapstructure:"DATABASE_PATH"`
	DatabaseURL          string `mapstructure:"DATABASE_URL"`
	JWTSecret            string `mapstructure:"JWT_SECRET"`
	EnableCORS           bool   `mapstructure:"ENABLE_CORS"`
	PasswordResetURLBase string `mapstructure:"PASSWORD_RESET_URL_BASE"`
	ResetTokenTTLMinutes int    `mapstructure:"RESET_TOKEN_TTL_MINUTES"`
	DiscordBotToken      string `mapstructure:"DISCORD_BOT_TOKEN"`
	DiscordChannelID     string `mapstructure:"DISCORD_NOTIFICATIONS_CHANNEL_ID"`
}

func LoadConfig() *Config {
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("APP_NAME", "Sacramentos")
	viper.SetDefault("DATABASE_DRIVER", "sqlite")
	viper.SetDefault("DATABASE_PATH", "miga.db")
	viper.SetDefault("PASSWORD_RESET_URL_BASE", "http://127.0.0.1:4000/reset-password")
	viper.SetDefault("RESET_TOKEN_TTL_MINUTES", 30)

	viper.BindEnv("PORT")
	viper.BindEnv("ENVIRONMENT")
	viper.BindEnv("APP_NAME")
	viper.BindEnv("DATABASE_DRIVER")
	viper.BindEnv("DATABASE_PATH")
	viper.BindEnv("DATABASE_URL")
	viper.BindEnv("JWT_SECRET")
	viper.BindEnv("ENABLE_CORS")
	viper.BindEnv("PASSWORD_RESET_URL_BASE")
	viper.BindEnv("RESET_TOKEN_TTL_MINUTES")
	viper.BindEnv("DISCORD_BOT_TOKEN")
	viper.BindEnv("DISCORD_NOTIFICATIONS_CHANNEL_ID")

	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}

	return &config
}
