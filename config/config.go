package config

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server       Server
	Database     Database
	Assessment   Assessment
	GeminiApiKey string
}

type Server struct {
	Port string
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// Assessment holds the session issuing policy.
type Assessment struct {
	DurationMinutes int
	MCQCount        int
	CodingCount     int
	StartPolicy     string // "reject" or "replace" when an in-progress session exists
	GraceSeconds    int    // submission grace after expiry, covers the auto-submit race
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("TEST_DURATION_MINUTES", 30)
	viper.SetDefault("TEST_MCQ_COUNT", 3)
	viper.SetDefault("TEST_CODING_COUNT", 2)
	viper.SetDefault("SESSION_START_POLICY", "reject")
	viper.SetDefault("SESSION_GRACE_SECONDS", 30)

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")

	config.Assessment.DurationMinutes = viper.GetInt("TEST_DURATION_MINUTES")
	config.Assessment.MCQCount = viper.GetInt("TEST_MCQ_COUNT")
	config.Assessment.CodingCount = viper.GetInt("TEST_CODING_COUNT")
	config.Assessment.StartPolicy = viper.GetString("SESSION_START_POLICY")
	config.Assessment.GraceSeconds = viper.GetInt("SESSION_GRACE_SECONDS")

	config.GeminiApiKey = viper.GetString("GEMINI_API_KEY")

	log.Info().Str("port", config.Server.Port).Str("start_policy", config.Assessment.StartPolicy).Msg("Config loaded")
	return &config, nil
}
