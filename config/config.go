package config

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server       Server
	Database     Database
	Storage      Storage
	Log          Log
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

// Storage selects where candidate recordings land. Type is "local" or "minio";
// anything else falls back to local.
type Storage struct {
	Type          string
	UploadDir     string
	MinioEndpoint string
	MinioAccessID string
	MinioSecret   string
	MinioBucket   string
	MinioUseSSL   bool
}

type Log struct {
	File string // empty disables the rotating file sink
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("STORAGE_TYPE", "local")
	viper.SetDefault("UPLOAD_DIR", "recordings")

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")

	config.Storage.Type = viper.GetString("STORAGE_TYPE")
	config.Storage.UploadDir = viper.GetString("UPLOAD_DIR")
	config.Storage.MinioEndpoint = viper.GetString("MINIO_ENDPOINT")
	config.Storage.MinioAccessID = viper.GetString("MINIO_ACCESS_ID")
	config.Storage.MinioSecret = viper.GetString("MINIO_SECRET")
	config.Storage.MinioBucket = viper.GetString("MINIO_BUCKET")
	config.Storage.MinioUseSSL = viper.GetBool("MINIO_USE_SSL")

	config.Log.File = viper.GetString("LOG_FILE")

	config.GeminiApiKey = viper.GetString("GEMINI_API_KEY")

	log.Info().Str("port", config.Server.Port).Str("storage", config.Storage.Type).Msg("Config loaded")
	return &config, nil
}
