package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// LoadENV loads variables from .env unless GO_ENV says we are past development
func LoadENV() error {
	goEnv := os.Getenv("GO_ENV")

	if goEnv == "" || goEnv == "development" {
		err := godotenv.Load()
		if err != nil {
			return err
		}
	}

	return nil
}

type EnviornmentVariable struct {
	// All variables
	GO_ENV       string
	DB_USER_NAME string
	DB_PASSWORD  string
	DB_NAME      string
	DB_HOST      string
	DB_PORT      string
	PORT         int
	// Identity gateway token verification
	JWT_SECRET string
	JWT_ISSUER string
	// Redis Configuration
	REDIS_URL string
	// Document storage
	STORAGE_BACKEND   string // "local" or "spaces"
	DOCUMENTS_DIR     string
	SPACES_ACCESS_KEY string
	SPACES_SECRET_KEY string
	SPACES_BUCKET     string
	SPACES_REGION     string
	SPACES_ENDPOINT   string
	// Outbound mail
	SMTP_HOST string
	SMTP_PORT int
	SMTP_USER string
	SMTP_PASS string
	SMTP_FROM string
}

func Get() (*EnviornmentVariable, error) {

	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil {
		port = 5000
	}

	smtpPort, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		smtpPort = 587
	}

	// Database defaults
	dbHost := os.Getenv("MYSQL_HOST")
	if dbHost == "" {
		dbHost = "localhost"
	}

	dbPort := os.Getenv("MYSQL_PORT")
	if dbPort == "" {
		dbPort = "3306"
	}

	documentsDir := os.Getenv("DOCUMENTS_DIR")
	if documentsDir == "" {
		documentsDir = "uploads/documents"
	}

	storageBackend := os.Getenv("STORAGE_BACKEND")
	if storageBackend == "" {
		storageBackend = "local"
	}

	envVariables := &EnviornmentVariable{
		GO_ENV:       os.Getenv("GO_ENV"),
		DB_USER_NAME: os.Getenv("MYSQL_USER"),
		DB_PASSWORD:  os.Getenv("MYSQL_PASSWORD"),
		DB_NAME:      os.Getenv("MYSQL_DATABASE"),
		DB_HOST:      dbHost,
		DB_PORT:      dbPort,
		PORT:         port,
		// Tokens
		JWT_SECRET: os.Getenv("JWT_SECRET"),
		JWT_ISSUER: os.Getenv("JWT_ISSUER"),
		// Redis
		REDIS_URL: os.Getenv("REDIS_URL"),
		// Storage
		STORAGE_BACKEND:   storageBackend,
		DOCUMENTS_DIR:     documentsDir,
		SPACES_ACCESS_KEY: os.Getenv("SPACES_ACCESS_KEY"),
		SPACES_SECRET_KEY: os.Getenv("SPACES_SECRET_KEY"),
		SPACES_BUCKET:     os.Getenv("SPACES_BUCKET"),
		SPACES_REGION:     os.Getenv("SPACES_REGION"),
		SPACES_ENDPOINT:   os.Getenv("SPACES_ENDPOINT"),
		// Mail
		SMTP_HOST: os.Getenv("SMTP_HOST"),
		SMTP_PORT: smtpPort,
		SMTP_USER: os.Getenv("MAIL_USER"),
		SMTP_PASS: os.Getenv("MAIL_PASS"),
		SMTP_FROM: os.Getenv("MAIL_FROM"),
	}

	return envVariables, nil
}
