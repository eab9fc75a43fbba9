package main

import (
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/stafflink/stafflink/internal/agency/controller"
	"github.com/stafflink/stafflink/internal/agency/dates"
	"github.com/stafflink/stafflink/internal/agency/db"
	"github.com/stafflink/stafflink/internal/agency/events"
	"github.com/stafflink/stafflink/internal/agency/handlers"
	"github.com/stafflink/stafflink/internal/agency/notify"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Config struct for YAML configuration
type Config struct {
	HTTPPort      int      `yaml:"HTTP_PORT"`
	DBHost        string   `yaml:"DB_HOST"`
	DBPort        int      `yaml:"DB_PORT"`
	DBUser        string   `yaml:"DB_USER"`
	DBPassword    string   `yaml:"DB_PASSWORD"`
	DBName        string   `yaml:"DB_NAME"`
	DBSSLMode     string   `yaml:"DB_SSLMODE"`
	KafkaBrokers  []string `yaml:"KAFKA_BROKERS"`
	Topic         string   `yaml:"TOPIC"`
	JWTSecret     string   `yaml:"JWT_SECRET"`
	SMTPHost      string   `yaml:"SMTP_HOST"`
	SMTPPort      int      `yaml:"SMTP_PORT"`
	SMTPUsername  string   `yaml:"SMTP_USERNAME"`
	SMTPPassword  string   `yaml:"SMTP_PASSWORD"`
	SMTPFrom      string   `yaml:"SMTP_FROM"`
	AdminEmail    string   `yaml:"ADMIN_EMAIL"`
	AdminPanelURL string   `yaml:"ADMIN_PANEL_URL"`
}

func main() {
	logger := initLogger()
	defer func(logger *zap.Logger) {
		err := logger.Sync()
		if err != nil {
			logger.Error("failed to sync logger", zap.Error(err))
		}
	}(logger)

	cfg, err := loadConfig()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	repo, err := db.NewRepository(initDatabase(cfg), logger)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Error("failed to close database", zap.Error(err))
		}
	}()

	producer, err := events.NewProducer(cfg.KafkaBrokers, logger, cfg.Topic)
	if err != nil {
		logger.Fatal("failed to initialize Kafka producer", zap.Error(err))
	}
	defer producer.Close()

	mailer := notify.NewMailer(&notify.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	}, logger)
	defer mailer.Close()

	jobSvc := controller.NewJobService(
		repo,
		repo,
		producer,
		mailer,
		dates.NewNormalizer(nil, logger),
		cfg.AdminEmail,
		cfg.AdminPanelURL,
		logger,
	)

	api := handlers.NewAPI(jobSvc, logger)
	server := handlers.NewServer(cfg.HTTPPort, api.Router(cfg.JWTSecret), logger)

	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	waitForShutdown(server, logger)
}

// initLogger initializes a Zap production logger.
func initLogger() *zap.Logger {
	logger, _ := zap.NewProduction()
	return logger
}

// loadConfig loads configuration. Use real config tooling (e.g. Viper) in production.
func loadConfig() (*Config, error) {
	configPath := filepath.Join("internal", "agency", "config", "config.yaml")
	file, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	var cfg Config
	err = yaml.Unmarshal(file, &cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// initDatabase initializes the database connection settings.
func initDatabase(cfg *Config) *db.Config {
	return &db.Config{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	}
}

// waitForShutdown blocks until an interrupt or SIGTERM is received, then
// shuts down the server.
func waitForShutdown(server *handlers.Server, logger *zap.Logger) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	server.Stop()
	logger.Info("Server stopped properly")
}
