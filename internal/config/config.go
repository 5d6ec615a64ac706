package config

import (
	"log"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

type AffiliateConfig struct {
	Env            string `yaml:"env"`
	HTTPServer     `yaml:"http_server"`
	MetricsServer  `yaml:"metrics_server"`
	AffiliateDB    `yaml:"affiliate_db"`
	LogConfig      `yaml:"log_config"`
	WalletService  `yaml:"wallet-service"`
	TradingService `yaml:"trading-service"`
	KafkaService   `yaml:"kafka-service"`
	RedisService   `yaml:"redis-service"`
	MigrationsPath string `yaml:"migrations_path"`
}

type HTTPServer struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type MetricsServer struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type AffiliateDB struct {
	Dsn string `yaml:"dsn"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	LogOutput string `yaml:"log_output"`
}

type WalletService struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type TradingService struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type KafkaService struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type RedisService struct {
	Host       string `yaml:"host"`
	Port       string `yaml:"port"`
	Password   string `yaml:"password"`
	DB         int    `yaml:"db"`
	TTLSeconds int    `yaml:"ttl_seconds" env-default:"30"`
}

func MustLoad() *AffiliateConfig {

	// Processing env config variable and file
	configPath := os.Getenv("AFFILIATE_CONFIG_PATH")

	if configPath == "" {
		log.Fatalf("AFFILIATE_CONFIG_PATH was not found\n")
	}

	if _, err := os.Stat(configPath); err != nil {
		log.Fatalf("failed to find config file: %v\n", err)
	}

	// YAML to struct object
	var cfg AffiliateConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}

	return &cfg
}
