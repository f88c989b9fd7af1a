package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/streamcart/order-saga/pkg/utils"
)

type Config struct {
	Env         string      `yaml:"env" env:"ENV" env-default:"local"`
	HTTP        HTTP        `yaml:"http"`
	Kafka       Kafka       `yaml:"kafka"`
	Postgres    PG          `yaml:"postgres"`
	Redis       Redis       `yaml:"redis"`
	Payment     Payment     `yaml:"payment"`
	Idempotency Idempotency `yaml:"idempotency"`
}

type HTTP struct {
	Port    string        `yaml:"port" env:"HTTP_PORT" env-default:":3000"`
	Timeout time.Duration `yaml:"timeout" env-default:"4s"`
}

type Kafka struct {
	Brokers []string `yaml:"brokers" env:"KAFKA_BROKERS" env-separator:"," env-default:"localhost:9092"`
}

type PG struct {
	URL string `yaml:"url" env:"DB_URL"`
}

type Redis struct {
	Addr string `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
}

type Payment struct {
	// ApprovalThreshold is a decimal string; totals strictly below it
	// authorize, everything else fails.
	ApprovalThreshold string `yaml:"approval_threshold" env:"PAYMENT_APPROVAL_THRESHOLD" env-default:"1000"`
}

type Idempotency struct {
	Capacity int `yaml:"capacity" env:"IDEMPOTENCY_CAPACITY" env-default:"10000"`
}

func MustLoad() *Config {
	configPath := utils.ParseWithFallback("CONFIG_PATH", "./config/local.yaml")

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exists: %v\n", err)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("error reading config: %v", err)
	}

	return &cfg
}
