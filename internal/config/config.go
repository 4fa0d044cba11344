package config

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type DBConfig struct {
	Username string
	Password string
	Host     string
	Port     string
	DBName   string
	SSLMode  string
	MaxConns int32
}

// DSN returns a postgres:// connection string understood by pgx.
func (c DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Username,
		c.Password,
		c.Host,
		c.Port,
		c.DBName,
		c.SSLMode,
	)
}

type ServerConfig struct {
	Port           string
	Handler        http.Handler
	MaxHeaderBytes int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

type GRPCConfig struct {
	Port string
}

type RedisConfig struct {
	Addr    string
	PostTTL time.Duration
}

type RabbitMQConfig struct {
	URL            string
	ExchangeType   string
	Partitions     int
	PublishTimeout time.Duration
}

// LoadEnv loads .env into the process environment. A missing file is not an error.
func LoadEnv() error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// InitConfig reads app.yaml from the working directory on top of the defaults.
func InitConfig() error {
	setDefaults()

	viper.AddConfigPath(".")
	viper.SetConfigType("yaml")
	viper.SetConfigName("app")
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return err
	}
	return nil
}

func setDefaults() {
	viper.SetDefault("app.env", "prod")
	viper.SetDefault("app.port", "8000")
	viper.SetDefault("app.read_timeout", 10*time.Second)
	viper.SetDefault("app.write_timeout", 10*time.Second)
	viper.SetDefault("grpc.port", "50051")
	viper.SetDefault("engine.addr", "localhost:50051")
	viper.SetDefault("client.origin", "*")
	viper.SetDefault("postgres.max_conns", 20)
	viper.SetDefault("cache.post_ttl", time.Hour)
	viper.SetDefault("rabbitmq.exchange_type", "direct")
	viper.SetDefault("rabbitmq.partitions", 8)
	viper.SetDefault("rabbitmq.publish_timeout", 10*time.Second)
}

func DB() DBConfig {
	return DBConfig{
		Username: os.Getenv("POSTGRES_USER"),
		Password: os.Getenv("POSTGRES_PASSWORD"),
		Host:     os.Getenv("POSTGRES_HOST"),
		Port:     os.Getenv("POSTGRES_PORT"),
		DBName:   os.Getenv("POSTGRES_DATABASE"),
		SSLMode:  os.Getenv("POSTGRES_SSLMODE"),
		MaxConns: viper.GetInt32("postgres.max_conns"),
	}
}

func Redis() RedisConfig {
	return RedisConfig{
		Addr:    os.Getenv("REDIS_ADDR"),
		PostTTL: viper.GetDuration("cache.post_ttl"),
	}
}

func RabbitMQ() RabbitMQConfig {
	return RabbitMQConfig{
		URL:            os.Getenv("RABBITMQ_CONN_STRING"),
		ExchangeType:   viper.GetString("rabbitmq.exchange_type"),
		Partitions:     viper.GetInt("rabbitmq.partitions"),
		PublishTimeout: viper.GetDuration("rabbitmq.publish_timeout"),
	}
}

// Server is the gateway's HTTP server config around handler.
func Server(handler http.Handler) ServerConfig {
	return ServerConfig{
		Port:           viper.GetString("app.port"),
		Handler:        handler,
		MaxHeaderBytes: 1 << 20,
		ReadTimeout:    viper.GetDuration("app.read_timeout"),
		WriteTimeout:   viper.GetDuration("app.write_timeout"),
	}
}

// EngineAddr is where the gateway reaches the engine. ENGINE_ADDR overrides app.yaml.
func EngineAddr() string {
	if addr := os.Getenv("ENGINE_ADDR"); addr != "" {
		return addr
	}
	return viper.GetString("engine.addr")
}

func AccessSecret() []byte {
	return []byte(os.Getenv("ACCESS_SECRET"))
}

func IsDev() bool {
	return viper.GetString("app.env") == "dev"
}

func GRPC() GRPCConfig {
	return GRPCConfig{
		Port: viper.GetString("grpc.port"),
	}
}
