package environments

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	Gateway      GatewayConfig
	AI           AIConfig
	Geo          GeoConfig
	Freight      FreightConfig
	Notification NotificationConfig
	Alert        AlertConfig
	Auth         AuthConfig
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// GatewayConfig points at the WhatsApp gateway instance.
type GatewayConfig struct {
	BaseURL  string
	Instance string
	APIKey   string
	Timeout  time.Duration
}

type AIConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// GeoConfig holds the geocoding and routing service endpoints.
type GeoConfig struct {
	GeocodeURL  string
	RoutingURL  string
	CountryCode string
	Timeout     time.Duration
}

type FreightConfig struct {
	StoreAddress   string
	PricePerKm     float64
	MinimumFreight float64
	HomeCity       string
	HomeState      string
}

type NotificationConfig struct {
	GenerateInterval time.Duration
}

type AlertConfig struct {
	WebhookURL     string
	IterationCount int
}

type AuthConfig struct {
	DashboardAPIKey string
	SchedulerAPIKey string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: GetEnv("SERVER_PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:     GetEnv("DB_HOST", "localhost"),
			Port:     GetEnv("DB_PORT", "3306"),
			User:     GetEnv("DB_USER", "festalog"),
			Password: GetEnv("DB_PASSWORD", "festalog123"),
			DBName:   GetEnv("DB_NAME", "festalog"),
		},
		Redis: RedisConfig{
			Host:     GetEnv("REDIS_HOST", "localhost"),
			Port:     GetEnv("REDIS_PORT", "6379"),
			Password: GetEnv("REDIS_PASSWORD", ""),
			DB:       GetEnvAsInt("REDIS_DB", 0),
		},
		Gateway: GatewayConfig{
			BaseURL:  GetEnv("GATEWAY_BASE_URL", "http://localhost:8081"),
			Instance: GetEnv("GATEWAY_INSTANCE", "festalog"),
			APIKey:   GetEnv("GATEWAY_API_KEY", ""),
			Timeout:  time.Duration(GetEnvAsInt("GATEWAY_TIMEOUT_SECONDS", 30)) * time.Second,
		},
		AI: AIConfig{
			APIKey:  GetEnv("GEMINI_API_KEY", ""),
			Model:   GetEnv("GEMINI_MODEL", "gemini-2.0-flash"),
			Timeout: time.Duration(GetEnvAsInt("AI_TIMEOUT_SECONDS", 10)) * time.Second,
		},
		Geo: GeoConfig{
			GeocodeURL:  GetEnv("GEOCODE_URL", "https://nominatim.openstreetmap.org/search"),
			RoutingURL:  GetEnv("ROUTING_URL", "https://router.project-osrm.org/route/v1/driving"),
			CountryCode: GetEnv("GEOCODE_COUNTRY", "br"),
			Timeout:     time.Duration(GetEnvAsInt("GEO_TIMEOUT_SECONDS", 10)) * time.Second,
		},
		Freight: FreightConfig{
			StoreAddress:   GetEnv("FREIGHT_STORE_ADDRESS", "Rua Coronel Quirino, 1200, Cambuí, Campinas"),
			PricePerKm:     GetEnvAsFloat("FREIGHT_PRICE_PER_KM", 3.5),
			MinimumFreight: GetEnvAsFloat("FREIGHT_MINIMUM", 30.0),
			HomeCity:       GetEnv("FREIGHT_HOME_CITY", "Campinas"),
			HomeState:      GetEnv("FREIGHT_HOME_STATE", "SP"),
		},
		Notification: NotificationConfig{
			GenerateInterval: time.Duration(GetEnvAsInt("NOTIFICATION_INTERVAL_MINUTES", 30)) * time.Minute,
		},
		Alert: AlertConfig{
			WebhookURL:     GetEnv("ALERT_WEBHOOK_URL", ""),
			IterationCount: GetEnvAsInt("ALERT_ITERATION_COUNT", 0),
		},
		Auth: AuthConfig{
			DashboardAPIKey: GetEnv("DASHBOARD_API_KEY", ""),
			SchedulerAPIKey: GetEnv("SCHEDULER_API_KEY", ""),
		},
	}
}

func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func GetEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func GetEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func GetEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func GetEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
