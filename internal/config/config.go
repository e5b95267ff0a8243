package config

import (
	"fmt"
	"os"
	"strconv"
)

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MaxIdle  int
}

// GetDSN 获取数据库连接字符串
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// RedisConfig Redis配置
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// MQTTConfig MQTT配置
type MQTTConfig struct {
	Broker   string
	ClientID string
	Username string
	Password string
	QoS      byte
}

// PresageConfig 厂家 rPPG SDK 配置
// APIKey 为空时服务进入模拟模式（不调用厂家接口，仍正常运行）
type PresageConfig struct {
	APIURL string
	APIKey string
}

// Config 摄像头生命体征服务配置
type Config struct {
	Database DatabaseConfig
	Redis    RedisConfig
	MQTT     MQTTConfig
	Presage  PresageConfig

	// 测量服务特定配置
	Monitor struct {
		// 测量 tick 间隔（毫秒），默认 1000
		IntervalMs int
		// 校准所需 tick 数，默认 3
		CalibrationTicks int
		// 人脸置信度阈值（传给厂家接口），默认 0.7
		FaceConfidenceThreshold float64
		// 是否计算 HRV，默认 true
		EnableHRV bool

		// Redis Streams 配置
		Stream struct {
			Output string // 输出事件流，如 "camera-vitals:event:stream"
		}

		// Redis 缓存配置
		Cache struct {
			RealtimeKeyPrefix string // 实时数据缓存键前缀，如 "camera-vitals:session:"
			RealtimeTTL       int    // 实时数据 TTL（秒），默认 300（5分钟）
		}
	}

	Log struct {
		Level  string
		Format string
	}
}

// Load 加载配置
func Load() (*Config, error) {
	cfg := &Config{}

	// 从环境变量加载（默认值）
	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = getEnvInt("DB_PORT", 5432)
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.Database = getEnv("DB_NAME", "camera_vitals")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.MaxConns = getEnvInt("DB_MAX_CONNS", 25)
	cfg.Database.MaxIdle = getEnvInt("DB_MAX_IDLE", 5)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = 0

	cfg.MQTT.Broker = getEnv("MQTT_BROKER", "tcp://localhost:1883")
	cfg.MQTT.ClientID = getEnv("MQTT_CLIENT_ID", "wisefido-camera-vitals")
	cfg.MQTT.Username = getEnv("MQTT_USERNAME", "")
	cfg.MQTT.Password = getEnv("MQTT_PASSWORD", "")
	cfg.MQTT.QoS = 1

	cfg.Presage.APIURL = getEnv("PRESAGE_API_URL", "https://api.presagetech.com")
	cfg.Presage.APIKey = getEnv("PRESAGE_API_KEY", "")

	// 测量服务配置
	cfg.Monitor.IntervalMs = getEnvInt("MEASUREMENT_INTERVAL_MS", 1000)
	cfg.Monitor.CalibrationTicks = getEnvInt("CALIBRATION_TICKS", 3)
	cfg.Monitor.FaceConfidenceThreshold = getEnvFloat("FACE_CONFIDENCE_THRESHOLD", 0.7)
	cfg.Monitor.EnableHRV = getEnvBool("ENABLE_HRV", true)

	cfg.Monitor.Stream.Output = getEnv("STREAM_OUTPUT", "camera-vitals:event:stream")

	cfg.Monitor.Cache.RealtimeKeyPrefix = getEnv("CACHE_REALTIME_PREFIX", "camera-vitals:session:")
	cfg.Monitor.Cache.RealtimeTTL = getEnvInt("CACHE_REALTIME_TTL", 300) // 5分钟

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	return cfg, nil
}

// SimulationMode 未配置 API Key 时为模拟模式
func (c *Config) SimulationMode() bool {
	return c.Presage.APIKey == ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
