package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
}

type App struct {
	Name string
	Env  string
	HTTP HTTP
}

type FileRotate struct {
	Enable     bool
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type Log struct {
	Level string
	JSON  bool
	File  FileRotate
}

type JWT struct {
	Secret   string
	Issuer   string
	TTLHours int `mapstructure:"ttlHours"`
}

func (j JWT) TTL() time.Duration { return time.Duration(j.TTLHours) * time.Hour }

type Redis struct {
	Addr       string `mapstructure:"addr"`
	Password   string `mapstructure:"password"`
	DB         int    `mapstructure:"db"`
	ItemTTLSec int    `mapstructure:"itemTTLSec"`
}

type DB struct {
	Driver             string // mongo / postgres / mysql / memory
	URI                string // mongo
	Name               string // mongo 库名
	DSN                string // gorm
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

// Storage R2（S3 兼容）对象存储
type Storage struct {
	AccountID       string `mapstructure:"accountId"`
	AccessKeyID     string `mapstructure:"accessKeyId"`
	SecretAccessKey string `mapstructure:"secretAccessKey"`
	Bucket          string `mapstructure:"bucket"`
	PublicURL       string `mapstructure:"publicUrl"`
	Endpoint        string `mapstructure:"endpoint"` // 为空时按 accountId 拼 R2 地址
	Region          string `mapstructure:"region"`
}

// Configured 五项齐全才算配置完成
func (s Storage) Configured() bool {
	return s.AccountID != "" && s.AccessKeyID != "" && s.SecretAccessKey != "" &&
		s.Bucket != "" && s.PublicURL != ""
}

type Checkout struct {
	MessengerPage string `mapstructure:"messengerPage"`
	Currency      string `mapstructure:"currency"`
}

type Seed struct {
	AdminUsername string `mapstructure:"adminUsername"`
	AdminPassword string `mapstructure:"adminPassword"`
}

type Config struct {
	App      App
	Log      Log
	JWT      JWT
	DB       DB
	Redis    Redis    `mapstructure:"redis"`
	Storage  Storage  `mapstructure:"storage"`
	Checkout Checkout `mapstructure:"checkout"`
	Seed     Seed     `mapstructure:"seed"`
}

var drivers = map[string]bool{"mongo": true, "postgres": true, "mysql": true, "memory": true}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWT.Secret) == "" {
		return errors.New("jwt.secret is required")
	}
	if c.JWT.TTLHours <= 0 {
		return errors.New("jwt.ttlHours must be positive")
	}
	if !drivers[c.DB.Driver] {
		return fmt.Errorf("unsupported db.driver %q", c.DB.Driver)
	}
	if c.DB.Driver == "mongo" && c.DB.URI == "" {
		return errors.New("db.uri is required for mongo")
	}
	return nil
}

// 旧版部署使用的环境变量名
var legacyEnv = map[string]string{
	"db.uri":                  "MONGODB_URI",
	"db.name":                 "MONGODB_DB_NAME",
	"jwt.secret":              "JWT_SECRET",
	"storage.accountId":       "R2_ACCOUNT_ID",
	"storage.accessKeyId":     "R2_ACCESS_KEY_ID",
	"storage.secretAccessKey": "R2_SECRET_ACCESS_KEY",
	"storage.bucket":          "R2_BUCKET_NAME",
	"storage.publicUrl":       "R2_PUBLIC_URL",
	"seed.adminUsername":      "ADMIN_USERNAME",
	"seed.adminPassword":      "ADMIN_PASSWORD",
	"checkout.messengerPage":  "FACEBOOK_PAGE_USERNAME",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "storefront")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 8080)
	v.SetDefault("app.http.readTimeoutSec", 10)
	v.SetDefault("app.http.writeTimeoutSec", 30)
	v.SetDefault("app.http.idleTimeoutSec", 60)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("jwt.issuer", "storefront")
	v.SetDefault("jwt.ttlHours", 7*24)
	v.SetDefault("db.driver", "mongo")
	v.SetDefault("db.name", "storefront")
	v.SetDefault("db.maxOpenConns", 20)
	v.SetDefault("db.maxIdleConns", 5)
	v.SetDefault("db.connMaxLifetimeMin", 30)
	v.SetDefault("db.logLevel", "warn")
	v.SetDefault("redis.itemTTLSec", 60)
	v.SetDefault("storage.region", "auto")
	v.SetDefault("checkout.currency", "₱")
	v.SetDefault("seed.adminUsername", "admin")
	// 空默认值让 AutomaticEnv 能识别这些 key
	for _, k := range []string{
		"db.uri", "db.dsn", "db.username", "db.password",
		"redis.addr", "redis.password", "storage.endpoint", "log.file.filename",
	} {
		v.SetDefault(k, "")
	}
	v.SetDefault("db.autoMigrate", false)
	v.SetDefault("redis.db", 0)
	v.SetDefault("log.file.enable", false)
}

// Read 读取配置文件 + 环境变量；文件不存在时只用默认值与环境变量
func Read(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	explicit := path != ""
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		explicit = path != ""
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range legacyEnv {
		prefixed := "APP_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		_ = v.BindEnv(key, prefixed, env)
	}

	if err := v.ReadInConfig(); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

func Load(path string) *Config {
	c, err := Read(path)
	if err != nil {
		log.Fatalf("%v", err)
	}
	if err := c.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}
	return c
}
