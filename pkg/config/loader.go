package config

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvInfo collects service names, ports and paths from .env
type EnvInfo struct {
	// image name
	MediaService     string
	PortfolioService string
	MemberService    string

	// service ports
	MediaServicePort     string
	PortfolioServicePort string
	MemberServicePort    string

	// service yaml path
	MediaServiceYAMLPath     string
	PortfolioServiceYAMLPath string
	MemberServiceYAMLPath    string

	// service log path
	MediaServiceLogPath     string
	PortfolioServiceLogPath string
	MemberServiceLogPath    string
}

// EnvConfig holds the parsed .env values
var (
	EnvConfig = initEnv()
	envConfig EnvInfo
	once      sync.Once
	env       string
)

func initEnv() EnvInfo {
	once.Do(func() {

		path, err := GetPath(".env", 5)
		if err != nil {
			log.Printf("Warning: Could not get .env path: %v", err)
		}

		if err := godotenv.Load(path); err != nil {
			log.Printf("Warning: Could not load .env file: %v", err)
		}

		env = os.Getenv("ENV")

		envConfig = EnvInfo{
			MediaService:     os.Getenv("MEDIA_SERVICE"),
			PortfolioService: os.Getenv("PORTFOLIO_SERVICE"),
			MemberService:    os.Getenv("MEMBER_SERVICE"),

			MediaServicePort:     os.Getenv("MEDIA_SERVICE_PORT"),
			PortfolioServicePort: os.Getenv("PORTFOLIO_SERVICE_PORT"),
			MemberServicePort:    os.Getenv("MEMBER_SERVICE_PORT"),

			MediaServiceYAMLPath:     os.Getenv("MEDIA_SERVICE_YAML"),
			PortfolioServiceYAMLPath: os.Getenv("PORTFOLIO_SERVICE_YAML"),
			MemberServiceYAMLPath:    os.Getenv("MEMBER_SERVICE_YAML"),

			MediaServiceLogPath:     os.Getenv("MEDIA_SERVICE_LOG"),
			PortfolioServiceLogPath: os.Getenv("PORTFOLIO_SERVICE_LOG"),
			MemberServiceLogPath:    os.Getenv("MEMBER_SERVICE_LOG"),
		}
	})

	return envConfig
}

// IsProduction check run env
func IsProduction() bool {
	return env == "production"
}

// IsLocal check run env
func IsLocal() bool {
	return env == "local"
}

// LoadConfig reads <serviceName>.yaml under configPath, expands ${ENV_VAR}
// placeholders, and unmarshals into T.
func LoadConfig[T any](serviceName string, configPath string) T {
	v := viper.New()
	v.SetConfigName(serviceName)
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		log.Fatalf("Error loading config file: %v", err)
	}

	rawConfig, err := os.ReadFile(v.ConfigFileUsed())
	if err != nil {
		log.Fatalf("Error reading raw config file: %v", err)
	}

	expandedConfig := os.ExpandEnv(string(rawConfig))

	if err := v.ReadConfig(bytes.NewBuffer([]byte(expandedConfig))); err != nil {
		log.Fatalf("Error reading expanded config: %v", err)
	}

	var cfg T
	if err := v.Unmarshal(&cfg); err != nil {
		log.Fatalf("Error unmarshaling config: %v", err)
	}
	return cfg
}

// GetRedisSetting get redis sentinel setting from .env
func GetRedisSetting() (string, []string) {
	path, err := GetPath(".env", 5)
	if err != nil {
		log.Printf("Warning: Could not get .env path: %v", err)
	}

	if err := godotenv.Load(path); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	envs := os.Environ()

	var (
		masterName    string
		sentinelAddrs []string
	)

	// REDIS_SENTINEL*_IP pairs with REDIS_SENTINEL*_PORT
	for _, env := range envs {
		parts := strings.SplitN(env, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key, value := parts[0], parts[1]

		if strings.HasPrefix(key, "REDIS_SENTINEL") && strings.HasSuffix(key, "_IP") {
			portKey := strings.Replace(key, "_IP", "_PORT", 1)
			port := os.Getenv(portKey)
			if port != "" {
				sentinelAddrs = append(sentinelAddrs, fmt.Sprintf("%s:%s", value, port))
			}
		}
	}

	masterName = os.Getenv("REDIS_MASTER_NAME")
	if masterName == "" {
		masterName = "mymaster"
	}

	return masterName, sentinelAddrs
}

// GetPath walks up from the working directory looking for fileName.
func GetPath(fileName string, maxCount int) (string, error) {
	path := "./" + fileName

	for i := 0; i < maxCount; i++ {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		path = "../" + path
	}
	return "", errors.New(fileName + " can't find path")
}
