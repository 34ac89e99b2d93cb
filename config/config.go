package config

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/avdeyev/bookhub/pkg/kafka"
	"github.com/avdeyev/bookhub/pkg/logger"
	"github.com/avdeyev/bookhub/pkg/postgres"
)

type HTTPServer struct {
	Host         string        `yaml:"host" envconfig:"HTTP_HOST" default:"0.0.0.0"`
	Port         string        `yaml:"port" envconfig:"HTTP_PORT" default:"8080"`
	ReadTimeout  time.Duration `yaml:"readTimeout" envconfig:"HTTP_READ" default:"10s"`
	WriteTimeout time.Duration
}

type Auth struct {
	JWTKey        string `yaml:"jwtKey" envconfig:"JWT_KEY"`
	AdminUsername string `yaml:"adminUsername" envconfig:"ADMIN_USERNAME" default:"admin"`
}

// Cloudinary credentials for signing direct uploads of book covers.
type Cloudinary struct {
	CloudName string `yaml:"cloudName" envconfig:"CLOUDINARY_CLOUD_NAME"`
	APIKey    string `yaml:"apiKey" envconfig:"CLOUDINARY_API_KEY"`
	APISecret string `yaml:"apiSecret" envconfig:"CLOUDINARY_API_SECRET" json:"-"`
}

type Config struct {
	Server     HTTPServer `yaml:"server"`
	Database   postgres.Config
	Kafka      kafka.Config
	Auth       Auth
	Cloudinary Cloudinary
	Log        logger.Log `yaml:"log"`
}

var (
	once sync.Once
	cfg  Config
)

// NewConfig reads config from environment.
func NewConfig(ops ...Option) *Config {
	once.Do(func() {
		var config Config
		for _, op := range ops {
			op(&config)
		}
		err := envconfig.Process("", &config)
		if err != nil {
			log.Fatal("NewConfig ", err)
		}
		cfg = config
		printConfig(cfg)
	})

	return &cfg
}

func printConfig(cfg Config) {
	jscfg, _ := json.MarshalIndent(cfg, "", "	") //nolint:errcheck
	fmt.Println(string(jscfg))
}
