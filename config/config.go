package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Server struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

func (s *Server) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type Backend struct {
	BaseURL  string `mapstructure:"baseUrl"`
	PageSize int    `mapstructure:"pageSize"`
}

type OpenAI struct {
	APIKey string `mapstructure:"apiKey"`
	Model  string `mapstructure:"model"`
}

type Agent struct {
	MaxToolRounds int     `mapstructure:"maxToolRounds"`
	Temperature   float64 `mapstructure:"temperature"`
}

type Config struct {
	Env     string  `mapstructure:"env"`
	Server  Server  `mapstructure:"server"`
	Backend Backend `mapstructure:"backend"`
	OpenAI  OpenAI  `mapstructure:"openai"`
	Agent   Agent   `mapstructure:"agent"`
}

func LoadConfig() *Config {
	viper.SetConfigFile("./config/config.yaml")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		log.Fatal(err)
	}

	config.applyDefaults()

	return &config
}

func (c *Config) applyDefaults() {
	if c.Env == "" {
		c.Env = "dev"
	}
	if c.Backend.PageSize <= 0 {
		c.Backend.PageSize = 10
	}
	if c.Agent.MaxToolRounds <= 0 {
		c.Agent.MaxToolRounds = 10
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = "gpt-4o-mini"
	}
}
