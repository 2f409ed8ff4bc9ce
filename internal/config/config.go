package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sachinottawa/call-agent-backend/internal/logger"
	"github.com/sachinottawa/call-agent-backend/internal/utils"
)

// DefaultAllowedOrigins lists the dashboard deployments permitted to call the
// API. The allow-list is loaded once here and consumed by the single CORS
// middleware in the router, never re-declared per handler.
var DefaultAllowedOrigins = []string{
	"http://localhost:5173",
	"https://call-agent-dashboard.vercel.app",
	"https://call-agent-dashboard-omgcw6a9f-sachinottawas-projects.vercel.app",
}

type Config struct {
	Port           string
	AllowedOrigins []string
	ServiceName    string
	RedisAddr      string
	ChartCacheTTL  time.Duration
}

// fileConfig is the optional YAML overlay (CONFIG_FILE). Any field left empty
// in the file keeps its environment/default value.
type fileConfig struct {
	Port                 string   `yaml:"port"`
	AllowedOrigins       []string `yaml:"allowed_origins"`
	ServiceName          string   `yaml:"service_name"`
	RedisAddr            string   `yaml:"redis_addr"`
	ChartCacheTTLSeconds int      `yaml:"chart_cache_ttl_seconds"`
}

func Load(log *logger.Logger) (Config, error) {
	cfg := Config{
		Port:           utils.GetEnv("PORT", "8080", log),
		AllowedOrigins: utils.GetEnvAsList("ALLOWED_ORIGINS", DefaultAllowedOrigins, log),
		ServiceName:    utils.GetEnv("SERVICE_NAME", "call-agent-backend", log),
		RedisAddr:      utils.GetEnv("REDIS_ADDR", "", log),
		ChartCacheTTL:  time.Duration(utils.GetEnvAsInt("CHART_CACHE_TTL_SECONDS", 60, log)) * time.Second,
	}

	path := utils.GetEnv("CONFIG_FILE", "", log)
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config file %s: %w", path, err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return cfg, fmt.Errorf("parse config file %s: %w", path, err)
	}
	if fc.Port != "" {
		cfg.Port = fc.Port
	}
	if len(fc.AllowedOrigins) > 0 {
		cfg.AllowedOrigins = fc.AllowedOrigins
	}
	if fc.ServiceName != "" {
		cfg.ServiceName = fc.ServiceName
	}
	if fc.RedisAddr != "" {
		cfg.RedisAddr = fc.RedisAddr
	}
	if fc.ChartCacheTTLSeconds > 0 {
		cfg.ChartCacheTTL = time.Duration(fc.ChartCacheTTLSeconds) * time.Second
	}
	log.Info("Config loaded from file overlay", "path", path)
	return cfg, nil
}
