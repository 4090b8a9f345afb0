package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type CORS struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type Config struct {
	Listen  string  `yaml:"listen"`
	Admin   Admin   `yaml:"admin"`
	Logger  Logger  `yaml:"logger"`
	Storage Storage `yaml:"storage"`
	Auth    Auth    `yaml:"auth"`
	Scoring Scoring `yaml:"scoring"`
	CORS    CORS    `yaml:"cors"`
}

type Admin struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
}

type Logger struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

type Storage struct {
	Database string `yaml:"database"`
}

// Scoring holds the leaderboard penalty constants. WrongPenaltyMinutes is
// the cost added per wrong submission made before the first acceptance.
type Scoring struct {
	WrongPenaltyMinutes int `yaml:"wrong_penalty_minutes"`
}

const DefaultWrongPenaltyMinutes = 10

type Auth struct {
	JWT   JWT   `yaml:"jwt"`
	OIDC  OIDC  `yaml:"oidc"`
	Local Local `yaml:"local"`
}

// Local defines configuration for username/password authentication.
type Local struct {
	Enabled bool `yaml:"enabled"`
}

type JWT struct {
	Secret      string `yaml:"secret"`
	ExpireHours int    `yaml:"expire_hours"`
}

// OIDC configures an optional single-sign-on provider.
type OIDC struct {
	Enabled             bool   `yaml:"enabled"`
	Issuer              string `yaml:"issuer"`
	ClientID            string `yaml:"client_id"`
	ClientSecret        string `yaml:"client_secret"`
	RedirectURI         string `yaml:"redirect_uri"`
	FrontendCallbackURL string `yaml:"frontend_callback_url"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, err
	}

	if cfg.Scoring.WrongPenaltyMinutes == 0 {
		cfg.Scoring.WrongPenaltyMinutes = DefaultWrongPenaltyMinutes
	}

	return &cfg, nil
}
