package config

import "time"

// Config is the server configuration, corresponding to mangrove-web.yml.
type Config struct {
	Dev       bool           `yaml:"dev" koanf:"dev"`
	HTTP      HTTPConfig     `yaml:"http" koanf:"http"`
	Templates DirConfig      `yaml:"templates" koanf:"templates"`
	Public    DirConfig      `yaml:"public" koanf:"public"`
	Content   DirConfig      `yaml:"content" koanf:"content"`
	Locales   DirConfig      `yaml:"locales" koanf:"locales"`
	I18n      I18nConfig     `yaml:"i18n" koanf:"i18n"`
	Carousel  CarouselConfig `yaml:"carousel" koanf:"carousel"`
	Gallery   GalleryConfig  `yaml:"gallery" koanf:"gallery"`
	Scroll    ScrollConfig   `yaml:"scroll" koanf:"scroll"`
	Session   SessionConfig  `yaml:"session" koanf:"session"`
	API       APIConfig      `yaml:"api" koanf:"api"`
	Log       LogConfig      `yaml:"log" koanf:"log"`
}

// HTTPConfig holds listener settings.
type HTTPConfig struct {
	Addr         string        `yaml:"addr" koanf:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout" koanf:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" koanf:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" koanf:"idle_timeout"`
}

// DirConfig points at an on-disk override; empty uses the embedded copy.
type DirConfig struct {
	Dir string `yaml:"dir" koanf:"dir"`
}

// I18nConfig selects languages.
type I18nConfig struct {
	Primary   string   `yaml:"primary" koanf:"primary"`
	Supported []string `yaml:"supported" koanf:"supported"`
	Negotiate bool     `yaml:"negotiate" koanf:"negotiate"`
	Strict    bool     `yaml:"strict" koanf:"strict"`
}

// CarouselConfig tunes automatic image cycling.
type CarouselConfig struct {
	Interval time.Duration `yaml:"interval" koanf:"interval"`
}

// GalleryConfig tunes lightbox swiping.
type GalleryConfig struct {
	SwipeThreshold float64 `yaml:"swipe_threshold" koanf:"swipe_threshold"`
	TrackMouse     bool    `yaml:"track_mouse" koanf:"track_mouse"`
}

// ScrollConfig tunes scroll-derived effects.
type ScrollConfig struct {
	TopThreshold   float64 `yaml:"top_threshold" koanf:"top_threshold"`
	ParallaxFactor float64 `yaml:"parallax_factor" koanf:"parallax_factor"`
}

// SessionConfig controls visitor sessions.
type SessionConfig struct {
	TTL           time.Duration `yaml:"ttl" koanf:"ttl"`
	ProbationTTL  time.Duration `yaml:"probation_ttl" koanf:"probation_ttl"`
	MaxSessions   int           `yaml:"max_sessions" koanf:"max_sessions"`
	SweepInterval time.Duration `yaml:"sweep_interval" koanf:"sweep_interval"`
	SigningKey    string        `yaml:"signing_key" koanf:"signing_key"`
	Secure        bool          `yaml:"secure" koanf:"secure"`
}

// APIConfig controls the JSON content feed.
type APIConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" koanf:"allowed_origins"`
}

// LogConfig controls the logger.
type LogConfig struct {
	Level string `yaml:"level" koanf:"level"`
}
