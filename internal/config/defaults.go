package config

import "time"

// DefaultPath is the config file read when --config is not given.
const DefaultPath = "mangrove-web.yml"

// Default returns a Config with production defaults.
func Default() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Addr:         ":8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
		I18n: I18nConfig{
			Primary:   "id",
			Supported: []string{"id", "en"},
		},
		Carousel: CarouselConfig{Interval: 3500 * time.Millisecond},
		Gallery:  GalleryConfig{SwipeThreshold: 10, TrackMouse: true},
		Scroll:   ScrollConfig{TopThreshold: 500, ParallaxFactor: 0.4},
		Session: SessionConfig{
			TTL:           30 * time.Minute,
			ProbationTTL:  2 * time.Minute,
			MaxSessions:   10000,
			SweepInterval: time.Minute,
		},
		API: APIConfig{AllowedOrigins: []string{"https://www.karangjaladri.desa.id"}},
		Log: LogConfig{Level: "info"},
	}
}
