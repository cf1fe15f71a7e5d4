// Package config loads server settings from a YAML file with environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment override. Nested keys use a double
// underscore: MANGROVE_WEB_HTTP__ADDR sets http.addr.
const EnvPrefix = "MANGROVE_WEB_"

// Load reads the YAML file at path, if it exists, then applies PORT and
// MANGROVE_WEB_* overrides on top of the defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		if err := k.Set("http.addr", ":"+port); err != nil {
			return nil, fmt.Errorf("applying PORT: %w", err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	cfg.normalize()
	return cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

func (c *Config) normalize() {
	c.I18n.Primary = strings.ToLower(strings.TrimSpace(c.I18n.Primary))
	langs := make([]string, 0, len(c.I18n.Supported))
	for _, l := range c.I18n.Supported {
		l = strings.ToLower(strings.TrimSpace(l))
		if l != "" && !slices.Contains(langs, l) {
			langs = append(langs, l)
		}
	}
	c.I18n.Supported = langs
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	var errs []error
	if c.HTTP.Addr == "" {
		errs = append(errs, errors.New("http.addr is required"))
	}
	if c.I18n.Primary == "" {
		errs = append(errs, errors.New("i18n.primary is required"))
	} else if !slices.Contains(c.I18n.Supported, c.I18n.Primary) {
		errs = append(errs, fmt.Errorf("i18n.primary %q must be listed in i18n.supported", c.I18n.Primary))
	}
	if len(c.I18n.Supported) != 2 {
		errs = append(errs, fmt.Errorf("i18n.supported must list exactly two languages for the toggle, got %d", len(c.I18n.Supported)))
	}
	if c.Carousel.Interval <= 0 {
		errs = append(errs, errors.New("carousel.interval must be positive"))
	}
	if c.Gallery.SwipeThreshold <= 0 {
		errs = append(errs, errors.New("gallery.swipe_threshold must be positive"))
	}
	if c.Scroll.TopThreshold < 0 {
		errs = append(errs, errors.New("scroll.top_threshold must be non-negative"))
	}
	if c.Scroll.ParallaxFactor <= 0 {
		errs = append(errs, errors.New("scroll.parallax_factor must be positive"))
	}
	if c.Session.TTL <= 0 {
		errs = append(errs, errors.New("session.ttl must be positive"))
	}
	if c.Session.ProbationTTL < 0 || c.Session.ProbationTTL > c.Session.TTL {
		errs = append(errs, errors.New("session.probation_ttl must be between 0 and session.ttl"))
	}
	if c.Session.MaxSessions < 0 {
		errs = append(errs, errors.New("session.max_sessions must be non-negative"))
	}
	if c.Session.SweepInterval <= 0 {
		errs = append(errs, errors.New("session.sweep_interval must be positive"))
	}
	for _, d := range []struct{ key, dir string }{
		{"templates.dir", c.Templates.Dir},
		{"public.dir", c.Public.Dir},
		{"content.dir", c.Content.Dir},
		{"locales.dir", c.Locales.Dir},
	} {
		if d.dir == "" {
			continue
		}
		if fi, err := os.Stat(d.dir); err != nil || !fi.IsDir() {
			errs = append(errs, fmt.Errorf("%s %q is not a directory", d.key, d.dir))
		}
	}
	return errors.Join(errs...)
}
