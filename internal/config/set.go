package config

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/gatehouse/gatectl/internal/utils"
)

// setters apply one user-settable key to a config
var setters = map[string]func(cfg *Config, value string) error{
	"server.url": func(cfg *Config, value string) error {
		if err := utils.ValidateServerURL(value); err != nil {
			return err
		}
		cfg.Server.URL = value
		return nil
	},
	"server.timeout": func(cfg *Config, value string) error {
		d, err := time.ParseDuration(value)
		if err != nil || d <= 0 {
			return utils.NewValidationError("server.timeout", "timeout must be a positive duration such as 15s")
		}
		cfg.Server.Timeout = d.String()
		return nil
	},
	"tenant.slug": func(cfg *Config, value string) error {
		if value != "" {
			if err := utils.ValidateSlug(value); err != nil {
				return err
			}
		}
		cfg.Tenant.Slug = value
		return nil
	},
	"tenant.host": func(cfg *Config, value string) error {
		cfg.Tenant.Host = value
		return nil
	},
	"format.default": func(cfg *Config, value string) error {
		err := validation.Validate(value,
			validation.Required,
			validation.In("table", "json", "json-compact", "yaml", "text"),
		)
		if err != nil {
			return utils.NewValidationError("format.default", "format must be one of table, json, json-compact, yaml, text")
		}
		cfg.Format.Default = value
		return nil
	},
	"format.colors": func(cfg *Config, value string) error {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return utils.NewValidationError("format.colors", "colors must be true or false")
		}
		cfg.Format.Colors = b
		return nil
	},
}

// Keys lists the keys accepted by Set
func Keys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Set validates and saves one configuration value
func Set(key, value string) error {
	apply, ok := setters[key]
	if !ok {
		return fmt.Errorf("unknown configuration key %q", key)
	}

	mu.Lock()
	defer mu.Unlock()
	if globalConfig == nil || fileConfig == nil {
		return fmt.Errorf("configuration not initialized")
	}

	next := *globalConfig
	if err := apply(&next, value); err != nil {
		return err
	}
	*globalConfig = next
	_ = apply(fileConfig, value)

	return save()
}
