package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateAmazon(); err != nil {
		return err
	}
	if err := c.validateEnrich(); err != nil {
		return err
	}
	if err := c.validateAPI(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return errors.New("paths.data_dir must be set")
	}
	return nil
}

// validateAmazon checks endpoint shape only. Credentials are validated at the
// start of an enrich run so catalog-only commands work without them.
func (c *Config) validateAmazon() error {
	if strings.TrimSpace(c.Amazon.Host) == "" {
		return errors.New("amazon.host must be set")
	}
	if strings.TrimSpace(c.Amazon.Region) == "" {
		return errors.New("amazon.region must be set")
	}
	if strings.TrimSpace(c.Amazon.Marketplace) == "" {
		return errors.New("amazon.marketplace must be set")
	}
	if c.Amazon.RequestTimeout <= 0 {
		return errors.New("amazon.request_timeout must be positive (seconds)")
	}
	return nil
}

// RequireCredentials verifies the PA-API credentials needed for an enrich run.
func (c *Config) RequireCredentials() error {
	if strings.TrimSpace(c.Amazon.AccessKey) == "" || strings.TrimSpace(c.Amazon.SecretKey) == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/partscout/config.toml"
		}
		return fmt.Errorf("amazon.access_key and amazon.secret_key are required. Set AMAZON_PAAPI_ACCESS_KEY / AMAZON_PAAPI_SECRET_KEY env vars or edit %s (create with 'partscout config init')", defaultPath)
	}
	if strings.TrimSpace(c.Amazon.PartnerTag) == "" {
		return errors.New("amazon.partner_tag is required. Set AMAZON_ASSOCIATE_TAG or edit the config file")
	}
	return nil
}

func (c *Config) validateEnrich() error {
	if c.Enrich.Limit <= 0 {
		return errors.New("enrich.limit must be positive")
	}
	if c.Enrich.DelaySeconds < 0 {
		return errors.New("enrich.delay_seconds must be >= 0")
	}
	if c.Enrich.ItemCount <= 0 || c.Enrich.ItemCount > 10 {
		return errors.New("enrich.item_count must be between 1 and 10")
	}
	if strings.TrimSpace(c.Enrich.Category) == "" {
		return errors.New("enrich.category must be set")
	}
	return nil
}

func (c *Config) validateAPI() error {
	if strings.TrimSpace(c.API.Bind) == "" {
		return errors.New("api.bind must be set")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}
