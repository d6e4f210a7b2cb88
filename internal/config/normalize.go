package config

import (
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeAmazon()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	for _, field := range []*string{&c.Paths.DataDir, &c.Paths.LogDir, &c.Enrich.ProgressFile} {
		value := strings.TrimSpace(*field)
		if value == "" {
			*field = value
			continue
		}
		expanded, err := expandPath(value)
		if err != nil {
			return err
		}
		*field = expanded
	}
	return nil
}

func (c *Config) normalizeAmazon() {
	c.Amazon.AccessKey = fallbackEnv(c.Amazon.AccessKey, "AMAZON_PAAPI_ACCESS_KEY")
	c.Amazon.SecretKey = fallbackEnv(c.Amazon.SecretKey, "AMAZON_PAAPI_SECRET_KEY")
	c.Amazon.PartnerTag = fallbackEnv(c.Amazon.PartnerTag, "AMAZON_ASSOCIATE_TAG")
	c.Amazon.Host = fallbackEnv(c.Amazon.Host, "AMAZON_PAAPI_HOST")
	c.Amazon.Region = fallbackEnv(c.Amazon.Region, "AMAZON_PAAPI_REGION")
	c.Amazon.Marketplace = fallbackEnv(c.Amazon.Marketplace, "AMAZON_PAAPI_MARKETPLACE")
	c.Amazon.SearchIndex = fallbackEnv(c.Amazon.SearchIndex, "AMAZON_PAAPI_SEARCH_INDEX")
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
}

// fallbackEnv keeps an explicitly configured value; otherwise it consults the
// named environment variable. Config file entries win over the environment so
// runs stay reproducible.
func fallbackEnv(value, envKey string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed != "" {
		return trimmed
	}
	return strings.TrimSpace(os.Getenv(envKey))
}
