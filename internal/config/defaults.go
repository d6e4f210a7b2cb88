package config

const (
	defaultDataDir        = "~/.local/share/partscout"
	defaultLogDir         = "~/.local/share/partscout/logs"
	defaultHost           = "webservices.amazon.com"
	defaultRegion         = "us-east-1"
	defaultMarketplace    = "www.amazon.com"
	defaultSearchIndex    = "Appliances"
	defaultRequestTimeout = 30
	defaultCategory       = "refrigerator"
	defaultLimit          = 100
	defaultDelaySeconds   = 1.0
	defaultItemCount      = 5
	defaultAPIBind        = "127.0.0.1:8080"
	defaultLogFormat      = ""
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Amazon: Amazon{
			Host:           defaultHost,
			Region:         defaultRegion,
			Marketplace:    defaultMarketplace,
			SearchIndex:    defaultSearchIndex,
			RequestTimeout: defaultRequestTimeout,
		},
		Enrich: Enrich{
			Category:           defaultCategory,
			Limit:              defaultLimit,
			DelaySeconds:       defaultDelaySeconds,
			ItemCount:          defaultItemCount,
			RequireFilterMatch: true,
		},
		API: API{
			Bind: defaultAPIBind,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
