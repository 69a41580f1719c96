package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix is stripped from environment variables; "__" separates
// nesting levels, e.g. LINKSCOPE_BROWSER__NAVIGATION_TIMEOUT=45s.
const EnvPrefix = "LINKSCOPE_"

func Load(configPath string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Load defaults
	if err := k.Load(defaultsProvider(Defaults()), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	// 2. Load from config file if it exists
	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
	} else {
		for _, path := range []string{"linkscope.yaml", "linkscope.yml"} {
			if _, err := os.Stat(path); err == nil {
				if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
					return nil, fmt.Errorf("loading config file: %w", err)
				}
				break
			}
		}
	}

	// 3. Load from environment variables
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	// 4. Load from CLI flags (only those explicitly set override)
	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return nil, fmt.Errorf("loading flags: %w", err)
		}
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
	}); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

type defaultsProviderStruct struct {
	defaults *Config
}

func defaultsProvider(defaults *Config) *defaultsProviderStruct {
	return &defaultsProviderStruct{defaults: defaults}
}

func (d *defaultsProviderStruct) ReadBytes() ([]byte, error) {
	return nil, nil
}

func (d *defaultsProviderStruct) Read() (map[string]interface{}, error) {
	return map[string]interface{}{
		"log": map[string]interface{}{
			"level":  d.defaults.Log.Level,
			"format": d.defaults.Log.Format,
		},
		"browser": map[string]interface{}{
			"mode":               d.defaults.Browser.Mode,
			"bin":                d.defaults.Browser.Bin,
			"headless":           d.defaults.Browser.Headless,
			"no_sandbox":         d.defaults.Browser.NoSandbox,
			"proxy":              d.defaults.Browser.Proxy,
			"user_agent":         d.defaults.Browser.UserAgent,
			"navigation_timeout": d.defaults.Browser.NavigationTimeout.String(),
			"selector_timeout":   d.defaults.Browser.SelectorTimeout.String(),
			"settle_timeout":     d.defaults.Browser.SettleTimeout.String(),
		},
		"cache": map[string]interface{}{
			"default_ttl": d.defaults.Cache.DefaultTTL.String(),
			"preview_ttl": d.defaults.Cache.PreviewTTL.String(),
			"max_entries": d.defaults.Cache.MaxEntries,
		},
		"scraper": map[string]interface{}{
			"dedupe":         d.defaults.Scraper.Dedupe,
			"max_concurrent": d.defaults.Scraper.MaxConcurrent,
			"parallelism":    d.defaults.Scraper.Parallelism,
		},
		"server": map[string]interface{}{
			"addr":            d.defaults.Server.Addr,
			"read_timeout":    d.defaults.Server.ReadTimeout.String(),
			"write_timeout":   d.defaults.Server.WriteTimeout.String(),
			"allowed_origins": d.defaults.Server.AllowedOrigins,
		},
	}, nil
}

// SetupFlags returns the flags that map onto configuration keys. Callers
// may add their own flags to the returned set before parsing.
func SetupFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("linkscope", pflag.ContinueOnError)
	flags.StringP("config", "c", "", "Path to config file")
	flags.String("log.level", "", "Log level: debug, info, warn, error")
	flags.String("log.format", "", "Log format: console or json")
	flags.String("browser.mode", "", "Session backend: browser, http or auto")
	flags.String("browser.bin", "", "Path to a Chromium binary")
	flags.Bool("browser.headless", true, "Run Chromium headless")
	flags.String("browser.proxy", "", "Proxy URL for page loads")
	flags.String("browser.user_agent", "", "User agent sent with page loads")
	flags.Duration("browser.navigation_timeout", 0, "Navigation timeout")
	flags.Duration("browser.selector_timeout", 0, "Content selector wait")
	flags.Duration("cache.preview_ttl", 0, "How long previews stay cached")
	flags.Int("cache.max_entries", 0, "Cache size cap (0 = unbounded)")
	flags.Bool("scraper.dedupe", false, "Share in-flight scrapes of the same URL")
	flags.Int("scraper.max_concurrent", 0, "Max open browser sessions (0 = unbounded)")
	flags.Int("scraper.parallelism", 0, "URLs scraped at once from the command line")
	flags.String("server.addr", "", "HTTP listen address")
	flags.StringSlice("server.allowed_origins", nil, "Allowed CORS origins")
	return flags
}
