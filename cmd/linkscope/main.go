package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/ramkansal/linkscope/internal/cache"
	"github.com/ramkansal/linkscope/internal/config"
	"github.com/ramkansal/linkscope/internal/extractor"
	"github.com/ramkansal/linkscope/internal/fetcher"
	"github.com/ramkansal/linkscope/internal/logging"
	"github.com/ramkansal/linkscope/internal/metrics"
	"github.com/ramkansal/linkscope/internal/output"
	"github.com/ramkansal/linkscope/internal/scraper"
	"github.com/ramkansal/linkscope/internal/server"
	"github.com/ramkansal/linkscope/pkg/plugin"
)

var version = "1.0.0"

// cliFlags holds the options that are not configuration keys.
type cliFlags struct {
	serve       bool
	json        bool
	output      string
	silent      bool
	noColor     bool
	showHelp    bool
	showVersion bool
}

var noColor bool

func main() {
	enableANSI()

	flags := config.SetupFlags()
	f := &cliFlags{}
	flags.BoolVar(&f.serve, "serve", false, "Run the HTTP preview API instead of scraping arguments")
	flags.BoolVar(&f.json, "json", false, "Print results as JSON")
	flags.StringVarP(&f.output, "output", "o", "", "Save results to file")
	flags.BoolVar(&f.silent, "silent", false, "Suppress banner and summary")
	flags.BoolVar(&f.noColor, "no-color", false, "Disable colored output")
	flags.BoolVarP(&f.showHelp, "help", "h", false, "Show this help message")
	flags.BoolVarP(&f.showVersion, "version", "V", false, "Show version")
	flags.Usage = func() { printUsage(flags) }

	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		fatal("%v", err)
	}
	noColor = f.noColor || f.json

	if f.showVersion {
		fmt.Printf("linkscope v%s\n", version)
		os.Exit(0)
	}
	if f.showHelp || (!f.serve && flags.NArg() == 0) {
		printUsage(flags)
		if !f.showHelp {
			os.Exit(1)
		}
		os.Exit(0)
	}

	configPath, _ := flags.GetString("config")
	cfg, err := config.Load(configPath, flags)
	if err != nil {
		fatal("%v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		fatal("%v", err)
	}
	defer logger.Sync()

	metrics.Init()

	s, err := buildScraper(cfg, logger)
	if err != nil {
		fatal("initialization failed: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), shutdownSignals...)
	defer stop()

	if f.serve {
		srv := server.New(cfg.Server, server.NewRouter(s, cfg.Server.AllowedOrigins, logger), logger)
		if err := srv.Run(ctx); err != nil {
			fatal("server error: %v", err)
		}
		return
	}

	run(ctx, s, cfg, f, flags.Args())
}

func buildScraper(cfg *config.Config, logger *zap.Logger) (*scraper.Scraper, error) {
	launcher, err := fetcher.New(cfg.Browser, logger)
	if err != nil {
		return nil, err
	}

	registry := extractor.NewRegistry(extractor.Options{
		UserAgent:         cfg.Browser.UserAgent,
		NavigationTimeout: cfg.Browser.NavigationTimeout,
		SelectorTimeout:   cfg.Browser.SelectorTimeout,
	}, logger)

	previews := cache.New[*plugin.Preview](
		cache.WithDefaultTTL(cfg.Cache.DefaultTTL),
		cache.WithMaxEntries(cfg.Cache.MaxEntries),
	)

	logger.Debug("scraper ready",
		zap.String("launcher", launcher.Name()),
		zap.Int("platforms", len(registry.Platforms())))

	return scraper.New(launcher, previews, registry, scraper.OptionsFromConfig(cfg), logger), nil
}

func run(ctx context.Context, s *scraper.Scraper, cfg *config.Config, f *cliFlags, args []string) {
	urls := make([]string, 0, len(args))
	for _, u := range args {
		// Ensure URL has a scheme
		if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
			u = "https://" + u
		}
		urls = append(urls, u)
	}

	if !f.silent && !f.json {
		printBanner()
		fmt.Printf("\n  %s %d  %s %s  %s %d\n\n",
			clr("dim", "URLs:"), len(urls),
			clr("dim", "Mode:"), cfg.Browser.Mode,
			clr("dim", "Threads:"), cfg.Scraper.Parallelism,
		)
	}

	results := s.ScrapeAll(ctx, urls)

	var writers []plugin.OutputWriter
	if f.json {
		out := os.Stdout
		if f.output != "" {
			file, err := os.Create(f.output)
			if err != nil {
				fatal("creating output: %v", err)
			}
			defer file.Close()
			out = file
		}
		writers = append(writers, output.NewJSONWriter(out))
	} else if f.output != "" {
		writers = append(writers, output.NewTextWriter(f.output, version))
	}

	for _, r := range results {
		if !f.json {
			printResult(r)
		}
		for _, w := range writers {
			_ = w.WriteResult(r)
		}
	}
	for _, w := range writers {
		if err := w.Finalize(); err != nil {
			fmt.Fprintf(os.Stderr, "  %s %s output: %v\n", clr("red", "✗"), w.Name(), err)
		}
	}

	if !f.silent && !f.json {
		printSummary(s.Stats(), f.output)
	}
	if ctx.Err() != nil {
		fmt.Fprintf(os.Stderr, "\n%s Interrupt received, stopped early\n", clr("yellow", "!"))
		os.Exit(130)
	}
}

func printResult(r *plugin.Result) {
	if r.Preview == nil {
		fmt.Printf("  %s %s %s %s\n",
			clr("red", "✗"), r.URL, clr("dim", "("+r.Elapsed+")"), clr("red", "no preview data"))
		return
	}

	fmt.Printf("  %s [%s] %s %s\n",
		clr("green", "●"),
		clr("cyan", string(r.Preview.Platform)),
		r.URL,
		clr("dim", "("+r.Elapsed+")"),
	)
	for _, field := range output.Fields(r.Preview) {
		fmt.Printf("      %s %s\n", clr("dim", "├─ "+field.Label+":"), field.Value)
	}
}

func printSummary(st scraper.Stats, outputPath string) {
	fmt.Println()
	fmt.Printf("  %s\n", strings.Repeat("─", 50))
	fmt.Printf("  %s Scrape complete\n", clr("green", "✓"))
	fmt.Printf("    URLs:   %s previewed, %s failed, %s from cache\n",
		clr("cyan", fmt.Sprintf("%d", st.Extracted)),
		clr("red", fmt.Sprintf("%d", st.Failed)),
		clr("yellow", fmt.Sprintf("%d", st.CacheHits)),
	)
	if outputPath != "" {
		fmt.Printf("    Output: %s\n", clr("green", outputPath))
	}
	fmt.Println()
}

// ---------- Help / banner ----------

func printUsage(flags *pflag.FlagSet) {
	printBanner()
	fmt.Print(`
USAGE:
  linkscope [flags] <url>...
  linkscope https://x.com/jack/status/20 https://youtu.be/dQw4w9WgXcQ
  linkscope --browser.mode http --json example.com
  linkscope --serve --server.addr :8080

FLAGS:
`)
	fmt.Println(flags.FlagUsages())
	fmt.Printf("Every config key can also be set as %s<SECTION>__<KEY>, e.g. %sBROWSER__MODE=auto.\n\n",
		config.EnvPrefix, config.EnvPrefix)
}

func printBanner() {
	art := `
   _ _       _
  | (_)_ __ | | _____  ___ ___  _ __   ___
  | | | '_ \| |/ / __|/ __/ _ \| '_ \ / _ \
  | | | | | |   <\__ \ (_| (_) | |_) |  __/
  |_|_|_| |_|_|\_\___/\___\___/| .__/ \___|
                               |_|`
	fmt.Println(clr("cyan", art))
	fmt.Printf("  %s  %s\n", clr("dim", "Link previews for social and web URLs"), clr("dim", "v"+version))
	fmt.Printf("  %s\n", clr("dim", strings.Repeat("─", 58)))
}

// ---------- Utilities ----------

func clr(color, text string) string {
	if noColor {
		return text
	}
	codes := map[string]string{
		"red":    "\033[31m",
		"green":  "\033[32m",
		"yellow": "\033[33m",
		"cyan":   "\033[36m",
		"dim":    "\033[2m",
		"bold":   "\033[1m",
		"reset":  "\033[0m",
	}
	c, ok := codes[color]
	if !ok {
		return text
	}
	return c + text + codes["reset"]
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "\n  %s %s\n\n", clr("red", "ERROR:"), fmt.Sprintf(format, args...))
	os.Exit(1)
}
