package main

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
	"golang.org/x/time/rate"

	"robotfuzz/internal/config"
	"robotfuzz/internal/fingerprint"
	"robotfuzz/internal/scanner"
	"robotfuzz/internal/sitemap"
	"robotfuzz/internal/templater"
	"robotfuzz/internal/utils"
)

const version = "0.1.0"

const extraHelp = `
Example Usages:

  1. Standard directory scan
     robotfuzz --url "https://example.li/FUZZ" -w wordlist.txt

  2. Standard subdomain scan
     robotfuzz --url "https://FUZZ.example.li/" -w subdomains.txt

  3. Directory scan with 2 wordlists and cookies
     robotfuzz -u ".../editor&fileurl=FUZ2ZFUZZ" -w wordlist.txt -x lfi_paths.txt -c "sid=123123"

  4. VHost/Subdomain scanning against a specific IP address
     robotfuzz --url "https://FUZZ.example.li/" -w subdomains.txt -i 192.168.1.1
`

type mode int

const (
	modePath mode = iota
	modeVhost
)

var errNoFuzzLocation = errors.New("'fuzz' not found in the expected location (subdomain or path)")

// detectMode picks the vhost driver when the host starts with the fuzz label,
// and the path driver when the path or query mentions it. For vhost mode the
// returned base is scheme://host[:port].
func detectMode(rawURL string) (mode, string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return 0, "", fmt.Errorf("failed to parse the URL, please ensure it's correctly formatted: %w", err)
	}
	if strings.HasPrefix(strings.ToLower(u.Hostname()), templater.VhostLabel) {
		base, err := templater.BaseURL(rawURL)
		if err != nil {
			return 0, "", err
		}
		return modeVhost, base, nil
	}
	if strings.Contains(strings.ToLower(u.EscapedPath()+u.RawQuery), "fuzz") {
		return modePath, rawURL, nil
	}
	return 0, "", errNoFuzzLocation
}

// flagSource is the part of *cli.Context used to read settings.
type flagSource interface {
	IsSet(name string) bool
	String(name string) string
	Int(name string) int
	Bool(name string) bool
}

// loadConfig layers explicitly set flags over the YAML file over the defaults.
func loadConfig(c flagSource) (config.Config, error) {
	cfg := config.Default()
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	strs := map[string]*string{
		"url":         &cfg.URL,
		"wordlist":    &cfg.Wordlist,
		"wordlist2":   &cfg.Wordlist2,
		"cookies":     &cfg.Cookies,
		"ipaddress":   &cfg.IPAddress,
		"user-agent":  &cfg.UserAgent,
		"fingerprint": &cfg.Fingerprint,
	}
	for name, dst := range strs {
		if c.IsSet(name) {
			*dst = c.String(name)
		}
	}
	ints := map[string]*int{"threads": &cfg.Threads, "rps": &cfg.RPS}
	for name, dst := range ints {
		if c.IsSet(name) {
			*dst = c.Int(name)
		}
	}
	bools := map[string]*bool{
		"insecure":   &cfg.Insecure,
		"no-sitemap": &cfg.NoSitemap,
		"no-bar":     &cfg.NoBar,
		"curl":       &cfg.ShowCurl,
	}
	for name, dst := range bools {
		if c.IsSet(name) {
			*dst = c.Bool(name)
		}
	}
	return cfg, nil
}

func newHTTPClient(insecure bool) *http.Client {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		TLSClientConfig:     &tls.Config{InsecureSkipVerify: insecure},
		IdleConnTimeout:     10 * time.Second,
		MaxIdleConnsPerHost: 256,
	}
	return &http.Client{
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func buildHeaders(cfg config.Config) http.Header {
	headers := http.Header{}
	if cfg.Cookies != "" {
		headers.Set("Cookie", cfg.Cookies)
	}
	if cfg.UserAgent != "" {
		headers.Set("User-Agent", cfg.UserAgent)
	}
	return headers
}

func actionFuzz(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
	}
	if err := cfg.Validate(); err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v. Please specify the target URL correctly.", err), 1)
	}
	fuzzMode, base, err := detectMode(cfg.URL)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
	}

	wordlist, err := utils.ReadWordlist(cfg.Wordlist)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	var wordlist2 []string
	if cfg.Wordlist2 != "" {
		wordlist2, err = utils.ReadWordlist(cfg.Wordlist2)
		if err != nil {
			return cli.Exit(fmt.Sprintf("failed to read secondary wordlist: %v", err), 1)
		}
	}

	out := c.App.Writer
	barOut := c.App.ErrWriter
	if cfg.NoBar {
		barOut = nil
	}

	printBanner(out)
	fmt.Fprintf(out, "\n%s\n\n\n", color.New(color.FgBlue).Sprintf("Target URL: %s", cfg.URL))

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
	defer stop()

	client := newHTTPClient(cfg.Insecure)
	headers := buildHeaders(cfg)
	var limiter *rate.Limiter
	if cfg.RPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RPS), 1)
	}

	switch fuzzMode {
	case modeVhost:
		scanner.NewVhostFuzzer(client, scanner.VhostOptions{
			Base:         base,
			Wordlist:     wordlist,
			WordlistPath: cfg.Wordlist,
			IP:           cfg.IPAddress,
			Threads:      cfg.Threads,
			Headers:      headers,
			Limiter:      limiter,
			Out:          out,
			BarOut:       barOut,
		}).Run(ctx)
	case modePath:
		if !cfg.NoSitemap {
			wordlist = augmentWordlist(ctx, client, headers, cfg.URL, wordlist)
		}
		prober, err := fingerprint.New(cfg.Fingerprint, client)
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}
		scanner.NewPathFuzzer(client, prober, scanner.PathOptions{
			Template:  cfg.URL,
			Wordlist:  wordlist,
			Wordlist2: wordlist2,
			Threads:   cfg.Threads,
			Headers:   headers,
			Limiter:   limiter,
			ShowCurl:  cfg.ShowCurl,
			Out:       out,
			BarOut:    barOut,
		}).Run(ctx)
	}
	return nil
}

// augmentWordlist merges sitemap paths into wordlist. On failure the original
// wordlist is returned unchanged.
func augmentWordlist(ctx context.Context, client *http.Client, headers http.Header, template string, wordlist []string) []string {
	utils.PrintInfo("Found 'fuzz' in path, fetching robots.txt and sitemap.xml...")
	paths, err := sitemap.NewFetcher(client, headers).Fetch(ctx, template)
	if err != nil {
		utils.PrintError(fmt.Sprintf("Error fetching robots.txt & sitemap.xml: %v", err))
		return wordlist
	}
	merged := sitemap.Merge(wordlist, paths)
	utils.PrintSuccess(fmt.Sprintf("Deduplicated wordlist ready with %d entries.", len(merged)))
	return merged
}

func newApp() *cli.App {
	return &cli.App{
		Name:                   "robotfuzz",
		Usage:                  "performs web fuzzing with a wordlist",
		Version:                version,
		UseShortOptionHandling: true,
		CustomAppHelpTemplate:  cli.AppHelpTemplate + extraHelp,
		Action:                 actionFuzz,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "url",
				Aliases: []string{"u"},
				Usage:   "the target URL with 'FUZZ' where the payload should be inserted",
			},
			&cli.IntFlag{
				Name:    "threads",
				Aliases: []string{"t"},
				Value:   config.DefaultThreads,
				Usage:   "number of concurrent threads to use for fuzzing",
			},
			&cli.StringFlag{
				Name:    "wordlist",
				Aliases: []string{"w"},
				Value:   config.DefaultWordlist,
				Usage:   "path to the wordlist file, to use specify FUZZ in your URL",
			},
			&cli.StringFlag{
				Name:    "wordlist2",
				Aliases: []string{"x"},
				Usage:   "path to the secondary wordlist file, if used you must specify FUZ2Z in your URL",
			},
			&cli.StringFlag{
				Name:    "cookies",
				Aliases: []string{"c"},
				Usage:   "cookies to be sent with each request",
			},
			&cli.StringFlag{
				Name:    "ipaddress",
				Aliases: []string{"i"},
				Usage:   "IP address of the vhost target (displayed only, DNS is not overridden)",
			},
			&cli.IntFlag{
				Name:  "rps",
				Usage: "max requests per second (0 for no limit)",
			},
			&cli.BoolFlag{
				Name:    "insecure",
				Aliases: []string{"k"},
				Usage:   "skip TLS certificate verification",
			},
			&cli.StringFlag{
				Name:  "user-agent",
				Value: config.DefaultUserAgent,
				Usage: "User-Agent header sent with each request",
			},
			&cli.StringFlag{
				Name:  "fingerprint",
				Value: config.DefaultFingerprint,
				Usage: "technology fingerprinting before path fuzzing: " + strings.Join(fingerprint.Names, ", "),
			},
			&cli.BoolFlag{
				Name:  "no-sitemap",
				Usage: "don't seed the wordlist from robots.txt and sitemap.xml",
			},
			&cli.BoolFlag{
				Name:  "no-bar",
				Usage: "disable the progress bar",
			},
			&cli.BoolFlag{
				Name:  "curl",
				Usage: "print a curl command reproducing every result",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "YAML file with default settings, overridden by flags",
			},
		},
	}
}

func main() {
	color.Output = os.Stderr
	app := newApp()
	if err := app.Run(os.Args); err != nil {
		utils.PrintError(err.Error())
		os.Exit(1)
	}
}
