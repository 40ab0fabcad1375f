// internal/platform/config/config.go
package config

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

type Config struct {
	// App
	Quiet        bool
	PrintVersion bool

	// CRM API
	CRM CRM

	// Storage
	Store Store

	// Sweep tuning
	Sweep Sweep

	// Route inputs
	Route Route

	// Search inputs
	Search Search
}

type CRM struct {
	BaseURL    string
	AuthToken  string
	TimeoutS   int // seconds (0 = no timeout)
	RateLimit  float64
	MaxRetries int
}

type Store struct {
	Path      string // sqlite database file
	LegacyDir string // directory holding legacy YAML campaign files
	AuditPath string // append-only audit log (JSONL)
	OutputDir string // run summaries
}

type Sweep struct {
	PerPage        int
	MaxPages       int
	MaxMovesPerRun int
}

type Route struct {
	Text     string
	Handle   string
	FullName string
}

type Search struct {
	Needle     string
	PipelineID string
	StatusID   string
	PerPage    int
	MaxPages   int
}

// DefaultConfig returns a default configuration.
func DefaultConfig() Config {
	return Config{
		CRM: CRM{
			BaseURL:    "",
			AuthToken:  "",
			TimeoutS:   30,
			RateLimit:  2,
			MaxRetries: 2,
		},

		Store: Store{
			Path:      "leadrouter.db",
			LegacyDir: "campaigns",
			AuditPath: "leadrouter_audit.jsonl",
			OutputDir: "leadrouter_out",
		},

		Sweep: Sweep{
			PerPage:        50,
			MaxPages:       20,
			MaxMovesPerRun: 100,
		},

		Search: Search{
			PerPage:  50,
			MaxPages: 20,
		},
	}
}

// Load initializes configuration: defaults, then ENV, then FLAGS (flags win).
// args are the command line arguments after the subcommand.
func Load(args []string) (Config, error) {
	cfg := DefaultConfig()

	loadFromEnv(&cfg)

	if err := loadFromFlags(&cfg, args); err != nil {
		return cfg, err
	}

	normalize(&cfg)

	return cfg, nil
}

// loadFromEnv loads configuration from environment variables.
func loadFromEnv(cfg *Config) {
	if v := getenv("LEADROUTER_CRM_BASE_URL", ""); v != "" {
		cfg.CRM.BaseURL = v
	}
	if v := getenv("LEADROUTER_CRM_TOKEN", ""); v != "" {
		cfg.CRM.AuthToken = v
	}
	if v := getenv("LEADROUTER_CRM_TIMEOUT", ""); v != "" {
		cfg.CRM.TimeoutS = parseInt(v, cfg.CRM.TimeoutS)
	}
	if v := getenv("LEADROUTER_CRM_RATE_LIMIT", ""); v != "" {
		cfg.CRM.RateLimit = parseFloat(v, cfg.CRM.RateLimit)
	}
	if v := getenv("LEADROUTER_CRM_MAX_RETRIES", ""); v != "" {
		cfg.CRM.MaxRetries = parseInt(v, cfg.CRM.MaxRetries)
	}

	if v := getenv("LEADROUTER_DB_PATH", ""); v != "" {
		cfg.Store.Path = v
	}
	if v := getenv("LEADROUTER_LEGACY_DIR", ""); v != "" {
		cfg.Store.LegacyDir = v
	}
	if v := getenv("LEADROUTER_AUDIT_PATH", ""); v != "" {
		cfg.Store.AuditPath = v
	}
	if v := getenv("LEADROUTER_OUTPUT_DIR", ""); v != "" {
		cfg.Store.OutputDir = v
	}

	if v := getenv("LEADROUTER_SWEEP_PER_PAGE", ""); v != "" {
		cfg.Sweep.PerPage = parseInt(v, cfg.Sweep.PerPage)
	}
	if v := getenv("LEADROUTER_SWEEP_MAX_PAGES", ""); v != "" {
		cfg.Sweep.MaxPages = parseInt(v, cfg.Sweep.MaxPages)
	}
	if v := getenv("LEADROUTER_SWEEP_MAX_MOVES", ""); v != "" {
		cfg.Sweep.MaxMovesPerRun = parseInt(v, cfg.Sweep.MaxMovesPerRun)
	}

	if v := getenv("LEADROUTER_QUIET", ""); v != "" {
		cfg.Quiet = parseBool(v)
	}
}

// loadFromFlags parses CLI flags.
func loadFromFlags(cfg *Config, args []string) error {
	fs := pflag.NewFlagSet("leadrouter", pflag.ContinueOnError)

	fs.StringVar(&cfg.CRM.BaseURL, "crm.url", cfg.CRM.BaseURL, "Base URL of the CRM API")
	fs.StringVar(&cfg.CRM.AuthToken, "crm.token", cfg.CRM.AuthToken, "Bearer token for the CRM API")
	fs.IntVar(&cfg.CRM.TimeoutS, "crm.timeout", cfg.CRM.TimeoutS, "Per-request timeout in seconds (0 = no timeout)")
	fs.Float64Var(&cfg.CRM.RateLimit, "crm.rate", cfg.CRM.RateLimit, "Maximum CRM requests per second")
	fs.IntVar(&cfg.CRM.MaxRetries, "crm.retries", cfg.CRM.MaxRetries, "Retries for transient CRM failures")

	fs.StringVar(&cfg.Store.Path, "db", cfg.Store.Path, "Path to the campaign database")
	fs.StringVar(&cfg.Store.LegacyDir, "legacy-dir", cfg.Store.LegacyDir, "Directory with legacy YAML campaign files")
	fs.StringVar(&cfg.Store.AuditPath, "audit", cfg.Store.AuditPath, "Path to the append-only audit log")
	fs.StringVar(&cfg.Store.OutputDir, "out", cfg.Store.OutputDir, "Output directory for run summaries")

	fs.IntVar(&cfg.Sweep.PerPage, "per-page", cfg.Sweep.PerPage, "Cards fetched per page")
	fs.IntVar(&cfg.Sweep.MaxPages, "max-pages", cfg.Sweep.MaxPages, "Maximum pages scanned per campaign stage")
	fs.IntVar(&cfg.Sweep.MaxMovesPerRun, "max-moves", cfg.Sweep.MaxMovesPerRun, "Global move budget per sweep run")

	fs.StringVar(&cfg.Route.Text, "text", cfg.Route.Text, "Inbound message text to route")
	fs.StringVar(&cfg.Route.Handle, "handle", cfg.Route.Handle, "Sender social handle")
	fs.StringVar(&cfg.Route.FullName, "name", cfg.Route.FullName, "Sender full name")

	fs.StringVar(&cfg.Search.Needle, "needle", cfg.Search.Needle, "Identity value to search for")
	fs.StringVar(&cfg.Search.PipelineID, "pipeline", cfg.Search.PipelineID, "Restrict search to a pipeline")
	fs.StringVar(&cfg.Search.StatusID, "status", cfg.Search.StatusID, "Restrict search to a status within the pipeline")

	fs.BoolVarP(&cfg.Quiet, "quiet", "q", cfg.Quiet, "Disable visual output")
	fs.BoolVar(&cfg.PrintVersion, "version", false, "Print version and exit")

	return fs.Parse(args)
}

func normalize(c *Config) {
	c.CRM.BaseURL = strings.TrimRight(strings.TrimSpace(c.CRM.BaseURL), "/")
	if c.CRM.TimeoutS < 0 {
		c.CRM.TimeoutS = 0
	}
	if c.CRM.RateLimit <= 0 {
		c.CRM.RateLimit = 2
	}
	if c.CRM.MaxRetries < 0 {
		c.CRM.MaxRetries = 0
	}
	if c.Store.OutputDir == "" {
		c.Store.OutputDir = "leadrouter_out"
	}

	c.Sweep.PerPage = clamp(c.Sweep.PerPage, 1, 100, 50)
	c.Sweep.MaxPages = clamp(c.Sweep.MaxPages, 1, 100, 20)
	c.Sweep.MaxMovesPerRun = clamp(c.Sweep.MaxMovesPerRun, 1, 500, 100)

	c.Search.PerPage = clamp(c.Search.PerPage, 1, 100, 50)
	c.Search.MaxPages = clamp(c.Search.MaxPages, 1, 100, 20)
}

// ToJSON serializes the configuration to JSON (useful for debugging).
func (c Config) ToJSON() (string, error) {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Timeout returns the CRM timeout as a time.Duration.
func (c Config) Timeout() time.Duration {
	if c.CRM.TimeoutS <= 0 {
		return 0
	}
	return time.Duration(c.CRM.TimeoutS) * time.Second
}

// Helpers

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok {
		return v
	}
	return def
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "t", "true", "y", "yes", "on":
		return true
	default:
		return false
	}
}

func parseInt(v string, def int) int {
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return i
}

func parseFloat(v string, def float64) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return def
	}
	return f
}

// clamp bounds v to [lo, hi], substituting def when v is zero or negative.
func clamp(v, lo, hi, def int) int {
	if v <= 0 {
		v = def
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
