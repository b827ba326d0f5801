// ABOUTME: Entry point for the luvya-gateway MCP tool server
// ABOUTME: Fronts the hosted travel store with MCP and OAuth HTTP surfaces

package main

import (
	"bufio"
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/fatih/color"

	"github.com/luvya/luvya-gateway/internal/config"
	"github.com/luvya/luvya-gateway/internal/gateway"
)

// Version is set by goreleaser at build time.
var version = "dev"

const banner = `
 _
| | _   _ __   __ _   _   __ _
| || | | |\ \ / /| | | | / _' |
| || |_| | \ V / | |_| || (_| |
|_| \__,_|  \_/   \__, | \__,_|
                   |___/
`

// defaultConfigPath returns the path to the gateway config file.
// Priority: LUVYA_CONFIG env var > XDG_CONFIG_HOME/luvya/gateway.yaml > ~/.config/luvya/gateway.yaml
func defaultConfigPath() string {
	if envPath := os.Getenv("LUVYA_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "gateway.yaml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "luvya", "gateway.yaml")
}

// extractConfigFlag pulls --config out of the arguments, falling back to
// defaultConfigPath. Supports "--config value" and "--config=value".
func extractConfigFlag(args []string) (string, error) {
	configPath := ""
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--config" || arg == "-c":
			if i+1 >= len(args) {
				return "", fmt.Errorf("--config requires a value")
			}
			configPath = args[i+1]
			i++
		case strings.HasPrefix(arg, "--config="):
			configPath = strings.TrimPrefix(arg, "--config=")
		case strings.HasPrefix(arg, "-c="):
			configPath = strings.TrimPrefix(arg, "-c=")
		default:
			return "", fmt.Errorf("unexpected argument: %s", arg)
		}
	}

	if configPath == "" {
		configPath = defaultConfigPath()
	}
	return configPath, nil
}

func printUsage() {
	fmt.Println("Usage: luvya-gateway [command] [--config path]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  serve    Start the gateway server (default)")
	fmt.Println("  init     Create a new config file interactively")
	fmt.Println("  health   Check gateway health")
	fmt.Println("  ready    Check gateway readiness (hosted store reachable)")
}

func main() {
	args := os.Args[1:]

	if len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help") {
		printUsage()
		return
	}

	command := "serve"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		command = args[0]
		args = args[1:]
	}

	configPath, err := extractConfigFlag(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	switch command {
	case "serve":
		err = runServe(ctx, configPath)
	case "init":
		err = runInit(configPath)
	case "health":
		err = runHealth(ctx, configPath)
	case "ready":
		err = runReady(ctx, configPath)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runServe(ctx context.Context, configPath string) error {
	// Print banner
	cyan := color.New(color.FgCyan)
	cyan.Print(banner)

	// Version info
	gray := color.New(color.FgHiBlack)
	gray.Printf("    gateway version: %s\n\n", version)

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Setup logger
	logger := setupLogger(cfg.Logging)

	// Startup info
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)

	green.Print("    ▶ ")
	fmt.Printf("Config:   %s\n", configPath)
	green.Print("    ▶ ")
	fmt.Printf("HTTP:     %s\n", cfg.Server.HTTPAddr)
	green.Print("    ▶ ")
	fmt.Printf("Base URL: %s\n", cfg.PublicBaseURL())
	green.Print("    ▶ ")
	fmt.Printf("Store:    %s\n", cfg.Supabase.URL)
	if cfg.Server.RequireAuth {
		green.Print("    ▶ ")
		fmt.Print("MCP auth: ")
		yellow.Println("bearer token required")
	}

	fmt.Println()

	logger.Info("starting luvya-gateway",
		"config", configPath,
		"http_addr", cfg.Server.HTTPAddr,
		"base_url", cfg.PublicBaseURL(),
	)

	// Create and run gateway
	gw, err := gateway.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("creating gateway: %w", err)
	}

	return gw.Run(ctx)
}

func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = &colorHandler{
			level: level,
		}
	}

	return slog.New(handler)
}

// colorHandler provides colorized log output with thread-safe writes.
type colorHandler struct {
	mu     sync.Mutex
	level  slog.Level
	attrs  []slog.Attr
	groups []string
}

func (h *colorHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *colorHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	var buf strings.Builder

	// Format timestamp
	buf.WriteString(color.HiBlackString(r.Time.Format("15:04:05") + " "))

	// Colorize level
	switch r.Level {
	case slog.LevelDebug:
		buf.WriteString(color.MagentaString("DBG "))
	case slog.LevelInfo:
		buf.WriteString(color.CyanString("INF "))
	case slog.LevelWarn:
		buf.WriteString(color.YellowString("WRN "))
	case slog.LevelError:
		buf.WriteString(color.New(color.FgRed, color.Bold).Sprint("ERR "))
	default:
		buf.WriteString("??? ")
	}

	// Print message
	buf.WriteString(r.Message)

	// Print handler-level attrs first (from WithAttrs)
	for _, a := range h.attrs {
		buf.WriteString(color.HiBlackString(" " + a.Key + "="))
		buf.WriteString(a.Value.String())
	}

	// Print record attrs
	r.Attrs(func(a slog.Attr) bool {
		buf.WriteString(color.HiBlackString(" " + a.Key + "="))
		buf.WriteString(a.Value.String())
		return true
	})

	buf.WriteString("\n")
	fmt.Print(buf.String())
	return nil
}

func (h *colorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(h.attrs), len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	newAttrs = append(newAttrs, attrs...)
	return &colorHandler{
		level:  h.level,
		attrs:  newAttrs,
		groups: h.groups,
	}
}

func (h *colorHandler) WithGroup(name string) slog.Handler {
	newGroups := make([]string, len(h.groups), len(h.groups)+1)
	copy(newGroups, h.groups)
	newGroups = append(newGroups, name)
	return &colorHandler{
		level:  h.level,
		attrs:  h.attrs,
		groups: newGroups,
	}
}

// probe fetches a gateway endpoint and returns the response body.
func probe(ctx context.Context, configPath, path string) (int, string, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return 0, "", fmt.Errorf("loading config: %w", err)
	}

	url := fmt.Sprintf("http://%s%s", cfg.Server.HTTPAddr, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, "", fmt.Errorf("creating request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return 0, "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, "", fmt.Errorf("reading response: %w", err)
	}

	return resp.StatusCode, string(body), nil
}

func runHealth(ctx context.Context, configPath string) error {
	status, _, err := probe(ctx, configPath, "/health")
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("unhealthy: status %d", status)
	}

	fmt.Println("healthy")
	return nil
}

func runReady(ctx context.Context, configPath string) error {
	status, body, err := probe(ctx, configPath, "/ready")
	if err != nil {
		return fmt.Errorf("readiness check failed: %w", err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("not ready: %s", body)
	}

	fmt.Println(body)
	return nil
}

// generateSecret returns a random base64 string for token signing.
func generateSecret() (string, error) {
	secretBytes := make([]byte, 32)
	if _, err := rand.Read(secretBytes); err != nil {
		return "", fmt.Errorf("generating JWT secret: %w", err)
	}
	return base64.StdEncoding.EncodeToString(secretBytes), nil
}

func runInit(configPath string) error {
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("luvya-gateway configuration setup")
	fmt.Println("=================================")
	fmt.Println()

	// Output filename
	outputFile := prompt(reader, "Config file path", configPath)

	// Check if file exists
	if _, err := os.Stat(outputFile); err == nil {
		overwrite := prompt(reader, "File exists. Overwrite?", "no")
		if strings.ToLower(overwrite) != "yes" && strings.ToLower(overwrite) != "y" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	// Server configuration
	fmt.Println("\n--- Server Configuration ---")
	httpAddr := prompt(reader, "HTTP address", "localhost:8080")
	baseURL := prompt(reader, "Public base URL (empty to derive from HTTP address)", "")
	requireAuthStr := prompt(reader, "Require bearer tokens on MCP?", "no")
	requireAuth := strings.ToLower(requireAuthStr) == "yes" || strings.ToLower(requireAuthStr) == "y"

	// Hosted store
	fmt.Println("\n--- Supabase Configuration ---")
	supabaseURL := prompt(reader, "Supabase project URL", "https://YOUR-PROJECT.supabase.co")
	anonKey := prompt(reader, "Supabase anon key (${VAR} expands from env)", "${SUPABASE_ANON_KEY}")

	// Token signing
	fmt.Println("\n--- Auth Configuration ---")
	jwtSecret := prompt(reader, "JWT signing secret (empty to generate)", "")
	if jwtSecret == "" {
		var err error
		jwtSecret, err = generateSecret()
		if err != nil {
			return err
		}
		fmt.Println("Generated a random signing secret.")
	}

	// Logging
	fmt.Println("\n--- Logging Configuration ---")
	logLevel := prompt(reader, "Log level (debug/info/warn/error)", "info")
	logFormat := prompt(reader, "Log format (text/json)", "text")

	// Generate config
	var cfg strings.Builder
	cfg.WriteString("# luvya-gateway configuration\n")
	cfg.WriteString("# Generated by luvya-gateway init\n\n")

	cfg.WriteString("server:\n")
	cfg.WriteString(fmt.Sprintf("  http_addr: \"%s\"\n", httpAddr))
	if baseURL != "" {
		cfg.WriteString("  # Externally reachable URL, used as OAuth issuer and token audience.\n")
		cfg.WriteString(fmt.Sprintf("  base_url: \"%s\"\n", baseURL))
	} else {
		cfg.WriteString("  # Externally reachable URL, used as OAuth issuer and token audience.\n")
		cfg.WriteString("  # base_url: \"https://luvya.example.com\"\n")
	}
	cfg.WriteString("  # Reject MCP initialize requests without a valid bearer token.\n")
	cfg.WriteString(fmt.Sprintf("  require_auth: %t\n", requireAuth))
	cfg.WriteString("\n")

	cfg.WriteString("supabase:\n")
	cfg.WriteString(fmt.Sprintf("  url: \"%s\"\n", supabaseURL))
	cfg.WriteString("  # ${VAR} values are expanded from the environment at load time.\n")
	cfg.WriteString(fmt.Sprintf("  anon_key: \"%s\"\n", anonKey))
	cfg.WriteString("  request_timeout: \"10s\"\n")
	cfg.WriteString("\n")

	cfg.WriteString("auth:\n")
	cfg.WriteString("  # Signs OAuth access tokens; the MCP server verifies with the same key.\n")
	cfg.WriteString(fmt.Sprintf("  jwt_secret: \"%s\"\n", jwtSecret))
	cfg.WriteString("  # Lifetime of minted access tokens. Defaults to 1h.\n")
	cfg.WriteString("  # token_ttl: \"1h\"\n")
	cfg.WriteString("\n")

	cfg.WriteString("logging:\n")
	cfg.WriteString(fmt.Sprintf("  level: \"%s\"\n", logLevel))
	cfg.WriteString(fmt.Sprintf("  format: \"%s\"\n", logFormat))

	// Ensure config directory exists
	configDir := filepath.Dir(outputFile)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	// The file carries the signing secret, so keep it private.
	if err := os.WriteFile(outputFile, []byte(cfg.String()), 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	fmt.Printf("\nConfig written to %s\n", outputFile)
	fmt.Println("\nTo start the server:")
	fmt.Printf("  luvya-gateway serve --config %s\n", outputFile)

	return nil
}

func prompt(reader *bufio.Reader, question, defaultVal string) string {
	if defaultVal != "" {
		fmt.Printf("%s [%s]: ", question, defaultVal)
	} else {
		fmt.Printf("%s: ", question)
	}

	input, err := reader.ReadString('\n')
	if err != nil {
		// On EOF or error, return default
		fmt.Println()
		return defaultVal
	}
	input = strings.TrimSpace(input)

	if input == "" {
		return defaultVal
	}
	return input
}
