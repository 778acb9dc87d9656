// ABOUTME: Config CLI commands
// ABOUTME: Stores Chargify site credentials and shows the effective configuration
package cli

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/harperreed/clientify/config"
	"golang.org/x/term"
)

// ConfigCommand routes config subcommands
func ConfigCommand(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("config requires a subcommand (init or show)")
	}

	switch args[0] {
	case "init":
		return ConfigInitCommand(args[1:])
	case "show":
		return ConfigShowCommand(args[1:])
	default:
		return fmt.Errorf("unknown config command: %s", args[0])
	}
}

// ConfigInitCommand prompts for site credentials and saves them
func ConfigInitCommand(args []string) error {
	fs := flag.NewFlagSet("config init", flag.ExitOnError)
	subdomain := fs.String("subdomain", "", "Chargify site subdomain (e.g., acme for acme.chargify.com)")
	ledger := fs.String("ledger", "", "Import ledger path")
	logFile := fs.String("log-file", "", "Request log path")
	_ = fs.Parse(args)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if *subdomain != "" {
		cfg.Subdomain = *subdomain
	}
	if cfg.Subdomain == "" {
		fmt.Print("Subdomain: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && err != io.EOF {
			return fmt.Errorf("failed to read subdomain: %w", err)
		}
		cfg.Subdomain = strings.TrimSpace(line)
	}

	// Prompt for API key (hidden)
	fmt.Print("API key: ")
	keyBytes, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return fmt.Errorf("failed to read API key: %w", err)
	}
	fmt.Println() // New line after hidden input
	if key := strings.TrimSpace(string(keyBytes)); key != "" {
		cfg.APIKey = key
	}

	if *ledger != "" {
		cfg.LedgerPath = *ledger
	}
	if *logFile != "" {
		cfg.LogFile = *logFile
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("✓ Config saved to %s\n", config.Path())
	fmt.Printf("  Site: %s\n", cfg.Subdomain)
	return nil
}

// ConfigShowCommand prints the effective configuration with the key masked
func ConfigShowCommand(args []string) error {
	fs := flag.NewFlagSet("config show", flag.ExitOnError)
	_ = fs.Parse(args)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	printConfig(os.Stdout, cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Printf("\n⚠ %v\n", err)
	}
	return nil
}

func printConfig(w io.Writer, cfg *config.Config) {
	subdomain := cfg.Subdomain
	if subdomain == "" {
		subdomain = "(not set)"
	}
	apiKey := "(not set)"
	if cfg.APIKey != "" {
		apiKey = cfg.MaskedAPIKey()
	}
	requestLog := "disabled"
	if cfg.RequestLogEnabled() {
		requestLog = cfg.LogFile
	}

	fmt.Fprintf(w, "Config file: %s\n", config.Path())
	fmt.Fprintf(w, "Site:        %s\n", subdomain)
	fmt.Fprintf(w, "API key:     %s\n", apiKey)
	fmt.Fprintf(w, "Ledger:      %s\n", cfg.LedgerPath)
	fmt.Fprintf(w, "Request log: %s\n", requestLog)
}
