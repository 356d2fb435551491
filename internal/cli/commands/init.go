package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jce-consulta/cedula-cli/internal/cli/config"
)

// NewInitCmd creates the init command
func NewInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [base-url]",
		Short: "Init a cedula.json configuration file",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	currentDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	configPath := filepath.Join(currentDir, config.ConfigFileName)

	var cfg *config.Config
	isNewConfig := false

	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load existing config: %w", err)
		}
		fmt.Println("Found existing cedula.json")
	} else {
		isNewConfig = true
		if len(args) == 0 {
			// No URL given, seed with the public API
			cfg = config.DefaultConfig()
			if err := config.Save(configPath, cfg); err != nil {
				return err
			}
			fmt.Printf("✓ Created ./cedula.json pointing at %s\n", cfg.Servers[0].BaseURL)
			printNextSteps()
			return nil
		}
		cfg = &config.Config{
			Servers: []config.Server{},
		}
	}

	if len(args) == 0 {
		printNextSteps()
		return nil
	}

	baseURL := strings.TrimRight(args[0], "/")
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "https://" + baseURL
	}

	// Check if server already exists
	serverExists := false
	for _, server := range cfg.Servers {
		if server.BaseURL == baseURL {
			serverExists = true
			break
		}
	}

	if serverExists {
		fmt.Printf("Server %s already exists in cedula.json\n", baseURL)
		printNextSteps()
		return nil
	}

	alias := "production"
	if len(cfg.Servers) > 0 {
		alias = fmt.Sprintf("server-%d", len(cfg.Servers)+1)
	}

	cfg.Servers = append(cfg.Servers, config.Server{
		BaseURL: baseURL,
		Alias:   alias,
	})

	if err := config.Save(configPath, cfg); err != nil {
		return err
	}

	if isNewConfig {
		fmt.Printf("✓ Created ./cedula.json with server %s (%s)\n", baseURL, alias)
	} else {
		fmt.Printf("✓ Added server %s (%s) to ./cedula.json\n", baseURL, alias)
	}

	printNextSteps()
	return nil
}

func printNextSteps() {
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Run 'cedula register' to create an account, or 'cedula login' if you have one")
	fmt.Println("  2. Run 'cedula query <cedula>' to look up a record")
}
