package serverselect

import (
	"fmt"

	"github.com/manifoldco/promptui"

	"github.com/jce-consulta/cedula-cli/internal/cli/config"
	"github.com/jce-consulta/cedula-cli/internal/cli/userconfig"
)

// ResolveServer determines which server to use based on the following priority:
// 1. If serverAlias is provided, use that server
// 2. If the user has a selected server in their local config, use that
// 3. If only one server exists in the project config, use that
// 4. Otherwise, prompt the user to select a server interactively
func ResolveServer(projectConfig *config.Config, serverAlias string) (*config.Server, error) {
	if serverAlias != "" {
		return projectConfig.GetServerByAlias(serverAlias)
	}

	selectedURL, err := userconfig.GetSelectedServer()
	if err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}

	if selectedURL != "" {
		server, err := getServerByURL(projectConfig, selectedURL)
		if err != nil {
			// Selected server no longer exists in the project config; clear
			// the stale selection and fall through
			_ = userconfig.SetSelectedServer("")
		} else {
			return server, nil
		}
	}

	if len(projectConfig.Servers) == 1 {
		server := &projectConfig.Servers[0]
		if err := userconfig.SetSelectedServer(server.BaseURL); err != nil {
			fmt.Printf("Warning: failed to save selected server: %v\n", err)
		}
		return server, nil
	}

	server, err := PromptServerSelection(projectConfig)
	if err != nil {
		return nil, err
	}

	if err := userconfig.SetSelectedServer(server.BaseURL); err != nil {
		fmt.Printf("Warning: failed to save selected server: %v\n", err)
	}

	return server, nil
}

// PromptServerSelection shows an interactive prompt to select a server
func PromptServerSelection(projectConfig *config.Config) (*config.Server, error) {
	if len(projectConfig.Servers) == 0 {
		return nil, fmt.Errorf("no servers configured in %s", config.ConfigFileName)
	}

	type serverOption struct {
		Label  string
		Server *config.Server
	}

	options := make([]serverOption, len(projectConfig.Servers))
	for i := range projectConfig.Servers {
		server := &projectConfig.Servers[i]
		options[i] = serverOption{
			Label:  fmt.Sprintf("%s (%s)", server.Alias, server.BaseURL),
			Server: server,
		}
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "> {{ .Label | cyan }}",
		Inactive: "  {{ .Label }}",
	}

	prompt := promptui.Select{
		Label:     "Select a server",
		Items:     options,
		Templates: templates,
		Size:      10,
	}

	index, _, err := prompt.Run()
	if err != nil {
		return nil, fmt.Errorf("server selection cancelled: %w", err)
	}

	return options[index].Server, nil
}

func getServerByURL(cfg *config.Config, baseURL string) (*config.Server, error) {
	for i := range cfg.Servers {
		if cfg.Servers[i].BaseURL == baseURL {
			return &cfg.Servers[i], nil
		}
	}
	return nil, fmt.Errorf("server with URL '%s' not found in project config", baseURL)
}

// GetServerByURLOrAlias finds a server by base URL or alias
func GetServerByURLOrAlias(cfg *config.Config, urlOrAlias string) (*config.Server, error) {
	for i := range cfg.Servers {
		if cfg.Servers[i].BaseURL == urlOrAlias {
			return &cfg.Servers[i], nil
		}
	}

	for i := range cfg.Servers {
		if cfg.Servers[i].Alias == urlOrAlias {
			return &cfg.Servers[i], nil
		}
	}

	return nil, fmt.Errorf("server with URL or alias '%s' not found", urlOrAlias)
}
