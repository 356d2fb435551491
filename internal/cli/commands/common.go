package commands

import (
	"fmt"
	"net/url"
	"os"

	"github.com/jce-consulta/cedula-cli/internal/cli/client"
	"github.com/jce-consulta/cedula-cli/internal/cli/config"
	"github.com/jce-consulta/cedula-cli/internal/cli/credentials"
	"github.com/jce-consulta/cedula-cli/internal/cli/serverselect"
	"github.com/jce-consulta/cedula-cli/internal/cli/session"
	"github.com/jce-consulta/cedula-cli/internal/logger"
)

// getSelectedServer loads the config and resolves which server to use.
// This is common logic shared by most commands.
func getSelectedServer(serverAlias string) (*config.Server, error) {
	cfg, err := config.LoadFromCurrentDir()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w\nRun 'cedula init' to create a configuration file", err)
	}

	server, err := serverselect.ResolveServer(cfg, serverAlias)
	if err != nil {
		return nil, err
	}

	if server.BaseURL == "" {
		return nil, fmt.Errorf("server URL is empty. Please edit %s and add a valid base URL", config.ConfigFileName)
	}

	return server, nil
}

// credentialsForServer returns the keyring store scoped to the server host
func credentialsForServer(server *config.Server) (credentials.Store, error) {
	u, err := url.Parse(server.BaseURL)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("invalid server URL '%s'", server.BaseURL)
	}
	return credentials.NewKeyring(u.Host), nil
}

// newSession wires the API client, credential store, and session manager for
// the given server. The unauthorized hook tells the user to log in again; it
// is the CLI counterpart of a forced redirect to the login page.
func newSession(server *config.Server) (*client.Client, *session.Manager, error) {
	creds, err := credentialsForServer(server)
	if err != nil {
		return nil, nil, err
	}

	api := client.New(server.BaseURL, creds)
	api.SetUnauthorizedHandler(func() {
		fmt.Fprintln(os.Stderr, "Session expired. Please run 'cedula login' to authenticate again.")
	})

	sess := session.New(api, creds, logger.GetLogger())
	return api, sess, nil
}

// connect resolves the server and wires a session in one step
func connect(serverAlias string) (*client.Client, *session.Manager, error) {
	server, err := getSelectedServer(serverAlias)
	if err != nil {
		return nil, nil, err
	}
	return newSession(server)
}
