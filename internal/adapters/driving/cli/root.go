// Package cli implements the ragdrive command line.
//
// Commands talk to the core through the driving ports held in package
// variables. The variables are populated by wire before any command that
// needs them runs.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragdrive/internal/adapters/driven/config/file"
	"github.com/custodia-labs/ragdrive/internal/core/ports/driving"
	"github.com/custodia-labs/ragdrive/internal/logger"
)

// version is set by Execute.
var version = "dev"

var (
	verbose   bool
	configDir string
)

// Services used by the commands.
var (
	syncService      driving.SyncService
	retrievalService driving.RetrievalService
	askService       driving.AskService
	libraryService   driving.LibraryService
	configStore      *file.ConfigStore

	// defaultRoot is the configured remote folder id, already parsed.
	defaultRoot string

	// closeServices releases the storage backend.
	closeServices func() error
)

// wire builds the services and loadConfig only the config store.
// Replaced in tests.
var (
	wire       = wireServices
	loadConfig = loadConfigStore
)

var rootCmd = &cobra.Command{
	Use:   "ragdrive",
	Short: "Search and ask questions over a Drive folder and local files",
	Long: `ragdrive keeps a searchable copy of a Google Drive folder tree and a
local library of uploaded files.

  ragdrive sync              mirror the configured Drive folder
  ragdrive ingest ./notes    add local files to the library
  ragdrive search "limits"   show the best matching passages
  ragdrive ask "what ..."    answer a question from those passages`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		logger.SetOutput(cmd.ErrOrStderr())
		switch {
		case isConfigCommand(cmd):
			return loadConfig()
		case !needsServices(cmd):
			return nil
		}
		return wire(cmd.Context())
	},
	PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
		if closeServices == nil {
			return nil
		}
		err := closeServices()
		closeServices = nil
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "config directory (default ~/.ragdrive)")
}

// needsServices reports whether cmd talks to the core.
func needsServices(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "help", "version", "completion", "ragdrive":
		return false
	}
	return true
}

// isConfigCommand reports whether cmd belongs to the config tree. Those
// commands must work on a config that does not validate, so they never
// open storage.
func isConfigCommand(cmd *cobra.Command) bool {
	for c := cmd; c.HasParent(); c = c.Parent() {
		if c.Name() == "config" && !c.Parent().HasParent() {
			return true
		}
	}
	return false
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command
// context so long-running syncs and ingests stop at the next checkpoint.
func Execute(v string) error {
	if v != "" {
		version = v
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return rootCmd.ExecuteContext(ctx)
}
