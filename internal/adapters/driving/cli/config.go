package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/ragdrive/internal/adapters/driven/config/file"
)

// secretKeys are masked when printed and read without echo when set
// interactively.
var secretKeys = []string{"drive.access_token", "drive.credentials_file", "llm.api_key"}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `View and change settings stored in config.toml.

Environment variables override the file and are never written to it:
  GOOGLE_DRIVE_FOLDER_ID       drive.root_folder_id
  GOOGLE_SERVICE_ACCOUNT_JSON  drive.credentials_file
  GOOGLE_ACCESS_TOKEN          drive.access_token
  GEMINI_API_KEY, API_KEY      llm.api_key`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if configStore == nil {
			return errors.New("config store not configured")
		}
		cmd.Println(configStore.Path())
		return nil
	},
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List settable keys",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		for _, k := range file.Keys() {
			cmd.Println(k)
		}
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change a setting",
	Long: `Parses value to the type of the setting, validates it and saves the file.
For secrets the value may be omitted to type it without echo.

Examples:
  ragdrive config set drive.root_folder_id https://drive.google.com/drive/folders/1AbC
  ragdrive config set retrieval.top_k 8
  ragdrive config set llm.api_key`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configKeysCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	values, err := configStore.Values()
	if err != nil {
		return err
	}

	st := newStyles(cmd.OutOrStdout())
	cmd.Println(st.Title.Render("Settings") + " " + st.Muted.Render(configStore.Path()))
	cmd.Println()

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	section := ""
	for _, k := range keys {
		if s, _, ok := strings.Cut(k, "."); ok && s != section {
			section = s
			cmd.Println(st.Label.Render("[" + s + "]"))
		}
		cmd.Printf("  %s = %s\n", k, displayValue(k, values[k]))
	}
	return nil
}

func displayValue(key string, v any) string {
	s := fmt.Sprint(v)
	if slices.Contains(secretKeys, key) {
		if s == "" {
			return "(not set)"
		}
		// A key file path is not secret; inline JSON is.
		if key == "drive.credentials_file" && !strings.HasPrefix(strings.TrimSpace(s), "{") {
			return s
		}
		return maskSecret(s)
	}
	return s
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	key := args[0]
	var value string
	switch {
	case len(args) == 2:
		value = args[1]
	case slices.Contains(secretKeys, key):
		cmd.Printf("%s: ", key)
		value = readSecret(cmd)
		cmd.Println()
	default:
		return fmt.Errorf("missing value for %s", key)
	}

	if err := configStore.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	cmd.Printf("%s updated.\n", key)
	return nil
}

// readSecret reads a line without echo when stdin is a terminal.
func readSecret(cmd *cobra.Command) string {
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if b, err := term.ReadPassword(int(f.Fd())); err == nil {
			return strings.TrimSpace(string(b))
		}
	}
	line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	return strings.TrimSpace(line)
}
