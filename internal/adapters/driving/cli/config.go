package cli

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/recon-cli/internal/core/domain"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Read and write stored settings",
	Long: `Reads and writes ~/.recon/config.toml. Stored settings are defaults for
scan and plan; flags override them.

Keys:
  ` + strings.Join(knownKeys, "\n  "),
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print a setting",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Store a setting",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print every stored setting",
	Args:  cobra.NoArgs,
	RunE:  runConfigList,
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

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}
	val, ok := configStore.Get(args[0])
	if !ok {
		return fmt.Errorf("%w: %s is not set", domain.ErrNotFound, args[0])
	}
	cmd.Println(displayValue(args[0], val))
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}
	key := args[0]
	if !slices.Contains(knownKeys, key) {
		return fmt.Errorf("%w: unknown key %q", domain.ErrInvalidInput, key)
	}

	val, err := parseValue(key, args[1])
	if err != nil {
		return err
	}
	if err := configStore.Set(key, val); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	cmd.Printf("%s = %s\n", key, displayValue(key, val))
	return nil
}

func runConfigList(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}
	keys := configStore.Keys()
	if len(keys) == 0 {
		cmd.Println("No settings stored.")
		return nil
	}
	for _, k := range keys {
		val, _ := configStore.Get(k)
		cmd.Printf("%s = %s\n", k, displayValue(k, val))
	}
	return nil
}

// parseValue converts a command line value to the type stored for key.
func parseValue(key, raw string) (any, error) {
	switch key {
	case KeyConcurrency, KeyMaxAgeMonths, KeyMaxRepos, KeyMinStars, KeyNetworkLimit:
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: %s must be a non-negative integer", domain.ErrInvalidInput, key)
		}
		if key == KeyConcurrency && (n < 1 || n > domain.MaxConcurrency) {
			return nil, fmt.Errorf("%w: %s must be between 1 and %d", domain.ErrInvalidInput, key, domain.MaxConcurrency)
		}
		return int64(n), nil
	case KeyCacheEnabled, KeyIncludeForks, KeyIncludeArchived, KeySkipNoreply, KeySkipDisposable, KeySmart, KeyDeep:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be true or false", domain.ErrInvalidInput, key)
		}
		return b, nil
	case KeyFormats:
		if _, err := parseFormats(strings.Split(raw, ",")); err != nil {
			return nil, err
		}
		return raw, nil
	default:
		return raw, nil
	}
}

func displayValue(key string, val any) string {
	if key == KeyGitHubToken {
		if s, ok := val.(string); ok {
			return maskToken(s)
		}
	}
	return fmt.Sprint(val)
}
