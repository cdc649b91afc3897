package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"text/tabwriter"

	"github.com/kozaktomas/photo-shortcode/internal/config"
	"github.com/kozaktomas/photo-shortcode/internal/notify"
	"github.com/kozaktomas/photo-shortcode/internal/settings"
	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change shortcode settings",
	Long: `Manage the preferences used to generate shortcodes.

Keys:
  useThumb    Use a resized preview thumbnail (default true)
  thumbHDPI   Double the thumbnail size for HiDPI screens (default true)
  thumbWidth  Thumbnail width in pixels (default 1200)
  rowHeight   Gallery row height in pixels (default 240)
  useCaption  Add the image caption (default true)
  maxWidth    Maximum width of the linked original, 0 for unlimited`,
}

var settingsGetCmd = &cobra.Command{
	Use:   "get [KEY]",
	Short: "Print the current settings",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSettingsGet,
}

var settingsSetCmd = &cobra.Command{
	Use:     "set KEY VALUE [KEY VALUE...]",
	Short:   "Change one or more settings",
	Example: `  photo-shortcode settings set thumbWidth 800 rowHeight 200`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 || len(args)%2 != 0 {
			return errors.New("expected KEY VALUE pairs")
		}
		return nil
	},
	RunE: runSettingsSet,
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the default settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsReset,
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsResetCmd)

	settingsGetCmd.Flags().Bool("json", false, "Output as JSON")
}

func runSettingsGet(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	ctx := context.Background()

	store, closeStore, err := openSettingsStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	s, err := store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to get options: %w", err)
	}
	values := s.Values()

	if len(args) == 1 {
		v, ok := values[args[0]]
		if !ok {
			return fmt.Errorf("unknown setting %q", args[0])
		}
		fmt.Println(v)
		return nil
	}

	if mustGetBool(cmd, "json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tVALUE")
	for _, key := range settings.Keys {
		fmt.Fprintf(w, "%s\t%s\n", key, values[key])
	}
	w.Flush()

	fmt.Printf("\nBackend: %s\n", cfg.Settings.Backend)
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	ctx := context.Background()

	store, closeStore, err := openSettingsStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	current, err := store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to get options: %w", err)
	}

	next := current
	for i := 0; i < len(args); i += 2 {
		if !isSettingKey(args[i]) {
			return fmt.Errorf("unknown setting %q", args[i])
		}
		if err := next.Set(args[i], args[i+1]); err != nil {
			return err
		}
	}

	return saveSettings(ctx, store, next)
}

func runSettingsReset(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	ctx := context.Background()

	store, closeStore, err := openSettingsStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	return saveSettings(ctx, store, settings.Defaults())
}

func saveSettings(ctx context.Context, store *settings.Store, next settings.Settings) error {
	saved, err := store.Save(ctx, next)
	if errors.Is(err, settings.ErrThumbWidthRequired) {
		fmt.Fprintln(os.Stderr, notify.MsgThumbRequired)
		fmt.Fprintf(os.Stderr, "%s was set to %t\n", settings.KeyUseThumb, saved.UseThumb)
		return err
	}
	if err != nil {
		return fmt.Errorf("failed to save options: %w", err)
	}

	fmt.Println(notify.MsgSaved)
	return nil
}

func isSettingKey(key string) bool {
	return slices.Contains(settings.Keys, key)
}
