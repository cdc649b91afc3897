package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/kozaktomas/photo-shortcode/internal/config"
	"github.com/kozaktomas/photo-shortcode/internal/shortcode"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Print the shortcode for an image of known size",
	Long: `Generates the shortcode for a single image using the stored settings.
The image URL is given without its "=..." size suffix.`,
	Example: `  photo-shortcode generate --src https://lh3.googleusercontent.com/abc --width 4000 --height 3000 --label Sunset
  photo-shortcode generate --src https://lh3.googleusercontent.com/abc --width 4000 --height 3000 --layout gallery`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().String("src", "", "Image URL without size suffix (required)")
	generateCmd.Flags().Int("width", 0, "Original image width in pixels (required)")
	generateCmd.Flags().Int("height", 0, "Original image height in pixels (required)")
	generateCmd.Flags().String("label", "", "Image caption")
	generateCmd.Flags().String("layout", "single", "Layout: single or gallery")
	_ = generateCmd.MarkFlagRequired("src")
	_ = generateCmd.MarkFlagRequired("width")
	_ = generateCmd.MarkFlagRequired("height")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	ctx := context.Background()

	img := shortcode.Image{
		Src:    mustGetString(cmd, "src"),
		Label:  mustGetString(cmd, "label"),
		Width:  mustGetInt(cmd, "width"),
		Height: mustGetInt(cmd, "height"),
	}
	if img.Width <= 0 || img.Height <= 0 {
		return errors.New("--width and --height must be positive")
	}

	store, closeStore, err := openSettingsStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	s, err := store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to get options: %w", err)
	}

	fmt.Println(shortcode.Generate(img, s.Options(), shortcode.ParseLayout(mustGetString(cmd, "layout"))))
	return nil
}
