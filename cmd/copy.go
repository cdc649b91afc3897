package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/kozaktomas/photo-shortcode/internal/clipboard"
	"github.com/kozaktomas/photo-shortcode/internal/config"
	"github.com/kozaktomas/photo-shortcode/internal/page"
	"github.com/kozaktomas/photo-shortcode/internal/shortcode"
	"github.com/spf13/cobra"
)

var copyCmd = &cobra.Command{
	Use:   "copy PAGE [IMAGE_URL]",
	Short: "Copy the shortcode of an album image to the clipboard",
	Long: `Finds an image on an album page and copies its shortcode to the clipboard.
PAGE is a URL, a saved HTML file, or "-" for stdin. IMAGE_URL is the src of
the image as shown on the page; any "=..." size suffix is ignored.

With --all every image of the page is copied, separated by blank lines.`,
	Example: `  photo-shortcode copy album.html https://lh3.googleusercontent.com/abc=w400-h300
  photo-shortcode copy album.html https://lh3.googleusercontent.com/abc --gallery
  photo-shortcode copy album.html --all --print`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runCopy,
}

func init() {
	rootCmd.AddCommand(copyCmd)

	copyCmd.Flags().Bool("gallery", false, "Size the thumbnail for a gallery row")
	copyCmd.Flags().Bool("all", false, "Copy shortcodes for all images on the page")
	copyCmd.Flags().Bool("print", false, "Also print the copied text")
}

func runCopy(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	ctx := context.Background()

	all := mustGetBool(cmd, "all")
	if !all && len(args) != 2 {
		return errors.New("IMAGE_URL is required unless --all is given")
	}

	doc, err := loadPage(ctx, args[0])
	if err != nil {
		return err
	}

	store, closeStore, err := openSettingsStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	notifier, err := newNotifier(cfg, os.Stderr)
	if err != nil {
		return err
	}

	cb := hostClipboard()
	if cb == nil {
		return errors.New("no clipboard utility found (install xclip, xsel or wl-clipboard)")
	}

	p := page.New(doc, store, cb, clipboard.AlwaysFocused, notifier)

	var text string
	if all {
		text, err = p.CopyAll(ctx)
	} else {
		layout := shortcode.Single
		if mustGetBool(cmd, "gallery") {
			layout = shortcode.GalleryRow
		}
		text, err = p.CopyImage(ctx, args[1], layout)
	}
	if err != nil {
		// The failure was already shown as a toast.
		return fmt.Errorf("copy failed: %w", err)
	}

	if mustGetBool(cmd, "print") {
		fmt.Println(text)
	}
	return nil
}
