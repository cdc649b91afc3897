package cmd

import (
	"fmt"

	"github.com/kozaktomas/photo-shortcode/internal/importer"
	"github.com/kozaktomas/photo-shortcode/internal/shortcode"
	"github.com/spf13/cobra"
)

var filesCmd = &cobra.Command{
	Use:   "files DIRECTORY",
	Short: "Print shortcodes for the images in a local directory",
	Long: `Reads the size of every image in DIRECTORY and prints a shortcode for each.
With --height the thumbnails are sized for a gallery row; otherwise --width
sets the thumbnail width. Without either the original size is used.`,
	Example: `  photo-shortcode files static/photo/trip --prefix photo/trip --width 800`,
	Args:    cobra.ExactArgs(1),
	RunE:    runFiles,
}

func init() {
	rootCmd.AddCommand(filesCmd)

	filesCmd.Flags().IntP("width", "w", 0, "Thumbnail width")
	filesCmd.Flags().Int("height", 0, "Thumbnail row height (takes precedence over --width)")
	filesCmd.Flags().String("prefix", "", "Path prefix for the src attribute (defaults to DIRECTORY)")
}

func runFiles(cmd *cobra.Command, args []string) error {
	dir := args[0]
	prefix := mustGetString(cmd, "prefix")
	if prefix == "" {
		prefix = dir
	}

	photos, err := importer.ScanDirectory(dir, importer.FileOptions{
		Width:  mustGetInt(cmd, "width"),
		Height: mustGetInt(cmd, "height"),
		Prefix: prefix,
	})
	if err != nil {
		return err
	}
	if len(photos) == 0 {
		fmt.Println("No images found.")
		return nil
	}

	fmt.Println(shortcode.JoinPhotos(photos))
	return nil
}
