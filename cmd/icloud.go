package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/kozaktomas/photo-shortcode/internal/config"
	"github.com/kozaktomas/photo-shortcode/internal/importer"
	"github.com/kozaktomas/photo-shortcode/internal/shortcode"
	"github.com/spf13/cobra"
)

var icloudCmd = &cobra.Command{
	Use:   "icloud ALBUM [DIRECTORY]",
	Short: "Download an iCloud shared album and print its shortcodes",
	Long: `Downloads every photo of a public iCloud shared album into
DIRECTORY/<token>/ and prints a shortcode for each. ALBUM is the album
token or its share URL. Photos already on disk are not downloaded again.

DIRECTORY defaults to ICLOUD_DIRECTORY (assets/photo). The first path
segment of DIRECTORY is dropped from the shortcode src, so assets/photo
becomes photo/<token>/...`,
	Example: `  photo-shortcode icloud https://www.icloud.com/sharedalbum/#B0NJtdOXm9LvzZ
  photo-shortcode icloud B0NJtdOXm9LvzZ assets/photo -w 1000`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runICloud,
}

func init() {
	rootCmd.AddCommand(icloudCmd)

	icloudCmd.Flags().IntP("width", "w", 0, "Declared thumbnail width (0 for original size)")
	icloudCmd.Flags().Bool("quiet", false, "Hide the progress bar")
}

func runICloud(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	token := importer.AlbumToken(args[0])
	dir := cfg.ICloud.Directory
	if len(args) == 2 {
		dir = args[1]
	}

	opts := importer.ImportOptions{
		Directory: dir,
		Width:     mustGetInt(cmd, "width"),
	}
	if !mustGetBool(cmd, "quiet") {
		opts.Progress = os.Stderr
	}

	client := importer.NewICloudClient(&http.Client{Timeout: 5 * time.Minute})
	photos, err := client.Import(context.Background(), token, opts)
	if err != nil {
		return fmt.Errorf("failed to import album %s: %w", token, err)
	}

	fmt.Fprintln(os.Stderr)
	fmt.Print("Shortcodes for the imported images:\n---\n")
	fmt.Println(shortcode.JoinPhotos(photos))
	return nil
}
