package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/kozaktomas/photo-shortcode/internal/scanner"
	"github.com/spf13/cobra"
)

var scanCmd = &cobra.Command{
	Use:   "scan PAGE",
	Short: "List the images found on an album page",
	Long:  `Lists every image of an album page with its caption and original size.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().Bool("json", false, "Output as JSON")
}

func runScan(cmd *cobra.Command, args []string) error {
	doc, err := loadPage(context.Background(), args[0])
	if err != nil {
		return err
	}

	images, err := doc.FindAll()
	if errors.Is(err, scanner.ErrNotFound) {
		fmt.Println("No images found.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to scan page: %w", err)
	}

	if mustGetBool(cmd, "json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(images)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SIZE\tCAPTION\tSRC")
	fmt.Fprintln(w, "----\t-------\t---")

	for _, img := range images {
		fmt.Fprintf(w, "%dx%d\t%s\t%s\n", img.Width, img.Height, img.Label, img.Src)
	}

	w.Flush()

	fmt.Printf("\nTotal: %d images\n", len(images))

	return nil
}
