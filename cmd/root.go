package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "photo-shortcode",
	Short: "Generate Hugo photo shortcodes from web albums",
	Long: `Photo Shortcode turns images of a web photo album into Hugo "photo"
shortcodes and copies them to the clipboard. It also runs a local companion
service for the browser extension, imports iCloud shared albums and local
image folders, and rewrites saved gallery pages.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}
