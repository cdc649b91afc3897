package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/kozaktomas/photo-shortcode/internal/menu"
	"github.com/spf13/cobra"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "List the context menu items",
	Args:  cobra.NoArgs,
	RunE:  runMenu,
}

func init() {
	rootCmd.AddCommand(menuCmd)
}

func runMenu(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tCONTEXTS\tREGISTERED")
	fmt.Fprintln(w, "--\t-----\t--------\t----------")
	for _, item := range menu.All() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%t\n", item.ID, item.Title, strings.Join(item.Contexts, ","), item.Registered)
	}
	return w.Flush()
}
