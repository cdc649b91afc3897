package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/PuerkitoBio/goquery"
	"github.com/kozaktomas/photo-shortcode/internal/gallery"
	"github.com/spf13/cobra"
)

var galleryCmd = &cobra.Command{
	Use:   "gallery",
	Short: "Gallery page helpers",
}

var galleryRewriteCmd = &cobra.Command{
	Use:   "rewrite FILE",
	Short: "Apply gallery sizing to a saved HTML page",
	Long: `Sets the --width and --height custom properties on every gallery anchor,
resizes "a.photo" links (and with --image-class, img.<class> elements) for
the given viewport width, and optionally loads
deferred images by copying data-src into src. FILE may be "-" for stdin.`,
	Example: `  photo-shortcode gallery rewrite public/trip/index.html --viewport 1920 -o out.html`,
	Args:    cobra.ExactArgs(1),
	RunE:    runGalleryRewrite,
}

func init() {
	rootCmd.AddCommand(galleryCmd)
	galleryCmd.AddCommand(galleryRewriteCmd)

	galleryRewriteCmd.Flags().Int("viewport", 0, "Viewport width for link resizing (0 to skip)")
	galleryRewriteCmd.Flags().Bool("load-deferred", false, "Copy data-src into src for deferred images")
	galleryRewriteCmd.Flags().String("image-class", "", "Resize img.<class> elements to the viewport width")
	galleryRewriteCmd.Flags().String("prefix", gallery.DefaultDeferredPrefix, "URL prefix of deferred images")
	galleryRewriteCmd.Flags().StringP("output", "o", "", "Output file (default stdout)")
}

func runGalleryRewrite(cmd *cobra.Command, args []string) error {
	var in io.Reader = os.Stdin
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("could not open page: %w", err)
		}
		defer f.Close()
		in = f
	}

	doc, err := goquery.NewDocumentFromReader(in)
	if err != nil {
		return fmt.Errorf("could not parse page: %w", err)
	}

	res := gallery.RewriteHTML(doc, gallery.RewriteOptions{
		ViewportWidth:  mustGetInt(cmd, "viewport"),
		LoadDeferred:   mustGetBool(cmd, "load-deferred"),
		DeferredPrefix: mustGetString(cmd, "prefix"),
		ImageClass:     mustGetString(cmd, "image-class"),
	})

	html, err := doc.Html()
	if err != nil {
		return fmt.Errorf("could not render page: %w", err)
	}

	out := mustGetString(cmd, "output")
	if out == "" {
		fmt.Print(html)
	} else if err := os.WriteFile(out, []byte(html), 0o644); err != nil {
		return fmt.Errorf("could not write %s: %w", out, err)
	}

	fmt.Fprintf(os.Stderr, "Sized %d gallery images, resized %d links and %d images, loaded %d deferred images\n",
		res.Containers, res.Links, res.Images, res.Loaded)
	return nil
}
