// file: cmd/lookup.go
// version: 1.0.0
// guid: 0a1b2c3d-4e5f-4a6b-8c7d-9e0f1a2b3c4d

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/jdfalk/bookmeta/internal/batch"
	"github.com/jdfalk/bookmeta/internal/logger"
	"github.com/jdfalk/bookmeta/internal/metadata"
)

var errNoMatch = errors.New("no matching record")

// identifyCmd represents the identify command
var identifyCmd = &cobra.Command{
	Use:   "identify",
	Short: "Look up metadata for a book",
	Long: `Look up metadata by ISBN and print the matching records as JSON,
best match first. Title and author only help rank the results; an ISBN
is required for a lookup to happen.`,
	Example: `  bookmeta identify --isbn 9789600000001
  bookmeta identify --isbn 960-03-1234-5 --title "Ο Καπετάν Μιχάλης"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := searchRequestFromFlags(cmd)
		if err != nil {
			return err
		}
		h, err := openSource(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer h.Close()

		if len(h.source.Candidates(req)) == 0 {
			return fmt.Errorf("an --isbn is required for identify")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		ol := logger.NewOperationLogger(h.log, "identify", "")
		ol.SetResourceID(req.Identifiers.Map()[metadata.SchemeISBN])
		ol.LogStart()

		records := h.source.IdentifyRanked(ctx, req)
		if err := ctx.Err(); err != nil {
			ol.LogError(err)
			return err
		}
		ol.LogSuccess(len(records))
		if len(records) == 0 {
			return errNoMatch
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	},
}

// coverCmd represents the cover command
var coverCmd = &cobra.Command{
	Use:   "cover",
	Short: "Download the cover image for a book",
	Example: `  bookmeta cover --biblionet 123 -o cover.jpg
  bookmeta cover --isbn 9789600000001 > cover.jpg`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := searchRequestFromFlags(cmd)
		if err != nil {
			return err
		}
		if len(req.Identifiers) == 0 {
			return fmt.Errorf("--isbn or --biblionet is required for cover")
		}
		h, err := openSource(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer h.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		out := make(chan metadata.Cover, 1)
		if err := h.source.DownloadCover(ctx, req, out); err != nil {
			return err
		}
		var cov metadata.Cover
		select {
		case cov = <-out:
		default:
			return fmt.Errorf("no cover found")
		}

		path, _ := cmd.Flags().GetString("output")
		if path == "" || path == "-" {
			_, err := cmd.OutOrStdout().Write(cov.Data)
			return err
		}
		if err := os.WriteFile(path, cov.Data, 0o644); err != nil {
			return fmt.Errorf("failed to write cover: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Saved %s cover (%d bytes) from %s to %s\n",
			http.DetectContentType(cov.Data), len(cov.Data), cov.URL, path)
		return nil
	},
}

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch [file]",
	Short: "Identify every ISBN in a file",
	Long: `Identify every ISBN listed in a file (one per line, "#" starts a
comment; "-" or no argument reads stdin) and write one JSON result per
line.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var in io.Reader = cmd.InOrStdin()
		if len(args) == 1 && args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open isbn list: %w", err)
			}
			defer f.Close()
			in = f
		}
		isbns, err := batch.ReadISBNs(in)
		if err != nil {
			return err
		}
		if len(isbns) == 0 {
			return fmt.Errorf("no isbns to look up")
		}

		h, err := openSource(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer h.Close()

		workers, _ := cmd.Flags().GetInt("workers")
		quiet, _ := cmd.Flags().GetBool("quiet")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var bar *progressbar.ProgressBar
		if !quiet {
			bar = progressbar.NewOptions(len(isbns),
				progressbar.OptionSetWriter(cmd.ErrOrStderr()),
				progressbar.OptionSetDescription("identifying"),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		failed := 0
		var writeErr error
		_, runErr := batch.Run(ctx, h.source, isbns, workers, func(r batch.Result) {
			if r.Error != "" {
				failed++
			}
			if err := enc.Encode(r); err != nil && writeErr == nil {
				writeErr = err
			}
			if bar != nil {
				_ = bar.Add(1)
			}
		})
		if bar != nil {
			_ = bar.Finish()
		}
		if runErr != nil {
			return runErr
		}
		if writeErr != nil {
			return fmt.Errorf("failed to write results: %w", writeErr)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Identified %d of %d isbn(s)\n", len(isbns)-failed, len(isbns))
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{identifyCmd, coverCmd} {
		c.Flags().String("isbn", "", "ISBN to look up")
		c.Flags().String("biblionet", "", "Biblionet book id")
		c.Flags().String("title", "", "title hint, used for ranking")
		c.Flags().StringSlice("author", nil, "author hint, used for ranking (repeatable)")
	}
	coverCmd.Flags().StringP("output", "o", "", "write the image to this file instead of stdout")

	batchCmd.Flags().Int("workers", 4, "number of ISBNs looked up concurrently")
	batchCmd.Flags().Bool("quiet", false, "hide the progress bar")
}

// searchRequestFromFlags builds a request; --isbn is listed before
// --biblionet so it ranks first.
func searchRequestFromFlags(cmd *cobra.Command) (metadata.SearchRequest, error) {
	isbn, _ := cmd.Flags().GetString("isbn")
	bid, _ := cmd.Flags().GetString("biblionet")
	title, _ := cmd.Flags().GetString("title")
	authors, _ := cmd.Flags().GetStringSlice("author")

	var ids metadata.Identifiers
	ids = ids.Set(metadata.SchemeISBN, isbn)
	ids = ids.Set(metadata.SchemeBiblionet, bid)
	if len(ids) == 0 && title == "" && len(authors) == 0 {
		return metadata.SearchRequest{}, fmt.Errorf("nothing to look up: pass --isbn, --biblionet, --title or --author")
	}
	return metadata.SearchRequest{Title: title, Authors: authors, Identifiers: ids}, nil
}
