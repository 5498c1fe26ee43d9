// file: cmd/diagnostics.go
// version: 2.0.0
// guid: c8f6a0d4-2a8b-48cf-9d08-02cc9915d9fc

package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jdfalk/bookmeta/internal/config"
	"github.com/jdfalk/bookmeta/internal/idindex"
)

var (
	diagnosticsCmd = &cobra.Command{
		Use:   "diagnostics",
		Short: "Debugging and cleanup helpers",
		Long:  "Diagnostic utilities for inspecting and repairing the persistent ISBN/cover index.",
	}

	queryCmd = &cobra.Command{
		Use:   "query",
		Short: "Inspect stored ISBN mappings",
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			return runDiagnosticsQuery(cmd.OutOrStdout(), limit)
		},
	}

	forgetCmd = &cobra.Command{
		Use:   "forget <isbn>...",
		Short: "Remove ISBN mappings so the next lookup asks the service again",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Flags().GetBool("yes")
			return runForget(cmd.InOrStdin(), cmd.OutOrStdout(), args, force)
		},
	}
)

func init() {
	queryCmd.Flags().Int("limit", 5, "Number of records to display (0 for all)")
	forgetCmd.Flags().Bool("yes", false, "Skip confirmation prompt")

	diagnosticsCmd.AddCommand(queryCmd)
	diagnosticsCmd.AddCommand(forgetCmd)
}

func openDiagnosticsIndex() (*idindex.Store, error) {
	if config.AppConfig.IndexPath == "" {
		return nil, fmt.Errorf("no index configured; pass --index or set index_path")
	}
	return idindex.Open(config.AppConfig.IndexPath)
}

func runDiagnosticsQuery(w io.Writer, limit int) error {
	store, err := openDiagnosticsIndex()
	if err != nil {
		return err
	}
	defer store.Close()

	isbns, covers, err := store.Counts()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Index %s: %d isbn mapping(s), %d cover url(s)\n", config.AppConfig.IndexPath, isbns, covers)

	entries, err := store.Entries(limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(w, "No isbn mappings found.")
		return nil
	}

	for i, e := range entries {
		fmt.Fprintf(w, "%2d. ISBN: %s\n", i+1, e.ISBN)
		fmt.Fprintf(w, "    Biblionet ID: %s\n", e.BiblionetID)
		if u, ok := store.Covers().Get(e.BiblionetID); ok {
			fmt.Fprintf(w, "    Cover: %s\n", truncateString(u, 80))
		}
		fmt.Fprintf(w, "    Indexed: %s\n", e.IndexedAt.Format("2006-01-02 15:04:05"))
		fmt.Fprintln(w, "---")
	}
	return nil
}

func runForget(in io.Reader, w io.Writer, isbns []string, force bool) error {
	store, err := openDiagnosticsIndex()
	if err != nil {
		return err
	}
	defer store.Close()

	if !force {
		confirmed, err := promptYesNo(in, w, fmt.Sprintf("Forget %d isbn mapping(s)", len(isbns)))
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Fprintln(w, "Aborted. Nothing removed.")
			return nil
		}
	}

	removed := 0
	for _, isbn := range isbns {
		if _, ok := store.LookupISBN(isbn); !ok {
			fmt.Fprintf(w, "Not indexed: %s\n", isbn)
			continue
		}
		if err := store.Forget(isbn); err != nil {
			fmt.Fprintf(w, "Failed to forget %s: %v\n", isbn, err)
			continue
		}
		removed++
	}
	fmt.Fprintf(w, "Removed %d isbn mapping(s).\n", removed)
	return nil
}

func promptYesNo(in io.Reader, w io.Writer, action string) (bool, error) {
	fmt.Fprintf(w, "%s? Type 'yes' to confirm: ", action)
	reader := bufio.NewReader(in)
	response, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "yes", nil
}

func truncateString(in string, max int) string {
	if len(in) <= max {
		return in
	}
	return in[:max] + "..."
}
