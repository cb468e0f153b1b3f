package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/spf13/cobra"
)

var (
	fetchOutputDir string
	fetchListOnly  bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [dataset-id...]",
	Short: "Download DIF documents from the PO.DAAC web services",
	Long: `Search PO.DAAC for datasets and download the GCMD DIF document of each.

With no dataset ids every dataset returned by the search is fetched. Each
document is written to <output>/<dataset-id>.xml.

Examples:
  eskg fetch -o metadata/
  eskg fetch PODAAC-GHMG2-2PO01 -o metadata/
  eskg fetch --list`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().StringVar(&configFile, "config", "", "Configuration file (YAML)")
	fetchCmd.Flags().StringVarP(&fetchOutputDir, "output", "o", ".", "Directory to write documents to")
	fetchCmd.Flags().BoolVar(&fetchListOnly, "list", false, "Only list dataset ids")
	fetchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "Documents fetched in parallel")
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func runFetch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if fetchListOnly {
		ids := args
		if len(ids) == 0 {
			ids, err = newAcquireClient(cfg).SearchDatasetIDs(ctx)
			if err != nil {
				return err
			}
		}
		for _, id := range ids {
			fmt.Fprintln(cmd.OutOrStdout(), id)
		}
		return nil
	}

	docs, err := fetchDocuments(ctx, cfg, args)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(fetchOutputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	for _, doc := range docs {
		path := filepath.Join(fetchOutputDir, unsafeFileChars.ReplaceAllString(doc.Source, "_")+".xml")
		if err := os.WriteFile(path, doc.Data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "fetched %d documents into %s\n", len(docs), fetchOutputDir)
	return nil
}
