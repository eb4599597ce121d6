package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/modelscout/modelscout/pkg/catalogs"
	"github.com/modelscout/modelscout/pkg/errors"
)

var (
	importSource    string
	importAutoMerge bool
)

// importCmd represents the import command.
var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import models from a YAML or JSON file",
	Long: `Import reads model records from a YAML or JSON payload, normalizes
them (namespaced IDs, trimmed fields), and merges them into the catalog.`,
	Example: `  modelscout import models.yaml
  modelscout import --source archive --auto-merge backup.json`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVar(&importSource, "source", "import", "Source name for namespacing imported IDs")
	importCmd.Flags().BoolVar(&importAutoMerge, "auto-merge", false, "Merge records that duplicate existing models by name")
}

func runImport(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path) //nolint:gosec // user-supplied path is the point
	if err != nil {
		return errors.WrapIO("read", path, err)
	}

	records, err := decodeModels(path, data)
	if err != nil {
		return err
	}

	client, err := newClient()
	if err != nil {
		return fmt.Errorf("creating client: %w", err)
	}
	defer client.Close()

	result, err := client.Import(cmd.Context(), importSource, records, importAutoMerge)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}

	fmt.Printf("Imported %d records: %d added, %d updated (%d total)\n",
		len(records), result.Added, result.Updated, result.Total)
	return nil
}

// decodeModels parses the payload by file extension, defaulting to YAML.
func decodeModels(path string, data []byte) ([]catalogs.Model, error) {
	var records []catalogs.Model

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, errors.WrapParse("json", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, &records); err != nil {
			return nil, errors.WrapParse("yaml", path, err)
		}
	}
	return records, nil
}
