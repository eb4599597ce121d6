package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/modelscout/modelscout/pkg/catalogs"
	"github.com/modelscout/modelscout/pkg/errors"
	pkgsync "github.com/modelscout/modelscout/pkg/sync"
)

var listDomain string

// listCmd represents the list command.
var listCmd = &cobra.Command{
	Use:   "list [file]",
	Short: "List catalog models",
	Long: `List prints the models in a catalog payload. With a file argument it
lists the file's records; without one it performs a dry-run sync against the
enabled sources and lists the reconciled result.`,
	Example: `  modelscout list catalog.yaml
  modelscout list --domain image-generation
  modelscout list`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVar(&listDomain, "domain", "", "Only list models in this domain")
}

func runList(cmd *cobra.Command, args []string) error {
	var models []catalogs.Model

	if len(args) == 1 {
		path := args[0]
		data, err := os.ReadFile(path) //nolint:gosec // user-supplied path is the point
		if err != nil {
			return errors.WrapIO("read", path, err)
		}
		models, err = decodeModels(path, data)
		if err != nil {
			return err
		}
	} else {
		client, err := newClient()
		if err != nil {
			return fmt.Errorf("creating client: %w", err)
		}
		defer client.Close()

		result, err := client.Sync(cmd.Context(),
			pkgsync.WithDryRun(),
			pkgsync.WithGeminiAPIKey(viper.GetString("gemini_api_key")),
			pkgsync.WithOllamaURL(viper.GetString("ollama_url")),
		)
		if err != nil {
			return fmt.Errorf("sync: %w", err)
		}
		models = result.Models
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPROVIDER\tDOMAIN\tSOURCE")
	count := 0
	for _, m := range models {
		if listDomain != "" && m.Domain.String() != listDomain {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", m.ID, m.Name, m.Provider, m.Domain, m.Source)
		count++
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\n%d models\n", count)
	return nil
}
