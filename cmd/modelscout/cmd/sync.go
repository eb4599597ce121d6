package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/modelscout/modelscout/pkg/sources"
	pkgsync "github.com/modelscout/modelscout/pkg/sync"
)

var (
	syncSources   []string
	syncFuzzy     bool
	syncBlockNSFW bool
	syncLLMSafety bool
	syncTranslate bool
	syncLanguage  string
	syncDiscover  bool
	syncTimeout   time.Duration
	syncDryRun    bool
	syncYes       bool
)

// syncCmd represents the sync command.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Fetch and reconcile models from all enabled sources",
	Long: `Sync fetches the current model lists from the enabled sources
concurrently, screens them for safety, optionally translates CJK metadata
and discovers missing models, then merges everything into one deduplicated
catalog.`,
	Example: `  modelscout sync
  modelscout sync --sources huggingface,replicate
  modelscout sync --block-nsfw --llm-safety
  modelscout sync --discover --timeout 5m
  modelscout sync --dry-run`,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)

	syncCmd.Flags().StringSliceVar(&syncSources, "sources", nil, "Sources to sync (default: all registered)")
	syncCmd.Flags().BoolVar(&syncFuzzy, "fuzzy", true, "Merge duplicates across sources by normalized name")
	syncCmd.Flags().BoolVar(&syncBlockNSFW, "block-nsfw", false, "Quarantine flagged records instead of tagging them")
	syncCmd.Flags().BoolVar(&syncLLMSafety, "llm-safety", false, "Confirm keyword flags with an LLM classification pass")
	syncCmd.Flags().BoolVar(&syncTranslate, "translate", true, "Translate CJK names and descriptions")
	syncCmd.Flags().StringVar(&syncLanguage, "language", "", "Translation target language (default English)")
	syncCmd.Flags().BoolVar(&syncDiscover, "discover", false, "Discover models the sources missed")
	syncCmd.Flags().DurationVar(&syncTimeout, "timeout", 0, "Timeout for the entire sync (0 means none)")
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "Reconcile without committing the result")
	syncCmd.Flags().BoolVarP(&syncYes, "yes", "y", false, "Run LLM safety classification without prompting")
}

// confirmClassification prompts before the LLM classification pass, which
// costs one completion per batch. --yes approves without asking.
func confirmClassification(batches int, estimated time.Duration) bool {
	if syncYes {
		return true
	}
	fmt.Printf("LLM safety classification will run %d batch(es), roughly %s. Proceed? (y/N): ",
		batches, estimated.Round(time.Second))
	var answer string
	fmt.Scanln(&answer)
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func runSync(cmd *cobra.Command, _ []string) error {
	client, err := newClient()
	if err != nil {
		return fmt.Errorf("creating client: %w", err)
	}
	defer client.Close()

	opts := []pkgsync.Option{
		pkgsync.WithFuzzyMatching(syncFuzzy),
		pkgsync.WithTranslation(syncTranslate, syncLanguage),
		pkgsync.WithGeminiAPIKey(viper.GetString("gemini_api_key")),
		pkgsync.WithOllamaURL(viper.GetString("ollama_url")),
		pkgsync.WithEvents(&pkgsync.Events{
			Progress: func(current, total int, active []string) {
				if len(active) > 0 {
					fmt.Printf("[%d/%d] waiting on %s\n", current, total, strings.Join(active, ", "))
					return
				}
				fmt.Printf("[%d/%d] all sources complete\n", current, total)
			},
			Log: func(message string) {
				fmt.Println(message)
			},
			ConfirmClassification: confirmClassification,
		}),
	}
	if len(syncSources) > 0 {
		ids := make([]sources.ID, len(syncSources))
		for i, s := range syncSources {
			ids[i] = sources.ID(strings.ToLower(strings.TrimSpace(s)))
		}
		opts = append(opts, pkgsync.WithSources(ids...))
	}
	if syncBlockNSFW {
		opts = append(opts, pkgsync.WithBlockNSFW())
	}
	if syncLLMSafety {
		opts = append(opts, pkgsync.WithLLMSafety())
	}
	if syncDiscover {
		opts = append(opts, pkgsync.WithDiscovery())
	}
	if syncTimeout > 0 {
		opts = append(opts, pkgsync.WithTimeout(syncTimeout))
	}
	if syncDryRun {
		opts = append(opts, pkgsync.WithDryRun())
	}

	result, err := client.Sync(cmd.Context(), opts...)
	if err != nil {
		return fmt.Errorf("sync: %w", err)
	}

	fmt.Println(result.Summary())
	for id, sr := range result.SourceResults {
		if sr.Err != nil {
			fmt.Printf("  %s: failed (%v)\n", id, sr.Err)
			continue
		}
		fmt.Printf("  %s: %d fetched, %d flagged\n", id, sr.Fetched, sr.Flagged)
	}
	return nil
}
