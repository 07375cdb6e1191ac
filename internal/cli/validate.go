package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rohmanhakim/list-crawler/internal/recipe"
)

var validateCmd = &cobra.Command{
	Use:   "validate <recipe.yaml>",
	Short: "Check a recipe without crawling",
	Long: `Validate loads a recipe the same way crawl does, reports structural
errors (missing fields, unknown pagination type), and prints non-fatal
warnings such as suspicious limits or an empty url_template range.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		rec, err := recipe.Load(args[0])
		if err != nil {
			return fmt.Errorf("recipe is invalid: %w", err)
		}

		warnings := rec.Validate()
		for _, warning := range warnings {
			fmt.Printf("warning: %s\n", warning)
		}

		fmt.Printf("Recipe OK: %d start URL(s)", len(rec.StartURLs))
		if rec.Pagination != nil {
			fmt.Printf(", pagination %q", rec.Pagination.Type)
		}
		fmt.Println()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
