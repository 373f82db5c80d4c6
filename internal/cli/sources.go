package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rmaksimov/founderscout/internal/model"
)

// sourcesCmd represents the sources command
var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Manage source configuration files",
}

var sourcesInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write an example sources file",
	Long: `Create an annotated example sources file to start from. The file
describes one source per entry: fetch mode, locator strategies tried in
order, and the keyword tables that classify entry text.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "sources.yaml"
		if len(args) == 1 {
			path = args[0]
		}

		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("file already exists: %s", path)
		}

		example := exampleSources()
		yamlData, err := yaml.Marshal(example)
		if err != nil {
			return fmt.Errorf("marshal example: %w", err)
		}

		header := "# founderscout sources file\n" +
			"#\n" +
			"# Each source is one directory page. Strategies are tried in order;\n" +
			"# the first that finds entries wins. With no strategies (or none\n" +
			"# matching) the whole page text is scanned line by line.\n" +
			"#\n" +
			"# mode: static (plain HTTP) or rendered (headless browser)\n\n"

		if err := os.WriteFile(path, append([]byte(header), yamlData...), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}

		fmt.Printf("Created example sources file: %s\n", path)
		fmt.Printf("\nEdit it, then run:\n  founderscout run --sources %s\n", path)
		return nil
	},
}

var sourcesCheckCmd = &cobra.Command{
	Use:   "check <path>",
	Short: "Validate a sources file without fetching anything",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sf, err := model.LoadSources(args[0])
		if err != nil {
			return err
		}

		for _, src := range sf.Sources {
			fmt.Printf("  %-20s %s (%s, %d strategies)\n", src.Label, src.URL, src.Mode, len(src.Strategies))
		}
		fmt.Printf("\n%d sources, %d region keywords: OK\n", len(sf.Sources), len(sf.RegionKeywords))
		return nil
	},
}

// exampleSources is the template written by sources init
func exampleSources() *model.SourceFile {
	return &model.SourceFile{
		Sources: []model.Source{
			{
				Label: "velocity",
				URL:   "https://velocityincubator.com/companies/",
				Mode:  model.ModeRendered,
				Strategies: []model.Strategy{
					{Kind: model.StrategySelector, Value: "div.company-card"},
					{Kind: model.StrategyClassPattern, Value: "portfolio|company"},
					{Kind: model.StrategyMarker, Value: "visit company"},
				},
				PlaceKeywords: []string{"waterloo", "kitchener", "cambridge", "guelph"},
				FollowDetails: true,
				MaxDetails:    25,
			},
			{
				Label:         "communitech",
				URL:           "https://www.communitech.ca/member-directory",
				Mode:          model.ModeStatic,
				Strategies:    []model.Strategy{{Kind: model.StrategySelector, Value: "li.member"}},
				PlaceKeywords: []string{"waterloo", "kitchener"},
			},
		},
		RegionKeywords: []string{"waterloo", "kitchener", "cambridge", "guelph"},
	}
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
	sourcesCmd.AddCommand(sourcesInitCmd)
	sourcesCmd.AddCommand(sourcesCheckCmd)
}
