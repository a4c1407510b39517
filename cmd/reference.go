package main

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/neighbourhood-cli/internal/reference"
)

var referenceCmd = &cobra.Command{
	Use:   "reference",
	Short: "Print the active reference tables",
	Long: `Load and validate the reference tables (statistics table codes, reference
period, education levels, crime categories, population areas) and print them as YAML.

Uses --path, then reference.path from configuration, then the embedded tables.`,
	RunE: runReference,
}

func init() {
	referenceCmd.Flags().String("path", "", "reference tables YAML file (default from config, else embedded)")
	rootCmd.AddCommand(referenceCmd)
}

func runReference(cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString("path")
	if path == "" && cfg != nil {
		path = cfg.Reference.Path
	}

	ref, err := reference.Load(path)
	if err != nil {
		return err
	}

	out, err := yaml.Marshal(map[string]*reference.Tables{"reference": ref})
	if err != nil {
		return eris.Wrap(err, "reference: marshal")
	}

	w := cmd.OutOrStdout()
	source := "embedded"
	if path != "" {
		source = path
	}
	fmt.Fprintf(w, "# reference tables %s (%s): %d education levels, %d crime categories, %d population areas\n",
		ref.Version, source, len(ref.Education.Levels), len(ref.Crime.Categories), len(ref.Population.Areas))
	_, err = fmt.Fprint(w, strings.TrimRight(string(out), "\n")+"\n")
	return err
}
