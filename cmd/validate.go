package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bwilly/SuperSliceETL/internal/csvparser"
	"github.com/bwilly/SuperSliceETL/internal/parsers"
	"github.com/bwilly/SuperSliceETL/internal/platform"
	"github.com/bwilly/SuperSliceETL/internal/xlsxparser"
	"github.com/spf13/cobra"
)

var validateFile string

// validateCmd checks configuration and, optionally, one file's headers.
// Nothing is written to the database or moved.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration and an export's headers",
	Long: `Validate loads the configuration and builds every platform parser.

With --file, the file is also classified and its header row is checked against
the platform's header contract, exactly as process would, without writing or
moving anything.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		factory := parsers.NewFactory(cfg.Platforms)
		for _, p := range platform.All {
			if _, err := factory.For(p, platform.Trax); err != nil {
				return fmt.Errorf("%s: %w", p, err)
			}
		}
		fmt.Printf("✓ Configuration %s is valid\n", cfgFile)

		if validateFile == "" {
			return nil
		}
		return validateExport(factory, validateFile)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringVar(&validateFile, "file", "", "Export file to check")
}

// validateExport classifies path and checks its headers.
func validateExport(factory *parsers.Factory, path string) error {
	patterns, err := platform.CompilePatterns(cfg.FileTypeRegexes.Trax, cfg.FileTypeRegexes.Itemz)
	if err != nil {
		return err
	}

	p, kind, err := platform.Classify(path, patterns)
	if err != nil {
		return err
	}

	parser, err := factory.For(p, kind)
	if err != nil {
		return err
	}

	headers, err := readHeaders(path, parser.Stream())
	if err != nil {
		return err
	}

	if err := parser.Contract().Check(headers); err != nil {
		fmt.Printf("✗ %s [%s %s]: %v\n", filepath.Base(path), p, kind, err)
		return err
	}

	fmt.Printf("✓ %s [%s %s]: %d column(s), header contract satisfied\n", filepath.Base(path), p, kind, len(headers))
	return nil
}

func readHeaders(path string, settings parsers.StreamSettings) ([]string, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		src, err := xlsxparser.NewStreamingParser(path, xlsxparser.Settings{Sheet: settings.Sheet})
		if err != nil {
			return nil, err
		}
		defer src.Close()
		return src.Headers(), nil
	}

	src, err := csvparser.NewStreamingParser(path, csvparser.Settings{Delimiter: settings.Delimiter})
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return src.Headers(), nil
}
