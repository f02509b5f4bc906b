package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/gubarz/flashparse/internal/config"
	"github.com/gubarz/flashparse/internal/exporter"
	"github.com/gubarz/flashparse/internal/logging"
	"github.com/gubarz/flashparse/internal/parser"
	"github.com/gubarz/flashparse/internal/source"
	"github.com/gubarz/flashparse/internal/ui"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "0.1.0"

// errCheckFailed makes check and --strict exit non-zero after the report is printed
var errCheckFailed = errors.New("document has problems")

var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Report parse errors without producing output",
	Long: `Parses the document and prints one line per problem followed by a summary.

Exits non-zero when any block was rejected or nothing could be recovered.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

var templateCmd = &cobra.Command{
	Use:       "template [card|mcq|deck]",
	Short:     "Print a starter document in the structured format",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"card", "mcq", "deck"},
	RunE:      runTemplate,
}

var rootCmd = &cobra.Command{
	Use:   "flashparse [file]",
	Short: "Parse study notes into flashcards and multiple-choice questions",
	Long: `Turns @CARD / @MCQ documents, or loosely formatted notes, into flashcards.

Reads the file argument, or stdin when it is omitted or "-". Documents with
@CARD, @MCQ or #DECK markers use the structured format; anything else goes
through the heuristics (Q/A labels, numbered choices, delimiters, alternating lines).`,
	Args:         cobra.MaximumNArgs(1),
	RunE:         runParse,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(checkCmd, templateCmd)

	rootCmd.PersistentFlags().StringP("mode", "m", "", "Parse mode: auto, structured, heuristic")
	rootCmd.PersistentFlags().String("locale", "", "Language of error messages (vi, en)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Debug logging to stderr")

	rootCmd.Flags().StringP("output", "o", "", "Output mode: print, json, yaml, copy")
	rootCmd.Flags().Bool("print", false, "Print structured text (shorthand for -o print)")
	rootCmd.Flags().Bool("json", false, "Print JSON (shorthand for -o json)")
	rootCmd.Flags().Bool("yaml", false, "Print YAML (shorthand for -o yaml)")
	rootCmd.Flags().Bool("copy", false, "Copy structured text (shorthand for -o copy)")
	rootCmd.Flags().BoolP("preview", "p", false, "Review the result before output")
	rootCmd.Flags().Bool("strict", false, "Exit non-zero when any block was rejected")
	rootCmd.Flags().BoolP("benchmark", "b", false, "Benchmark parse time and exit")

	bindFlags()
}

// bindFlags lets flags override config; it has to run again after viper.Reset
func bindFlags() {
	viper.BindPFlag("mode", rootCmd.PersistentFlags().Lookup("mode"))
	viper.BindPFlag("locale", rootCmd.PersistentFlags().Lookup("locale"))
	viper.BindPFlag("output", rootCmd.Flags().Lookup("output"))
	viper.BindPFlag("preview", rootCmd.Flags().Lookup("preview"))
	viper.BindPFlag("strict", rootCmd.Flags().Lookup("strict"))
}

func initConfig() {
	if err := config.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
	}
}

// applyFlags folds the output shorthands and --verbose into config
func applyFlags(cmd *cobra.Command) {
	if p, _ := cmd.Flags().GetBool("print"); p {
		config.SetOutput("print")
	} else if j, _ := cmd.Flags().GetBool("json"); j {
		config.SetOutput("json")
	} else if y, _ := cmd.Flags().GetBool("yaml"); y {
		config.SetOutput("yaml")
	} else if c, _ := cmd.Flags().GetBool("copy"); c {
		config.SetOutput("copy")
	}

	if v, _ := cmd.Flags().GetBool("verbose"); v {
		config.SetLogLevel("debug")
	}
}

// loadAndParse is shared by the root and check commands
func loadAndParse(cmd *cobra.Command, args []string, log zerolog.Logger) (parser.Result, time.Duration, error) {
	if err := config.Validate(); err != nil {
		return parser.Result{}, 0, err
	}

	path := ""
	if len(args) > 0 {
		path = args[0]
	}

	doc, err := source.Load(path, cmd.InOrStdin(), config.GetMaxInputBytes())
	if err != nil {
		return parser.Result{}, 0, err
	}
	log.Debug().Str("source", doc.Name).Int("bytes", doc.Size).Msg("loaded input")

	mode, err := parser.ParseMode(config.GetMode())
	if err != nil {
		return parser.Result{}, 0, err
	}

	p := parser.NewParser(
		parser.WithLocale(config.GetLocale()),
		parser.WithLogger(log),
	)

	start := time.Now()
	result, err := p.Parse(doc.Text, mode)
	elapsed := time.Since(start)
	if err != nil {
		return parser.Result{}, 0, err
	}

	log.Info().
		Str("mode", string(mode)).
		Int("cards", len(result.Cards)).
		Int("mcqs", len(result.MCQs)).
		Int("errors", len(result.Errors)).
		Dur("elapsed", elapsed).
		Msg("parsed document")

	return result, elapsed, nil
}

func runParse(cmd *cobra.Command, args []string) error {
	applyFlags(cmd)
	log := logging.New(config.GetLogLevel(), cmd.ErrOrStderr())

	result, elapsed, err := loadAndParse(cmd, args, log)
	if err != nil {
		return err
	}

	if benchmark, _ := cmd.Flags().GetBool("benchmark"); benchmark {
		writeBenchmark(cmd.OutOrStdout(), result, elapsed)
		return nil
	}

	// Problems go to stderr so stdout stays machine-readable
	if result.HasErrors() {
		if err := exporter.WriteReport(cmd.ErrOrStderr(), result); err != nil {
			return err
		}
	}

	if config.GetPreview() {
		accepted, err := ui.RunPreview(result)
		if err != nil {
			return fmt.Errorf("preview: %w", err)
		}
		if !accepted {
			log.Debug().Msg("preview cancelled")
			return nil
		}
	}

	mode, err := exporter.ParseOutputMode(config.GetOutput())
	if err != nil {
		return err
	}
	exp := exporter.NewExporter(cmd.OutOrStdout()).WithLogger(log)
	if err := exp.Output(result, mode); err != nil {
		return err
	}

	if config.GetStrict() && result.HasErrors() {
		return fmt.Errorf("%w: %d errors", errCheckFailed, len(result.Errors))
	}
	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	applyFlags(cmd)
	log := logging.New(config.GetLogLevel(), cmd.ErrOrStderr())

	result, _, err := loadAndParse(cmd, args, log)
	if err != nil {
		return err
	}

	if err := exporter.WriteReport(cmd.OutOrStdout(), result); err != nil {
		return err
	}
	if result.HasErrors() || result.Empty() {
		return errCheckFailed
	}
	return nil
}

func writeBenchmark(w io.Writer, result parser.Result, elapsed time.Duration) {
	// Force GC and get memory stats
	runtime.GC()
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	fmt.Fprintf(w, "Parsed %d cards, %d mcqs, %d errors in %v\n",
		len(result.Cards), len(result.MCQs), len(result.Errors), elapsed)
	fmt.Fprintf(w, "Memory: Alloc=%dMB, TotalAlloc=%dMB, Sys=%dMB, HeapObjects=%d\n",
		m.Alloc/1024/1024, m.TotalAlloc/1024/1024, m.Sys/1024/1024, m.HeapObjects)
}

func main() {
	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
