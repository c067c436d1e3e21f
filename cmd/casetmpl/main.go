package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ormasoftchile/casetmpl/pkg/dates"
	"github.com/ormasoftchile/casetmpl/pkg/render"
	"github.com/ormasoftchile/casetmpl/pkg/schema"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "casetmpl",
	Short: "Case template resolution engine",
	Long:  "casetmpl — resolves {{key}} placeholders in case content against layered case, stage, step, and settings data.",
}

// --- render ---

var (
	renderCase     string
	renderSettings string
	renderLibrary  string
	renderStage    string
	renderStep     string
	renderText     string
	renderFields   []string
	renderVerbose  bool
)

var renderCmd = &cobra.Command{
	Use:   "render [template.txt]",
	Short: "Resolve placeholders in a template against a case context",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRender,
}

func runRender(cmd *cobra.Command, args []string) error {
	text := renderText
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read template: %w", err)
		}
		text = string(data)
	}
	if text == "" {
		return fmt.Errorf("nothing to render: pass a template file or --text")
	}

	c, err := schema.LoadCaseFile(renderCase)
	if err != nil {
		return err
	}
	// Tier is computed once at load time and stored on the record.
	schema.EnsureTier(c, renderFields)

	var settings *schema.Settings
	if renderSettings != "" {
		settings, err = schema.LoadSettingsFile(renderSettings)
		if err != nil {
			return err
		}
	}

	lib := schema.Library{}
	if renderLibrary != "" {
		lf, err := schema.LoadLibraryFile(renderLibrary)
		if err != nil {
			return err
		}
		lib, err = schema.NewLibrary(lf.Entries)
		if err != nil {
			return err
		}
	}

	snap := schema.NewSnapshot(c, settings)
	if renderStage != "" {
		snap.ActiveStageID = renderStage
	}
	if renderStep != "" {
		snap.ActiveStepRef = renderStep
	}

	log := zap.NewNop()
	if renderVerbose {
		log, err = zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		defer log.Sync()
	}

	engine := render.New(lib,
		render.WithHolidayFunc(dates.JapaneseHolidays),
		render.WithTierScanFields(renderFields),
		render.WithLogger(log),
	)
	fmt.Print(engine.Resolve(text, snap))
	return nil
}

// --- validate ---

var validateLibrary bool

var validateCmd = &cobra.Command{
	Use:   "validate [file.yaml]",
	Short: "Validate a case or library YAML file against the schema",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	var errs []*schema.ValidationError
	if validateLibrary {
		_, errs = schema.ValidateLibraryFile(args[0])
	} else {
		_, errs = schema.ValidateCaseFile(args[0])
	}

	var errors, warnings []*schema.ValidationError
	for _, e := range errs {
		if e.Severity == "warning" {
			warnings = append(warnings, e)
		} else {
			errors = append(errors, e)
		}
	}
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "  ⚠ [%s] %s\n", w.Phase, w.Message)
		if w.Path != "" {
			fmt.Fprintf(os.Stderr, "    at: %s\n", w.Path)
		}
	}
	if len(errors) > 0 {
		fmt.Fprintf(os.Stderr, "Validation failed: %d error(s)\n\n", len(errors))
		for i, e := range errors {
			fmt.Fprintf(os.Stderr, "  %d. [%s] %s\n", i+1, e.Phase, e.Message)
			if e.Path != "" {
				fmt.Fprintf(os.Stderr, "     at: %s\n", e.Path)
			}
		}
		return fmt.Errorf("%d validation error(s)", len(errors))
	}
	fmt.Println("✓ valid")
	return nil
}

// --- tier ---

var tierFields []string

var tierCmd = &cobra.Command{
	Use:   "tier [case.yaml]",
	Short: "Report the computed tier flag for a case",
	Args:  cobra.ExactArgs(1),
	RunE:  runTier,
}

func runTier(cmd *cobra.Command, args []string) error {
	c, err := schema.LoadCaseFile(args[0])
	if err != nil {
		return err
	}
	if c.Tier != "" {
		fmt.Printf("%s (stored)\n", c.Tier)
		return nil
	}
	fields := tierFields
	if len(fields) == 0 {
		fields = schema.DefaultTierScanFields
	}
	fmt.Printf("%s (scanned: %s)\n", schema.ComputeTier(c, fields), strings.Join(fields, ", "))
	return nil
}

func init() {
	renderCmd.Flags().StringVar(&renderCase, "case", "", "case YAML file (required)")
	renderCmd.Flags().StringVar(&renderSettings, "settings", "", "settings YAML file")
	renderCmd.Flags().StringVar(&renderLibrary, "library", "", "library YAML file")
	renderCmd.Flags().StringVar(&renderStage, "stage", "", "active stage id (default: first stage)")
	renderCmd.Flags().StringVar(&renderStep, "step", "", "active step ref (step-<n>, llm, confirm, reply)")
	renderCmd.Flags().StringVar(&renderText, "text", "", "template text (alternative to a template file)")
	renderCmd.Flags().StringSliceVar(&renderFields, "tier-fields", nil, "fields scanned for tier classification")
	renderCmd.Flags().BoolVarP(&renderVerbose, "verbose", "v", false, "log resolution diagnostics")
	renderCmd.MarkFlagRequired("case")

	validateCmd.Flags().BoolVar(&validateLibrary, "library", false, "validate as a library file")

	tierCmd.Flags().StringSliceVar(&tierFields, "fields", nil, "fields scanned for tier classification")

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(tierCmd)
}
