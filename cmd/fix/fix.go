package fix

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/leefowlercu/mhtmlfix/internal/cmdutil"
	"github.com/leefowlercu/mhtmlfix/internal/config"
	"github.com/leefowlercu/mhtmlfix/internal/fixer"
	"github.com/leefowlercu/mhtmlfix/internal/styles"
)

// Flag variables
var (
	fixOutput string
	fixDomain string
	fixQuiet  bool
	fixDryRun bool
)

// FixCmd repairs the image references of an MHTML archive.
var FixCmd = &cobra.Command{
	Use:   "fix <input.mhtml>",
	Short: "Repair image references in an MHTML archive",
	Long: "Repair image references in an MHTML archive.\n\n" +
		"Every image part with a Content-Location is given a fresh Content-ID, and every " +
		"<img src> in the HTML part that names one of those images is rewritten to a cid: " +
		"reference. All other bytes of the archive are kept as they are.\n\n" +
		"The repaired archive is written next to the input with the configured suffix " +
		"(\"_fixed\" by default) unless --output is given. The input file is never modified.",
	Example: `  # Write page_fixed.mhtml next to page.mhtml
  mhtmlfix fix page.mhtml

  # Choose the output path
  mhtmlfix fix page.mhtml --output repaired.mhtml

  # Report what would change without writing anything
  mhtmlfix fix page.mhtml --dry-run`,
	Args:    cobra.ExactArgs(1),
	PreRunE: validateFix,
	RunE:    runFix,
}

func init() {
	FixCmd.Flags().StringVarP(&fixOutput, "output", "o", "", "Output file (default: input name with the configured suffix)")
	FixCmd.Flags().StringVar(&fixDomain, "domain", "", "Domain used in generated Content-IDs (default: fix.cid_domain)")
	FixCmd.Flags().BoolVarP(&fixQuiet, "quiet", "q", false, "Suppress the summary")
	FixCmd.Flags().BoolVar(&fixDryRun, "dry-run", false, "Repair in memory and print the summary without writing")
}

func validateFix(cmd *cobra.Command, args []string) error {
	if fixDomain != "" {
		cfg := *config.Get()
		cfg.Fix.CIDDomain = fixDomain
		if err := config.Validate(&cfg); err != nil {
			return fmt.Errorf("invalid --domain %q; %w", fixDomain, err)
		}
	}

	cmd.SilenceUsage = true
	return nil
}

func runFix(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	input, err := cmdutil.ResolveFilePath(args[0])
	if err != nil {
		return err
	}

	domain := cfg.Fix.CIDDomain
	if fixDomain != "" {
		domain = fixDomain
	}

	output := fixer.OutputPath(input, cfg.Fix.OutputSuffix)
	if fixOutput != "" {
		if output, err = cmdutil.ResolveFilePath(fixOutput); err != nil {
			return err
		}
	}

	f := fixer.New(
		fixer.WithDomain(domain),
		fixer.WithHyphenPrefix(cfg.Fix.HyphenPrefix),
		fixer.WithLogger(slog.Default().With("component", "fixer", "input", input)),
	)

	var report *fixer.Report
	if fixDryRun {
		raw, err := fixer.ReadInput(input)
		if err != nil {
			return err
		}
		result, err := f.Fix(raw)
		if err != nil {
			return fmt.Errorf("failed to repair %s; %w", input, err)
		}
		report = &result.Report
	} else {
		if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
			return fmt.Errorf("failed to create output directory; %w", err)
		}
		r, err := f.FixFile(input, output)
		if err != nil {
			return fmt.Errorf("failed to repair %s; %w", input, err)
		}
		report = r
	}

	if !fixQuiet {
		out := cmd.OutOrStdout()
		writeSummary(out, styles.For(out), input, output, report, fixDryRun)
	}

	return nil
}

func writeSummary(w io.Writer, p styles.Palette, input, output string, r *fixer.Report, dryRun bool) {
	verb := "Fixed"
	if dryRun {
		verb = "Would fix"
	}
	fmt.Fprintf(w, "%s %s %s -> %s\n",
		p.Success.Render(styles.CheckMark),
		p.Title.Render(verb),
		filepath.Base(input),
		output)

	row := func(label, value string) {
		fmt.Fprintf(w, "  %s %s\n", p.Label.Render(fmt.Sprintf("%-12s", label+":")), value)
	}

	row("Boundary", r.Boundary)
	row("Parts", fmt.Sprintf("%d", r.Parts))

	images := fmt.Sprintf("%d", r.Images)
	if r.Skipped > 0 {
		images += p.Muted.Render(fmt.Sprintf(" (%d without Content-Location)", r.Skipped))
	}
	row("Images", images)
	row("Identifiers", fmt.Sprintf("%d assigned, %d references mapped", len(r.Assignments), r.References))
	row("References", fmt.Sprintf("%d of %d <img> rewritten", r.Markup.Rewritten, r.Markup.Tags))
	if r.Markup.Encoding != "" {
		row("Encoding", r.Markup.Encoding)
	}
	if !r.Changed() {
		row("Result", p.Muted.Render("archive unchanged"))
	}

	warnings := r.Warnings()
	if len(warnings) == 0 {
		return
	}
	fmt.Fprintf(w, "%s %s\n",
		p.Warning.Render(styles.WarnMark),
		p.Warning.Render(fmt.Sprintf("%d warning(s)", len(warnings))))
	for _, rec := range warnings {
		fmt.Fprintf(w, "  %s %s\n", p.Muted.Render(styles.Bullet), rec.String())
	}
}
