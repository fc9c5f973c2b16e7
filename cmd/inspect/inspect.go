package inspect

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/leefowlercu/mhtmlfix/internal/cmdutil"
	"github.com/leefowlercu/mhtmlfix/internal/filetype"
	"github.com/leefowlercu/mhtmlfix/internal/fixer"
	"github.com/leefowlercu/mhtmlfix/internal/mhtml"
	"github.com/leefowlercu/mhtmlfix/internal/styles"
)

// InspectCmd lists the parts of an MHTML archive.
var InspectCmd = &cobra.Command{
	Use:   "inspect <input.mhtml>",
	Short: "List the parts of an MHTML archive",
	Long: "List the parts of an MHTML archive.\n\n" +
		"Prints the boundary and one row per part with its kind, Content-Type, " +
		"Content-Transfer-Encoding, Content-Location, and Content-ID. Useful for " +
		"checking which images are addressable before and after running fix.\n\n" +
		"Content-IDs that appear on more than one part, or more than once on one " +
		"part, are listed after the table.",
	Example: `  # Show the parts of an archive
  mhtmlfix inspect page.mhtml`,
	Args:    cobra.ExactArgs(1),
	PreRunE: validateInspect,
	RunE:    runInspect,
}

func validateInspect(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	return nil
}

func runInspect(cmd *cobra.Command, args []string) error {
	input, err := cmdutil.ResolveFilePath(args[0])
	if err != nil {
		return err
	}

	raw, err := fixer.ReadInput(input)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	p := styles.For(out)

	if filetype.Detect(input, raw) != filetype.KindMHTML {
		fmt.Fprintln(out, p.Warning.Render("Input does not look like an MHTML archive"))
	}

	archive, err := mhtml.Split(raw)
	if err != nil {
		return fmt.Errorf("failed to parse %s; %w", input, err)
	}

	fmt.Fprintf(out, "%s %s\n", p.Label.Render("Digest:"), p.Muted.Render(filetype.HashBytes(raw)))
	fmt.Fprintf(out, "%s %s\n", p.Label.Render("Boundary:"), archive.Boundary)
	fmt.Fprintf(out, "%s %d (%d images, %d markup)\n\n",
		p.Label.Render("Parts:"), len(archive.Parts), len(archive.Images()), archive.MarkupCount())
	fmt.Fprintln(out, renderParts(archive))

	if dups := duplicateIDs(archive); len(dups) > 0 {
		fmt.Fprintf(out, "\n%s %s\n",
			p.Warning.Render(styles.WarnMark),
			p.Warning.Render("Content-IDs used more than once: "+strings.Join(dups, ", ")))
	}

	return nil
}

// duplicateIDs returns the Content-IDs that appear more than once, counting
// repeated fields within a part, in the order they first appear.
func duplicateIDs(archive *mhtml.Archive) []string {
	seen := make(map[string]int)
	var order []string
	for _, part := range archive.Parts {
		for _, value := range part.Headers.Values(mhtml.HeaderContentID) {
			id := strings.TrimSpace(value)
			if id == "" {
				continue
			}
			if seen[id] == 0 {
				order = append(order, id)
			}
			seen[id]++
		}
	}

	var dups []string
	for _, id := range order {
		if seen[id] > 1 {
			dups = append(dups, id)
		}
	}
	return dups
}

func renderParts(archive *mhtml.Archive) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "Kind", "Content-Type", "Encoding", "Location", "Content-ID"})

	for i, part := range archive.Parts {
		location, _ := part.Headers.Get(mhtml.HeaderContentLocation)
		id, _ := part.Headers.Get(mhtml.HeaderContentID)
		tw.AppendRow(table.Row{
			strconv.Itoa(i),
			part.Kind.String(),
			part.ContentType(),
			part.TransferEncoding(),
			location,
			id,
		})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 5, WidthMax: 60},
	})

	return tw.Render()
}
