package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"text/tabwriter"

	"github.com/inventree/plugin-creator/internal/license"
	"github.com/inventree/plugin-creator/internal/project"
	"github.com/spf13/cobra"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the available choices",
	Long:  `List the licenses, mixins, frontend packages, frontend features and CI modes a plugin can be generated with.`,
}

func init() {
	listCmd.PersistentFlags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	for _, sub := range []struct {
		use, short string
		entries    func() []listEntry
	}{
		{"licenses", "List available licenses", licenseEntries},
		{"mixins", "List plugin mixins", func() []listEntry { return optionEntries(project.Mixins, project.DefaultMixins, "default") }},
		{"packages", "List frontend packages", packageEntries},
		{"features", "List frontend features", func() []listEntry { return optionEntries(project.FrontendFeatures, nil, "") }},
		{"ci", "List CI configuration modes", func() []listEntry { return optionEntries(project.CIModes, []string{project.CIGitHub}, "default") }},
	} {
		listCmd.AddCommand(&cobra.Command{
			Use:   sub.use,
			Short: sub.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return printEntries(cmd.OutOrStdout(), sub.entries())
			},
		})
	}
	rootCmd.AddCommand(listCmd)
}

// listEntry is one row of list output.
type listEntry struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Note        string `json:"note,omitempty"`
}

func licenseEntries() []listEntry {
	var entries []listEntry
	for _, l := range license.List() {
		e := listEntry{ID: l.ID, Description: l.Name}
		if l.ID == license.DefaultID {
			e.Note = "default"
		}
		entries = append(entries, e)
	}
	return entries
}

func packageEntries() []listEntry {
	var entries []listEntry
	for _, pkg := range project.EnforcedPackages {
		entries = append(entries, listEntry{ID: pkg, Description: pkg, Note: "always installed"})
	}
	return append(entries, optionEntries(project.FrontendPackages, nil, "")...)
}

func optionEntries(opts []project.Option, marked []string, note string) []listEntry {
	entries := make([]listEntry, len(opts))
	for i, o := range opts {
		entries[i] = listEntry{ID: o.ID, Description: o.Label}
		if slices.Contains(marked, o.ID) {
			entries[i].Note = note
		}
	}
	return entries
}

func printEntries(out io.Writer, entries []listEntry) error {
	if listJSON {
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDESCRIPTION\tNOTE")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\n", e.ID, e.Description, e.Note)
	}
	return w.Flush()
}
