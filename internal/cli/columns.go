package cli

import (
	"github.com/spf13/cobra"

	"wdlist/internal/listspec"
)

// ColumnInfo is the resolved shape of one column definition.
type ColumnInfo struct {
	Key   string `json:"key" yaml:"key"`
	Label string `json:"label" yaml:"label"`
}

// NewColumnsCommand creates the columns command, a quick way to check
// how a columns parameter resolves before putting it on a page.
func NewColumnsCommand(root *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "columns <definition>",
		Short: "Resolve a columns parameter",
		Long: `Columns parses a comma-separated columns definition and prints the
resolved column keys and labels, e.g.:

  wdlist columns 'number,label,P31:instance of,p580/p582'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			columns := listspec.ParseColumns(args[0])

			infos := make([]ColumnInfo, len(columns))
			for i, col := range columns {
				infos[i] = ColumnInfo{Key: col.Type.Key(), Label: col.Label}
			}

			f := &OutputFormatter{Format: root.Format, Writer: cmd.OutOrStdout()}
			if root.Format == "text" {
				for _, info := range infos {
					cmd.Printf("%-24s %s\n", info.Key, info.Label)
				}
				return nil
			}
			return f.Success(infos)
		},
	}
}
