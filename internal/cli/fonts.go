package cli

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/flopp/go-findfont"
	"github.com/spf13/cobra"
)

func (c *CLI) fontsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fonts",
		Short: "Inspect fonts available to the layout engine",
	}

	cmd.AddCommand(c.fontsListCommand())
	cmd.AddCommand(c.fontsFindCommand())

	return cmd
}

// fontsListCommand creates the "fonts list" subcommand.
func (c *CLI) fontsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List installed fonts usable with --font",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := findfont.List()
			names := make([]string, 0, len(paths))
			for _, p := range paths {
				base := filepath.Base(p)
				names = append(names, strings.TrimSuffix(base, filepath.Ext(base)))
			}
			sort.Strings(names)

			if len(names) == 0 {
				printInfo("No fonts found; the embedded Go Regular face is always available")
				return nil
			}
			for _, n := range names {
				fmt.Println(StyleValue.Render(n))
			}
			printDetail("%d fonts", len(names))
			return nil
		},
	}
}

// fontsFindCommand creates the "fonts find" subcommand.
func (c *CLI) fontsFindCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "find [name]",
		Short: "Resolve a font name to its file path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := findfont.Find(args[0])
			if err != nil {
				printError("No font matching %q", args[0])
				return err
			}
			printSuccess("%s", path)
			return nil
		},
	}
}
