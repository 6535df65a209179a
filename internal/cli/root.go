// Package cli implements the bookstore command line: the HTTP server plus
// a few admin maintenance commands that work directly on the database.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mrlokans/bookstore/internal/config"
	"github.com/mrlokans/bookstore/internal/entrypoint"
)

var appVersion = "dev"

// SetVersion records the build version shown by "version" and the server log.
func SetVersion(v string) {
	appVersion = v
}

// Execute is the entry point called from main.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		os.Exit(1)
	}
}

// NewRootCommand builds the command tree. Without a subcommand it serves HTTP.
func NewRootCommand() *cobra.Command {
	var noColor bool

	root := &cobra.Command{
		Use:   "bookstore",
		Short: "Bookstore inventory manager",
		Long: `bookstore serves a small web catalog of books with admin accounts.

Configuration is read from environment variables (PORT, DATABASE_PATH, ...).
Run 'bookstore' with no arguments to start the HTTP server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor || !term.IsTerminal(int(os.Stdout.Fd())) {
				color.NoColor = true
			}
		},
		Run: func(cmd *cobra.Command, args []string) {
			runServer()
		},
	}

	root.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	root.AddCommand(
		newServeCmd(),
		newCreateAdminCmd(),
		newAuditCmd(),
		newVersionCmd(),
	)
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			runServer()
		},
	}
}

func runServer() {
	entrypoint.Run(config.NewConfig(), appVersion)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the bookstore version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "bookstore %s\n", appVersion)
		},
	}
}

// ok prints a green success line.
func ok(w io.Writer, format string, a ...interface{}) {
	fmt.Fprintln(w, color.GreenString("✓"), fmt.Sprintf(format, a...))
}

// warn prints a yellow warning line.
func warn(w io.Writer, format string, a ...interface{}) {
	fmt.Fprintln(w, color.YellowString("!"), fmt.Sprintf(format, a...))
}
