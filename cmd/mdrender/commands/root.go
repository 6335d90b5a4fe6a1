// Package commands implements the mdrender CLI.
package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/acgh213/marklinks/internal/bookmarks"
	"github.com/acgh213/marklinks/internal/config"
	"github.com/acgh213/marklinks/internal/markdown"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mdrender [file]",
		Short: "Render a bookmark description as the link list shows it",
		Long: `mdrender runs a description through the markdown pipeline and prints
the resulting HTML. It reads the named file, or stdin when no file is given.

Defaults come from the same configuration as the server (config.yaml,
.env and SECURITY_* environment variables); flags override them.

Examples:
  # Render an already formatted description
  mdrender description.html

  # Format plain text first, as stored bookmarks are
  echo "see http://example.com #go" | mdrender --format

  # Allow raw HTML and gopher links
  mdrender --escape=false --protocols gopher notes.md`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runRender,
	}

	flags := cmd.Flags()
	flags.String("config", "", "config file (default ./config.yaml)")
	flags.Bool("escape", true, "escape raw HTML in the description")
	flags.StringSlice("protocols", nil, "allowed link protocols besides http and https")
	flags.Bool("hardened", false, "run the bluemonday policy over the output")
	flags.Bool("format", false, "apply link list formatting first (for plain text input)")

	return cmd
}

// Execute runs the root command.
func Execute() error {
	err := newRootCmd().Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}

func runRender(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()

	if path, _ := flags.GetString("config"); path != "" {
		os.Setenv("CONFIG_FILE", path)
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	opts := cfg.MarkdownOptions()
	if flags.Changed("escape") {
		opts.EscapeHTML, _ = flags.GetBool("escape")
	}
	if flags.Changed("protocols") {
		protocols, _ := flags.GetStringSlice("protocols")
		opts.AllowedProtocols = config.ParseProtocols(protocols)
	}
	if flags.Changed("hardened") {
		opts.Hardened, _ = flags.GetBool("hardened")
	}

	src, err := readSource(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	description := string(src)
	if format, _ := flags.GetBool("format"); format {
		description = bookmarks.FormatDescription(description, cfg.IndexURL)
	}

	var out string
	if opts.Hardened {
		out = markdown.NewRenderer(nil, opts).Render(description)
	} else {
		out = markdown.Process(nil, description, opts.EscapeHTML, opts.AllowedProtocols)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
	return err
}

func readSource(stdin io.Reader, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		src, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return src, nil
	}
	src, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("read description: %w", err)
	}
	return src, nil
}
