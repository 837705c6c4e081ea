package cli

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"
)

// DefaultAPIURL is used when neither --api nor GIFTEXCHANGE_API_URL is set
const DefaultAPIURL = "http://localhost:8080"

// RootOptions holds global flags for all commands.
type RootOptions struct {
	APIURL string
	Format string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

func (o *RootOptions) client() *Client {
	return NewClient(o.APIURL)
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{Format: o.Format, Writer: cmd.OutOrStdout()}
}

// NewRootCommand creates the root command of the giftexchange CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "giftexchange",
		Short: "Manage gift exchange users and groups",
		Long: `Command line client for the gift exchange API.

Environment Variables:
  GIFTEXCHANGE_API_URL    API endpoint (default: http://localhost:8080)`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return WrapExitError(ExitCommandError, "invalid format",
					fmt.Errorf("%q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	apiURL := os.Getenv("GIFTEXCHANGE_API_URL")
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}

	cmd.PersistentFlags().StringVar(&opts.APIURL, "api", apiURL, "API base URL")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewUserCommand(opts))
	cmd.AddCommand(NewGroupCommand(opts))

	return cmd
}

// parseIDArg parses a positional id argument
func parseIDArg(name, value string) (uint32, error) {
	id, err := parseID(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: must be an unsigned integer", name, value)
	}
	return id, nil
}
