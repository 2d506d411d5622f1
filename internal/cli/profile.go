package cli

import (
	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
)

func newProfileCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Print the effective assumption profile as TOML",
		Long: "Prints the built-in defaults merged with --profile. The output is a valid " +
			"profile file and can be edited and passed back with --profile.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			profile, err := root.loadProfile(root.logger())
			if err != nil {
				return err
			}
			return toml.NewEncoder(cmd.OutOrStdout()).Encode(profile)
		},
	}
}
