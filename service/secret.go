package service

import (
	"fmt"

	"github.com/spf13/cobra"

	"folio/app/secrets"
)

func (c *cli) secretCommand() *cobra.Command {
	var (
		prefix   string
		cost     int
		save     string
		hashOnly bool
	)
	cmd := &cobra.Command{
		Use:   "secret",
		Short: "Generate a preview secret, its bcrypt hash and a session key",
		Long: `Prints PREVIEW_SECRET, PREVIEW_SECRET_HASH and SESSION_SECRET assignments.
Deploy the hash and keep the plain secret for the CMS preview URL.`,
		Args: cobra.NoArgs,
		// Generating secrets needs no configuration.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := secrets.Generate(prefix, cost)
			if err != nil {
				return err
			}
			if save == "" {
				return s.WriteEnv(cmd.OutOrStdout(), hashOnly)
			}
			if err := s.Save(save, hashOnly); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Secrets saved to %s\n", save)
			if hashOnly {
				fmt.Fprintf(cmd.OutOrStdout(), "Preview secret: %s\n", s.PreviewSecret)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&prefix, "prefix", "", "readable prefix for the preview secret")
	cmd.Flags().IntVar(&cost, "cost", 0, "bcrypt cost (default 10)")
	cmd.Flags().StringVar(&save, "save", "", "write the assignments to a new file instead of stdout")
	cmd.Flags().BoolVar(&hashOnly, "hash-only", false, "leave the plain secret out of the assignments")
	return cmd
}
