package cli

import (
	"time"

	"github.com/spf13/cobra"
)

// AssetOptions holds flags for the asset subcommands.
type AssetOptions struct {
	*RootOptions
	CreatedAt string
}

// NewAssetCommand creates the asset command for maintaining the local
// asset-version catalog that data-change triggers watch.
func NewAssetCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AssetOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "asset",
		Short: "Manage the local asset-version catalog",
	}

	add := &cobra.Command{
		Use:           "add <asset> <version>",
		Short:         "Record a new version of a data asset",
		Example:       `  pipelift asset add credit_default_raw v3 --created-at 2024-01-02T10:00:00Z`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			createdAt, err := parseTimeFlag(opts.CreatedAt)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid --created-at", err)
			}

			st, err := openStore(opts.RootOptions)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.AddAssetVersion(cmd.Context(), args[0], args[1], createdAt); err != nil {
				return WrapExitError(ExitCommandError, "add asset version", err)
			}

			f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
			if done, err := f.JSON(map[string]string{"asset": args[0], "version": args[1]}); done {
				return err
			}
			f.Printf("recorded %s@%s\n", args[0], args[1])
			return nil
		},
	}
	add.Flags().StringVar(&opts.CreatedAt, "created-at", "", "version creation time (default now)")

	list := &cobra.Command{
		Use:           "list <asset>",
		Short:         "List known versions of a data asset",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(opts.RootOptions)
			if err != nil {
				return err
			}
			defer st.Close()

			versions, err := st.ListVersions(cmd.Context(), args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "list versions", err)
			}

			f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
			if done, err := f.JSON(versions); done {
				return err
			}
			for _, v := range versions {
				f.Printf("%s\t%s\n", v.Version, v.CreatedAt.Format(time.RFC3339))
			}
			return nil
		},
	}

	cmd.AddCommand(add, list)
	return cmd
}
