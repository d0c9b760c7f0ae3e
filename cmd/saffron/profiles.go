package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mkade/saffron/internal/cli"
	"github.com/mkade/saffron/internal/config"
	"github.com/mkade/saffron/internal/storage"
)

func profilesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "Manage ledger profiles",
		Long:  `Each profile is an isolated ledger with its own categories and transactions.`,
	}

	cmd.AddCommand(listProfilesCmd())
	cmd.AddCommand(createProfileCmd())
	cmd.AddCommand(profilePathCmd())

	return cmd
}

func openStore() (*storage.Store, error) {
	dataDir, err := config.DataDir()
	if err != nil {
		return nil, err
	}
	return storage.NewStore(dataDir)
}

func listProfilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all profiles",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}

			names, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(names) == 0 {
				fmt.Println(cli.InfoStyle.Render("No profiles yet; one is created on first use."))
				return nil
			}

			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		},
	}
}

func createProfileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create an empty profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}

			if _, err := store.Load(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("failed to create profile: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Profile %q ready at %s", args[0], store.ProfilePath(args[0]))))
			return nil
		},
	}
}

func profilePathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path <name>",
		Short: "Print where a profile is stored",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			fmt.Println(store.ProfilePath(args[0]))
			return nil
		},
	}
}
