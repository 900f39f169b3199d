package main

import (
	"github.com/spf13/cobra"

	"github.com/theatharvamuley10/backendPro/internal/infrastructure/db/mongo"
)

// NewEnsureIndexesCmd creates the ensure-indexes subcommand.
func NewEnsureIndexesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ensure-indexes",
		Short: "Create the unique user indexes",
		Long:  `Create the unique indexes on username and email in the users collection.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close(cmd.Context())

			cmd.Println("Creating indexes...")
			if err := mongo.NewUserRepository(a.db).EnsureIndexes(cmd.Context()); err != nil {
				return err
			}
			cmd.Println("Indexes are in place")
			return nil
		},
	}
}
