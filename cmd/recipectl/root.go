package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"recipebox/internal/client"
)

const defaultServer = "http://localhost:8080"

type commandContext struct {
	server *string
	token  *string
}

func (c *commandContext) client() *client.Client {
	var opts []client.Option
	if token := strings.TrimSpace(*c.token); token != "" {
		opts = append(opts, client.WithToken(token))
	}
	return client.New(strings.TrimSpace(*c.server), opts...)
}

func newRootCommand() *cobra.Command {
	var serverFlag, tokenFlag string
	ctx := &commandContext{server: &serverFlag, token: &tokenFlag}

	rootCmd := &cobra.Command{
		Use:           "recipectl",
		Short:         "Command-line client for a recipebox server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&serverFlag, "server", envOr("RECIPEBOX_URL", defaultServer), "Base URL of the recipebox server")
	rootCmd.PersistentFlags().StringVar(&tokenFlag, "token", os.Getenv("RECIPEBOX_TOKEN"), "Session token sent as a bearer credential")

	rootCmd.AddCommand(newRecipesCommand(ctx))
	rootCmd.AddCommand(newShoppingCommand(ctx))
	rootCmd.AddCommand(newMealsCommand(ctx))
	rootCmd.AddCommand(newTagsCommand(ctx))
	rootCmd.AddCommand(newCategoriesCommand(ctx))

	return rootCmd
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
