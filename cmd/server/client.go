package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/joshdurbin/linkbio/internal/config"
	"github.com/joshdurbin/linkbio/internal/domain"
	"github.com/joshdurbin/linkbio/internal/transport/client"
)

const clientTimeout = 10 * time.Second

func newClientCmd() *cobra.Command {
	clientCmd := &cobra.Command{
		Use:   "client",
		Short: "Client commands for interacting with the server",
	}
	clientCmd.PersistentFlags().StringP("server-url", "u", config.EnvString("SERVER_URL", "http://localhost:8080"), "Server URL")
	clientCmd.PersistentFlags().String("token", config.EnvString("TOKEN", ""), "API bearer token (see the token command)")

	createCmd := &cobra.Command{
		Use:   "create [URL]",
		Short: "Create a short link; any platform flag makes it a deeplink",
		Args:  cobra.MaximumNArgs(1),
		RunE: withCommands(func(ctx context.Context, cmd *cobra.Command, args []string, c *client.Commands) error {
			req := domain.CreateLinkRequest{}
			if len(args) == 1 {
				req.URL = args[0]
			}
			kind, _ := cmd.Flags().GetString("kind")
			req.Kind = domain.TargetKind(kind)
			req.CodeLength, _ = cmd.Flags().GetInt("length")

			cfg, err := deeplinkFromFlags(cmd, req.URL)
			if err != nil {
				return err
			}
			req.Deeplink = cfg
			return c.Create(ctx, req)
		}),
	}
	createCmd.Flags().String("kind", "", "Link kind: plain, deeplink or qr (inferred when empty)")
	createCmd.Flags().Int("length", 0, "Short code length (server default when 0)")
	addDeeplinkFlags(createCmd)

	getCmd := &cobra.Command{
		Use:   "get [SHORT_CODE]",
		Short: "Get information about a short link",
		Args:  cobra.ExactArgs(1),
		RunE: withCommands(func(ctx context.Context, cmd *cobra.Command, args []string, c *client.Commands) error {
			return c.Get(ctx, args[0])
		}),
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List your short links",
		Args:  cobra.NoArgs,
		RunE: withCommands(func(ctx context.Context, cmd *cobra.Command, args []string, c *client.Commands) error {
			return c.List(ctx)
		}),
	}

	deactivateCmd := &cobra.Command{
		Use:     "deactivate [SHORT_CODE]",
		Aliases: []string{"delete"},
		Short:   "Deactivate a short link",
		Args:    cobra.ExactArgs(1),
		RunE: withCommands(func(ctx context.Context, cmd *cobra.Command, args []string, c *client.Commands) error {
			return c.Deactivate(ctx, args[0])
		}),
	}

	profileCmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage profile page links",
	}
	profileCmd.AddCommand(
		&cobra.Command{
			Use:   "add [TITLE] [URL]",
			Short: "Add a link to your profile page",
			Args:  cobra.ExactArgs(2),
			RunE: withCommands(func(ctx context.Context, cmd *cobra.Command, args []string, c *client.Commands) error {
				return c.AddProfileLink(ctx, args[0], args[1])
			}),
		},
		&cobra.Command{
			Use:   "list",
			Short: "List your profile page links",
			Args:  cobra.NoArgs,
			RunE: withCommands(func(ctx context.Context, cmd *cobra.Command, args []string, c *client.Commands) error {
				return c.ListProfileLinks(ctx)
			}),
		},
	)

	previewCmd := &cobra.Command{
		Use:   "preview [URL] [USER_AGENT]",
		Short: "Show where a deeplink config would send a user agent",
		Args:  cobra.ExactArgs(2),
		RunE: withCommands(func(ctx context.Context, cmd *cobra.Command, args []string, c *client.Commands) error {
			cfg, err := deeplinkFromFlags(cmd, args[0])
			if err != nil {
				return err
			}
			if cfg == nil {
				cfg = &domain.DeeplinkConfig{OriginalURL: args[0]}
			}
			return c.Preview(ctx, domain.PreviewRequest{Config: *cfg, UserAgent: args[1]})
		}),
	}
	addDeeplinkFlags(previewCmd)

	clientCmd.AddCommand(createCmd, getCmd, listCmd, deactivateCmd, profileCmd, previewCmd)
	return clientCmd
}

func addDeeplinkFlags(cmd *cobra.Command) {
	cmd.Flags().String("ios", "", "Destination for iOS visitors")
	cmd.Flags().String("android", "", "Destination for Android visitors")
	cmd.Flags().String("desktop", "", "Destination for desktop visitors")
	cmd.Flags().String("fallback", "", "Destination when no platform URL applies")
	cmd.Flags().StringArray("rule", nil, "User agent rule as pattern=url; repeatable, first match wins")
}

// deeplinkFromFlags returns nil when no deeplink flag is set
func deeplinkFromFlags(cmd *cobra.Command, originalURL string) (*domain.DeeplinkConfig, error) {
	ios, _ := cmd.Flags().GetString("ios")
	android, _ := cmd.Flags().GetString("android")
	desktop, _ := cmd.Flags().GetString("desktop")
	fallback, _ := cmd.Flags().GetString("fallback")
	ruleValues, _ := cmd.Flags().GetStringArray("rule")

	rules, err := client.ParseRules(ruleValues)
	if err != nil {
		return nil, err
	}

	if ios == "" && android == "" && desktop == "" && fallback == "" && len(rules) == 0 {
		return nil, nil
	}

	return &domain.DeeplinkConfig{
		OriginalURL:    originalURL,
		IOSURL:         ios,
		AndroidURL:     android,
		DesktopURL:     desktop,
		FallbackURL:    fallback,
		UserAgentRules: rules,
	}, nil
}

type clientRunFunc func(ctx context.Context, cmd *cobra.Command, args []string, c *client.Commands) error

func withCommands(run clientRunFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		serverURL, _ := cmd.Flags().GetString("server-url")
		token, _ := cmd.Flags().GetString("token")

		commands := client.NewCommands(client.NewClient(serverURL, token))
		commands.SetOutput(cmd.OutOrStdout())

		ctx, cancel := context.WithTimeout(cmd.Context(), clientTimeout)
		defer cancel()

		return run(ctx, cmd, args, commands)
	}
}
