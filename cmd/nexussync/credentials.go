package main

import (
	"fmt"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"nexussync/internal/credentials"
)

func newCredentialsCmd(getApp func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credentials",
		Short: "Manage gateway credentials",
		Long: `Securely manage the gateway API token using the system keyring.

The token can be provided in two ways (in priority order):
  1. System keyring (most secure) - recommended
  2. Environment variable (good for CI/CD)

Examples:
  # Store the token in the keyring (interactive prompt)
  nexussync credentials set --prompt

  # Store the token non-interactively
  nexussync credentials set <token>

  # Check which credential source is in use
  nexussync credentials show

  # Remove the token from the keyring
  nexussync credentials delete`,
	}

	cmd.AddCommand(newCredentialsSetCmd(getApp))
	cmd.AddCommand(newCredentialsShowCmd(getApp))
	cmd.AddCommand(newCredentialsDeleteCmd(getApp))

	return cmd
}

func newCredentialsSetCmd(getApp func() *App) *cobra.Command {
	var promptToken bool

	cmd := &cobra.Command{
		Use:   "set [token]",
		Short: "Store the gateway token in the system keyring",
		Long: `Store the gateway API token securely in the system keyring.

If --prompt is specified, the token is read interactively so it does not
end up in shell history.

Examples:
  # Interactive prompt (most secure)
  nexussync credentials set --prompt

  # Non-interactive (token visible in shell history)
  nexussync credentials set <token>`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp()
			gatewayName := app.config.GatewayName()

			var token string
			if promptToken {
				fmt.Printf("Enter token for gateway %q: ", gatewayName)
				tokenBytes, err := term.ReadPassword(int(syscall.Stdin))
				fmt.Println() // New line after hidden input
				if err != nil {
					return fmt.Errorf("failed to read token: %w", err)
				}
				token = string(tokenBytes)

				if token == "" {
					return fmt.Errorf("token cannot be empty")
				}
			} else if len(args) == 1 {
				token = args[0]
			} else {
				return fmt.Errorf("token is required (use --prompt for interactive input)")
			}

			if err := credentials.Set(gatewayName, token); err != nil {
				if !credentials.IsAvailable() {
					return fmt.Errorf("system keyring is not available. Try the environment variable instead:\n  export NEXUSSYNC_%s_TOKEN=<token>",
						strings.ToUpper(strings.ReplaceAll(gatewayName, "-", "_")))
				}
				return err
			}

			fmt.Printf("✓ Token stored for gateway %q\n", gatewayName)
			return nil
		},
	}

	cmd.Flags().BoolVar(&promptToken, "prompt", false, "Prompt for the token interactively (recommended)")

	return cmd
}

func newCredentialsShowCmd(getApp func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Check which credential source is in use",
		Long: `Check where the gateway token is found (keyring or environment).

The token itself is never printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp()
			gatewayName := app.config.GatewayName()

			token, err := credentials.Resolve(gatewayName)
			if err != nil {
				return err
			}

			if token.Source == credentials.SourceNone {
				fmt.Printf("✗ No token found for gateway %q\n", gatewayName)
				fmt.Println("\nAvailable options:")
				fmt.Println("  1. Store in keyring:")
				fmt.Println("     nexussync credentials set --prompt")
				fmt.Println("  2. Set the environment variable:")
				fmt.Printf("     export NEXUSSYNC_%s_TOKEN=<token>\n",
					strings.ToUpper(strings.ReplaceAll(gatewayName, "-", "_")))
				return nil
			}

			fmt.Printf("✓ Token found for gateway %q\n", gatewayName)
			fmt.Printf("  Source: %s\n", token.Source)

			if token.Source == credentials.SourceEnv {
				fmt.Println("\n⚠ Using an environment variable")
				fmt.Println("  Consider the keyring for better security:")
				fmt.Println("    nexussync credentials set --prompt")
			}

			return nil
		},
	}
}

func newCredentialsDeleteCmd(getApp func() *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Remove the gateway token from the system keyring",
		Long: `Remove the stored token from the system keyring.

Tokens provided through environment variables are not affected.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp()
			gatewayName := app.config.GatewayName()

			if !force {
				fmt.Printf("Delete token for gateway %q from keyring? [y/N]: ", gatewayName)
				var response string
				n, err := fmt.Scanln(&response)
				if err != nil {
					fmt.Println("Error reading input:", err)
					return nil
				}
				if n == 0 {
					fmt.Println("No input was provided")
					return nil
				}
				response = strings.ToLower(strings.TrimSpace(response))
				if response != "y" && response != "yes" {
					fmt.Println("Cancelled")
					return nil
				}
			}

			if err := credentials.Delete(gatewayName); err != nil {
				return err
			}

			fmt.Printf("✓ Token removed for gateway %q\n", gatewayName)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Skip confirmation prompt")

	return cmd
}
