package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/Rrens/storefront-assistant/internal/domain"
	"github.com/Rrens/storefront-assistant/internal/security"
	"github.com/spf13/cobra"
)

func newSignupCmd(a *app) *cobra.Command {
	var input domain.UserCreate

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			in := newLineReader(cmd)
			for _, q := range []struct {
				value *string
				label string
			}{
				{&input.Name, "Name"},
				{&input.Email, "Email"},
				{&input.Password, "Password"},
			} {
				if err := in.askIfEmpty(q.value, q.label); err != nil {
					return err
				}
			}

			result, err := a.auth.Register(cmd.Context(), input)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if result.Token == "" {
				fmt.Fprintln(out, "Account created. Log in with: shopper login")
				return nil
			}
			fmt.Fprintf(out, "Welcome, %s!\n", displayName(result.User, input.Email))
			return nil
		},
	}

	cmd.Flags().StringVar(&input.Name, "name", "", "Full name")
	cmd.Flags().StringVar(&input.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&input.Password, "password", "", "Password (prompted when omitted)")
	return cmd
}

func newLoginCmd(a *app) *cobra.Command {
	var (
		input  domain.UserLogin
		google bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password, or with Google",
		RunE: func(cmd *cobra.Command, args []string) error {
			in := newLineReader(cmd)
			out := cmd.OutOrStdout()

			if google {
				fmt.Fprintln(out, "Open this address in your browser and sign in:")
				fmt.Fprintln(out, "  "+a.auth.GoogleLoginURL())
				token, err := in.ask("Token from the redirect")
				if err != nil {
					return err
				}
				user, err := a.auth.CompleteOAuth(cmd.Context(), token)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Signed in as %s\n", displayName(user, ""))
				return nil
			}

			return loginWithPassword(cmd.Context(), a, in, input)
		},
	}

	cmd.Flags().StringVar(&input.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&input.Password, "password", "", "Password (prompted when omitted)")
	cmd.Flags().BoolVar(&google, "google", false, "Sign in with Google")
	return cmd
}

func loginWithPassword(ctx context.Context, a *app, in *lineReader, input domain.UserLogin) error {
	if err := in.askIfEmpty(&input.Email, "Email"); err != nil {
		return err
	}
	if err := in.askIfEmpty(&input.Password, "Password"); err != nil {
		return err
	}

	user, err := a.auth.Login(ctx, input)
	if err != nil {
		return err
	}
	fmt.Fprintf(in.out, "Signed in as %s\n", displayName(user, input.Email))
	return nil
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.auth.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if !a.session.IsAuthenticated(ctx) {
				fmt.Fprintln(out, "Not signed in.")
				return nil
			}

			user, err := a.session.CurrentUser(ctx)
			if err != nil {
				return err
			}
			if user != nil {
				renderUser(out, user)
			} else {
				fmt.Fprintln(out, "Signed in.")
			}

			token, err := a.session.Token(ctx)
			if err != nil {
				return err
			}
			// opaque tokens are fine, there is just nothing to show
			if info, err := security.Inspect(token); err == nil {
				renderTokenInfo(out, info, time.Now())
			}
			return nil
		},
	}
}

func newProfileCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or update your profile",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show your profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := a.auth.Profile(cmd.Context())
			if err != nil {
				return err
			}
			renderUser(cmd.OutOrStdout(), user)
			return nil
		},
	}

	var name, phone, address string
	update := &cobra.Command{
		Use:   "update",
		Short: "Update your name, phone or address",
		RunE: func(cmd *cobra.Command, args []string) error {
			var input domain.ProfileUpdate
			if cmd.Flags().Changed("name") {
				input.Name = &name
			}
			if cmd.Flags().Changed("phone") {
				input.Phone = &phone
			}
			if cmd.Flags().Changed("address") {
				input.Address = &address
			}

			user, err := a.auth.UpdateProfile(cmd.Context(), input)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Profile updated.")
			renderUser(cmd.OutOrStdout(), user)
			return nil
		},
	}
	update.Flags().StringVar(&name, "name", "", "Full name")
	update.Flags().StringVar(&phone, "phone", "", "Phone number")
	update.Flags().StringVar(&address, "address", "", "Shipping address")

	cmd.AddCommand(show, update)
	return cmd
}

func displayName(u *domain.User, fallback string) string {
	switch {
	case u == nil:
		return fallback
	case u.Name != "":
		return u.Name
	default:
		return u.Email
	}
}
