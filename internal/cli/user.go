package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rshade/ecofocus/internal/history"
)

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "user", Short: "Tracked users"}
	cmd.AddCommand(newUserAddCmd(), newUserShowCmd())
	return cmd
}

func newUserAddCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Create a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, 0)
			if err != nil {
				return err
			}
			defer s.Close()

			id, err := s.store.CreateUser(cmd.Context(), args[0], email)
			if err != nil {
				return err
			}
			cmd.Printf("Created user %d (%s)\n", id, args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "contact email")
	return cmd
}

func newUserShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the --user user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			s, err := openSession(cmd, 0)
			if err != nil {
				return err
			}
			defer s.Close()

			u, err := s.requireUser(cmd.Context())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if handled, err := renderStructured(w, format, u, []history.User{u}); handled {
				return err
			}
			fmt.Fprintf(w, "ID:      %d\n", u.ID)
			fmt.Fprintf(w, "Name:    %s\n", u.Name)
			if u.Email != "" {
				fmt.Fprintf(w, "Email:   %s\n", u.Email)
			}
			fmt.Fprintf(w, "Created: %s\n", u.CreatedAt.Format(time.RFC3339))
			return nil
		},
	}
}
