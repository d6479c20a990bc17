package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/target/clinic-portal/internal/ports"
)

func newLoginCmd(g *globals) *cobra.Command {
	var (
		username      string
		passwordStdin bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the clinic API",
		Long:  "Exchange a username and password for a session. The password is prompted unless --password-stdin is set.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !passwordStdin {
				fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
			}
			password, err := readLine(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read password: %w", err)
			}
			if strings.TrimSpace(username) == "" || password == "" {
				return errors.New("username and password cannot be empty")
			}

			app, err := g.openApp(cmd)
			if err != nil {
				return err
			}
			defer closeApp(cmd, app)

			s, err := app.Auth.Login(cmd.Context(), ports.Credentials{Username: username, Password: password})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", s.Role, s.Role.HomePath())
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Clinic account username")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "Read the password from stdin without prompting")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

// readLine returns the first line of r without its line ending.
func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
