package login

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mwendo/coursedl/pkg/auth"
	"github.com/mwendo/coursedl/pkg/optname"
)

var LoginCMD = &cobra.Command{
	Use:   "login",
	Short: "store the platform access token in the OS keyring",
	Long: `Store the platform access token in the OS keyring.

The token is read from --token when given, otherwise from stdin so it does not
end up in shell history.`,
	Args: cobra.NoArgs,
	RunE: runLoginCMD,
}

var LogoutCMD = &cobra.Command{
	Use:   "logout",
	Short: "remove the stored access token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		if err := auth.Forget(); err != nil {
			return err
		}
		log.Info().Msg("Access token removed")
		return nil
	},
}

func runLoginCMD(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	token := viper.GetString(optname.Token)
	if token == "" {
		fmt.Fprint(cmd.ErrOrStderr(), "Access token: ")
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil {
			return fmt.Errorf("error reading token: %w", err)
		}
		token = strings.TrimSpace(line)
	}
	if token == "" {
		return errors.New("empty access token")
	}

	if err := auth.Store(token); err != nil {
		return err
	}
	log.Info().Msg("Access token stored")
	return nil
}
