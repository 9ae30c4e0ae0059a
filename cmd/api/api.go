package api

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mwendo/coursedl/pkg/auth"
	"github.com/mwendo/coursedl/pkg/client"
	"github.com/mwendo/coursedl/pkg/fetch"
	"github.com/mwendo/coursedl/pkg/optname"
)

func GetCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "api <url>",
		Short:   "fetch an authenticated platform endpoint and print the JSON response",
		Args:    cobra.ExactArgs(1),
		RunE:    runApiCMD,
		Example: `  coursedl api https://platform.example.com/api-2.0/users/me/subscribed-courses`,
	}
}

func runApiCMD(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	a, err := auth.Resolve(viper.GetString(optname.Token))
	if err != nil {
		return err
	}

	httpClient := client.NewHTTPClient(client.Options{
		MaxRetries:     viper.GetInt(optname.Retries),
		ConnectTimeout: viper.GetDuration(optname.ConnTimeout),
	})

	value, err := fetch.New(httpClient).GetJSON(cmd.Context(), args[0], a)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("error formatting response: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
