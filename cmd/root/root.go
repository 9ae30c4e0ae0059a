package root

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/mwendo/coursedl/pkg/cli"
	"github.com/mwendo/coursedl/pkg/client"
	"github.com/mwendo/coursedl/pkg/config"
	"github.com/mwendo/coursedl/pkg/fetch"
	"github.com/mwendo/coursedl/pkg/optname"
)

const rootLongDesc = `
coursedl

Coursedl downloads course content from the platform: lecture videos and other
binary assets over plain HTTP. Assets are fetched in 2 MiB ranges when the
server supports byte ranges, with a live progress bar, and in a single request
otherwise.

Authenticated API access (see "coursedl api" and "coursedl login") uses the
access token obtained from the platform login flow, stored in the OS keyring.
`

func GetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "coursedl [flags] <url> <dest>",
		Short: "coursedl",
		Long:  rootLongDesc,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.PersistentStartupProcessFlags()
		},
		RunE:    runRootCMD,
		Args:    cobra.ExactArgs(2),
		Example: `  coursedl https://cdn.example.com/lectures/001.mp4 001.mp4`,
	}
	cmd.SetUsageTemplate(cli.UsageTemplate)
	if err := config.AddRootPersistentFlags(cmd); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	return cmd
}

func runRootCMD(cmd *cobra.Command, args []string) error {
	// After we run through the PreRun functions we want to silence usage from
	// being printed on all errors
	cmd.SilenceUsage = true

	urlString := args[0]
	dest := args[1]

	log.Info().Str("url", urlString).
		Str("dest", dest).
		Msg("Initiating")

	if err := cli.EnsureDestinationNotExist(dest); err != nil {
		return err
	}

	return rootExecute(cmd.Context(), urlString, dest)
}

// rootExecute downloads the asset to dest and reports size and throughput.
func rootExecute(ctx context.Context, urlString, dest string) error {
	httpClient := client.NewHTTPClient(client.Options{
		MaxRetries:     viper.GetInt(optname.Retries),
		ConnectTimeout: viper.GetDuration(optname.ConnTimeout),
	})
	fetcher := fetch.New(httpClient)

	startTime := time.Now()
	data, err := downloadWithProgress(ctx, fetcher, urlString, dest)
	if err != nil {
		return err
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return fmt.Errorf("error writing %s: %w", dest, err)
	}

	elapsed := time.Since(startTime)
	throughput := fmt.Sprintf("%s/s", humanize.Bytes(uint64(float64(len(data))/elapsed.Seconds())))
	log.Info().Str("dest", dest).
		Str("size", humanize.Bytes(uint64(len(data)))).
		Str("elapsed", fmt.Sprintf("%.3fs", elapsed.Seconds())).
		Str("throughput", throughput).
		Msg("Complete")
	return nil
}

func downloadWithProgress(ctx context.Context, fetcher *fetch.Fetcher, urlString, dest string) ([]byte, error) {
	// The size is only knowable up front on the ranged path; without it the
	// bar runs as a plain byte counter.
	var total int64
	if ranged, err := fetcher.HasRange(ctx, urlString); err == nil && ranged {
		total, _ = fetcher.ContentLength(ctx, urlString)
	}

	progress := mpb.New(mpb.WithWidth(60))
	bar := progress.AddBar(total,
		mpb.PrependDecorators(
			decor.Name(filepath.Base(dest)),
			decor.CountersKibiByte(" % .2f / % .2f"),
		),
		mpb.AppendDecorators(decor.Percentage()),
	)

	data, err := fetcher.GetData(ctx, urlString, func(n int64) {
		if total > 0 && n > total {
			n = total
		}
		bar.SetCurrent(n)
	})
	if err != nil {
		bar.Abort(true)
		progress.Wait()
		return nil, err
	}
	bar.SetTotal(int64(len(data)), true)
	progress.Wait()
	return data, nil
}
