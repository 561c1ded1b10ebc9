package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/urfave/cli"

	"pageaudit/audit"
	"pageaudit/internal/httpapi"
	"pageaudit/internal/limiter"
	"pageaudit/internal/raters"
	"pageaudit/internal/store"
)

// Run executes the CLI. The default action audits one page and writes
// the JSON report to stdout; the serve command exposes the same engine
// over HTTP. If URL is missing, it prints help and returns nil.
func Run(args []string, stdout, stderr io.Writer, client *http.Client, clock limiter.Timer) error {
	app := cli.NewApp()
	app.Name = "pageaudit"
	app.Usage = "audit a web page for SEO, content and performance"
	app.UsageText = "pageaudit [global options] command [command options] <url>"
	app.Writer = stdout
	app.ErrWriter = stderr
	app.Flags = []cli.Flag{
		cli.IntFlag{
			Name:  "retries",
			Usage: "number of retries for failed requests",
			Value: 1,
		},
		cli.DurationFlag{
			Name:  "delay",
			Usage: "delay between requests (example: 200ms, 1s)",
			Value: 0 * time.Millisecond,
		},
		cli.DurationFlag{
			Name:  "timeout",
			Usage: "per-request timeout",
			Value: 15 * time.Second,
		},
		cli.Float64Flag{
			Name:  "rps",
			Usage: "limit requests per second (overrides delay)",
		},
		cli.StringFlag{
			Name:  "user-agent",
			Usage: "custom user agent",
		},
		cli.BoolFlag{
			Name:  "premium",
			Usage: "enable the Core Web Vitals and AI review cards",
		},
		cli.StringFlag{
			Name:   "pagespeed-key",
			Usage:  "PageSpeed Insights API key",
			EnvVar: "PAGEAUDIT_PAGESPEED_KEY",
		},
		cli.StringFlag{
			Name:   "ai-endpoint",
			Usage:  "AI review service endpoint",
			EnvVar: "PAGEAUDIT_AI_ENDPOINT",
		},
		cli.StringFlag{
			Name:   "ai-token",
			Usage:  "AI review service token",
			EnvVar: "PAGEAUDIT_AI_TOKEN",
		},
	}
	app.Commands = []cli.Command{
		serveCommand(client, clock),
	}
	app.Action = func(c *cli.Context) error {
		pageURL := c.Args().First()
		if pageURL == "" {
			_ = cli.ShowAppHelp(c)

			return nil
		}

		client.Timeout = c.Duration("timeout")
		options := optionsFromCLI(c, pageURL, client, clock)

		report, err := audit.Analyze(context.Background(), options)
		if err != nil {
			return err
		}

		_, err = stdout.Write(report)
		if err != nil {
			return err
		}

		return nil
	}

	err := app.Run(args)
	if err != nil {
		return err
	}

	return nil
}

func serveCommand(client *http.Client, clock limiter.Timer) cli.Command {
	return cli.Command{
		Name:      "serve",
		Usage:     "run the HTTP API server",
		UsageText: "pageaudit [global options] serve [command options]",
		Flags: []cli.Flag{
			cli.StringFlag{
				Name:  "addr",
				Usage: "listen address",
				Value: ":8080",
			},
			cli.StringFlag{
				Name:  "db",
				Usage: "path to the report database (empty disables persistence)",
				Value: "pageaudit.db",
			},
		},
		Action: func(c *cli.Context) error {
			client.Timeout = c.GlobalDuration("timeout")
			base := optionsFromCLI(c, "", client, clock)

			var st *store.Store
			if path := c.String("db"); path != "" {
				var err error
				st, err = store.Open(path)
				if err != nil {
					return err
				}
				defer func() {
					_ = st.Close()
				}()
			}

			run := func(ctx context.Context, pageURL string) (*audit.Report, error) {
				options := base
				options.URL = pageURL

				return audit.Run(ctx, options)
			}

			server := httpapi.NewServer(run, st)
			addr := c.String("addr")
			fmt.Fprintf(c.App.Writer, "listening on %s\n", addr)

			return http.ListenAndServe(addr, server.Router())
		},
	}
}

func optionsFromCLI(
	c *cli.Context,
	pageURL string,
	client *http.Client,
	clock limiter.Timer,
) audit.Options {
	options := audit.Options{
		URL:        pageURL,
		IndentJSON: true,
		Timeout:    c.GlobalDuration("timeout"),
		Delay:      c.GlobalDuration("delay"),
		RPS:        c.GlobalFloat64("rps"),
		Retries:    c.GlobalInt("retries"),
		UserAgent:  c.GlobalString("user-agent"),
		Premium:    c.GlobalBool("premium"),
		HTTPClient: client,
		Clock:      clock,
	}

	if options.Premium {
		options.Performance = raters.NewPageSpeed(client, "", c.GlobalString("pagespeed-key"))
		options.Reviewer = raters.NewReviewer(client, c.GlobalString("ai-endpoint"), c.GlobalString("ai-token"))
	}

	return options
}
