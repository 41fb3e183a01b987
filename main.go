package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/xerrors"

	"github.com/tooltime/tooltime/catalog"
	"github.com/tooltime/tooltime/collector"
	"github.com/tooltime/tooltime/config"
	"github.com/tooltime/tooltime/dispatch"
	"github.com/tooltime/tooltime/eoldates"
	"github.com/tooltime/tooltime/github"
	"github.com/tooltime/tooltime/metrics"
	"github.com/tooltime/tooltime/registry"
	"github.com/tooltime/tooltime/report"
	"github.com/tooltime/tooltime/status"
	"github.com/tooltime/tooltime/utils"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "tooltime",
	Short: "Report end-of-life dates and upcoming releases of a tech stack.",
	Long: `tooltime collects lifecycle data for the tools of a tech stack from
endoflife.date, GitHub, npm, PyPI and vendor status pages, and renders a
text or HTML report that can be written to a file, uploaded to S3 or emailed.`,
	SilenceUsage: true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.LoadDotEnv()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		return run(cmd.Context(), s, cmd.OutOrStdout())
	},
}

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Email an existing HTML report.",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		file, _ := cmd.Flags().GetString("file")
		subject, _ := cmd.Flags().GetString("subject")
		return sendFile(s, file, subject, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.tooltime.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("dry-run", false, "print the email instead of sending it (also DRY_RUN=true)")

	flags := rootCmd.Flags()
	flags.String("format", config.FormatText, "output format (text, html)")
	flags.String("output", "", "output path or s3://bucket/key (html defaults to "+config.DefaultHTMLOutput+", text to stdout)")
	flags.String("catalog", "", "catalog file or URL (default is the built-in catalog)")
	flags.Bool("send", false, "email the HTML report")
	flags.Int("workers", 1, "number of tools fetched concurrently")
	flags.Bool("progress", false, "show a progress bar")
	flags.String("metrics-file", "", "write run metrics in the Prometheus textfile format")

	sendCmd.Flags().String("file", config.DefaultHTMLOutput, "HTML report to send")
	sendCmd.Flags().String("subject", "", "email subject (default \"Tech Stack Update - <Month YYYY>\")")
	rootCmd.AddCommand(sendCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func loadSettings(cmd *cobra.Command) (*config.Settings, error) {
	s, err := config.Load(cmd.Flags(), cfgFile)
	if err != nil {
		return nil, err
	}
	if err = utils.SetLogLevel(s.LogLevel); err != nil {
		return nil, err
	}
	return s, nil
}

func run(ctx context.Context, s *config.Settings, stdout io.Writer) error {
	now := time.Now().UTC()

	cat, err := catalog.Load(ctx, s.Catalog)
	if err != nil {
		return xerrors.Errorf("catalog error: %w", err)
	}

	opts := []collector.Option{
		collector.WithEOL(eoldates.NewConfig()),
		collector.WithNpm(registry.NewNpm()),
		collector.WithPyPI(registry.NewPyPI()),
		collector.WithStatus(status.NewChecker()),
		collector.WithWorkers(s.Workers),
		collector.WithProgress(s.Progress),
	}
	if s.GitHubToken != "" {
		opts = append(opts, collector.WithRepo(github.NewConfig(github.NewClient(ctx, s.GitHubToken))))
	} else {
		log.Warn("GITHUB_TOKEN is not set, skipping GitHub repositories and releases")
	}

	result, err := collector.New(opts...).Collect(ctx, cat)
	if err != nil {
		return err
	}
	r := report.Build(cat, result, now, report.DefaultOptions())

	var doc bytes.Buffer
	contentType := dispatch.ContentTypeText
	if s.Format == config.FormatHTML {
		contentType = dispatch.ContentTypeHTML
		err = report.RenderHTML(&doc, r)
	} else {
		err = report.WriteText(&doc, r)
	}
	if err != nil {
		return err
	}

	if err = output(ctx, s, doc.Bytes(), contentType, stdout); err != nil {
		return err
	}

	if s.MetricsFile != "" {
		m := metrics.New(prometheus.NewRegistry())
		m.Record(result, r)
		if err = m.WriteFile(s.MetricsFile); err != nil {
			return err
		}
	}

	if !s.Send {
		return nil
	}
	html := doc.Bytes()
	if s.Format != config.FormatHTML {
		var buf bytes.Buffer
		if err = report.RenderHTML(&buf, r); err != nil {
			return err
		}
		html = buf.Bytes()
	}
	return send(s, r.Title(), html, stdout)
}

func output(ctx context.Context, s *config.Settings, doc []byte, contentType string, stdout io.Writer) error {
	if s.Output == "" {
		_, err := stdout.Write(doc)
		return err
	}

	var sink dispatch.Sink = dispatch.NewFileSink(afero.NewOsFs())
	if dispatch.IsS3(s.Output) {
		client, err := dispatch.NewS3Client(ctx, s.AWSRegion)
		if err != nil {
			return err
		}
		sink = dispatch.NewS3Sink(client)
	}
	if err := sink.Put(ctx, s.Output, doc, contentType); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Report generated: %s\n", s.Output)
	return nil
}

func sendFile(s *config.Settings, path, subject string, stdout io.Writer) error {
	html, err := afero.ReadFile(afero.NewOsFs(), path)
	if err != nil {
		return xerrors.Errorf("unable to read report: %w", err)
	}
	if subject == "" {
		subject = report.Title(time.Now())
	}
	return send(s, subject, html, stdout)
}

func send(s *config.Settings, subject string, html []byte, stdout io.Writer) error {
	if s.DryRun {
		fmt.Fprintf(stdout, "DRY_RUN is set. Here is the HTML output:\n\n%s\n\nNo email was sent.\n", html)
		return nil
	}

	var opts []dispatch.MailerOption
	if s.ResendURL != "" {
		opts = append(opts, dispatch.WithEndpoint(s.ResendURL))
	}
	mailer, err := dispatch.NewMailer(s.ResendAPIKey, opts...)
	if err != nil {
		return err
	}
	id, err := mailer.Send(dispatch.Message{
		From:    s.SenderEmail,
		To:      s.RecipientEmail,
		Subject: subject,
		HTML:    string(html),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Email ID: %s\n", id)
	return nil
}
