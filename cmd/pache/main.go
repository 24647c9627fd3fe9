// Command pache logs into a Moodle site, finds the activities currently open
// for submission and prints a notification listing them.
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"pache/internal/config"
	"pache/internal/export"
	"pache/internal/logger"
	"pache/internal/moodle"
	"pache/internal/normalize"
	"pache/internal/notify"
	"pache/internal/pipeline"
	"pache/internal/resolve"
	"pache/internal/sftpclient"
)

// set with -ldflags "-X main.version=..."
var version = "dev"

type options struct {
	outPath     string
	csvPath     string
	xmlPath     string
	upload      bool
	concurrency int
}

func main() {
	var (
		opts        options
		showVersion bool
	)
	flag.StringVar(&opts.outPath, "out", "", "also write the notification to this file")
	flag.StringVar(&opts.csvPath, "csv", "", "write open modules as CSV to this file")
	flag.StringVar(&opts.xmlPath, "xml", "", "write open modules as XML to this file")
	flag.BoolVar(&opts.upload, "sftp", false, "upload the written files via SFTP")
	flag.IntVar(&opts.concurrency, "concurrency", -1, "course fetch workers (0/1 = sequential, -1 = FETCH_CONCURRENCY)")
	flag.BoolVar(&showVersion, "version", false, "print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Println("pache", version)
		return
	}

	config.LoadDotEnv()
	logger.Init(logger.FromEnv())
	log := logger.Named("main")

	cfg, err := loadConfig(opts)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	start := time.Now()
	err = run(context.Background(), cfg, opts, os.Stdout)
	log.Info().Dur("elapsed", time.Since(start)).Msg("execution finished")
	if err != nil {
		log.Fatal().Err(err).Msg("run failed")
	}
}

// loadConfig reads the environment, applies flag overrides and validates
// the result.
func loadConfig(opts options) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if opts.concurrency >= 0 {
		cfg.FetchConcurrency = opts.concurrency
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func run(parent context.Context, cfg config.Config, opts options, stdout io.Writer) error {
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(parent, cfg.RunTimeout)
	defer cancel()
	ctx, runID := logger.WithRun(ctx)
	log := logger.C(ctx)
	log.Info().Str("version", version).Str("site", cfg.MoodleURL).Str("run", runID).Msg("pache starting")

	client := moodle.New(cfg.MoodleURL, cfg.MoodleTimeout)
	client.Service = cfg.MoodleService
	defer client.Close()

	if _, err := client.Login(ctx, cfg.MoodleUsername, cfg.MoodlePassword); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	log.Info().Msg("session started")

	site, err := client.SiteInfo(ctx)
	if err != nil {
		return fmt.Errorf("site info: %w", err)
	}
	log.Info().Str("sitename", site.SiteName).Int64("userid", site.UserID).
		Str("user", site.FirstName+" "+site.LastName).Msg("site info")

	p := pipeline.Pipeline{
		Gateway:    client,
		Normalizer: normalize.New(resolve.Default(loc, time.Now)),
		Scheduler:  pipeline.SchedulerFor(cfg.FetchConcurrency),
	}
	res, err := p.Run(ctx, site.UserID)
	if err != nil {
		return err
	}

	var msg bytes.Buffer
	if err := notify.Render(&msg, res, notify.Options{AppURL: cfg.MoodleURL, Version: version, Location: loc}); err != nil {
		return fmt.Errorf("render: %w", err)
	}

	written, err := writeOutputs(res, msg.Bytes(), opts)
	if err != nil {
		return err
	}

	if opts.upload {
		if len(written) == 0 {
			return errors.New("sftp: nothing to upload (use -out, -csv or -xml)")
		}
		if err := sftpclient.UploadFiles(ctx, sftpConfig(cfg), written...); err != nil {
			return err
		}
	}

	if _, err := stdout.Write(append(msg.Bytes(), '\n')); err != nil {
		return fmt.Errorf("write stdout: %w", err)
	}
	return nil
}

// writeOutputs writes every requested file and returns their paths.
func writeOutputs(res pipeline.Result, msg []byte, opts options) ([]string, error) {
	var written []string

	if opts.outPath != "" {
		err := export.WriteFile(opts.outPath, func(w io.Writer) error {
			_, err := w.Write(msg)
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("write notification: %w", err)
		}
		written = append(written, opts.outPath)
	}

	if opts.csvPath != "" {
		err := export.WriteFile(opts.csvPath, func(w io.Writer) error {
			return export.WriteModulesCSV(w, res)
		})
		if err != nil {
			return nil, fmt.Errorf("write csv: %w", err)
		}
		written = append(written, opts.csvPath)
	}

	if opts.xmlPath != "" {
		now := time.Now()
		err := export.WriteFile(opts.xmlPath, func(w io.Writer) error {
			return export.WriteModulesXML(w, res, now)
		})
		if err != nil {
			return nil, fmt.Errorf("write xml: %w", err)
		}
		written = append(written, opts.xmlPath)
	}

	for _, p := range written {
		logger.Named("export").Info().Str("file", p).Msg("written")
	}
	return written, nil
}

func sftpConfig(cfg config.Config) sftpclient.Config {
	return sftpclient.Config{
		Host:                  cfg.SFTPHost,
		Port:                  cfg.SFTPPort,
		User:                  cfg.SFTPUser,
		Pass:                  cfg.SFTPPass,
		RemoteDir:             cfg.SFTPDir,
		KnownHosts:            cfg.SFTPKnownHosts,
		InsecureIgnoreHostKey: cfg.SFTPInsecureIgnoreHostKey,
	}
}
