package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/BTreeMap/CyberCore/internal/banner"
	"github.com/BTreeMap/CyberCore/internal/contact"
	"github.com/BTreeMap/CyberCore/internal/models"
	"github.com/BTreeMap/CyberCore/internal/timer"
	"github.com/BTreeMap/CyberCore/internal/tui"
	"github.com/BTreeMap/CyberCore/internal/twiliosms"
	"github.com/BTreeMap/CyberCore/internal/typing"
	"github.com/BTreeMap/CyberCore/internal/util"
	"github.com/joho/godotenv"
)

// Default configuration constants
const (
	// DefaultTypeInterval is the hero's per-character typing delay
	DefaultTypeInterval = 80 * time.Millisecond
	// DefaultDeleteInterval is the hero's per-character deleting delay
	DefaultDeleteInterval = 40 * time.Millisecond
	// DefaultPause is how long a fully typed phrase stays on screen
	DefaultPause = 2000 * time.Millisecond
	// DefaultSubmitBackend delivers the contact form to a webhook
	DefaultSubmitBackend = backendWebhook

	backendWebhook = "webhook"
	backendTwilio  = "twilio"
	phraseSep      = ","
	typingPrefix   = "> "
)

var errUnknownBackend = errors.New("unknown submit backend")

// DefaultPhrases are the hero lines cycled by the typing animation.
var DefaultPhrases = []string{
	"SYSTEM ACCESSED",
	"WELCOME TO THE WEB DEVELOPMENT",
	"BUILD WEBSITE",
	"BUILD FUTURE",
}

func main() {
	// Initialize structured logger
	initializeLogger(os.Stderr, slog.LevelInfo)

	// Load environment configuration
	config := loadEnvironmentConfig()

	// Parse command line flags
	flags, err := parseCommandLineFlags(flag.CommandLine, os.Args[1:], config)
	if err != nil {
		slog.Error("Failed to parse flags", "error", err)
		os.Exit(2)
	}

	closeLog, err := configureLogger(flags)
	if err != nil {
		slog.Error("Failed to configure logger", "error", err)
		os.Exit(1)
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("Bootstrapping CyberCore", "plain", *flags.plain, "backend", *flags.submitBackend)
	if err := run(ctx, flags, os.Stdout); err != nil {
		slog.Error("CyberCore failed to run", "error", err)
		closeLog()
		os.Exit(1)
	}
	slog.Info("CyberCore exited successfully")
}

// Config holds environment configuration
type Config struct {
	Phrases        []string
	TypeInterval   time.Duration
	DeleteInterval time.Duration
	Pause          time.Duration
	Loop           bool
	Plain          bool
	SubmitURL      string
	SubmitBackend  string
	SubmitTimeout  time.Duration
	BannerDuration time.Duration
	TwilioTo       string
	SiteURL        string
	LogLevel       string
	LogFile        string
}

// Flags holds command line flag values
type Flags struct {
	plain          *bool
	phrases        *string
	typeInterval   *time.Duration
	deleteInterval *time.Duration
	pause          *time.Duration
	noLoop         *bool
	submitURL      *string
	submitBackend  *string
	submitTimeout  *time.Duration
	bannerDuration *time.Duration
	twilioTo       *string
	qr             *bool
	siteURL        *string
	logLevel       *string
	logFile        *string
}

// initializeLogger sets up structured logging before configuration is known
func initializeLogger(w io.Writer, level slog.Level) {
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

// configureLogger applies the configured level and destination. The TUI owns
// the terminal, so without a log file its logs are discarded.
func configureLogger(flags Flags) (func(), error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(*flags.logLevel)); err != nil {
		return func() {}, fmt.Errorf("invalid log level %q: %w", *flags.logLevel, err)
	}

	switch {
	case *flags.logFile != "":
		f, err := os.OpenFile(*flags.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return func() {}, fmt.Errorf("failed to open log file: %w", err)
		}
		initializeLogger(f, level)
		return func() { _ = f.Close() }, nil
	case *flags.plain:
		initializeLogger(os.Stderr, level)
	default:
		initializeLogger(io.Discard, level)
	}
	return func() {}, nil
}

// loadEnvironmentConfig loads configuration from environment variables and .env file
func loadEnvironmentConfig() Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	} else {
		slog.Debug("successfully loaded .env file")
	}

	config := Config{
		Phrases:        util.ParseListEnv("CYBERCORE_PHRASES", phraseSep, DefaultPhrases),
		TypeInterval:   util.ParseMillisEnv("CYBERCORE_TYPE_INTERVAL", DefaultTypeInterval),
		DeleteInterval: util.ParseMillisEnv("CYBERCORE_DELETE_INTERVAL", DefaultDeleteInterval),
		Pause:          util.ParseMillisEnv("CYBERCORE_PAUSE", DefaultPause),
		Loop:           util.ParseBoolEnv("CYBERCORE_LOOP", true),
		Plain:          util.ParseBoolEnv("CYBERCORE_PLAIN", false),
		SubmitURL:      os.Getenv("CYBERCORE_SUBMIT_URL"),
		SubmitBackend:  os.Getenv("CYBERCORE_SUBMIT_BACKEND"),
		SubmitTimeout:  util.ParseMillisEnv("CYBERCORE_SUBMIT_TIMEOUT", contact.DefaultSubmitTimeout),
		BannerDuration: util.ParseMillisEnv("CYBERCORE_BANNER_DURATION", contact.DefaultBannerDuration),
		TwilioTo:       os.Getenv("TWILIO_TO_NUMBER"),
		SiteURL:        os.Getenv("CYBERCORE_SITE_URL"),
		LogLevel:       os.Getenv("CYBERCORE_LOG_LEVEL"),
		LogFile:        os.Getenv("CYBERCORE_LOG_FILE"),
	}

	if config.SubmitBackend == "" {
		config.SubmitBackend = DefaultSubmitBackend
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}

	slog.Debug("environment variables loaded",
		"CYBERCORE_PHRASES", len(config.Phrases),
		"CYBERCORE_TYPE_INTERVAL", config.TypeInterval,
		"CYBERCORE_DELETE_INTERVAL", config.DeleteInterval,
		"CYBERCORE_PAUSE", config.Pause,
		"CYBERCORE_LOOP", config.Loop,
		"CYBERCORE_SUBMIT_URL_SET", config.SubmitURL != "",
		"CYBERCORE_SUBMIT_BACKEND", config.SubmitBackend,
		"TWILIO_TO_NUMBER_SET", config.TwilioTo != "")

	return config
}

// parseCommandLineFlags parses command line arguments with environment defaults
func parseCommandLineFlags(fs *flag.FlagSet, args []string, config Config) (Flags, error) {
	flags := Flags{
		plain:          fs.Bool("plain", config.Plain, "print only the typing animation on stdout (overrides $CYBERCORE_PLAIN)"),
		phrases:        fs.String("phrases", strings.Join(config.Phrases, phraseSep), "comma separated hero phrases (overrides $CYBERCORE_PHRASES)"),
		typeInterval:   fs.Duration("type-interval", config.TypeInterval, "delay between typed characters (overrides $CYBERCORE_TYPE_INTERVAL)"),
		deleteInterval: fs.Duration("delete-interval", config.DeleteInterval, "delay between deleted characters (overrides $CYBERCORE_DELETE_INTERVAL)"),
		pause:          fs.Duration("pause", config.Pause, "pause after a phrase is fully typed (overrides $CYBERCORE_PAUSE)"),
		noLoop:         fs.Bool("no-loop", !config.Loop, "stop after the last phrase is typed (overrides $CYBERCORE_LOOP)"),
		submitURL:      fs.String("submit-url", config.SubmitURL, "contact form webhook URL (overrides $CYBERCORE_SUBMIT_URL)"),
		submitBackend:  fs.String("submit-backend", config.SubmitBackend, "contact form delivery: webhook or twilio (overrides $CYBERCORE_SUBMIT_BACKEND)"),
		submitTimeout:  fs.Duration("submit-timeout", config.SubmitTimeout, "webhook request timeout (overrides $CYBERCORE_SUBMIT_TIMEOUT)"),
		bannerDuration: fs.Duration("banner-duration", config.BannerDuration, "how long form banners stay visible (overrides $CYBERCORE_BANNER_DURATION)"),
		twilioTo:       fs.String("twilio-to", config.TwilioTo, "phone number receiving contact SMS (overrides $TWILIO_TO_NUMBER)"),
		qr:             fs.Bool("qr", false, "print a QR code of the site URL at startup"),
		siteURL:        fs.String("site-url", config.SiteURL, "site URL encoded in the QR code (overrides $CYBERCORE_SITE_URL)"),
		logLevel:       fs.String("log-level", config.LogLevel, "debug, info, warn or error (overrides $CYBERCORE_LOG_LEVEL)"),
		logFile:        fs.String("log-file", config.LogFile, "append logs to this file (overrides $CYBERCORE_LOG_FILE)"),
	}

	if err := fs.Parse(args); err != nil {
		return Flags{}, err
	}

	slog.Debug("flags parsed",
		"plain", *flags.plain,
		"phrases", *flags.phrases,
		"typeInterval", *flags.typeInterval,
		"deleteInterval", *flags.deleteInterval,
		"pause", *flags.pause,
		"noLoop", *flags.noLoop,
		"submitURL_set", *flags.submitURL != "",
		"submitBackend", *flags.submitBackend,
		"qr", *flags.qr)

	return flags, nil
}

// run prints the banners and drives either the plain animation or the full TUI.
func run(ctx context.Context, flags Flags, out io.Writer) error {
	sched := timer.NewSimpleTimer()
	defer sched.Stop()

	phrases := util.SplitList(*flags.phrases, phraseSep)
	if err := banner.PrintEasterEgg(out); err != nil {
		slog.Warn("Failed to print easter egg", "error", err)
	}
	if *flags.qr {
		if err := banner.PrintQR(out, *flags.siteURL); err != nil {
			slog.Warn("Failed to print QR code", "error", err)
		}
	}

	if *flags.plain {
		return runPlain(ctx, phrases, buildTypingOptions(flags, sched), out)
	}

	submitter, err := buildSubmitter(flags)
	if err != nil {
		return err
	}
	return runTUI(ctx, phrases, buildTypingOptions(flags, sched), buildFormOptions(flags, sched), submitter)
}

// runPlain animates the hero line on out until ctx ends or the animation finishes.
func runPlain(ctx context.Context, phrases []string, opts []typing.Option, out io.Writer) error {
	seq, err := typing.NewSequencer(typing.NewWriterTarget(out, typingPrefix), phrases, opts...)
	if err != nil {
		return fmt.Errorf("failed to create typing sequencer: %w", err)
	}
	if err := seq.Start(); err != nil {
		return fmt.Errorf("failed to start typing sequencer: %w", err)
	}

	select {
	case <-ctx.Done():
		slog.Debug("runPlain: context done, stopping animation")
	case <-seq.Done():
		slog.Debug("runPlain: animation finished")
	}
	seq.Stop()
	fmt.Fprintln(out)
	return nil
}

// runTUI runs the interactive page until the user quits.
func runTUI(ctx context.Context, phrases []string, typingOpts []typing.Option, formOpts []contact.FormOption, submitter contact.Submitter) error {
	line := typing.NewLineTarget()
	seq, err := typing.NewSequencer(line, phrases, typingOpts...)
	if err != nil {
		return fmt.Errorf("failed to create typing sequencer: %w", err)
	}

	sig := tui.NewSignal()
	form, err := contact.NewForm(submitter, append(formOpts, contact.WithOnChange(sig.Notify))...)
	if err != nil {
		return fmt.Errorf("failed to create contact form: %w", err)
	}
	defer form.Close()

	model, err := tui.New(line, form, tui.WithFormSignal(sig))
	if err != nil {
		return err
	}

	if err := seq.Start(); err != nil {
		return fmt.Errorf("failed to start typing sequencer: %w", err)
	}
	defer seq.Stop()

	return tui.Run(ctx, model)
}

// buildTypingOptions constructs typing animation options
func buildTypingOptions(flags Flags, sched typing.Scheduler) []typing.Option {
	cfg := typing.Config{
		TypeInterval:   *flags.typeInterval,
		DeleteInterval: *flags.deleteInterval,
		PauseAfterType: *flags.pause,
		Loop:           !*flags.noLoop,
	}
	return []typing.Option{typing.WithConfig(cfg), typing.WithScheduler(sched)}
}

// buildFormOptions constructs contact form options
func buildFormOptions(flags Flags, sched contact.Scheduler) []contact.FormOption {
	return []contact.FormOption{
		contact.WithScheduler(sched),
		contact.WithBannerDuration(*flags.bannerDuration),
	}
}

// buildWebhookOptions constructs webhook submitter options
func buildWebhookOptions(flags Flags) []contact.WebhookOption {
	var opts []contact.WebhookOption
	if *flags.submitURL != "" {
		opts = append(opts, contact.WithWebhookURL(*flags.submitURL))
	}
	if *flags.submitTimeout > 0 {
		opts = append(opts, contact.WithWebhookTimeout(*flags.submitTimeout))
	}
	return opts
}

// buildSubmitter selects how the contact form is delivered.
func buildSubmitter(flags Flags) (contact.Submitter, error) {
	switch *flags.submitBackend {
	case backendWebhook:
		if *flags.submitURL == "" {
			slog.Warn("No contact form URL configured; submissions will fail", "env", "CYBERCORE_SUBMIT_URL")
			return contact.SubmitterFunc(func(context.Context, models.Submission) error {
				return contact.ErrMissingURL
			}), nil
		}
		webhook, err := contact.NewWebhookSubmitter(buildWebhookOptions(flags)...)
		if err != nil {
			return nil, fmt.Errorf("failed to create webhook submitter: %w", err)
		}
		return webhook, nil
	case backendTwilio:
		client, err := twiliosms.NewClient()
		if err != nil {
			return nil, fmt.Errorf("failed to create twilio client: %w", err)
		}
		sms, err := contact.NewTwilioSubmitter(client, *flags.twilioTo)
		if err != nil {
			return nil, fmt.Errorf("failed to create twilio submitter: %w", err)
		}
		return sms, nil
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownBackend, *flags.submitBackend)
	}
}
