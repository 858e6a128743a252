// Command medctl signs a patient in against the on-call API from a terminal.
//
//	medctl register --email ana@example.com --password secret
//	medctl whoami --email ana@example.com
//
// The password may also come from MEDCTL_PASSWORD.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/medictrans/oncall-api/internal/apiclient"
	"github.com/medictrans/oncall-api/internal/identity"
	"github.com/medictrans/oncall-api/internal/session"
	"github.com/medictrans/oncall-api/pkg/logger"
)

const usage = `usage: medctl <register|login|whoami|logout> [flags]

flags:
`

type options struct {
	api      string
	apiKey   string
	email    string
	password string
	timeout  time.Duration
	verbose  bool
}

func parse(args []string) (string, *options, error) {
	fs := pflag.NewFlagSet("medctl", pflag.ContinueOnError)
	opts := &options{}
	fs.StringVar(&opts.api, "api", envOr("MEDCTL_API", "http://localhost:8080"), "API base URL")
	fs.StringVar(&opts.apiKey, "api-key", os.Getenv("FIREBASE_API_KEY"), "Firebase web API key")
	fs.StringVarP(&opts.email, "email", "e", "", "account email")
	fs.StringVarP(&opts.password, "password", "p", os.Getenv("MEDCTL_PASSWORD"), "account password")
	fs.DurationVar(&opts.timeout, "timeout", 30*time.Second, "overall timeout")
	fs.BoolVarP(&opts.verbose, "verbose", "v", false, "log session transitions")
	fs.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return "", nil, err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return "", nil, fmt.Errorf("expected exactly one command")
	}
	if opts.email == "" || opts.password == "" {
		return "", nil, fmt.Errorf("--email and --password are required")
	}
	if opts.apiKey == "" {
		return "", nil, fmt.Errorf("--api-key or FIREBASE_API_KEY is required")
	}
	return fs.Arg(0), opts, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	cmd, opts, err := parse(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "medctl:", err)
		os.Exit(2)
	}

	if err := run(cmd, opts); err != nil {
		fmt.Fprintln(os.Stderr, "medctl:", err)
		os.Exit(1)
	}
}

func run(cmd string, opts *options) error {
	level := logger.WarnLevel
	if opts.verbose {
		level = logger.DebugLevel
	}
	log := logger.NewLogger(&logger.Config{Level: level, Output: os.Stderr, Console: true}).Zerolog()

	ctx, cancel := context.WithTimeout(context.Background(), opts.timeout)
	defer cancel()

	backend, err := identity.NewFirebase(ctx, identity.FirebaseConfig{APIKey: opts.apiKey})
	if err != nil {
		return err
	}
	idp := identity.NewClient(backend)
	api := apiclient.New(opts.api, func() string {
		if cred := idp.Current(); cred != nil {
			return cred.IDToken
		}
		return ""
	})

	adapter := session.NewAdapter(idp, api, log)
	adapter.Start(ctx)
	defer adapter.Stop()

	if opts.verbose {
		unsubscribe := adapter.Subscribe(func(st session.State) {
			logState(log, st)
		})
		defer unsubscribe()
	}

	switch cmd {
	case "register":
		if _, err := adapter.Register(ctx, opts.email, opts.password); err != nil {
			return err
		}
	case "login", "whoami":
		if _, err := adapter.Login(ctx, opts.email, opts.password); err != nil {
			return err
		}
	case "logout":
		if _, err := adapter.Login(ctx, opts.email, opts.password); err != nil {
			return err
		}
		if _, err := adapter.WaitFor(ctx, session.Settled); err != nil {
			return err
		}
		if err := adapter.SignOut(ctx); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}

	st, err := adapter.WaitFor(ctx, session.Settled)
	if err != nil {
		return fmt.Errorf("session did not settle: %w", err)
	}
	return report(cmd, st)
}

func report(cmd string, st session.State) error {
	if st.Err != nil {
		return fmt.Errorf("failed to load profile: %w", st.Err)
	}
	if cmd == "logout" || st.Status != session.StatusAuthenticated {
		fmt.Println(st.Status)
		return nil
	}
	if cmd == "whoami" {
		fmt.Printf("%s (%s)\n", st.User.Email, st.User.Role)
		return nil
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(st.User)
}

func logState(log zerolog.Logger, st session.State) {
	ev := log.Debug().Str("status", st.Status.String()).Bool("loading", st.Loading)
	if st.User != nil {
		ev = ev.Str("uid", st.User.ID)
	}
	ev.Err(st.Err).Msg("session state")
}
