// Command devtoken mints HS256 access tokens accepted by the API server, for
// local development and manual testing.
//
// The signing secret comes from -secret, the CAREHIRE_AUTH_JWT_SECRET
// environment variable, or a config file passed with -config.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/carehire/carehire-api/internal/config"
	"github.com/carehire/carehire-api/internal/domain"
	"github.com/carehire/carehire-api/internal/service/auth"
)

const secretEnv = config.EnvPrefix + "_AUTH_JWT_SECRET"

type options struct {
	configPath string
	secret     string
	subject    string
	email      string
	userType   string
	ttl        time.Duration
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("devtoken", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "config file to read auth.jwt_secret from")
	fs.StringVar(&opts.secret, "secret", os.Getenv(secretEnv), "signing secret (default $"+secretEnv+")")
	fs.StringVar(&opts.subject, "sub", "", "subject user id (default: a random UUID)")
	fs.StringVar(&opts.email, "email", "dev@example.com", "email claim")
	fs.StringVar(&opts.userType, "user-type", string(domain.ProfileJobSeeker),
		"user_type metadata claim: job_seeker, employer or empty")
	fs.DurationVar(&opts.ttl, "ttl", time.Hour, "token lifetime; negative values mint an expired token")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	return opts, nil
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "devtoken:", err)
		}
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	secret := opts.secret
	if opts.configPath != "" {
		cfg, err := config.LoadFile(opts.configPath)
		if err != nil {
			return err
		}
		secret = cfg.Auth.JWTSecret
	}

	subject := uuid.New()
	if opts.subject != "" {
		if subject, err = uuid.Parse(opts.subject); err != nil {
			return fmt.Errorf("invalid -sub: %w", err)
		}
	}

	switch domain.ProfileKind(opts.userType) {
	case "", domain.ProfileJobSeeker, domain.ProfileEmployer:
	default:
		return fmt.Errorf("invalid -user-type %q", opts.userType)
	}

	issuer, err := auth.NewIssuer(secret)
	if err != nil {
		return fmt.Errorf("%w (set -secret or %s)", err, secretEnv)
	}

	token, err := issuer.Issue(auth.TokenRequest{
		Subject:  subject,
		Email:    opts.email,
		UserType: opts.userType,
		TTL:      opts.ttl,
	})
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(stdout, token)
	return err
}
