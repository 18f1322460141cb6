package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	contentsync "github.com/goliatone/go-content-sync"
	synccmd "github.com/goliatone/go-content-sync/internal/commands/sync"
	"github.com/goliatone/go-content-sync/internal/content"
	synchttp "github.com/goliatone/go-content-sync/internal/http"
	"github.com/goliatone/go-content-sync/internal/jobs"
	"github.com/goliatone/go-content-sync/internal/logging"
)

var moduleBuilder = func(cfg contentsync.Config) (*contentsync.Module, error) {
	return contentsync.New(cfg)
}

var errUsage = errors.New("usage: contentsync [flags] list <slides|team|testimonials|services|navigation> | service <slug> | subscribe <email> | refresh [tags...] | serve")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("contentsync: %v", err)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	cfg := contentsync.DefaultConfig()
	if err := contentsync.LoadEnv(&cfg); err != nil {
		return err
	}

	fs := flag.NewFlagSet("contentsync", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	apiURL := fs.String("api-url", cfg.API.BaseURL, "Content API origin (CONTENT_API_URL)")
	token := fs.String("token", cfg.API.Token, "Content API bearer token (CONTENT_API_TOKEN)")
	loc := fs.String("locale", cfg.Locale.Primary, "Locale used for navigation and messages")
	page := fs.Int("page", 0, "Services page; zero lists every service")
	pageSize := fs.Int("page-size", 0, "Services page size")
	category := fs.String("category", "", "Services category filter")
	warm := fs.Bool("warm", false, "Re-read refreshed collections right away")
	addr := fs.String("addr", cfg.HTTP.ListenAddr, "Listen address for serve")
	warmEvery := fs.Duration("warm-every", 0, "Re-warm the content cache on this interval while serving")
	logProvider := fs.String("log", cfg.Logging.Provider, "Logging provider: console, gologger or none")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	rest := fs.Args()
	if len(rest) == 0 {
		return errUsage
	}

	cfg.API.BaseURL = *apiURL
	cfg.API.Token = *token
	cfg.HTTP.ListenAddr = *addr
	cfg.Logging.Provider = *logProvider

	module, err := moduleBuilder(cfg)
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Close()

	ctx = content.WithLocale(ctx, *loc)
	repo := module.Content()

	switch cmd, params := rest[0], rest[1:]; cmd {
	case "list":
		if len(params) != 1 {
			return errUsage
		}
		switch params[0] {
		case "slides":
			return writeJSON(out, repo.ListSlides(ctx))
		case "team":
			return writeJSON(out, repo.ListTeamMembers(ctx))
		case "testimonials":
			return writeJSON(out, repo.ListTestimonials(ctx))
		case "services":
			if *page > 0 || *pageSize > 0 || *category != "" {
				return writeJSON(out, repo.ListServicesPaged(ctx, contentsync.ServiceQuery{
					Page:     *page,
					PageSize: *pageSize,
					Category: *category,
				}))
			}
			return writeJSON(out, repo.ListServices(ctx))
		case "navigation":
			return writeJSON(out, repo.GetNavigation(ctx, *loc))
		default:
			return fmt.Errorf("%w: unknown kind %q", errUsage, params[0])
		}

	case "service":
		if len(params) != 1 {
			return errUsage
		}
		svc := repo.GetServiceBySlug(ctx, params[0])
		if svc == nil {
			return fmt.Errorf("service %q: %s", params[0], content.Message(content.NotFound, *loc))
		}
		return writeJSON(out, svc)

	case "subscribe":
		if len(params) != 1 {
			return errUsage
		}
		err := module.Subscribe(ctx, contentsync.SubscribeCommand{Email: params[0], Locale: *loc})
		var subErr *synccmd.SubscriptionError
		if errors.As(err, &subErr) {
			return errors.New(subErr.Result.Message)
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(out, content.Message("", *loc))
		return nil

	case "refresh":
		if err := module.RefreshContent(ctx, contentsync.RefreshContentCommand{Tags: params, Warm: *warm}); err != nil {
			return err
		}
		fmt.Fprintln(out, "content cache refreshed")
		return nil

	case "serve":
		provider := module.Container().LoggerProvider()
		if *warmEvery > 0 {
			scheme := module.Container().Scheme()
			worker := jobs.NewWorker(module.Container().RefreshHandler(), *warmEvery,
				jobs.WithLocales(scheme.Primary, scheme.Alternate),
				jobs.WithLogger(logging.ModuleLogger(provider, "sync.jobs")),
			)
			go func() { _ = worker.Run(ctx) }()
		}
		return synchttp.ListenAndServe(ctx, cfg.HTTP.ListenAddr, module.Handler(), logging.HTTPLogger(provider))

	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, strings.TrimSpace(cmd))
	}
}

func writeJSON(out io.Writer, value any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}
