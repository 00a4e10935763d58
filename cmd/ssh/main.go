package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"horizonfolio/internal/config"
	"horizonfolio/internal/feed"
	"horizonfolio/internal/logger"
	"horizonfolio/internal/portfolio"
	"horizonfolio/internal/tui"
	"horizonfolio/internal/visual"
	"horizonfolio/pkg/tracing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"
	"github.com/joho/godotenv"
	gossh "golang.org/x/crypto/ssh"
)

const connectivityInterval = 30 * time.Second

var (
	loadEnvFunc       = godotenv.Load
	loadConfigFunc    = config.Load
	initTracerFunc    = tracing.InitTracer
	loadContentFunc   = portfolio.Load
	newFeedClientFunc = func(cfg *config.Config) *feed.Client {
		return feed.NewClient(feed.NewHTTPFetcher(cfg.MarketDataURL, nil), feed.Options{
			DedupeInterval: time.Duration(cfg.FeedDedupeSecs) * time.Second,
			FocusThrottle:  time.Duration(cfg.FeedFocusThrottleSecs) * time.Second,
		})
	}
	startConnectivityFunc = func(ctx context.Context, client *feed.Client, probeURL string) {
		go client.WatchConnectivity(ctx, feed.HTTPProbe(probeURL, nil), connectivityInterval)
	}
	newWishServerFunc = wish.NewServer
	setupSignalNotify = ossignal.Notify
	waitForSignalFunc = func(quit <-chan os.Signal) { <-quit }
)

func main() {
	loadEnvFunc()
	logger.Init()
	log := logger.WithComponent("ssh")

	cfg := loadConfigFunc()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tp, _, err := initTracerFunc(ctx, tracing.DefaultServiceName+"-ssh")
	if err != nil {
		log.WithError(err).Fatal("failed to initialize tracer")
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.WithError(err).Error("error shutting down tracer provider")
		}
	}()

	content, err := loadContentFunc(cfg.PortfolioContentPath)
	if err != nil {
		log.WithError(err).Fatal("failed to load portfolio content")
	}

	// One client per process: every session shares its cache and requests.
	client := newFeedClientFunc(cfg)
	defer client.Close()

	visuals := visual.NewStore()
	unlink := tui.LinkVisuals(client, visuals)
	defer unlink()

	startConnectivityFunc(ctx, client, healthURL(cfg.MarketDataURL))

	addr := fmt.Sprintf("0.0.0.0:%d", cfg.SSHPort)

	srv, err := newWishServerFunc(
		wish.WithAddress(addr),
		wish.WithHostKeyPath(cfg.SSHHostKeyPath),
		// The portfolio is public. Keys are only logged.
		wish.WithPublicKeyAuth(func(ctx ssh.Context, key ssh.PublicKey) bool {
			log.WithField("user", ctx.User()).WithField("fingerprint", gossh.FingerprintSHA256(key)).Info("SSH visitor")
			return true
		}),
		wish.WithKeyboardInteractiveAuth(func(ctx ssh.Context, _ gossh.KeyboardInteractiveChallenge) bool {
			log.WithField("user", ctx.User()).Info("SSH visitor without key")
			return true
		}),
		wish.WithMiddleware(
			bubbletea.Middleware(func(s ssh.Session) (tea.Model, []tea.ProgramOption) {
				model := tui.NewModel(content, client, visuals, bubbletea.MakeRenderer(s), tui.DefaultTypewriterOptions())
				pty, _, _ := s.Pty()
				model.SetSize(pty.Window.Width, pty.Window.Height)

				go func() {
					<-s.Context().Done()
					model.Close()
				}()

				return model, []tea.ProgramOption{tea.WithAltScreen(), tea.WithReportFocus()}
			}),
			logging.Middleware(),
		),
	)
	if err != nil {
		log.WithError(err).Fatal("failed to create SSH server")
	}

	if srv != nil {
		go func() {
			log.WithField("addr", addr).Info("SSH server listening")
			if err := srv.ListenAndServe(); err != nil {
				log.WithError(err).Info("SSH server stopped")
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Info("shutting down SSH server")

	cancel()

	if srv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("SSH server shutdown error")
		}
	}

	log.Info("SSH server exited")
}

// healthURL points at /health on the market-data host.
func healthURL(marketDataURL string) string {
	u, err := url.Parse(marketDataURL)
	if err != nil || u.Host == "" {
		return marketDataURL
	}
	u.Path = "/health"
	u.RawQuery = ""
	return u.String()
}
