package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"horizonfolio/internal/logger"
	"horizonfolio/internal/portfolio"
	"horizonfolio/internal/service"
	"horizonfolio/internal/visual"

	tele "gopkg.in/telebot.v3"
)

const commandTimeout = 15 * time.Second

type MarketDataReader interface {
	GetMarketData(ctx context.Context) (*service.MarketDataResult, error)
}

var newBot = tele.NewBot

// StartTelegramBot answers /ping, /sentiment, /visual and /projects. It is a
// no-op without a token.
func StartTelegramBot(token string, marketData MarketDataReader, content *portfolio.Content) {
	log := logger.WithComponent("telegram")
	if token == "" {
		log.Info("TELEGRAM_BOT_TOKEN not set, skipping Telegram bot startup")
		return
	}
	if content == nil {
		content = portfolio.Default()
	}

	b, err := newBot(tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		log.WithError(err).Fatal("failed to create Telegram bot")
	}

	b.Handle("/ping", func(c tele.Context) error {
		return c.Send("pong")
	})

	b.Handle("/sentiment", func(c tele.Context) error {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		res, err := marketData.GetMarketData(ctx)
		return c.Send(sentimentMessage(res, err))
	})

	b.Handle("/visual", func(c tele.Context) error {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		res, err := marketData.GetMarketData(ctx)
		return c.Send(visualMessage(res, err))
	})

	b.Handle("/projects", func(c tele.Context) error {
		return c.Send(projectsMessage(content), tele.NoPreview)
	})

	log.Info("Telegram bot started")
	go b.Start()
}

func sentimentMessage(res *service.MarketDataResult, err error) string {
	if err != nil {
		return "Market sentiment is unavailable right now."
	}
	r := res.Payload.LatestFearAndGreed
	msg := fmt.Sprintf("Crypto Fear & Greed: %.0f (%s)\nUpdated: %s",
		r.Value, visual.Label(r.Classification, r.Value), r.UpdateTime)
	if alt := res.Payload.AlternativeFearAndGreed; alt != nil {
		msg += fmt.Sprintf("\nalternative.me: %.0f (%s)", alt.Value, visual.Label(alt.Classification, alt.Value))
	}
	return msg
}

func visualMessage(res *service.MarketDataResult, err error) string {
	source := "live"
	var params *visual.Params
	if err == nil {
		params = visual.Map(res.Payload)
	}
	if params == nil {
		source = "default"
	}
	p := visual.OrDefault(params)
	return fmt.Sprintf(
		"Scene (%s)\nDisk colour: %s\nVelocity: %.2f\nTurbulence: %.2f\nCore intensity: %.2f\nPulse rate: %.2f",
		source, p.DiskColor, p.DiskVelocity, p.DiskTurbulence, p.CoreIntensity, p.PulseRate,
	)
}

func projectsMessage(content *portfolio.Content) string {
	var sb strings.Builder
	for i, p := range content.Projects {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "%s\n%s\n%s", p.Title, p.Description, strings.Join(p.TechStack, " · "))
		if p.GithubURL != "" {
			fmt.Fprintf(&sb, "\n%s", p.GithubURL)
		}
	}
	return sb.String()
}
