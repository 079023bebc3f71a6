// Package discord adapts the platform interfaces onto the Discord gateway
// via discordgo. Nothing outside this package imports the SDK.
package discord

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-bot/internal/config"
	"github.com/spec-kit/ticket-bot/internal/router"
)

// Session owns the gateway connection and translates interaction events
// into router dispatches.
type Session struct {
	s          *discordgo.Session
	cfg        config.DiscordConfig
	archiveMin int
	router     *router.Router
	logger     *zap.Logger
}

// NewSession builds the gateway session without opening it.
func NewSession(cfg config.DiscordConfig, ticketCfg config.TicketConfig, logger *zap.Logger) (*Session, error) {
	s, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, err
	}
	s.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildMessages |
		discordgo.IntentMessageContent

	return &Session{
		s:          s,
		cfg:        cfg,
		archiveMin: ticketCfg.ThreadAutoArchiveMin,
		logger:     logger,
	}, nil
}

// Adapter returns the platform implementation backed by this session.
func (s *Session) Adapter() *Adapter {
	return &Adapter{s: s.s, guildID: s.cfg.GuildID, archiveMin: s.archiveMin}
}

// Open registers gateway handlers and connects. The router must already
// hold the full control-tag table: controls rendered before any previous
// restart resolve against it.
func (s *Session) Open(r *router.Router) error {
	s.router = r
	s.s.AddHandler(s.onReady)
	s.s.AddHandler(s.onInteraction)
	return s.s.Open()
}

// Close shuts down the gateway connection.
func (s *Session) Close() error {
	return s.s.Close()
}

// Healthy reports whether the gateway connection has completed its ready
// handshake.
func (s *Session) Healthy() bool {
	return s.s.DataReady
}

// Latency returns the most recent gateway heartbeat round-trip.
func (s *Session) Latency() time.Duration {
	return s.s.HeartbeatLatency()
}

func (s *Session) onReady(ds *discordgo.Session, r *discordgo.Ready) {
	s.logger.Info("gateway ready",
		zap.String("user", r.User.Username),
		zap.String("user_id", r.User.ID))

	if _, err := ds.ApplicationCommandBulkOverwrite(r.User.ID, s.cfg.GuildID, commandDefinitions()); err != nil {
		s.logger.Error("could not register application commands", zap.Error(err))
	} else {
		s.logger.Info("application commands registered", zap.String("guild_id", s.cfg.GuildID))
	}

	if s.cfg.MenuChannelID != "" {
		adapter := s.Adapter()
		if err := adapter.PostTicketMenu(context.Background(), s.cfg.MenuChannelID); err != nil {
			s.logger.Warn("could not auto-post ticket menu",
				zap.String("channel_id", s.cfg.MenuChannelID),
				zap.Error(err))
		}
	}
}
