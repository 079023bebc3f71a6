package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-bot/internal/auth"
	"github.com/spec-kit/ticket-bot/internal/domain"
	"github.com/spec-kit/ticket-bot/internal/events"
	"github.com/spec-kit/ticket-bot/internal/platform"
	"github.com/spec-kit/ticket-bot/internal/repository"
	"github.com/spec-kit/ticket-bot/pkg/util"
)

// ConfigKeyTranscriptChannel is the config-table key for the default
// transcript destination channel.
const ConfigKeyTranscriptChannel = "transcript_channel_id"

const historyPageSize = 100

const timestampLayout = "2006-01-02 15:04:05"

// Destination kinds reported after delivery.
const (
	DeliveredToChannel = "channel"
	DeliveredToDM      = "dm"
)

// TranscriptService exports a thread's complete message history into a
// portable UTF-8 text document and delivers it.
type TranscriptService struct {
	threads    platform.ThreadService
	messages   platform.MessageService
	guild      platform.GuildService
	store      repository.TicketStore
	config     repository.ConfigStore
	guard      auth.Guard
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// TranscriptDependencies bundles collaborators for the transcript service.
type TranscriptDependencies struct {
	Threads    platform.ThreadService
	Messages   platform.MessageService
	Guild      platform.GuildService
	Store      repository.TicketStore
	Config     repository.ConfigStore
	Guard      auth.Guard
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewTranscriptService constructs the service.
func NewTranscriptService(deps TranscriptDependencies) *TranscriptService {
	return &TranscriptService{
		threads:    deps.Threads,
		messages:   deps.Messages,
		guild:      deps.Guild,
		store:      deps.Store,
		config:     deps.Config,
		guard:      deps.Guard,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// Generate retrieves the complete message history of the thread, oldest
// first, and renders the transcript document. Retrieval is paginated but
// unbounded; ordering is enforced by timestamp regardless of page order.
func (s *TranscriptService) Generate(ctx context.Context, threadID string) (platform.File, error) {
	thread, err := s.threads.Thread(ctx, threadID)
	if err != nil {
		return platform.File{}, util.NewPlatformError("could not load thread", err)
	}

	parentName := "unknown"
	if parent, err := s.guild.ChannelByID(ctx, thread.ParentID); err == nil && parent != nil {
		parentName = parent.Name
	}

	var msgs []platform.Message
	afterID := ""
	for {
		page, err := s.messages.History(ctx, threadID, afterID, historyPageSize)
		if err != nil {
			return platform.File{}, util.NewPlatformError("could not fetch thread history", err)
		}
		if len(page) == 0 {
			break
		}
		msgs = append(msgs, page...)
		afterID = page[len(page)-1].ID
		if len(page) < historyPageSize {
			break
		}
	}

	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].Timestamp.Before(msgs[j].Timestamp)
	})

	var b strings.Builder
	fmt.Fprintf(&b, "Transcript for thread %s (id: %s)\nChannel: %s\nCreated: %s\n\n",
		thread.Name, thread.ID, parentName, thread.CreatedAt.UTC().Format(timestampLayout))

	for _, m := range msgs {
		content := m.Content
		for _, a := range m.Attachments {
			content += fmt.Sprintf("\n[Attachment] filename=%s url=%s size=%d", a.Filename, a.URL, a.Size)
		}
		if m.HasEmbeds {
			content += "\n[Embeds present]"
		}
		fmt.Fprintf(&b, "[%s] %s (id:%s): %s\n",
			m.Timestamp.UTC().Format(timestampLayout), m.AuthorName, m.AuthorID, content)
	}

	return platform.File{
		Name:     fmt.Sprintf("transcript-%s-%s.txt", thread.Name, thread.ID),
		Contents: []byte(b.String()),
	}, nil
}

// Deliver posts the document to the configured default transcript channel,
// falling back to a direct message to the requester, and fails only when
// neither destination accepts it.
func (s *TranscriptService) Deliver(ctx context.Context, doc platform.File, threadName, threadID, requesterID string) (string, error) {
	dest, ok, err := s.config.Get(ctx, ConfigKeyTranscriptChannel)
	if err != nil {
		s.logger.Warn("could not read transcript destination", zap.Error(err))
	}
	caption := fmt.Sprintf("📜 Transcript for ticket %s (id:%s)", threadName, threadID)

	if ok && dest != "" {
		if err := s.messages.SendFile(ctx, dest, caption, doc); err == nil {
			s.publishDelivered(ctx, threadID, requesterID, DeliveredToChannel)
			return DeliveredToChannel, nil
		} else {
			s.logger.Warn("could not post transcript to channel",
				zap.String("channel_id", dest),
				zap.Error(err))
		}
	}

	if err := s.messages.DirectMessage(ctx, requesterID, caption, doc); err == nil {
		s.publishDelivered(ctx, threadID, requesterID, DeliveredToDM)
		return DeliveredToDM, nil
	} else {
		return "", util.NewDeliveryFailure("could not deliver transcript anywhere", err)
	}
}

// Request handles an on-demand transcript: authorize, generate, deliver.
func (s *TranscriptService) Request(ctx context.Context, actor domain.Actor, threadID string) (string, error) {
	rec, err := s.store.GetByThread(ctx, threadID)
	if err != nil {
		return "", err
	}
	if !s.guard.CanRequestTranscript(actor, rec) {
		return "", util.NewPermissionDenied("only the ticket creator or staff can request transcripts")
	}

	doc, err := s.Generate(ctx, threadID)
	if err != nil {
		return "", err
	}
	thread, err := s.threads.Thread(ctx, threadID)
	if err != nil {
		return "", util.NewPlatformError("could not load thread", err)
	}
	return s.Deliver(ctx, doc, thread.Name, threadID, actor.ID)
}

// SetDestination stores the default transcript channel (upsert).
func (s *TranscriptService) SetDestination(ctx context.Context, channelID string) error {
	return s.config.Set(ctx, ConfigKeyTranscriptChannel, channelID)
}

// SeedDefaultDestination writes the env-provided default only when no value
// was ever set, so explicit set actions always win.
func (s *TranscriptService) SeedDefaultDestination(ctx context.Context, channelID string) error {
	if channelID == "" {
		return nil
	}
	return s.config.SetDefault(ctx, ConfigKeyTranscriptChannel, channelID)
}

func (s *TranscriptService) publishDelivered(ctx context.Context, threadID, actorID, destination string) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		Type:      events.EventTranscriptDelivered,
		ThreadID:  threadID,
		ActorID:   actorID,
		Timestamp: time.Now().UTC(),
		Payload:   events.TranscriptDeliveredPayload{Destination: destination},
	})
}
