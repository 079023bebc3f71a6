package service

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/spec-kit/ticket-bot/internal/config"
	"github.com/spec-kit/ticket-bot/internal/domain"
	"github.com/spec-kit/ticket-bot/internal/events"
	"github.com/spec-kit/ticket-bot/internal/platform"
	"github.com/spec-kit/ticket-bot/internal/repository"
	"github.com/spec-kit/ticket-bot/pkg/util"
)

// ProvisionService creates the private thread for a new ticket, adds the
// creator and eligible staff under a rate budget, and persists the record.
type ProvisionService struct {
	threads     platform.ThreadService
	guild       platform.GuildService
	composer    platform.Composer
	store       repository.TicketStore
	dispatcher  events.Dispatcher
	limiter     *rate.Limiter
	logger      *zap.Logger
	staffRoleID string
	cfg         config.TicketConfig
}

// ProvisionDependencies bundles collaborators for the provisioning engine.
type ProvisionDependencies struct {
	Threads    platform.ThreadService
	Guild      platform.GuildService
	Composer   platform.Composer
	Store      repository.TicketStore
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// AddSummary counts the outcome of the best-effort staff bulk-add so
// partial success stays observable instead of silently discarded.
type AddSummary struct {
	Attempted int
	Added     int
	Failed    int
}

// ProvisionResult reports the provisioned thread and the fallback decision.
type ProvisionResult struct {
	Ticket                *domain.TicketRecord
	Thread                *platform.Thread
	FallbackMentionNeeded bool
	StaffAdds             AddSummary
}

// NewProvisionService constructs the service.
func NewProvisionService(deps ProvisionDependencies, staffRoleID string, cfg config.TicketConfig) *ProvisionService {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.StaffAddInterval > 0 {
		limiter = rate.NewLimiter(rate.Every(cfg.StaffAddInterval), 1)
	}
	return &ProvisionService{
		threads:     deps.Threads,
		guild:       deps.Guild,
		composer:    deps.Composer,
		store:       deps.Store,
		dispatcher:  deps.Dispatcher,
		limiter:     limiter,
		logger:      deps.Logger,
		staffRoleID: staffRoleID,
		cfg:         cfg,
	}
}

// ThreadName derives a thread name from the category and the creator's
// display name: lower-cased category keeping [a-z0-9_-] capped at 12, the
// name keeping [a-z0-9] capped at 8 ("u" when nothing survives), and a
// uniform 4-digit disambiguator in [1000, 9999]. Collisions are accepted as
// a low-probability risk.
func ThreadName(category domain.Category, displayName string) string {
	base := sanitize(string(category), "-_", 12)
	if base == "" {
		base = "ticket"
	}
	user := sanitize(displayName, "", 8)
	if user == "" {
		user = "u"
	}
	return fmt.Sprintf("%s-%s-%d", base, user, 1000+rand.Intn(9000))
}

func sanitize(s, extra string, max int) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || strings.ContainsRune(extra, r) {
			b.WriteRune(r)
		}
		if b.Len() >= max {
			break
		}
	}
	return b.String()
}

// Provision runs the provisioning sequence. Only thread creation is fatal;
// member additions, persistence and the welcome message are best-effort.
func (s *ProvisionService) Provision(ctx context.Context, category domain.Category, creator domain.Actor, parentChannelID string) (*ProvisionResult, error) {
	name := ThreadName(category, creator.DisplayName)

	thread, err := s.threads.CreatePrivateThread(ctx, parentChannelID, name)
	if err != nil {
		return nil, util.NewProvisionError("could not create ticket thread", err)
	}

	if err := s.threads.AddMember(ctx, thread.ID, creator.ID); err != nil {
		// Creator usually has implicit access as thread author.
		s.logger.Warn("could not add creator to thread",
			zap.String("thread_id", thread.ID),
			zap.String("user_id", creator.ID),
			zap.Error(err))
	}

	summary, fallback := s.addStaff(ctx, thread.ID)

	rec := &domain.TicketRecord{
		ThreadID:      thread.ID,
		ChannelID:     parentChannelID,
		CreatorUserID: creator.ID,
		Category:      category,
		Status:        domain.TicketStatusOpen,
		CreatedAt:     time.Now().UTC(),
	}
	stored, err := s.store.Create(ctx, rec)
	if err != nil {
		s.logger.Error("could not persist ticket record",
			zap.String("thread_id", thread.ID),
			zap.Error(err))
		stored = rec
	}

	welcome := fmt.Sprintf("Hello <@%s>, thanks for your ticket (%s). A staff member will be with you shortly.",
		creator.ID, category.Label())
	if fallback && s.staffRoleID != "" {
		welcome += fmt.Sprintf("\n\nNote: not all staff could be added directly — tagging the role instead: <@&%s>", s.staffRoleID)
	}
	if err := s.composer.PostWelcome(ctx, thread.ID, welcome); err != nil {
		s.logger.Warn("could not post welcome message", zap.String("thread_id", thread.ID), zap.Error(err))
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			Type:      events.EventTicketOpened,
			ThreadID:  thread.ID,
			ActorID:   creator.ID,
			Timestamp: time.Now().UTC(),
			Payload: events.TicketOpenedPayload{
				Category:        category,
				CreatorUserID:   creator.ID,
				StaffAdded:      summary.Added,
				StaffAddFailed:  summary.Failed,
				FallbackMention: fallback,
			},
		})
	}

	return &ProvisionResult{
		Ticket:                stored,
		Thread:                thread,
		FallbackMentionNeeded: fallback,
		StaffAdds:             summary,
	}, nil
}

// addStaff adds the first StaffAddLimit members of the staff role in the
// platform-provided order, paced by the limiter. Each individual failure is
// counted and skipped; a ticket with only some staff added is still usable.
func (s *ProvisionService) addStaff(ctx context.Context, threadID string) (AddSummary, bool) {
	var summary AddSummary
	if s.staffRoleID == "" {
		return summary, false
	}

	members, err := s.guild.RoleMembers(ctx, s.staffRoleID)
	if err != nil {
		s.logger.Warn("could not enumerate staff role", zap.String("role_id", s.staffRoleID), zap.Error(err))
		return summary, false
	}

	limit := s.cfg.StaffAddLimit
	for i, m := range members {
		if i >= limit {
			break
		}
		summary.Attempted++
		if err := s.limiter.Wait(ctx); err != nil {
			summary.Failed++
			continue
		}
		if err := s.threads.AddMember(ctx, threadID, m.ID); err != nil {
			summary.Failed++
			s.logger.Debug("could not add staff member",
				zap.String("thread_id", threadID),
				zap.String("user_id", m.ID),
				zap.Error(err))
			continue
		}
		summary.Added++
	}

	return summary, len(members) > limit
}
