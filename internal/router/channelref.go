package router

import (
	"context"
	"regexp"
	"strings"

	"github.com/spec-kit/ticket-bot/internal/platform"
	"github.com/spec-kit/ticket-bot/pkg/util"
)

var (
	mentionPattern = regexp.MustCompile(`^<#(\d+)>$`)
	numericPattern = regexp.MustCompile(`^\d+$`)
)

// ChannelResolver is the subset of guild lookups channel-reference parsing
// needs.
type ChannelResolver interface {
	ChannelByID(ctx context.Context, channelID string) (*platform.Channel, error)
	ChannelByName(ctx context.Context, name string) (*platform.Channel, error)
}

// ResolveChannelRef parses a free-text channel reference: `<#id>` mention
// syntax, a bare numeric id, or an exact channel-name match. The resolved
// channel must be text-capable.
func ResolveChannelRef(ctx context.Context, input string, resolver ChannelResolver) (*platform.Channel, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return nil, util.NewInvalidChannelRef(input)
	}

	var channel *platform.Channel
	var err error
	switch {
	case mentionPattern.MatchString(raw):
		id := mentionPattern.FindStringSubmatch(raw)[1]
		channel, err = resolver.ChannelByID(ctx, id)
	case numericPattern.MatchString(raw):
		channel, err = resolver.ChannelByID(ctx, raw)
	default:
		channel, err = resolver.ChannelByName(ctx, raw)
	}
	if err != nil || channel == nil {
		return nil, util.NewInvalidChannelRef(input)
	}
	if !channel.Text {
		return nil, util.NewInvalidChannelRef(input)
	}
	return channel, nil
}
