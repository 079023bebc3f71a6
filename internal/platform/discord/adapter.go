package discord

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"github.com/bwmarrin/discordgo"

	"github.com/spec-kit/ticket-bot/internal/platform"
)

const memberPageSize = 1000

// Adapter implements the platform interfaces over a discordgo session.
// discordgo performs its own HTTP handling; contexts are accepted to honor
// the interface contract and for future cancellation support.
type Adapter struct {
	s          *discordgo.Session
	guildID    string
	archiveMin int
}

var boolTrue = true

func (a *Adapter) CreatePrivateThread(_ context.Context, parentChannelID, name string) (*platform.Thread, error) {
	ch, err := a.s.ThreadStartComplex(parentChannelID, &discordgo.ThreadStart{
		Name:                name,
		AutoArchiveDuration: a.archiveMin,
		Type:                discordgo.ChannelTypeGuildPrivateThread,
		Invitable:           false,
	})
	if err != nil {
		return nil, err
	}
	return mapThread(ch), nil
}

func (a *Adapter) Thread(_ context.Context, threadID string) (*platform.Thread, error) {
	ch, err := a.channel(threadID)
	if err != nil {
		return nil, err
	}
	return mapThread(ch), nil
}

func (a *Adapter) AddMember(_ context.Context, threadID, userID string) error {
	return a.s.ThreadMemberAdd(threadID, userID)
}

func (a *Adapter) RemoveMember(_ context.Context, threadID, userID string) error {
	return a.s.ThreadMemberRemove(threadID, userID)
}

func (a *Adapter) Archive(_ context.Context, threadID string) error {
	_, err := a.s.ChannelEditComplex(threadID, &discordgo.ChannelEdit{Archived: &boolTrue})
	return err
}

func (a *Adapter) SetLocked(_ context.Context, threadID string, locked bool) error {
	_, err := a.s.ChannelEditComplex(threadID, &discordgo.ChannelEdit{Locked: &locked})
	return err
}

func (a *Adapter) Delete(_ context.Context, threadID string) error {
	_, err := a.s.ChannelDelete(threadID)
	return err
}

func (a *Adapter) Send(_ context.Context, channelID, content string) error {
	_, err := a.s.ChannelMessageSend(channelID, content)
	return err
}

func (a *Adapter) SendFile(_ context.Context, channelID, content string, file platform.File) error {
	_, err := a.s.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content: content,
		Files:   []*discordgo.File{toDiscordFile(file)},
	})
	return err
}

func (a *Adapter) DirectMessage(_ context.Context, userID, content string, file platform.File) error {
	dm, err := a.s.UserChannelCreate(userID)
	if err != nil {
		return err
	}
	_, err = a.s.ChannelMessageSendComplex(dm.ID, &discordgo.MessageSend{
		Content: content,
		Files:   []*discordgo.File{toDiscordFile(file)},
	})
	return err
}

// History returns one page strictly after afterID, oldest-first. Discord's
// ordering depends on the anchor parameter, so the page is re-sorted before
// returning.
func (a *Adapter) History(_ context.Context, threadID, afterID string, limit int) ([]platform.Message, error) {
	raw, err := a.s.ChannelMessages(threadID, limit, "", afterID, "")
	if err != nil {
		return nil, err
	}

	msgs := make([]platform.Message, 0, len(raw))
	for _, m := range raw {
		msg := platform.Message{
			ID:        m.ID,
			Content:   m.Content,
			Timestamp: m.Timestamp,
			HasEmbeds: len(m.Embeds) > 0,
		}
		if m.Author != nil {
			msg.AuthorID = m.Author.ID
			msg.AuthorName = m.Author.Username
		}
		for _, att := range m.Attachments {
			msg.Attachments = append(msg.Attachments, platform.Attachment{
				Filename: att.Filename,
				URL:      att.URL,
				Size:     int64(att.Size),
			})
		}
		msgs = append(msgs, msg)
	}

	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].Timestamp.Before(msgs[j].Timestamp)
	})
	return msgs, nil
}

// RoleMembers enumerates guild members holding the role, in the order the
// platform pages them out.
func (a *Adapter) RoleMembers(_ context.Context, roleID string) ([]platform.Member, error) {
	var result []platform.Member
	after := ""
	for {
		page, err := a.s.GuildMembers(a.guildID, after, memberPageSize)
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			break
		}
		for _, m := range page {
			if m.User == nil || !hasRole(m.Roles, roleID) {
				continue
			}
			name := m.Nick
			if name == "" {
				name = m.User.Username
			}
			result = append(result, platform.Member{ID: m.User.ID, DisplayName: name})
		}
		after = page[len(page)-1].User.ID
		if len(page) < memberPageSize {
			break
		}
	}
	return result, nil
}

func (a *Adapter) ChannelByID(_ context.Context, channelID string) (*platform.Channel, error) {
	ch, err := a.channel(channelID)
	if err != nil {
		return nil, err
	}
	return mapChannel(ch), nil
}

func (a *Adapter) ChannelByName(_ context.Context, name string) (*platform.Channel, error) {
	channels, err := a.s.GuildChannels(a.guildID)
	if err != nil {
		return nil, err
	}
	for _, ch := range channels {
		if ch.Name == name {
			return mapChannel(ch), nil
		}
	}
	return nil, fmt.Errorf("no channel named %q", name)
}

// channel prefers the gateway state cache and falls back to the REST API.
func (a *Adapter) channel(id string) (*discordgo.Channel, error) {
	if ch, err := a.s.State.Channel(id); err == nil {
		return ch, nil
	}
	return a.s.Channel(id)
}

func (a *Adapter) isThread(channelID string) bool {
	ch, err := a.channel(channelID)
	return err == nil && ch.IsThread()
}

func mapThread(ch *discordgo.Channel) *platform.Thread {
	t := &platform.Thread{
		ID:       ch.ID,
		Name:     ch.Name,
		ParentID: ch.ParentID,
	}
	if ch.ThreadMetadata != nil {
		t.Locked = ch.ThreadMetadata.Locked
	}
	if ts, err := discordgo.SnowflakeTimestamp(ch.ID); err == nil {
		t.CreatedAt = ts
	}
	return t
}

func mapChannel(ch *discordgo.Channel) *platform.Channel {
	return &platform.Channel{
		ID:   ch.ID,
		Name: ch.Name,
		Text: ch.Type == discordgo.ChannelTypeGuildText || ch.Type == discordgo.ChannelTypeGuildNews,
	}
}

func toDiscordFile(file platform.File) *discordgo.File {
	return &discordgo.File{
		Name:        file.Name,
		ContentType: "text/plain; charset=utf-8",
		Reader:      bytes.NewReader(file.Contents),
	}
}

func hasRole(roles []string, roleID string) bool {
	for _, r := range roles {
		if r == roleID {
			return true
		}
	}
	return false
}
