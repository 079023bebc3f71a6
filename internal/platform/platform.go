// Package platform defines the interface boundary to the chat platform.
// Core packages depend only on these interfaces; the SDK adapter lives in
// the discord subpackage.
package platform

import (
	"context"
	"time"
)

// Thread is a scoped, permissioned sub-conversation under a parent channel.
type Thread struct {
	ID        string
	Name      string
	ParentID  string
	Locked    bool
	CreatedAt time.Time
}

// Channel is a guild channel; Text marks text-capable channels.
type Channel struct {
	ID   string
	Name string
	Text bool
}

// Member is a guild member as enumerated from a role.
type Member struct {
	ID          string
	DisplayName string
}

// Attachment carries the metadata serialized into transcripts.
type Attachment struct {
	Filename string
	URL      string
	Size     int64
}

// Message is one message of a thread's history.
type Message struct {
	ID          string
	AuthorID    string
	AuthorName  string
	Content     string
	Timestamp   time.Time
	Attachments []Attachment
	HasEmbeds   bool
}

// File is an uploadable document.
type File struct {
	Name     string
	Contents []byte
}

// ThreadService exposes thread lifecycle operations.
type ThreadService interface {
	CreatePrivateThread(ctx context.Context, parentChannelID, name string) (*Thread, error)
	Thread(ctx context.Context, threadID string) (*Thread, error)
	AddMember(ctx context.Context, threadID, userID string) error
	RemoveMember(ctx context.Context, threadID, userID string) error
	Archive(ctx context.Context, threadID string) error
	SetLocked(ctx context.Context, threadID string, locked bool) error
	Delete(ctx context.Context, threadID string) error
}

// MessageService exposes message delivery and history retrieval.
type MessageService interface {
	Send(ctx context.Context, channelID, content string) error
	SendFile(ctx context.Context, channelID, content string, file File) error
	DirectMessage(ctx context.Context, userID, content string, file File) error
	// History returns one page of messages strictly after afterID,
	// oldest-first. An empty afterID starts at the beginning.
	History(ctx context.Context, threadID, afterID string, limit int) ([]Message, error)
}

// GuildService exposes guild-level lookups.
type GuildService interface {
	RoleMembers(ctx context.Context, roleID string) ([]Member, error)
	ChannelByID(ctx context.Context, channelID string) (*Channel, error)
	ChannelByName(ctx context.Context, name string) (*Channel, error)
}

// Composer posts the interactive messages whose controls must survive
// restarts: the category menu and the per-thread control row.
type Composer interface {
	PostTicketMenu(ctx context.Context, channelID string) error
	PostWelcome(ctx context.Context, threadID, content string) error
}
