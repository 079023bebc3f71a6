package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/spec-kit/ticket-bot/internal/domain"
	"github.com/spec-kit/ticket-bot/internal/events"
	"github.com/spec-kit/ticket-bot/internal/platform"
	"github.com/spec-kit/ticket-bot/pkg/util"
)

type fakeThreads struct {
	mu            sync.Mutex
	threads       map[string]*platform.Thread
	members       map[string][]string
	removed       map[string][]string
	archived      []string
	deleted       []string
	createErr     error
	addMemberErr  map[string]error
	archiveErr    error
	deleteErr     error
	nextID        int
	addMemberSeen []string
}

func newFakeThreads() *fakeThreads {
	return &fakeThreads{
		threads:      map[string]*platform.Thread{},
		members:      map[string][]string{},
		removed:      map[string][]string{},
		addMemberErr: map[string]error{},
	}
}

func (f *fakeThreads) put(t *platform.Thread) { f.threads[t.ID] = t }

func (f *fakeThreads) CreatePrivateThread(_ context.Context, parentChannelID, name string) (*platform.Thread, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	t := &platform.Thread{
		ID:        fmt.Sprintf("thread-%d", f.nextID),
		Name:      name,
		ParentID:  parentChannelID,
		CreatedAt: time.Now().UTC(),
	}
	f.threads[t.ID] = t
	return t, nil
}

func (f *fakeThreads) Thread(_ context.Context, threadID string) (*platform.Thread, error) {
	t, ok := f.threads[threadID]
	if !ok {
		return nil, fmt.Errorf("unknown thread %s", threadID)
	}
	return t, nil
}

func (f *fakeThreads) AddMember(_ context.Context, threadID, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addMemberSeen = append(f.addMemberSeen, userID)
	if err, ok := f.addMemberErr[userID]; ok {
		return err
	}
	f.members[threadID] = append(f.members[threadID], userID)
	return nil
}

func (f *fakeThreads) RemoveMember(_ context.Context, threadID, userID string) error {
	f.removed[threadID] = append(f.removed[threadID], userID)
	return nil
}

func (f *fakeThreads) Archive(_ context.Context, threadID string) error {
	if f.archiveErr != nil {
		return f.archiveErr
	}
	f.archived = append(f.archived, threadID)
	return nil
}

func (f *fakeThreads) SetLocked(_ context.Context, threadID string, locked bool) error {
	t, ok := f.threads[threadID]
	if !ok {
		return fmt.Errorf("unknown thread %s", threadID)
	}
	t.Locked = locked
	return nil
}

func (f *fakeThreads) Delete(_ context.Context, threadID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, threadID)
	delete(f.threads, threadID)
	return nil
}

type sentMessage struct {
	ChannelID string
	Content   string
	File      *platform.File
}

type fakeMessages struct {
	history     []platform.Message
	historyErr  error
	sent        []sentMessage
	sentFiles   []sentMessage
	dms         []sentMessage
	sendErr     error
	sendFileErr error
	dmErr       error
}

func (f *fakeMessages) Send(_ context.Context, channelID, content string) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, sentMessage{ChannelID: channelID, Content: content})
	return nil
}

func (f *fakeMessages) SendFile(_ context.Context, channelID, content string, file platform.File) error {
	if f.sendFileErr != nil {
		return f.sendFileErr
	}
	f.sentFiles = append(f.sentFiles, sentMessage{ChannelID: channelID, Content: content, File: &file})
	return nil
}

func (f *fakeMessages) DirectMessage(_ context.Context, userID, content string, file platform.File) error {
	if f.dmErr != nil {
		return f.dmErr
	}
	f.dms = append(f.dms, sentMessage{ChannelID: userID, Content: content, File: &file})
	return nil
}

func (f *fakeMessages) History(_ context.Context, _ string, afterID string, limit int) ([]platform.Message, error) {
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	start := 0
	if afterID != "" {
		for i, m := range f.history {
			if m.ID == afterID {
				start = i + 1
				break
			}
		}
	}
	end := start + limit
	if end > len(f.history) {
		end = len(f.history)
	}
	if start >= len(f.history) {
		return nil, nil
	}
	return f.history[start:end], nil
}

type fakeGuild struct {
	staff     []platform.Member
	staffErr  error
	byID      map[string]*platform.Channel
	byName    map[string]*platform.Channel
	lookupErr error
}

func (f *fakeGuild) RoleMembers(_ context.Context, _ string) ([]platform.Member, error) {
	return f.staff, f.staffErr
}

func (f *fakeGuild) ChannelByID(_ context.Context, channelID string) (*platform.Channel, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	return f.byID[channelID], nil
}

func (f *fakeGuild) ChannelByName(_ context.Context, name string) (*platform.Channel, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	return f.byName[name], nil
}

type fakeComposer struct {
	menus    []string
	welcomes []sentMessage
}

func (f *fakeComposer) PostTicketMenu(_ context.Context, channelID string) error {
	f.menus = append(f.menus, channelID)
	return nil
}

func (f *fakeComposer) PostWelcome(_ context.Context, threadID, content string) error {
	f.welcomes = append(f.welcomes, sentMessage{ChannelID: threadID, Content: content})
	return nil
}

type memTicketStore struct {
	mu     sync.Mutex
	nextID int64
	byRef  map[string]*domain.TicketRecord
}

func newMemTicketStore() *memTicketStore {
	return &memTicketStore{byRef: map[string]*domain.TicketRecord{}}
}

func (s *memTicketStore) Create(_ context.Context, rec *domain.TicketRecord) (*domain.TicketRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.byRef[rec.ThreadID]; ok {
		return existing, nil
	}
	s.nextID++
	cp := *rec
	cp.ID = s.nextID
	s.byRef[rec.ThreadID] = &cp
	return &cp, nil
}

func (s *memTicketStore) GetByThread(_ context.Context, threadID string) (*domain.TicketRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.byRef[threadID]
	if !ok {
		return nil, util.NewNotFound("ticket", map[string]any{"thread_id": threadID})
	}
	cp := *rec
	return &cp, nil
}

func (s *memTicketStore) SetStatus(_ context.Context, threadID string, status domain.TicketStatus, closedAt *time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.byRef[threadID]; ok {
		rec.Status = status
		if closedAt != nil {
			rec.ClosedAt = closedAt
		}
	}
	return nil
}

func (s *memTicketStore) SetClaimedBy(_ context.Context, threadID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.byRef[threadID]; ok {
		rec.ClaimedBy = &userID
	}
	return nil
}

type memConfigStore struct {
	values map[string]string
	getErr error
}

func newMemConfigStore() *memConfigStore {
	return &memConfigStore{values: map[string]string{}}
}

func (s *memConfigStore) Get(_ context.Context, key string) (string, bool, error) {
	if s.getErr != nil {
		return "", false, s.getErr
	}
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *memConfigStore) Set(_ context.Context, key, value string) error {
	s.values[key] = value
	return nil
}

func (s *memConfigStore) SetDefault(_ context.Context, key, value string) error {
	if _, ok := s.values[key]; !ok {
		s.values[key] = value
	}
	return nil
}

type memConfirmations struct {
	armed map[string]bool
}

func newMemConfirmations() *memConfirmations {
	return &memConfirmations{armed: map[string]bool{}}
}

func (s *memConfirmations) Arm(_ context.Context, threadID string, _ time.Duration) error {
	s.armed[threadID] = true
	return nil
}

func (s *memConfirmations) Armed(_ context.Context, threadID string) (bool, error) {
	return s.armed[threadID], nil
}

func (s *memConfirmations) Clear(_ context.Context, threadID string) error {
	delete(s.armed, threadID)
	return nil
}

type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) typesSeen() []events.EventType {
	d.mu.Lock()
	defer d.mu.Unlock()
	types := make([]events.EventType, 0, len(d.events))
	for _, e := range d.events {
		types = append(types, e.Type)
	}
	return types
}
