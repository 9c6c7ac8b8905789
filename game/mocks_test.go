package game

import (
	"context"
	"errors"
	"sync"

	"api/domain"

	"github.com/stretchr/testify/mock"
)

var errSessionClosed = errors.New("session closed")

// --- WordSupply ---

type MockWordSupply struct {
	mock.Mock
}

func (m *MockWordSupply) Draw(pack string, count int) ([]string, error) {
	args := m.Called(pack, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// --- RoomStore ---

type MockRoomStore struct {
	mock.Mock
}

func (m *MockRoomStore) SaveRoom(ctx context.Context, room *domain.Room) error {
	args := m.Called(ctx, room)
	return args.Error(0)
}

func (m *MockRoomStore) SavePlayer(ctx context.Context, roomID string, player *domain.Player) error {
	args := m.Called(ctx, roomID, player)
	return args.Error(0)
}

func (m *MockRoomStore) DeletePlayer(ctx context.Context, roomID, playerID string) error {
	args := m.Called(ctx, roomID, playerID)
	return args.Error(0)
}

func (m *MockRoomStore) DeleteRoom(ctx context.Context, roomID string) error {
	args := m.Called(ctx, roomID)
	return args.Error(0)
}

// --- NetworkSession ---

// fakeSession records everything written to it and blocks Read until the
// test closes it, like a quiet websocket client.
type fakeSession struct {
	mu      sync.Mutex
	written [][]byte
	inbox   chan []byte
	pings   int
	closed  bool
}

func newFakeSession() *fakeSession {
	return &fakeSession{inbox: make(chan []byte, 16)}
}

func (f *fakeSession) Write(data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.written = append(f.written, data)
	return nil
}

func (f *fakeSession) Read() ([]byte, error) {
	data, ok := <-f.inbox
	if !ok {
		return nil, errSessionClosed
	}
	return data, nil
}

func (f *fakeSession) Ping() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pings++
	return nil
}

func (f *fakeSession) Pings() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pings
}

func (f *fakeSession) Close(errCode string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed {
		f.closed = true
		close(f.inbox)
	}
}

func (f *fakeSession) Written() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([][]byte, len(f.written))
	copy(out, f.written)
	return out
}
