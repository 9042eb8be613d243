package presence

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ehrlich-b/tabrelay/internal/discord"
)

type mockConn struct {
	mock.Mock
	watch *discord.UserWatch
}

func (m *mockConn) User() *discord.UserWatch { return m.watch }

func (m *mockConn) UpdateActivity(ctx context.Context, args discord.ActivityArgs) error {
	return m.Called(ctx, args).Error(0)
}

func (m *mockConn) Close() error {
	return m.Called().Error(0)
}

type mockConnector struct {
	mock.Mock
}

func (m *mockConnector) Connect(ctx context.Context, appID int64, subs discord.Subscriptions) (Conn, error) {
	args := m.Called(ctx, appID, subs)
	conn, _ := args.Get(0).(Conn)
	return conn, args.Error(1)
}

func newMocks(t *testing.T) (*mockConnector, *mockConn) {
	conn := &mockConn{watch: discord.NewUserWatch()}
	connector := &mockConnector{}
	connector.On("Connect", mock.Anything, int64(1234), discord.SubscribeActivity).Return(conn, nil)
	t.Cleanup(func() {
		connector.AssertExpectations(t)
		conn.AssertExpectations(t)
	})
	return connector, conn
}

func TestBootstrapConnected(t *testing.T) {
	connector, conn := newMocks(t)
	conn.watch.Set(discord.UserState{User: &discord.User{ID: "7", Username: "ada"}})

	h, err := Bootstrap(context.Background(), connector, 1234, nil)
	require.NoError(t, err)
	assert.Equal(t, "ada", h.User().Username)
	assert.Same(t, conn.watch, h.Watch())
}

func TestBootstrapWaitsForFirstState(t *testing.T) {
	connector, conn := newMocks(t)
	go func() {
		time.Sleep(20 * time.Millisecond)
		conn.watch.Set(discord.UserState{User: &discord.User{ID: "7", Username: "ada"}})
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	h, err := Bootstrap(ctx, connector, 1234, nil)
	require.NoError(t, err)
	assert.Equal(t, "7", h.User().ID)
}

func TestBootstrapDisconnected(t *testing.T) {
	connector, conn := newMocks(t)
	conn.On("Close").Return(nil).Once()
	conn.watch.Set(discord.UserState{Reason: errors.New("Invalid Client ID")})

	h, err := Bootstrap(context.Background(), connector, 1234, nil)
	require.Error(t, err)
	assert.Nil(t, h)

	var connectErr *ConnectError
	require.ErrorAs(t, err, &connectErr)
	assert.Equal(t, "Invalid Client ID", connectErr.Reason)
}

func TestBootstrapUserDidntUpdate(t *testing.T) {
	connector, conn := newMocks(t)
	conn.On("Close").Return(nil).Once()
	conn.watch.Close()

	_, err := Bootstrap(context.Background(), connector, 1234, nil)
	assert.ErrorIs(t, err, ErrUserDidntUpdate)
}

func TestBootstrapConnectFails(t *testing.T) {
	connector := &mockConnector{}
	connector.On("Connect", mock.Anything, int64(1234), discord.SubscribeActivity).
		Return(nil, discord.ErrNoSocket)

	_, err := Bootstrap(context.Background(), connector, 1234, nil)
	assert.ErrorIs(t, err, discord.ErrNoSocket)
	connector.AssertExpectations(t)
}

func TestStatusText(t *testing.T) {
	assert.Equal(t, "42 tabs open", StatusText(42))
	assert.Equal(t, "0 tabs open", StatusText(0))
	assert.Equal(t, "4294967295 tabs open", StatusText(math.MaxUint32))
}

func TestUpdateSendsCustomActivity(t *testing.T) {
	conn := &mockConn{watch: discord.NewUserWatch()}
	conn.On("UpdateActivity", mock.Anything, mock.MatchedBy(func(args discord.ActivityArgs) bool {
		return args.Activity != nil &&
			args.Activity.State == "42 tabs open" &&
			args.Activity.Type == discord.ActivityCustom &&
			args.Activity.Details == ""
	})).Return(nil).Once()

	h := &Handle{conn: conn}
	require.NoError(t, h.Update(context.Background(), 42))
	conn.AssertExpectations(t)
}

func TestUpdateError(t *testing.T) {
	conn := &mockConn{watch: discord.NewUserWatch()}
	conn.On("UpdateActivity", mock.Anything, mock.Anything).Return(discord.ErrClosed)

	err := Update(context.Background(), conn, 3)
	assert.ErrorIs(t, err, discord.ErrClosed)
}
