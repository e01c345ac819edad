package platform

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"lightswitch/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlatformError_IsAndCode(t *testing.T) {
	err := fmtWrap(newError(OpWrite, CodeTimeout, context.DeadlineExceeded))

	assert.ErrorIs(t, err, ErrModeWrite)
	assert.NotErrorIs(t, err, ErrModeRead)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, CodeTimeout, ErrorCode(err))
	assert.Equal(t, CodeUnknown, ErrorCode(errors.New("plain")))
	assert.Contains(t, err.Error(), "mode.write failed (code 3)")
}

func fmtWrap(err error) error { return errors.Join(errors.New("tick"), err) }

func TestSystemClock(t *testing.T) {
	c, err := NewSystemClock("UTC")
	require.NoError(t, err)
	fixed := time.Date(2026, 1, 2, 20, 15, 0, 0, time.FixedZone("X", 3600))
	c.now = func() time.Time { return fixed }

	got, err := c.Now()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, got.Location())
	assert.Equal(t, 19, got.Hour())

	c.now = func() time.Time { return time.Time{} }
	_, err = c.Now()
	assert.ErrorIs(t, err, ErrClockUnavailable)

	_, err = NewSystemClock("Nowhere/Special")
	assert.ErrorIs(t, err, ErrClockUnavailable)

	local, err := NewSystemClock("")
	require.NoError(t, err)
	assert.Equal(t, time.Local, local.Location())
}

func TestFileMode_GetSet(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state", "mode")
	fm := NewFileMode(path)

	_, err := fm.Get(ctx)
	require.ErrorIs(t, err, ErrModeRead)
	assert.Equal(t, CodeUnavailable, ErrorCode(err))

	require.NoError(t, fm.Set(ctx, models.Dark))
	got, err := fm.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Dark, got)

	require.NoError(t, fm.Set(ctx, models.Light))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "light\n", string(b))

	require.NoError(t, os.WriteFile(path, []byte("sepia"), 0o644))
	_, err = fm.Get(ctx)
	assert.ErrorIs(t, err, ErrModeRead)
	assert.Equal(t, CodeBadOutput, ErrorCode(err))

	assert.ErrorIs(t, fm.Set(ctx, models.AppearanceMode(9)), ErrModeWrite)
}

func TestNewCommandMode_RequiresAllCommands(t *testing.T) {
	_, err := NewCommandMode(CommandConfig{Get: "gsettings get x y"})
	assert.Error(t, err)

	c, err := NewCommandMode(CommandConfig{Get: "a", SetLight: "b", SetDark: "c"})
	require.NoError(t, err)
	assert.Equal(t, DefaultCommandTimeout, c.timeout)
}

func TestCommandMode_GetSet(t *testing.T) {
	ctx := context.Background()
	c, err := NewCommandMode(CommandConfig{
		Get:      "gsettings get org.gnome.desktop.interface color-scheme",
		SetLight: "gsettings set org.gnome.desktop.interface color-scheme prefer-light",
		SetDark:  "gsettings set org.gnome.desktop.interface color-scheme prefer-dark",
		Timeout:  time.Second,
	})
	require.NoError(t, err)

	var calls [][]string
	output := "'prefer-dark'\n"
	var runErr error
	c.run = func(ctx context.Context, argv []string) ([]byte, error) {
		calls = append(calls, argv)
		return []byte(output), runErr
	}

	got, err := c.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Dark, got)

	output = "'default'"
	got, err = c.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Light, got)

	output = "'high-contrast'"
	_, err = c.Get(ctx)
	assert.ErrorIs(t, err, ErrModeRead)
	assert.Equal(t, CodeBadOutput, ErrorCode(err))

	require.NoError(t, c.Set(ctx, models.Dark))
	assert.Equal(t, "prefer-dark", calls[len(calls)-1][5])

	runErr = errors.New("exit status 1")
	err = c.Set(ctx, models.Light)
	assert.ErrorIs(t, err, ErrModeWrite)
	assert.Equal(t, CodeUnknown, ErrorCode(err))
}

func TestCommandMode_Timeout(t *testing.T) {
	c, err := NewCommandMode(CommandConfig{Get: "a", SetLight: "b", SetDark: "c", Timeout: 10 * time.Millisecond})
	require.NoError(t, err)
	c.run = func(ctx context.Context, argv []string) ([]byte, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	_, err = c.Get(context.Background())
	assert.ErrorIs(t, err, ErrModeRead)
	assert.Equal(t, CodeTimeout, ErrorCode(err))
}

func TestSession_ReleasesInReverseOrder(t *testing.T) {
	s := NewSession()
	var order []string
	for _, name := range []string{"fs", "diagnostics", "db"} {
		name := name
		require.NoError(t, s.Acquire(name, func() (ReleaseFunc, error) {
			return func() error {
				order = append(order, name)
				if name == "diagnostics" {
					return errors.New("busy")
				}
				return nil
			}, nil
		}))
	}
	require.NoError(t, s.Acquire("noop", func() (ReleaseFunc, error) { return nil, nil }))
	assert.Equal(t, []string{"fs", "diagnostics", "db", "noop"}, s.Acquired())

	err := s.Close()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "release diagnostics: busy")
	assert.Equal(t, []string{"db", "diagnostics", "fs"}, order)

	require.NoError(t, s.Close())
	assert.Len(t, order, 3)

	err = s.Acquire("late", func() (ReleaseFunc, error) { return nil, nil })
	assert.Error(t, err)
}

func TestSession_AcquireFailureDoesNotStack(t *testing.T) {
	s := NewSession()
	err := s.Acquire("fs", func() (ReleaseFunc, error) { return nil, errors.New("mount failed") })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "acquire fs: mount failed")
	assert.Empty(t, s.Acquired())
	assert.NoError(t, s.Close())
}
