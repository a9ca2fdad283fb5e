package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feltd/feltd/internal/protocol"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "feltd.hcl")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ":40888", cfg.Server.Listen)
	assert.Equal(t, 50, cfg.Server.MaxGames)
	assert.Equal(t, 1800, cfg.Server.ConArchiveExpire)
	assert.True(t, cfg.PermCreate())
	assert.Empty(t, cfg.Games)
}

func TestLoadConfigFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "feltd.hcl")
	content := `
server {
  listen           = ":7777"
  auth_password    = "sesame"
  welcome_message  = "welcome"
  max_games        = 10
  perm_create_user = false
}

game "main" {
  type      = "ring"
  stake     = 5000
  timeout   = 20
  expire_in = 0
}

game "turbo" {
  players      = 6
  blinds_start = 50
  blinds_time  = 60
  insurance    = false
}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ":7777", cfg.Server.Listen)
	assert.Equal(t, "sesame", cfg.Server.AuthPassword)
	assert.Equal(t, 10, cfg.Server.MaxGames)
	assert.False(t, cfg.PermCreate())

	// knobs the file leaves out keep their defaults
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, 5, cfg.Server.MaxCreatePerPlayer)
	assert.Equal(t, 300, cfg.Server.FloodChatMute)

	require.Len(t, cfg.Games, 2)

	ring, err := cfg.Games[0].GameConfig()
	require.NoError(t, err)
	assert.Equal(t, "main", ring.Name)
	assert.Equal(t, protocol.GameModeRingGame, ring.Mode)
	assert.Equal(t, 5000, ring.Stake)
	assert.Equal(t, 20*time.Second, ring.Timeout)
	assert.Zero(t, ring.ExpireIn)

	turbo, err := cfg.Games[1].GameConfig()
	require.NoError(t, err)
	assert.Equal(t, protocol.GameModeSNG, turbo.Mode)
	assert.Equal(t, 6, turbo.MaxPlayers)
	assert.Equal(t, 50, turbo.BlindsStart)
	assert.Equal(t, 60*time.Second, turbo.BlindsTime)
	assert.False(t, turbo.Insurance)
	assert.Equal(t, 1800*time.Second, turbo.ExpireIn)
}

func TestLoadRejectsBadSyntax(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "feltd.hcl")
	require.NoError(t, os.WriteFile(path, []byte("server {"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestGameBlockValidation(t *testing.T) {
	t.Parallel()

	_, err := (&GameBlock{Name: "bad", Type: "omaha"}).GameConfig()
	assert.Error(t, err)

	_, err = (&GameBlock{Name: "tiny", Stake: 5}).GameConfig()
	assert.Error(t, err)

	cfg, err := (&GameBlock{Name: "plain"}).GameConfig()
	require.NoError(t, err)
	assert.Equal(t, protocol.GameModeSNG, cfg.Mode)
	assert.Equal(t, 1500, cfg.Stake)
	assert.Equal(t, 9, cfg.MaxPlayers)
	assert.True(t, cfg.Insurance)
}

func TestValidateNamesBadGame(t *testing.T) {
	t.Parallel()
	cfg := Default()
	cfg.Games = append(cfg.Games, GameBlock{Name: "broken", Stake: 2})

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"broken"`)
}

func TestSettingsGetSet(t *testing.T) {
	t.Parallel()
	s := Default().Server

	v, ok := s.Get("max_games")
	require.True(t, ok)
	assert.Equal(t, "50", v)

	// unset tri-state reads as enabled
	v, ok = s.Get("perm_create_user")
	require.True(t, ok)
	assert.Equal(t, "1", v)

	_, ok = s.Get("bogus")
	assert.False(t, ok)

	require.NoError(t, s.Set("perm_create_user", "0"))
	v, _ = s.Get("perm_create_user")
	assert.Equal(t, "0", v)

	require.NoError(t, s.Set("perm_create_user", "1"))
	v, _ = s.Get("perm_create_user")
	assert.Equal(t, "1", v)

	require.NoError(t, s.Set("welcome_message", "hello there"))
	assert.Equal(t, "hello there", s.WelcomeMessage)

	require.NoError(t, s.Set("flood_chat_mute", "60"))
	assert.Equal(t, 60, s.FloodChatMute)

	assert.Error(t, s.Set("max_games", "many"))
	assert.Error(t, s.Set("bogus", "1"))
}

func TestSaveRoundTrips(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "feltd.hcl")

	cfg, err := Load(path)
	require.NoError(t, err)

	require.NoError(t, cfg.Server.Set("auth_password", "sesame"))
	require.NoError(t, cfg.Server.Set("max_games", "12"))
	require.NoError(t, cfg.Server.Set("perm_create_user", "0"))
	require.NoError(t, cfg.Save())

	again, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sesame", again.Server.AuthPassword)
	assert.Equal(t, 12, again.Server.MaxGames)
	assert.Equal(t, ":40888", again.Server.Listen)
	assert.False(t, again.PermCreate())
}

func TestSaveNeedsPath(t *testing.T) {
	t.Parallel()
	assert.Error(t, Default().Save())
}
