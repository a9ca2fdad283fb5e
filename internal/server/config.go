package server

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"

	"github.com/feltd/feltd/internal/game"
	"github.com/feltd/feltd/internal/protocol"
)

// Config is the complete server configuration: one server block plus
// any number of game blocks spawned at boot.
type Config struct {
	Server Settings    `hcl:"server,block"`
	Games  []GameBlock `hcl:"game,block"`

	// path the config was loaded from, for CONFIG save
	path string
}

// Settings is the server block. Durations are plain seconds, matching
// the wire protocol's units.
type Settings struct {
	Listen   string `hcl:"listen,optional"`
	WSListen string `hcl:"ws_listen,optional"`
	LogLevel string `hcl:"log_level,optional"`

	AuthPassword   string `hcl:"auth_password,optional"`
	WelcomeMessage string `hcl:"welcome_message,optional"`

	PermCreateUser        *bool `hcl:"perm_create_user,optional"`
	MaxGames              int   `hcl:"max_games,optional"`
	MaxCreatePerPlayer    int   `hcl:"max_create_per_player,optional"`
	MaxRegisterPerPlayer  int   `hcl:"max_register_per_player,optional"`
	MaxSubscribePerPlayer int   `hcl:"max_subscribe_per_player,optional"`

	ConArchiveExpire int `hcl:"conarchive_expire,optional"`

	FloodChatInterval    int `hcl:"flood_chat_interval,optional"`
	FloodChatPerInterval int `hcl:"flood_chat_per_interval,optional"`
	FloodChatMute        int `hcl:"flood_chat_mute,optional"`
}

// GameBlock defines a game created at server start, same knobs as the
// CREATE command.
type GameBlock struct {
	Name string `hcl:"name,label"`

	Type    string `hcl:"type,optional"` // "ring" or "sng"
	Players int    `hcl:"players,optional"`
	Stake   int    `hcl:"stake,optional"`
	Timeout int    `hcl:"timeout,optional"`

	BlindsStart  int `hcl:"blinds_start,optional"`
	BlindsFactor int `hcl:"blinds_factor,optional"`
	BlindsTime   int `hcl:"blinds_time,optional"`
	Ante         int `hcl:"ante,optional"`

	MandatoryStraddle bool  `hcl:"mandatory_straddle,optional"`
	Insurance         *bool `hcl:"insurance,optional"`

	Restart  bool   `hcl:"restart,optional"`
	ExpireIn *int   `hcl:"expire_in,optional"` // seconds, 0 never expires
	Password string `hcl:"password,optional"`
}

// Default returns the configuration a missing config file implies.
func Default() *Config {
	return &Config{
		Server: Settings{
			Listen:                ":40888",
			LogLevel:              "info",
			MaxGames:              50,
			MaxCreatePerPlayer:    5,
			MaxRegisterPerPlayer:  5,
			MaxSubscribePerPlayer: 50,
			ConArchiveExpire:      1800,
			FloodChatInterval:     6,
			FloodChatPerInterval:  5,
			FloodChatMute:         300,
		},
	}
}

// Load reads an HCL config file. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := Default()
		cfg.path = path
		return cfg, nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse %s: %s", path, diags.Error())
	}

	var cfg Config
	if diags := gohcl.DecodeBody(file.Body, nil, &cfg); diags.HasErrors() {
		return nil, fmt.Errorf("decode %s: %s", path, diags.Error())
	}
	cfg.path = path
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	def := Default().Server
	if c.Server.Listen == "" {
		c.Server.Listen = def.Listen
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = def.LogLevel
	}
	if c.Server.MaxGames == 0 {
		c.Server.MaxGames = def.MaxGames
	}
	if c.Server.MaxCreatePerPlayer == 0 {
		c.Server.MaxCreatePerPlayer = def.MaxCreatePerPlayer
	}
	if c.Server.MaxRegisterPerPlayer == 0 {
		c.Server.MaxRegisterPerPlayer = def.MaxRegisterPerPlayer
	}
	if c.Server.MaxSubscribePerPlayer == 0 {
		c.Server.MaxSubscribePerPlayer = def.MaxSubscribePerPlayer
	}
	if c.Server.ConArchiveExpire == 0 {
		c.Server.ConArchiveExpire = def.ConArchiveExpire
	}
	if c.Server.FloodChatInterval == 0 {
		c.Server.FloodChatInterval = def.FloodChatInterval
	}
	if c.Server.FloodChatPerInterval == 0 {
		c.Server.FloodChatPerInterval = def.FloodChatPerInterval
	}
	if c.Server.FloodChatMute == 0 {
		c.Server.FloodChatMute = def.FloodChatMute
	}
}

// PermCreate reports whether unauthed clients may CREATE games.
// Unset defaults to open creation.
func (c *Config) PermCreate() bool {
	if c.Server.PermCreateUser == nil {
		return true
	}
	return *c.Server.PermCreateUser
}

// Validate checks the server block and every game block.
func (c *Config) Validate() error {
	if c.Server.Listen == "" {
		return fmt.Errorf("listen address must be set")
	}
	if c.Server.MaxGames < 1 {
		return fmt.Errorf("invalid max_games %d", c.Server.MaxGames)
	}
	if c.Server.ConArchiveExpire < 0 {
		return fmt.Errorf("invalid conarchive_expire %d", c.Server.ConArchiveExpire)
	}
	for i := range c.Games {
		if _, err := c.Games[i].GameConfig(); err != nil {
			return fmt.Errorf("game %q: %w", c.Games[i].Name, err)
		}
	}
	return nil
}

// GameConfig renders the block as game parameters, filling the gaps
// with the CREATE defaults.
func (b *GameBlock) GameConfig() (game.Config, error) {
	cfg := game.DefaultConfig()
	cfg.Name = b.Name

	switch b.Type {
	case "", "sng":
		cfg.Mode = protocol.GameModeSNG
	case "ring":
		cfg.Mode = protocol.GameModeRingGame
	default:
		return cfg, fmt.Errorf("unknown game type %q", b.Type)
	}

	if b.Players > 0 {
		cfg.MaxPlayers = b.Players
	}
	if b.Stake > 0 {
		cfg.Stake = b.Stake
	}
	if b.Timeout > 0 {
		cfg.Timeout = time.Duration(b.Timeout) * time.Second
	}
	if b.BlindsStart > 0 {
		cfg.BlindsStart = b.BlindsStart
	}
	if b.BlindsFactor > 0 {
		cfg.BlindsFactor = b.BlindsFactor
	}
	if b.BlindsTime > 0 {
		cfg.BlindsTime = time.Duration(b.BlindsTime) * time.Second
	}
	cfg.Ante = b.Ante
	cfg.MandatoryStraddle = b.MandatoryStraddle
	if b.Insurance != nil {
		cfg.Insurance = *b.Insurance
	}
	cfg.Restart = b.Restart
	if b.ExpireIn != nil {
		cfg.ExpireIn = time.Duration(*b.ExpireIn) * time.Second
	}
	cfg.Password = b.Password

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Get reads a server setting by its config key, for CONFIG get.
func (s *Settings) Get(key string) (string, bool) {
	switch key {
	case "listen":
		return s.Listen, true
	case "ws_listen":
		return s.WSListen, true
	case "log_level":
		return s.LogLevel, true
	case "auth_password":
		return s.AuthPassword, true
	case "welcome_message":
		return s.WelcomeMessage, true
	case "perm_create_user":
		if s.PermCreateUser == nil {
			return "1", true
		}
		return boolValue(*s.PermCreateUser), true
	case "max_games":
		return strconv.Itoa(s.MaxGames), true
	case "max_create_per_player":
		return strconv.Itoa(s.MaxCreatePerPlayer), true
	case "max_register_per_player":
		return strconv.Itoa(s.MaxRegisterPerPlayer), true
	case "max_subscribe_per_player":
		return strconv.Itoa(s.MaxSubscribePerPlayer), true
	case "conarchive_expire":
		return strconv.Itoa(s.ConArchiveExpire), true
	case "flood_chat_interval":
		return strconv.Itoa(s.FloodChatInterval), true
	case "flood_chat_per_interval":
		return strconv.Itoa(s.FloodChatPerInterval), true
	case "flood_chat_mute":
		return strconv.Itoa(s.FloodChatMute), true
	}
	return "", false
}

// Set writes a server setting by its config key, for CONFIG set.
func (s *Settings) Set(key, value string) error {
	atoi := func() (int, error) {
		n, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", key, err)
		}
		return n, nil
	}
	var err error
	switch key {
	case "listen":
		s.Listen = value
	case "ws_listen":
		s.WSListen = value
	case "log_level":
		s.LogLevel = value
	case "auth_password":
		s.AuthPassword = value
	case "welcome_message":
		s.WelcomeMessage = value
	case "perm_create_user":
		perm := value != "0" && value != "false"
		s.PermCreateUser = &perm
	case "max_games":
		s.MaxGames, err = atoi()
	case "max_create_per_player":
		s.MaxCreatePerPlayer, err = atoi()
	case "max_register_per_player":
		s.MaxRegisterPerPlayer, err = atoi()
	case "max_subscribe_per_player":
		s.MaxSubscribePerPlayer, err = atoi()
	case "conarchive_expire":
		s.ConArchiveExpire, err = atoi()
	case "flood_chat_interval":
		s.FloodChatInterval, err = atoi()
	case "flood_chat_per_interval":
		s.FloodChatPerInterval, err = atoi()
	case "flood_chat_mute":
		s.FloodChatMute, err = atoi()
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	return err
}

// Save writes the current server block back to the config file. Game
// blocks are boot-time only and not persisted.
func (c *Config) Save() error {
	if c.path == "" {
		return fmt.Errorf("no config path to save to")
	}

	f := hclwrite.NewEmptyFile()
	block := f.Body().AppendNewBlock("server", nil)
	body := block.Body()
	body.SetAttributeValue("listen", cty.StringVal(c.Server.Listen))
	if c.Server.WSListen != "" {
		body.SetAttributeValue("ws_listen", cty.StringVal(c.Server.WSListen))
	}
	body.SetAttributeValue("log_level", cty.StringVal(c.Server.LogLevel))
	if c.Server.AuthPassword != "" {
		body.SetAttributeValue("auth_password", cty.StringVal(c.Server.AuthPassword))
	}
	if c.Server.WelcomeMessage != "" {
		body.SetAttributeValue("welcome_message", cty.StringVal(c.Server.WelcomeMessage))
	}
	body.SetAttributeValue("perm_create_user", cty.BoolVal(c.PermCreate()))
	body.SetAttributeValue("max_games", cty.NumberIntVal(int64(c.Server.MaxGames)))
	body.SetAttributeValue("max_create_per_player", cty.NumberIntVal(int64(c.Server.MaxCreatePerPlayer)))
	body.SetAttributeValue("max_register_per_player", cty.NumberIntVal(int64(c.Server.MaxRegisterPerPlayer)))
	body.SetAttributeValue("max_subscribe_per_player", cty.NumberIntVal(int64(c.Server.MaxSubscribePerPlayer)))
	body.SetAttributeValue("conarchive_expire", cty.NumberIntVal(int64(c.Server.ConArchiveExpire)))
	body.SetAttributeValue("flood_chat_interval", cty.NumberIntVal(int64(c.Server.FloodChatInterval)))
	body.SetAttributeValue("flood_chat_per_interval", cty.NumberIntVal(int64(c.Server.FloodChatPerInterval)))
	body.SetAttributeValue("flood_chat_mute", cty.NumberIntVal(int64(c.Server.FloodChatMute)))

	return os.WriteFile(c.path, f.Bytes(), 0o644)
}

func boolValue(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
