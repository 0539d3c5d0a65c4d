package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/attack"
	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/boat"
	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/navigation"
)

func reset() {
	cfg = nil
	v = nil
}

func TestInit(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.yaml")

	configContent := `
sim:
  mode: teams
  teams: 2
  attack:
    jitter_base: 0.5
  navigation:
    area_size: 32
  spawn:
    ticks: 5
server:
  grpc:
    port: 8080
`
	require.NoError(t, os.WriteFile(configFile, []byte(configContent), 0644))

	reset()
	require.NoError(t, Init(configFile))

	c := Get()
	assert.Equal(t, "teams", c.Sim.Mode)
	assert.Equal(t, 2, c.Sim.Teams)
	assert.Equal(t, 0.5, c.Sim.Attack.JitterBase)
	assert.Equal(t, attack.DefaultParams().JitterRange, c.Sim.Attack.JitterRange)
	assert.Equal(t, 32, c.Sim.Navigation.AreaSize)
	assert.Equal(t, 5, c.Sim.Spawn.Ticks)
	assert.Equal(t, 8080, c.Server.GRPC.Port)
	assert.Equal(t, configFile, ConfigFilePath())
}

func TestInitWithDefaults(t *testing.T) {
	reset()
	require.NoError(t, Init("/non/existent/path/config.yaml"))

	c := Get()
	assert.Equal(t, attack.DefaultParams(), c.Sim.AttackParams())
	assert.Equal(t, navigation.DefaultParams(), c.Sim.NavigationParams())
	assert.Equal(t, boat.DefaultParams(), c.Sim.BoatParams())
	assert.Equal(t, 50051, c.Server.GRPC.Port)
	assert.Equal(t, 10, c.Storage.SnapshotInterval)
	assert.Equal(t, 50*time.Millisecond, c.Server.GRPC.TickBudget())
}

func TestEnvironmentVariables(t *testing.T) {
	reset()
	t.Setenv("TC_SIM_ATTACK_JITTER_BASE", "0.9")
	t.Setenv("TC_SERVER_GRPC_PORT", "9090")

	require.NoError(t, Init(""))

	c := Get()
	assert.Equal(t, 0.9, c.Sim.Attack.JitterBase)
	assert.Equal(t, 9090, c.Server.GRPC.Port)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown mode", func(c *Config) { c.Sim.Mode = "chaos" }},
		{"negative jitter range", func(c *Config) { c.Sim.Attack.JitterRange = -0.1 }},
		{"small area size", func(c *Config) { c.Sim.Navigation.AreaSize = 4 }},
		{"local search below one cell", func(c *Config) { c.Sim.Navigation.LocalSearchLimit = 10 }},
		{"zero spawn ticks", func(c *Config) { c.Sim.Spawn.Ticks = 0 }},
		{"water level above one", func(c *Config) { c.Sim.Map.WaterLevel = 1.5 }},
		{"port out of range", func(c *Config) { c.Server.GRPC.Port = 70000 }},
		{"no simulations", func(c *Config) { c.Server.GRPC.MaxSimulations = 0 }},
		{"zero snapshot interval", func(c *Config) { c.Storage.SnapshotInterval = 0 }},
	}

	reset()
	require.NoError(t, Init(""))
	require.NoError(t, Validate(Get()))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := *Get()
			tt.mutate(&c)
			assert.Error(t, Validate(&c))
		})
	}
}

func TestInit_InvalidFile(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("sim:\n  navigation:\n    area_size: 2\n"), 0644))

	reset()
	err := Init(configFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "area_size")
}

func TestSimConfig_GameConfig(t *testing.T) {
	reset()
	require.NoError(t, Init(""))
	Set("sim.map.width", 64)
	Set("sim.map.height", 48)
	Set("sim.economy.starting_troops", 250.0)

	gc := Get().Sim.GameConfig(6, 99)
	assert.Equal(t, 64, gc.Width)
	assert.Equal(t, 48, gc.Height)
	assert.Equal(t, 6, gc.Players)
	assert.Equal(t, int64(99), gc.Seed)
	assert.Equal(t, "ffa", gc.Mode)
	assert.Equal(t, 250.0, gc.Economy.StartingTroops)
	assert.Equal(t, 64, gc.Map.Width)
	assert.Equal(t, 0.42, gc.Map.WaterLevel)
}

func TestGetHelpers(t *testing.T) {
	reset()
	require.NoError(t, Init(""))

	Set("test.string", "hello")
	Set("test.int", 42)
	Set("test.bool", true)
	Set("test.float", 3.14)

	assert.Equal(t, "hello", GetString("test.string"))
	assert.Equal(t, 42, GetInt("test.int"))
	assert.Equal(t, true, GetBool("test.bool"))
	assert.Equal(t, 3.14, GetFloat64("test.float"))
}

func TestLoadEnvironmentConfig(t *testing.T) {
	tmpDir := t.TempDir()

	baseConfig := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(baseConfig, []byte(`
sim:
  spawn:
    radius: 3
server:
  grpc:
    port: 50051
`), 0644))

	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.prod.yaml"), []byte(`
sim:
  spawn:
    radius: 4
server:
  grpc:
    port: 8080
    log_level: "error"
`), 0644))

	oldWd, _ := os.Getwd()
	_ = os.Chdir(tmpDir)
	defer func() { _ = os.Chdir(oldWd) }()

	reset()
	require.NoError(t, Init(baseConfig))
	require.NoError(t, LoadEnvironmentConfig("prod"))

	c := Get()
	assert.Equal(t, 4, c.Sim.Spawn.Radius)
	assert.Equal(t, 8080, c.Server.GRPC.Port)
	assert.Equal(t, "error", c.Server.GRPC.LogLevel)
}
