package cmd

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"

	"github.com/rook-computer/mapcanvas/internal/testutil/assert"
	"github.com/rook-computer/mapcanvas/internal/web"
)

func parse(t *testing.T, srv web.ServerConfig, args ...string) (Flags, error) {
	t.Helper()

	var flags Flags
	parser, err := Parser(&flags, srv)
	assert.NoError(t, err)
	_, err = parser.Parse(args)
	return flags, err
}

func TestDefaults(t *testing.T) {
	flags, err := parse(t, web.ServerConfig{ListenAddr: "127.0.0.1:9000", DevMode: true})
	assert.NoError(t, err)

	assert.Equal(t, []string{"player"}, flags.Viewers)
	assert.Equal(t, []string{"world"}, flags.Worlds)
	assert.True(t, flags.Crop)
	assert.Equal(t, image.Point{}, flags.At)
	assert.Equal(t, 20, flags.CharsPerSecond)
	assert.Equal(t, color.RGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xFF}, flags.TextColor)
	assert.Equal(t, "127.0.0.1:9000", flags.Listen)
	assert.True(t, flags.Dev)
	assert.Equal(t, 0, flags.Scenes())
}

func TestMapFlags(t *testing.T) {
	flags, err := parse(t, web.ServerConfig{},
		"--text", "hello, world",
		"--text", "again",
		"--animated-text", "typing",
		"--qr", "https://example.com/a,b",
		"-v", "alice", "-v", "bob",
		"--at", "3,4",
		"--text-color", "#ff000080",
		"--no-crop",
		"--ticks", "40",
	)
	assert.NoError(t, err)

	assert.Equal(t, []string{"hello, world", "again"}, flags.Text)
	assert.Equal(t, []string{"typing"}, flags.AnimatedText)
	assert.Equal(t, []string{"https://example.com/a,b"}, flags.QR)
	assert.Equal(t, []string{"alice", "bob"}, flags.Viewers)
	assert.Equal(t, image.Pt(3, 4), flags.At)
	assert.Equal(t, color.RGBA{R: 0x80, A: 0x80}, flags.TextColor)
	assert.False(t, flags.Crop)
	assert.Equal(t, uint64(40), flags.Ticks)
	assert.Equal(t, "", flags.Listen)
	assert.Equal(t, 4, flags.Scenes())
}

func TestStdioLogFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stdio.log")
	t.Setenv("MAPCANVAS_STDIO_LOG", path)

	flags, err := parse(t, web.ServerConfig{})
	assert.NoError(t, err)
	assert.Equal(t, path, flags.StdioLog)
}

func TestInvalidFlagValues(t *testing.T) {
	for _, args := range [][]string{
		{"--at", "3"},
		{"--at", "x,1"},
		{"--text-color", "red"},
		{"--text-color", "#gg0000"},
		{"--cps", "fast"},
	} {
		t.Run(args[0]+"="+args[1], func(t *testing.T) {
			_, err := parse(t, web.ServerConfig{}, args...)
			assert.True(t, err != nil)
		})
	}
}

func TestParseConfig(t *testing.T) {
	args := parseConfig("# defaults\n--viewer alice\n  --cps 40 --no-crop\n\n  # --debug\n")
	assert.Equal(t, []string{"--viewer", "alice", "--cps", "40", "--no-crop"}, args)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	t.Cleanup(xdg.Reload)
	t.Setenv("XDG_CONFIG_HOME", dir)
	xdg.Reload()

	args, err := LoadConfig()
	assert.NoError(t, err)
	assert.Zero(t, args)

	path := filepath.Join(dir, ConfigPath)
	assert.NoError(t, os.WriteFile(path, []byte("--terminal --show 2\n"), 0o644))
	args, err = LoadConfig()
	assert.NoError(t, err)
	assert.Equal(t, []string{"--terminal", "--show", "2"}, args)
}
