// Package cmd holds the command line interface of the mapcanvas binary.
package cmd

import (
	"image"
	"image/color"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/rook-computer/mapcanvas/internal/web"
)

// Flags is the whole command line. Every map flag may be repeated; each
// occurrence creates its own map (or maps, for the big variants).
type Flags struct {
	Image        []string `placeholder:"SOURCE" sep:"none" group:"Maps" help:"Show an image file or URL on a map."`
	BigImage     []string `name:"big-image" placeholder:"SOURCE" sep:"none" group:"Maps" help:"Tile an image file or URL over as many maps as it needs."`
	GIF          []string `name:"gif" placeholder:"SOURCE" sep:"none" group:"Maps" help:"Play a GIF file or URL on a map."`
	BigGIF       []string `name:"big-gif" placeholder:"SOURCE" sep:"none" group:"Maps" help:"Tile a GIF file or URL over as many maps as it needs."`
	Text         []string `placeholder:"TEXT" sep:"none" group:"Maps" help:"Show text on a map. \\n starts a new line."`
	AnimatedText []string `name:"animated-text" placeholder:"TEXT" sep:"none" group:"Maps" help:"Type text onto a map character by character."`
	QR           []string `name:"qr" placeholder:"PAYLOAD" sep:"none" group:"Maps" help:"Show a QR code of the payload on a map."`

	Crop           bool        `negatable:"true" default:"true" group:"Rendering" help:"Crop big images to a square instead of scaling them up."`
	At             image.Point `default:"0,0" placeholder:"X,Y" group:"Rendering" help:"Where text and single images are drawn."`
	CharsPerSecond int         `name:"cps" default:"20" group:"Rendering" help:"Speed of animated text."`
	Delay          int         `default:"0" group:"Rendering" help:"Ticks before animated text starts."`
	Font           string      `type:"existingfile" group:"Rendering" help:"TrueType or OpenType font for text maps."`
	FontSize       float64     `name:"font-size" default:"13" group:"Rendering" help:"Font size in points when --font is set."`
	TextColor      color.RGBA  `name:"text-color" default:"#202020" placeholder:"#RRGGBB" group:"Rendering" help:"Colour text is drawn in."`
	All            bool        `group:"Rendering" help:"Show single maps to every viewer, not only the ones given with --viewer."`

	Viewers []string `name:"viewer" short:"v" default:"player" sep:"none" help:"Online viewer (repeatable)."`
	Worlds  []string `name:"world" short:"w" default:"world" help:"Worlds maps can live in; the first is the default."`

	PNGDir   string `name:"png-dir" type:"path" group:"Preview" help:"Write every changed canvas to this directory."`
	FB       string `name:"fb" placeholder:"DEVICE" group:"Preview" help:"Show a canvas on a framebuffer device, e.g. /dev/fb0."`
	Terminal bool   `short:"t" group:"Preview" help:"Show a canvas in the terminal."`
	Show     int    `default:"0" placeholder:"MAP" group:"Preview" help:"Map shown by --fb and --terminal."`
	ShowFor  string `name:"show-for" placeholder:"VIEWER" group:"Preview" help:"Viewer whose canvas --fb and --terminal show; defaults to the first viewer."`

	Listen string `default:"${listen}" placeholder:"ADDR" help:"Serve the HTTP API here; empty disables it."`
	Dev    bool   `default:"${dev}" help:"Allow cross-origin API requests."`

	Ticks    uint64 `help:"Exit after this many ticks; 0 runs until interrupted."`
	Debug    bool   `help:"Enable debug logging to ./mapcanvas-debug.log."`
	StdioLog string `name:"stdio-log" env:"MAPCANVAS_STDIO_LOG" type:"path" help:"Redirect stdout and stderr (including panics) to this file."`
}

// Parser returns the kong parser for flags. API defaults come from srv,
// usually web.DefaultServerConfigFromEnv.
func Parser(flags *Flags, srv web.ServerConfig, options ...kong.Option) (*kong.Kong, error) {
	opts := []kong.Option{
		kong.Name("mapcanvas"),
		kong.Description("Render images, GIFs and text onto 128x128 maps."),
		kong.Vars{
			"listen": srv.ListenAddr,
			"dev":    strconv.FormatBool(srv.DevMode),
		},
	}
	opts = append(opts, TypeMappers...)
	opts = append(opts, options...)
	return kong.New(flags, opts...)
}

// Scenes counts the map flags given.
func (f *Flags) Scenes() int {
	return len(f.Image) + len(f.BigImage) + len(f.GIF) + len(f.BigGIF) +
		len(f.Text) + len(f.AnimatedText) + len(f.QR)
}
