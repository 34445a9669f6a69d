package cmd

import (
	"fmt"
	"image"
	"image/color"
	"reflect"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
)

// TypeMappers contains the kong.TypeMapper options Parser installs.
var TypeMappers = []kong.Option{
	kong.TypeMapper(reflect.TypeOf(image.Point{}), kong.MapperFunc(func(ctx *kong.DecodeContext, target reflect.Value) error {
		var s string
		if err := ctx.Scan.PopValueInto("point", &s); err != nil {
			return err
		}

		p, err := parsePoint(s)
		if err != nil {
			return err
		}
		target.Set(reflect.ValueOf(p))
		return nil
	})),

	kong.TypeMapper(reflect.TypeOf(color.RGBA{}), kong.MapperFunc(func(ctx *kong.DecodeContext, target reflect.Value) error {
		var s string
		if err := ctx.Scan.PopValueInto("color", &s); err != nil {
			return err
		}

		c, err := parseColor(s)
		if err != nil {
			return err
		}
		target.Set(reflect.ValueOf(c))
		return nil
	})),
}

// parsePoint reads "x,y".
func parsePoint(s string) (image.Point, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return image.Point{}, fmt.Errorf(`must be of the form "x,y" but got "%s"`, s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return image.Point{}, fmt.Errorf("invalid x in %q: %w", s, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return image.Point{}, fmt.Errorf("invalid y in %q: %w", s, err)
	}
	return image.Pt(x, y), nil
}

// parseColor reads "#rrggbb" or "#rrggbbaa" (not premultiplied).
func parseColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf(`must be of the form "#rrggbb" or "#rrggbbaa" but got "%s"`, s)
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	c := color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}
	return color.RGBAModel.Convert(c).(color.RGBA), nil
}
