// Command render_glyphs renders the Sloan letters from a TrueType font
// into a directory of PNG tiles and, optionally, a gzipped glyph bundle.
// Both outputs can be passed to letterstim as -atlas or -font.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/distortlab/letterstim"
	"github.com/distortlab/letterstim/imageutil"
)

// sloanLetters covers the default targets and flankers.
const sloanLetters = "CDHKNORSVZ"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("render_glyphs", flag.ContinueOnError)
	fontPath := fs.String("font", "", "Path to a TrueType font (default: embedded Go Bold)")
	outDir := fs.String("out", "", "Directory to write <letter>.png tiles to")
	bundle := fs.String("bundle", "", "Path to save a .gob.gz glyph bundle")
	letters := fs.String("letters", sloanLetters, "Letters to render")
	tile := fs.Int("tile", letterstim.DefaultGlyphTile, "Tile side length in pixels")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *outDir == "" && *bundle == "" {
		fs.PrintDefaults()
		return fmt.Errorf("at least one of -out and -bundle is required")
	}

	lg := slog.New(slog.NewTextHandler(os.Stderr, nil))

	var (
		glyphs *letterstim.FontGlyphs
		name   = "gobold"
		err    error
	)
	if *fontPath != "" {
		glyphs, err = letterstim.LoadFontGlyphs(*fontPath, *tile)
		name = filepath.Base(*fontPath)
	} else {
		glyphs, err = letterstim.DefaultFontGlyphs()
		if err == nil && *tile != letterstim.DefaultGlyphTile {
			err = fmt.Errorf("-tile requires -font")
		}
	}
	if err != nil {
		return err
	}
	lg.Info("rendering glyphs", "font", name, "letters", *letters, "tile", *tile)

	b, err := letterstim.BuildGlyphBundle(name, glyphs, []rune(*letters))
	if err != nil {
		return err
	}

	if *outDir != "" {
		if err := os.MkdirAll(*outDir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		for _, r := range b.Letters() {
			path := filepath.Join(*outDir, string(r)+".png")
			if err := imageutil.SaveField(b.Glyphs[r], path); err != nil {
				return err
			}
		}
		lg.Info("saved atlas", "dir", *outDir, "glyphs", len(b.Glyphs))
	}

	if *bundle != "" {
		if err := b.Save(*bundle); err != nil {
			return err
		}
		if info, err := os.Stat(*bundle); err == nil {
			lg.Info("saved glyph bundle", "path", *bundle, "kb", float64(info.Size())/1024)
		}
	}
	return nil
}
