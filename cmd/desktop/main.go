package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"gobex/pkg/bex"
	"gobex/pkg/config"
	"gobex/pkg/grid"
)

const (
	margin   = 12
	labelW   = 56
	ledSize  = 20
	rowGap   = 8
	lineStep = 16
)

var (
	background = color.RGBA{0x10, 0x12, 0x16, 0xff}
	ledOn      = color.RGBA{0x3c, 0xe0, 0x5a, 0xff}
	ledOff     = color.RGBA{0x24, 0x30, 0x28, 0xff}
	labelColor = color.RGBA{0xb0, 0xb8, 0xc0, 0xff}
	errorColor = color.RGBA{0xf0, 0x50, 0x50, 0xff}
	warnColor  = color.RGBA{0xf0, 0xc0, 0x40, 0xff}
)

type Game struct {
	panel *Panel
	cfg   config.Desktop
	face  *text.GoXFace
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := g.panel.Reload(); err != nil {
			log.Printf("Reload failed: %v", err)
		}
	}
	return nil
}

func (g *Game) drawText(screen *ebiten.Image, msg string, x, y int, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(screen, msg, g.face, op)
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(background)

	y := margin
	for _, row := range g.panel.Rows {
		layout := grid.Layout{
			Cols:    g.cfg.Columns,
			CellW:   ledSize + 4,
			CellH:   ledSize + 4,
			OriginX: margin + labelW,
			OriginY: y,
		}
		g.drawText(screen, fmt.Sprintf("L%d", row.Line), margin, y+4, labelColor)

		r := float32(ledSize) / 2
		for i, on := range row.Value.Bits() {
			px, py := layout.Cell(i)
			clr := ledOff
			if on {
				clr = ledOn
			}
			vector.DrawFilledCircle(screen, float32(px)+r, float32(py)+r, r, clr, true)
		}
		y += layout.Height(row.Value.Width()) + rowGap
	}

	for _, d := range g.panel.Diags.Diags {
		clr := errorColor
		if d.Kind == bex.Warning {
			clr = warnColor
		}
		g.drawText(screen, d.String(), margin, y, clr)
		y += lineStep
	}

	g.drawText(screen, "R: reload", margin, g.cfg.Height-lineStep-margin/2, labelColor)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.cfg.Width, g.cfg.Height
}

func main() {
	configFile := flag.String("config", "", "TOML configuration file")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: desktop [-config file.toml] script.bx")
		os.Exit(2)
	}

	cfg, err := config.LoadOrDefault(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	panel := NewPanel(flag.Arg(0), cfg)
	if err := panel.Reload(); err != nil {
		log.Fatalf("Failed to read source file: %v", err)
	}
	os.Stdout.Write(panel.Output.Bytes())

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(cfg.Desktop.Width, cfg.Desktop.Height)
	ebiten.SetWindowTitle(cfg.Desktop.Title)

	game := &Game{
		panel: panel,
		cfg:   cfg.Desktop,
		face:  text.NewGoXFace(basicfont.Face7x13),
	}
	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
