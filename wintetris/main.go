package main

import (
	"flag"
	"fmt"
	"image/color"
	"io"
	"log"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jauhararifin/tetris/v2"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// statusHeight is the strip below the board holding the score, the level
// and the next piece.
const statusHeight = 120

func main() {
	width := flag.Int("width", tetris.DefaultWidth, "board width")
	height := flag.Int("height", tetris.DefaultHeight, "board height")
	fps := flag.Int("fps", tetris.DefaultFPS, "frames per second")
	cellSize := flag.Int("cell", 20, "cell size in pixels")
	seed := flag.Int64("seed", time.Now().UnixNano(), "random seed")
	logPath := flag.String("log", "", "log file, logs are discarded when empty")
	flag.Parse()

	logger, closeLog, err := openLog(*logPath)
	if err != nil {
		log.Fatalf("cannot open log file: %v\n", err)
	}
	defer closeLog()

	session := tetris.NewSession(*fps, logger,
		tetris.WithSize(*width, *height),
		tetris.WithSource(tetris.NewRandomSource(*seed)),
	)
	g := newGame(session, defaultAssets(*cellSize))

	w, h := g.Layout(0, 0)
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("Tetris")
	ebiten.SetTPS(*fps)
	ebiten.SetWindowClosingHandled(true)
	if err := ebiten.RunGame(g); err != nil {
		log.Fatalf("cannot run game: %v\n", err)
	}
}

func openLog(path string) (*log.Logger, func(), error) {
	if path == "" {
		return log.New(io.Discard, "", 0), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, err
	}
	return log.New(f, "wintetris ", log.LstdFlags), func() { f.Close() }, nil
}

// assets is the rendering configuration, built once and handed to the
// game. The board knows nothing about it.
type assets struct {
	cellSize   int
	background color.Color
	grid       color.Color
	outline    color.Color
	panel      color.Color
	alert      color.Color
	text       color.Color
	tiles      [tetris.Palette + 1]color.Color
	face       font.Face
}

func defaultAssets(cellSize int) *assets {
	return &assets{
		cellSize:   cellSize,
		background: color.RGBA{R: 31, G: 25, B: 76, A: 255},
		grid:       color.RGBA{R: 31, G: 25, B: 132, A: 255},
		outline:    color.White,
		panel:      color.RGBA{R: 21, G: 24, B: 29, A: 255},
		alert:      color.RGBA{R: 252, G: 91, B: 122, A: 255},
		text:       color.White,
		tiles: [tetris.Palette + 1]color.Color{
			color.Transparent,
			colornames.Tomato,
			colornames.Gold,
			colornames.Mediumseagreen,
			colornames.Deepskyblue,
		},
		face: basicfont.Face7x13,
	}
}

type game struct {
	session *tetris.Session
	assets  *assets
}

func newGame(session *tetris.Session, a *assets) *game {
	return &game{session: session, assets: a}
}

var keyActions = []struct {
	key    ebiten.Key
	action tetris.Action
}{
	{ebiten.KeyArrowLeft, tetris.ActionGoLeft},
	{ebiten.KeyArrowRight, tetris.ActionGoRight},
	{ebiten.KeyArrowDown, tetris.ActionGoDown},
	{ebiten.KeyArrowUp, tetris.ActionRotate},
	{ebiten.KeySpace, tetris.ActionDrop},
}

func (g *game) Update() error {
	if ebiten.IsWindowBeingClosed() && g.session.Quit() {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) && g.session.Quit() {
		return ebiten.Termination
	}

	for _, ka := range keyActions {
		if inpututil.IsKeyJustPressed(ka.key) {
			g.session.Apply(ka.action)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.session.Restart()
	}

	g.session.Frame()
	return nil
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	board := g.session.Board()
	return board.Width() * g.assets.cellSize, board.Height()*g.assets.cellSize + statusHeight
}

func (g *game) Draw(screen *ebiten.Image) {
	board := g.session.Board()
	a := g.assets
	cell := float32(a.cellSize)
	boardWidth := float32(board.Width()) * cell
	boardHeight := float32(board.Height()) * cell

	screen.Fill(a.background)

	for i := 0; i <= board.Height(); i++ {
		y := float32(i) * cell
		vector.StrokeLine(screen, 0, y, boardWidth, y, 1, a.grid, false)
	}
	for j := 0; j < board.Width(); j++ {
		x := float32(j) * cell
		vector.StrokeLine(screen, x, 0, x, boardHeight, 1, a.grid, false)
	}

	tiles := board.Render()
	for y, row := range tiles {
		for x, tile := range row {
			if tile != tetris.TileEmpty {
				g.drawBlock(screen, float32(x)*cell, float32(y)*cell, tile)
			}
		}
	}

	next := board.Next()
	for _, c := range next.Cells() {
		x := cell * float32(c.Col+1)
		y := boardHeight + 20 + cell*float32(c.Row)
		g.drawBlock(screen, x, y, next.Color)
	}

	score := fmt.Sprintf("%d", board.Score())
	level := fmt.Sprintf("Level : %d", board.Level())
	sw := screen.Bounds().Dx()
	g.drawCentered(screen, score, sw-50, int(boardHeight)+30, a.text)
	g.drawCentered(screen, level, sw-50, int(boardHeight)+statusHeight-30, a.text)

	if board.IsOver() {
		g.drawGameOver(screen, int(boardWidth))
	}
}

func (g *game) drawBlock(screen *ebiten.Image, x, y float32, tile tetris.Tile) {
	cell := float32(g.assets.cellSize)
	vector.DrawFilledRect(screen, x, y, cell, cell, g.assets.tiles[tile], false)
	vector.StrokeRect(screen, x, y, cell, cell, 1, g.assets.outline, false)
}

func (g *game) drawGameOver(screen *ebiten.Image, boardWidth int) {
	a := g.assets
	px, py := 30, 100
	pw, ph := boardWidth-2*px, 150
	vector.DrawFilledRect(screen, float32(px), float32(py), float32(pw), float32(ph), a.panel, false)
	vector.StrokeRect(screen, float32(px), float32(py), float32(pw), float32(ph), 2, a.alert, false)

	center := px + pw/2
	g.drawCentered(screen, "Game Over", center, py+35, a.text)
	g.drawCentered(screen, "Press 'r' to restart!!!", center, py+95, a.alert)
	g.drawCentered(screen, "Press 'esc' to quit", center, py+125, a.alert)
}

// drawCentered draws s horizontally centered on cx with its baseline at y.
func (g *game) drawCentered(screen *ebiten.Image, s string, cx, y int, clr color.Color) {
	w := font.MeasureString(g.assets.face, s).Ceil()
	text.Draw(screen, s, g.assets.face, cx-w/2, y, clr)
}
