package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/JoelOtter/termloop"
	"github.com/jauhararifin/tetris/v2"
	"github.com/mattn/go-runewidth"
)

func main() {
	width := flag.Int("width", tetris.DefaultWidth, "board width")
	height := flag.Int("height", tetris.DefaultHeight, "board height")
	fps := flag.Int("fps", tetris.DefaultFPS, "frames per second")
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

	game := termloop.NewGame()
	game.Screen().SetFps(float64(*fps))
	level := termloop.NewBaseLevel(termloop.Cell{})
	boardEntity := NewBoardPlayer(game, session, defaultTheme(), 0, 0)
	level.AddEntity(boardEntity)
	game.Screen().SetLevel(level)
	game.Start()

	if !session.Quit() {
		logger.Printf("game %s interrupted\n", session.ID())
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
	return log.New(f, "playtetris ", log.LstdFlags), func() { f.Close() }, nil
}

// theme holds everything the renderer needs to know about looks. It is
// built once in main.
type theme struct {
	border    termloop.Attr
	text      termloop.Attr
	alert     termloop.Attr
	empty     termloop.Attr
	tiles     [tetris.Palette + 1]termloop.Attr
	blockRune rune
	emptyRune rune
}

func defaultTheme() theme {
	return theme{
		border: termloop.ColorBlue,
		text:   termloop.ColorWhite,
		alert:  termloop.ColorRed,
		empty:  termloop.ColorBlue,
		tiles: [tetris.Palette + 1]termloop.Attr{
			termloop.ColorDefault,
			termloop.ColorRed,
			termloop.ColorGreen,
			termloop.ColorYellow,
			termloop.ColorCyan,
		},
		blockRune: '#',
		emptyRune: '.',
	}
}

type boardPlayer struct {
	game    *termloop.Game
	session *tetris.Session
	theme   theme
	x, y    int

	scoreText *termloop.Text
	levelText *termloop.Text
}

func NewBoardPlayer(game *termloop.Game, session *tetris.Session, t theme, x, y int) *boardPlayer {
	width := session.Board().Width()
	return &boardPlayer{
		game:    game,
		session: session,
		theme:   t,
		x:       x,
		y:       y,

		scoreText: termloop.NewText(x+width+3, y+8, "0", t.text, termloop.ColorDefault),
		levelText: termloop.NewText(x+width+3, y+9, "1", t.text, termloop.ColorDefault),
	}
}

func (b *boardPlayer) Tick(ev termloop.Event) {
	if ev.Type != termloop.EventKey {
		return
	}

	switch ev.Key {
	case termloop.KeyArrowLeft:
		b.session.Apply(tetris.ActionGoLeft)
	case termloop.KeyArrowRight:
		b.session.Apply(tetris.ActionGoRight)
	case termloop.KeyArrowUp:
		b.session.Apply(tetris.ActionRotate)
	case termloop.KeyArrowDown:
		b.session.Apply(tetris.ActionGoDown)
	case termloop.KeySpace:
		b.session.Apply(tetris.ActionDrop)
	}

	if ev.Ch == 'r' || ev.Ch == 'R' {
		b.session.Restart()
	}
}

// Draw runs once per frame after the input of that frame was handled, so
// the gravity tick happens here, before rendering.
func (b *boardPlayer) Draw(s *termloop.Screen) {
	b.session.Frame()

	board := b.session.Board()
	// Esc only ends a finished game. While playing Ctrl+C stays the way out
	// of the terminal.
	if board.IsOver() {
		b.game.SetEndKey(termloop.KeyEsc)
	} else {
		b.game.SetEndKey(termloop.KeyCtrlC)
	}

	width, height := board.Width(), board.Height()
	b.drawBox(s, b.x, b.y, width+2, height+2)
	b.drawBox(s, b.x+width+3, b.y, 6, 6)

	b.scoreText.SetText(fmt.Sprintf("Score: %d", board.Score()))
	b.scoreText.Draw(s)
	b.levelText.SetText(fmt.Sprintf("Level: %d", board.Level()))
	b.levelText.Draw(s)

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			s.RenderCell(b.x+width+4+x, b.y+1+y, &termloop.Cell{Bg: termloop.ColorDefault, Ch: ' '})
		}
	}
	next := board.Next()
	for _, c := range next.Cells() {
		s.RenderCell(b.x+width+4+c.Col, b.y+1+c.Row, &termloop.Cell{
			Fg: b.theme.tiles[next.Color],
			Bg: termloop.ColorDefault,
			Ch: b.theme.blockRune,
		})
	}

	tiles := board.Render()
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			cell := &termloop.Cell{
				Fg: b.theme.empty,
				Bg: termloop.ColorDefault,
				Ch: b.theme.emptyRune,
			}
			if tile := tiles[y][x]; tile != tetris.TileEmpty {
				cell.Fg = b.theme.tiles[tile]
				cell.Ch = b.theme.blockRune
			}
			s.RenderCell(b.x+1+x, b.y+1+y, cell)
		}
	}

	if board.IsOver() {
		b.drawGameOver(s, width+2, height+2)
	}
}

func (b *boardPlayer) drawBox(s *termloop.Screen, x, y, w, h int) {
	border := &termloop.Cell{Fg: b.theme.border, Bg: termloop.ColorDefault, Ch: '+'}
	for i := 0; i < w; i++ {
		s.RenderCell(x+i, y, border)
		s.RenderCell(x+i, y+h-1, border)
	}
	for i := 0; i < h; i++ {
		s.RenderCell(x, y+i, border)
		s.RenderCell(x+w-1, y+i, border)
	}
}

var gameOverLines = []string{
	"Game Over",
	"",
	"Press 'r' to restart",
	"Press 'esc' to quit",
}

func (b *boardPlayer) drawGameOver(s *termloop.Screen, boardWidth, boardHeight int) {
	panelWidth := 0
	for _, line := range gameOverLines {
		if w := runewidth.StringWidth(line); w > panelWidth {
			panelWidth = w
		}
	}
	panelWidth += 4
	panelHeight := len(gameOverLines) + 4

	px := b.x + centerOffset(boardWidth, panelWidth)
	py := b.y + centerOffset(boardHeight, panelHeight)
	for y := 1; y < panelHeight-1; y++ {
		for x := 1; x < panelWidth-1; x++ {
			s.RenderCell(px+x, py+y, &termloop.Cell{Bg: termloop.ColorBlack, Ch: ' '})
		}
	}
	alert := &termloop.Cell{Fg: b.theme.alert, Bg: termloop.ColorBlack, Ch: '*'}
	for x := 0; x < panelWidth; x++ {
		s.RenderCell(px+x, py, alert)
		s.RenderCell(px+x, py+panelHeight-1, alert)
	}
	for y := 0; y < panelHeight; y++ {
		s.RenderCell(px, py+y, alert)
		s.RenderCell(px+panelWidth-1, py+y, alert)
	}

	for i, line := range gameOverLines {
		fg := b.theme.alert
		if i == 0 {
			fg = b.theme.text
		}
		drawText(s, px+centerOffset(panelWidth, runewidth.StringWidth(line)), py+2+i, line, fg, termloop.ColorBlack)
	}
}

// centerOffset returns where content of the given width starts when it is
// centered in a span.
func centerOffset(span, width int) int {
	if width >= span {
		return 0
	}
	return (span - width) / 2
}

func drawText(s *termloop.Screen, x, y int, text string, fg, bg termloop.Attr) {
	for _, ch := range text {
		s.RenderCell(x, y, &termloop.Cell{Fg: fg, Bg: bg, Ch: ch})
		x += runewidth.RuneWidth(ch)
	}
}
