package tetris

import (
	"fmt"
	"time"
)

type Action int

const (
	ActionTick Action = iota
	ActionGoLeft
	ActionGoRight
	ActionGoDown
	ActionRotate
	ActionDrop
)

func (a Action) String() string {
	switch a {
	case ActionTick:
		return "tick"
	case ActionGoLeft:
		return "left"
	case ActionGoRight:
		return "right"
	case ActionGoDown:
		return "down"
	case ActionRotate:
		return "rotate"
	case ActionDrop:
		return "drop"
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// Tile is a board cell. Zero is empty, 1..Palette is a settled block of
// that color.
type Tile int

const TileEmpty Tile = 0

const (
	DefaultWidth  = 15
	DefaultHeight = 19
	DefaultSpawnX = 5
	DefaultSpawnY = 0
)

type CompleteHandler interface {
	OnCompleted(rows int)
}

type CompleteHandlerFunc func(rows int)

func (f CompleteHandlerFunc) OnCompleted(rows int) {
	f(rows)
}

type State struct {
	Tiles         [][]Tile
	Current, Next Piece
	Score, Level  int
	IsOver        bool
}

type Board struct {
	source          Source
	completeHandler CompleteHandler
	width, height   int
	spawnX, spawnY  int

	tiles        [][]Tile
	current      Piece
	next         *Piece
	score, level int
	isOver       bool

	renderFrame [][]Tile
}

type BoardOption func(*Board)

func WithSize(width, height int) BoardOption {
	if width < 10 || height < 10 {
		panic(fmt.Errorf("minimal width x height is 10x10"))
	}
	return func(board *Board) {
		board.width = width
		board.height = height
	}
}

func WithSpawn(x, y int) BoardOption {
	if x < 0 || y < 0 {
		panic(fmt.Errorf("spawn position must not be negative"))
	}
	return func(board *Board) {
		board.spawnX = x
		board.spawnY = y
	}
}

func WithSource(source Source) BoardOption {
	return func(board *Board) {
		board.source = source
	}
}

func WithCompleteHandler(handler CompleteHandler) BoardOption {
	return func(board *Board) {
		board.completeHandler = handler
	}
}

func NewBoard(options ...BoardOption) *Board {
	board := &Board{
		source: NewRandomSource(time.Now().UnixNano()),
		width:  DefaultWidth,
		height: DefaultHeight,
		spawnX: DefaultSpawnX,
		spawnY: DefaultSpawnY,
	}
	for _, opt := range options {
		opt(board)
	}

	board.Reset()
	return board
}

// Reset empties the board, zeroes the score and spawns a fresh pair of
// pieces. It is the only way out of the game over state.
func (b *Board) Reset() {
	b.tiles = make([][]Tile, b.height)
	b.renderFrame = make([][]Tile, b.height)
	for i := 0; i < b.height; i++ {
		b.tiles[i] = make([]Tile, b.width)
		b.renderFrame[i] = make([]Tile, b.width)
	}

	b.score = 0
	b.level = 1
	b.isOver = false
	b.next = nil
	b.spawn()
}

func (b *Board) Width() int   { return b.width }
func (b *Board) Height() int  { return b.height }
func (b *Board) Score() int   { return b.score }
func (b *Board) Level() int   { return b.level }
func (b *Board) IsOver() bool { return b.isOver }

func (b *Board) Current() Piece {
	return b.current
}

func (b *Board) Next() Piece {
	return *b.next
}

// Tiles returns a copy of the settled cells.
func (b *Board) Tiles() [][]Tile {
	tiles := make([][]Tile, b.height)
	for y := range b.tiles {
		tiles[y] = append([]Tile(nil), b.tiles[y]...)
	}
	return tiles
}

func (b *Board) State() State {
	return State{
		Tiles:   b.Tiles(),
		Current: b.current,
		Next:    *b.next,
		Score:   b.score,
		Level:   b.level,
		IsOver:  b.isOver,
	}
}

// SetState replaces the whole game state. The tiles must match the board
// size.
func (b *Board) SetState(state State) {
	if len(state.Tiles) != b.height {
		panic(fmt.Errorf("state has %d rows, board has %d", len(state.Tiles), b.height))
	}
	tiles := make([][]Tile, b.height)
	for y, row := range state.Tiles {
		if len(row) != b.width {
			panic(fmt.Errorf("state row %d has %d columns, board has %d", y, len(row), b.width))
		}
		tiles[y] = append([]Tile(nil), row...)
	}

	next := state.Next
	b.tiles = tiles
	b.current = state.Current
	b.next = &next
	b.score = state.Score
	b.level = state.Level
	b.isOver = state.IsOver
}

func (b *Board) Apply(action Action) {
	switch action {
	case ActionTick, ActionGoDown:
		b.MoveDown()
	case ActionGoLeft:
		b.MoveLeft()
	case ActionGoRight:
		b.MoveRight()
	case ActionRotate:
		b.Rotate()
	case ActionDrop:
		b.HardDrop()
	}
}

func (b *Board) MoveLeft() {
	if b.isOver {
		return
	}
	b.current.X--
	if b.Intersects() {
		b.current.X++
	}
}

func (b *Board) MoveRight() {
	if b.isOver {
		return
	}
	b.current.X++
	if b.Intersects() {
		b.current.X--
	}
}

func (b *Board) MoveDown() {
	if b.isOver {
		return
	}
	b.current.Y++
	if b.Intersects() {
		b.current.Y--
		b.freeze()
	}
}

// HardDrop moves the piece as far down as it goes and freezes it there.
// The floor bounds the loop.
func (b *Board) HardDrop() {
	if b.isOver {
		return
	}
	for !b.Intersects() {
		b.current.Y++
	}
	b.current.Y--
	b.freeze()
}

// Rotate advances the piece rotation in place. There are no wall kicks: a
// rotation that collides is dropped.
func (b *Board) Rotate() {
	if b.isOver {
		return
	}
	rotation := b.current.Rotation
	b.current.Rotate()
	if b.Intersects() {
		b.current.Rotation = rotation
	}
}

// Intersects reports whether the active piece overlaps a wall, the floor
// or a settled block. Cells above row 0 never collide.
func (b *Board) Intersects() bool {
	for _, c := range b.current.Cells() {
		row := b.current.Y + c.Row
		col := b.current.X + c.Col
		if row >= b.height || col >= b.width || col < 0 {
			return true
		}
		if row >= 0 && b.tiles[row][col] != TileEmpty {
			return true
		}
	}
	return false
}

func (b *Board) freeze() {
	for _, c := range b.current.Cells() {
		row := b.current.Y + c.Row
		col := b.current.X + c.Col
		if row >= 0 {
			b.tiles[row][col] = b.current.Color
		}
	}

	cleared := b.clearCompletedLines()
	if b.completeHandler != nil {
		b.completeHandler.OnCompleted(cleared)
	}
	b.spawn()
}

func (b *Board) spawn() {
	b.spawnNext()
	if b.Intersects() {
		b.isOver = true
	}
}

func (b *Board) spawnNext() {
	if b.next == nil {
		next := NewPiece(b.source, b.spawnX, b.spawnY)
		b.next = &next
	}
	b.current = *b.next
	next := NewPiece(b.source, b.spawnX, b.spawnY)
	b.next = &next
}

// clearCompletedLines removes full rows and returns how many were removed.
// A pass scans from the bottom up to row 1; row 0 is never checked. Rows
// shift while a pass runs, so passes repeat until one clears nothing.
func (b *Board) clearCompletedLines() int {
	total := 0
	for {
		cleared := 0
		for y := b.height - 1; y > 0; y-- {
			if !b.isRowCompleted(y) {
				continue
			}
			b.removeRow(y)
			cleared++
			b.score++
			if b.score%10 == 0 {
				b.level++
			}
		}
		if cleared == 0 {
			return total
		}
		total += cleared
	}
}

func (b *Board) isRowCompleted(row int) bool {
	for x := 0; x < b.width; x++ {
		if b.tiles[row][x] == TileEmpty {
			return false
		}
	}
	return true
}

func (b *Board) removeRow(row int) {
	copy(b.tiles[1:row+1], b.tiles[:row])
	b.tiles[0] = make([]Tile, b.width)
}

// Render returns the settled tiles with the active piece painted on top.
// The returned frame is reused by the next call.
func (b *Board) Render() [][]Tile {
	for y := 0; y < b.height; y++ {
		copy(b.renderFrame[y], b.tiles[y])
	}

	for _, c := range b.current.Cells() {
		frameX := b.current.X + c.Col
		frameY := b.current.Y + c.Row
		if frameX >= 0 && frameX < b.width && frameY >= 0 && frameY < b.height {
			b.renderFrame[frameY][frameX] = b.current.Color
		}
	}

	return b.renderFrame
}
