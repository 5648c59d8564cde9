package tetris

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBoard(t *testing.T, pieces ...Shape) (*Board, *[]int) {
	t.Helper()
	source := NewQueueSource()
	for _, shape := range pieces {
		source.PushPiece(shape, 1)
	}
	completed := &[]int{}
	board := NewBoard(
		WithSize(10, 10),
		WithSource(source),
		WithCompleteHandler(CompleteHandlerFunc(func(rows int) {
			*completed = append(*completed, rows)
		})),
	)
	return board, completed
}

func emptyTiles(width, height int) [][]Tile {
	tiles := make([][]Tile, height)
	for y := range tiles {
		tiles[y] = make([]Tile, width)
	}
	return tiles
}

func fillRow(tiles [][]Tile, row int, except ...int) {
	for x := range tiles[row] {
		tiles[row][x] = 3
	}
	for _, x := range except {
		tiles[row][x] = TileEmpty
	}
}

func countBlocks(tiles [][]Tile) int {
	n := 0
	for _, row := range tiles {
		for _, tile := range row {
			if tile != TileEmpty {
				n++
			}
		}
	}
	return n
}

func setCurrent(b *Board, tiles [][]Tile, current Piece) {
	state := b.State()
	state.Tiles = tiles
	state.Current = current
	b.SetState(state)
}

func TestNewBoard(t *testing.T) {
	board, _ := newTestBoard(t, ShapeO, ShapeT)

	assert.Equal(t, 10, board.Width())
	assert.Equal(t, 10, board.Height())
	assert.Equal(t, 0, board.Score())
	assert.Equal(t, 1, board.Level())
	assert.False(t, board.IsOver())
	assert.Equal(t, Piece{Shape: ShapeO, X: DefaultSpawnX, Y: DefaultSpawnY, Color: 1}, board.Current())
	assert.Equal(t, ShapeT, board.Next().Shape)
	assert.Equal(t, 0, countBlocks(board.Tiles()))
	assert.False(t, board.Intersects())
}

func TestNewBoardDefaults(t *testing.T) {
	board := NewBoard()
	assert.Equal(t, DefaultWidth, board.Width())
	assert.Equal(t, DefaultHeight, board.Height())
	assert.False(t, board.IsOver())
}

func TestWithSizeTooSmall(t *testing.T) {
	assert.Panics(t, func() { WithSize(9, 20) })
	assert.Panics(t, func() { WithSize(10, 3) })
	assert.Panics(t, func() { WithSpawn(-1, 0) })
}

func TestSpawnOnEmptyBoard(t *testing.T) {
	for _, shape := range Shapes {
		board, _ := newTestBoard(t, shape)
		assert.False(t, board.Intersects(), "shape %s", shape)
		assert.False(t, board.IsOver(), "shape %s", shape)
	}
}

func TestMoveLeftRightRoundTrip(t *testing.T) {
	board, _ := newTestBoard(t, ShapeT)
	x := board.Current().X

	board.MoveLeft()
	assert.Equal(t, x-1, board.Current().X)
	board.MoveRight()
	assert.Equal(t, x, board.Current().X)

	board.MoveRight()
	assert.Equal(t, x+1, board.Current().X)
	board.MoveLeft()
	assert.Equal(t, x, board.Current().X)
}

func TestMoveAgainstWall(t *testing.T) {
	board, _ := newTestBoard(t, ShapeI)
	setCurrent(board, emptyTiles(10, 10), Piece{Shape: ShapeI, X: -1, Y: 0, Color: 2})

	board.MoveLeft()
	assert.Equal(t, -1, board.Current().X)
	assert.False(t, board.Intersects())

	setCurrent(board, emptyTiles(10, 10), Piece{Shape: ShapeI, X: 8, Y: 0, Color: 2})
	board.MoveRight()
	assert.Equal(t, 8, board.Current().X)
}

func TestMoveAgainstBlock(t *testing.T) {
	board, _ := newTestBoard(t, ShapeI)
	tiles := emptyTiles(10, 10)
	tiles[2][4] = 2
	setCurrent(board, tiles, Piece{Shape: ShapeI, X: 4, Y: 0, Color: 2})

	board.MoveLeft()
	assert.Equal(t, 4, board.Current().X)
}

func TestRotate(t *testing.T) {
	board, _ := newTestBoard(t, ShapeL)

	board.Rotate()
	assert.Equal(t, 1, board.Current().Rotation)
	board.Rotate()
	board.Rotate()
	board.Rotate()
	assert.Equal(t, 0, board.Current().Rotation)
}

func TestRotateBlockedByWall(t *testing.T) {
	board, _ := newTestBoard(t, ShapeI)
	setCurrent(board, emptyTiles(10, 10), Piece{Shape: ShapeI, X: -1, Y: 0, Color: 2})

	board.Rotate()
	assert.Equal(t, 0, board.Current().Rotation)
	assert.Equal(t, -1, board.Current().X, "rotation never kicks the piece")
}

func TestIntersectsIgnoresRowsAboveBoard(t *testing.T) {
	board, _ := newTestBoard(t, ShapeI)
	setCurrent(board, emptyTiles(10, 10), Piece{Shape: ShapeI, X: 3, Y: -3, Color: 2})
	assert.False(t, board.Intersects())

	setCurrent(board, emptyTiles(10, 10), Piece{Shape: ShapeI, X: 3, Y: 7, Color: 2})
	assert.True(t, board.Intersects())
}

func TestMoveDownFreezesAtFloor(t *testing.T) {
	board, completed := newTestBoard(t, ShapeT, ShapeS, ShapeZ)
	setCurrent(board, emptyTiles(10, 10), Piece{Shape: ShapeO, X: 2, Y: 8, Color: 4})
	next := board.Next()

	board.MoveDown()

	tiles := board.Tiles()
	assert.Equal(t, 4, countBlocks(tiles))
	for _, c := range []Cell{{8, 3}, {8, 4}, {9, 3}, {9, 4}} {
		assert.Equal(t, Tile(4), tiles[c.Row][c.Col])
	}
	assert.Equal(t, next, board.Current())
	assert.Equal(t, []int{0}, *completed)
	assert.False(t, board.IsOver())
}

func TestMoveDownSteps(t *testing.T) {
	board, _ := newTestBoard(t, ShapeO)
	y := board.Current().Y
	board.MoveDown()
	assert.Equal(t, y+1, board.Current().Y)
	assert.Equal(t, 0, countBlocks(board.Tiles()))
}

func TestHardDrop(t *testing.T) {
	board, _ := newTestBoard(t, ShapeI, ShapeT)

	board.HardDrop()

	tiles := board.Tiles()
	assert.Equal(t, 4, countBlocks(tiles))
	for row := 6; row < 10; row++ {
		assert.Equal(t, Tile(1), tiles[row][DefaultSpawnX+1], "row %d", row)
	}
	assert.Equal(t, ShapeT, board.Current().Shape)
	assert.Equal(t, DefaultSpawnY, board.Current().Y)
}

func TestHardDropOntoStack(t *testing.T) {
	board, _ := newTestBoard(t, ShapeO)
	tiles := emptyTiles(10, 10)
	tiles[5][6] = 2
	setCurrent(board, tiles, Piece{Shape: ShapeO, X: 5, Y: 0, Color: 3})

	board.HardDrop()

	tiles = board.Tiles()
	assert.Equal(t, Tile(3), tiles[3][6])
	assert.Equal(t, Tile(3), tiles[4][7])
	assert.Equal(t, 5, countBlocks(tiles))
}

func TestClearSingleRow(t *testing.T) {
	board, completed := newTestBoard(t, ShapeI)
	tiles := emptyTiles(10, 10)
	fillRow(tiles, 9, 0)
	setCurrent(board, tiles, Piece{Shape: ShapeI, X: -1, Y: 6, Color: 2})

	board.MoveDown()

	tiles = board.Tiles()
	assert.Equal(t, 1, board.Score())
	assert.Equal(t, []int{1}, *completed)
	assert.Equal(t, make([]Tile, 10), tiles[0])
	assert.Equal(t, 3, countBlocks(tiles))
	for row := 7; row < 10; row++ {
		assert.Equal(t, Tile(2), tiles[row][0], "row %d", row)
	}
}

func TestClearSimultaneousRows(t *testing.T) {
	board, completed := newTestBoard(t, ShapeI)
	tiles := emptyTiles(10, 10)
	for row := 6; row < 10; row++ {
		fillRow(tiles, row, 0)
	}
	tiles[5][4] = 4
	setCurrent(board, tiles, Piece{Shape: ShapeI, X: -1, Y: 0, Color: 2})

	board.HardDrop()

	tiles = board.Tiles()
	assert.Equal(t, 4, board.Score())
	assert.Equal(t, []int{4}, *completed)
	assert.Equal(t, 1, countBlocks(tiles))
	assert.Equal(t, Tile(4), tiles[9][4])
}

func TestClearSeparatedRows(t *testing.T) {
	board, _ := newTestBoard(t)
	tiles := emptyTiles(10, 10)
	fillRow(tiles, 9)
	fillRow(tiles, 7)
	tiles[8][2] = 1
	tiles[6][5] = 2
	setCurrent(board, tiles, board.Current())

	assert.Equal(t, 2, board.clearCompletedLines())

	tiles = board.Tiles()
	assert.Equal(t, 2, board.Score())
	assert.Equal(t, Tile(1), tiles[9][2])
	assert.Equal(t, Tile(2), tiles[8][5])
	assert.Equal(t, 2, countBlocks(tiles))
}

func TestClearNeverChecksTopRow(t *testing.T) {
	board, _ := newTestBoard(t)
	tiles := emptyTiles(10, 10)
	fillRow(tiles, 0)
	setCurrent(board, tiles, board.Current())

	assert.Equal(t, 0, board.clearCompletedLines())
	assert.Equal(t, 0, board.Score())
	assert.Equal(t, 10, countBlocks(board.Tiles()))
}

func TestLevelUp(t *testing.T) {
	board, _ := newTestBoard(t)
	tiles := emptyTiles(10, 10)
	fillRow(tiles, 9)
	state := board.State()
	state.Tiles = tiles
	state.Score = 9
	board.SetState(state)

	board.clearCompletedLines()
	assert.Equal(t, 10, board.Score())
	assert.Equal(t, 2, board.Level())

	tiles = emptyTiles(10, 10)
	for row := 1; row < 10; row++ {
		fillRow(tiles, row)
	}
	state = board.State()
	state.Tiles = tiles
	board.SetState(state)

	board.clearCompletedLines()
	assert.Equal(t, 19, board.Score())
	assert.Equal(t, 2, board.Level())

	tiles = emptyTiles(10, 10)
	fillRow(tiles, 9)
	state = board.State()
	state.Tiles = tiles
	board.SetState(state)

	board.clearCompletedLines()
	assert.Equal(t, 20, board.Score())
	assert.Equal(t, 3, board.Level())
}

func TestGameOver(t *testing.T) {
	board, _ := newTestBoard(t, ShapeO, ShapeO)
	tiles := emptyTiles(10, 10)
	for row := 1; row < 10; row++ {
		fillRow(tiles, row, 9)
	}
	setCurrent(board, tiles, Piece{Shape: ShapeO, X: 5, Y: -1, Color: 2})
	require.False(t, board.Intersects())

	board.MoveDown()

	require.True(t, board.IsOver())
	assert.True(t, board.Intersects())
	assert.Equal(t, Tile(2), board.Tiles()[0][6])

	current := board.Current()
	blocks := countBlocks(board.Tiles())
	for _, action := range []Action{ActionGoLeft, ActionGoRight, ActionGoDown, ActionRotate, ActionDrop, ActionTick} {
		board.Apply(action)
		assert.Equal(t, current, board.Current(), "action %s", action)
		assert.Equal(t, blocks, countBlocks(board.Tiles()), "action %s", action)
	}

	board.Reset()
	assert.False(t, board.IsOver())
	assert.Equal(t, 0, countBlocks(board.Tiles()))
	assert.Equal(t, 0, board.Score())
	assert.Equal(t, 1, board.Level())
}

func TestApply(t *testing.T) {
	board, _ := newTestBoard(t, ShapeT)
	start := board.Current()

	board.Apply(ActionGoLeft)
	assert.Equal(t, start.X-1, board.Current().X)
	board.Apply(ActionGoRight)
	board.Apply(ActionGoRight)
	assert.Equal(t, start.X+1, board.Current().X)
	board.Apply(ActionTick)
	board.Apply(ActionGoDown)
	assert.Equal(t, start.Y+2, board.Current().Y)
	board.Apply(ActionRotate)
	assert.Equal(t, 1, board.Current().Rotation)
	board.Apply(ActionDrop)
	assert.Equal(t, 4, countBlocks(board.Tiles()))
}

func TestRender(t *testing.T) {
	board, _ := newTestBoard(t)
	tiles := emptyTiles(10, 10)
	tiles[9][0] = 4
	setCurrent(board, tiles, Piece{Shape: ShapeO, X: 0, Y: -1, Color: 3})

	frame := board.Render()
	assert.Equal(t, Tile(4), frame[9][0])
	assert.Equal(t, Tile(3), frame[0][1])
	assert.Equal(t, Tile(3), frame[0][2])
	assert.Equal(t, 3, countBlocks(frame))
	assert.Equal(t, 1, countBlocks(board.Tiles()), "render leaves the tiles untouched")
}

func TestSetStateSizeMismatch(t *testing.T) {
	board, _ := newTestBoard(t)
	state := board.State()
	state.Tiles = emptyTiles(10, 9)
	assert.Panics(t, func() { board.SetState(state) })

	state.Tiles = emptyTiles(11, 10)
	assert.Panics(t, func() { board.SetState(state) })
}

func TestNextIsAlwaysPresent(t *testing.T) {
	board := NewBoard(WithSize(10, 20), WithSource(NewRandomSource(7)))
	for i := 0; i < 50 && !board.IsOver(); i++ {
		next := board.Next()
		board.HardDrop()
		if !board.IsOver() {
			assert.Equal(t, next.Shape, board.Current().Shape)
			assert.Equal(t, next.Color, board.Current().Color)
		}
	}
}
