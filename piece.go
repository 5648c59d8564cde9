package tetris

type Shape int

const (
	ShapeI Shape = iota
	ShapeZ
	ShapeS
	ShapeL
	ShapeJ
	ShapeT
	ShapeO
)

// Shapes lists every family in the order a Source picks from.
var Shapes = []Shape{ShapeI, ShapeZ, ShapeS, ShapeL, ShapeJ, ShapeT, ShapeO}

func (s Shape) String() string {
	switch s {
	case ShapeI:
		return "I"
	case ShapeZ:
		return "Z"
	case ShapeS:
		return "S"
	case ShapeL:
		return "L"
	case ShapeJ:
		return "J"
	case ShapeT:
		return "T"
	case ShapeO:
		return "O"
	}
	return "?"
}

// figures maps each shape to its rotations. A rotation is 4 indexes into
// a 4x4 window, row-major.
var figures = map[Shape][][4]int{
	ShapeI: {{1, 5, 9, 13}, {4, 5, 6, 7}},
	ShapeZ: {{4, 5, 9, 10}, {2, 6, 5, 9}},
	ShapeS: {{6, 7, 9, 10}, {1, 5, 6, 10}},
	ShapeL: {{1, 2, 5, 9}, {0, 4, 5, 6}, {1, 5, 9, 8}, {4, 5, 6, 10}},
	ShapeJ: {{1, 2, 6, 10}, {5, 6, 7, 9}, {2, 6, 10, 11}, {3, 5, 6, 7}},
	ShapeT: {{1, 4, 5, 6}, {1, 4, 5, 9}, {4, 5, 6, 9}, {1, 5, 6, 9}},
	ShapeO: {{1, 2, 5, 6}},
}

// Palette is the number of block colors. Colors are the tiles 1..Palette.
const Palette = 4

type Cell struct {
	Row, Col int
}

type Piece struct {
	Shape    Shape
	Rotation int
	X, Y     int
	Color    Tile
}

func NewPiece(source Source, x, y int) Piece {
	shape := Shapes[source.Intn(len(Shapes))]
	color := Tile(source.Intn(Palette) + 1)
	return Piece{
		Shape: shape,
		X:     x,
		Y:     y,
		Color: color,
	}
}

func (p Piece) Rotations() int {
	return len(figures[p.Shape])
}

// Cells returns the occupied offsets of the current rotation, relative to
// the piece origin.
func (p Piece) Cells() [4]Cell {
	var cells [4]Cell
	for i, idx := range figures[p.Shape][p.Rotation] {
		cells[i] = Cell{Row: idx / 4, Col: idx % 4}
	}
	return cells
}

func (p *Piece) Rotate() {
	p.Rotation = (p.Rotation + 1) % p.Rotations()
}
