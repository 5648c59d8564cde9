package tetris

const DefaultFPS = 24

// gravityWrap bounds the frame counter.
const gravityWrap = 10000

// Gravity paces the forced drop of the active piece. It counts frames and
// is due every fps/(level*2) frames, so higher levels fall faster.
type Gravity struct {
	fps     int
	counter int
}

func NewGravity(fps int) *Gravity {
	if fps < 1 {
		fps = DefaultFPS
	}
	return &Gravity{fps: fps}
}

func (g *Gravity) FPS() int {
	return g.fps
}

// Interval returns the number of frames between two ticks at the level.
func (g *Gravity) Interval(level int) int {
	if level < 1 {
		level = 1
	}
	interval := g.fps / (level * 2)
	if interval < 1 {
		return 1
	}
	return interval
}

// Step advances one frame and reports whether a tick is due.
func (g *Gravity) Step(level int) bool {
	g.counter++
	if g.counter >= gravityWrap {
		g.counter = 0
	}
	return g.counter%g.Interval(level) == 0
}
