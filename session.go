package tetris

import (
	"io"
	"log"

	"github.com/google/uuid"
)

// Session drives one Board from a frame loop. Every frame the loop applies
// the pending input, calls Frame and then renders Board.
type Session struct {
	id      string
	board   *Board
	gravity *Gravity
	logger  *log.Logger
	over    bool
}

// NewSession builds a board with the given options. The session installs
// its own complete handler to log line clears.
func NewSession(fps int, logger *log.Logger, options ...BoardOption) *Session {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	s := &Session{
		id:      uuid.New().String(),
		gravity: NewGravity(fps),
		logger:  logger,
	}

	options = append(options, WithCompleteHandler(CompleteHandlerFunc(s.onCompleted)))
	s.board = NewBoard(options...)
	s.logger.Printf("game %s started: %dx%d board, %d fps\n", s.id, s.board.Width(), s.board.Height(), s.gravity.FPS())
	s.checkOver()
	return s
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Board() *Board {
	return s.board
}

func (s *Session) Apply(action Action) {
	s.board.Apply(action)
	s.checkOver()
}

// Frame advances the gravity clock by one frame and drops the active piece
// when a tick is due. The clock keeps running after game over but no tick
// is applied.
func (s *Session) Frame() {
	if s.gravity.Step(s.board.Level()) && !s.board.IsOver() {
		s.Apply(ActionTick)
	}
}

func (s *Session) Restart() {
	s.logger.Printf("game %s restarted at score=%d level=%d\n", s.id, s.board.Score(), s.board.Level())
	s.id = uuid.New().String()
	s.over = false
	s.board.Reset()
	s.logger.Printf("game %s started: %dx%d board, %d fps\n", s.id, s.board.Width(), s.board.Height(), s.gravity.FPS())
	s.checkOver()
}

// Quit reports whether a quit request is honored. Players can only leave
// a finished game.
func (s *Session) Quit() bool {
	if !s.board.IsOver() {
		return false
	}
	s.logger.Printf("game %s quit\n", s.id)
	return true
}

func (s *Session) onCompleted(rows int) {
	if rows == 0 {
		return
	}
	s.logger.Printf("game %s cleared %d rows: score=%d level=%d\n", s.id, rows, s.board.Score(), s.board.Level())
}

func (s *Session) checkOver() {
	if s.over || !s.board.IsOver() {
		return
	}
	s.over = true
	s.logger.Printf("game %s over: score=%d level=%d\n", s.id, s.board.Score(), s.board.Level())
}
