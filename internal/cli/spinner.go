package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// spinner animates a braille frame next to a message on stderr while the
// placement search runs. The animation halts when Stop is called or when
// the supplied context is cancelled, whichever comes first.
type spinner struct {
	message string
	out     io.Writer
	ctx     context.Context
	quit    chan struct{}
	idle    chan struct{}
}

var spinnerFrames = [...]string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func newSpinner(ctx context.Context, message string) *spinner {
	return &spinner{
		message: message,
		out:     os.Stderr,
		ctx:     ctx,
		quit:    make(chan struct{}),
		idle:    make(chan struct{}),
	}
}

// Start begins the animation in a background goroutine. The goroutine owns
// all writes to out, so the line is cleared before it exits.
func (s *spinner) Start() {
	go func() {
		defer close(s.idle)
		defer s.clearLine()
		tick := time.NewTicker(80 * time.Millisecond)
		defer tick.Stop()

		for frame := 0; ; frame++ {
			select {
			case <-s.ctx.Done():
				return
			case <-s.quit:
				return
			case <-tick.C:
				glyph := spinnerFrames[frame%len(spinnerFrames)]
				fmt.Fprintf(s.out, "\r%s %s", styleIconSpinner.Render(glyph), StyleDim.Render(s.message))
			}
		}
	}()
}

// Stop halts the animation and waits for the line to be cleared. Calling
// Stop more than once is safe.
func (s *spinner) Stop() {
	select {
	case <-s.quit:
	default:
		close(s.quit)
	}
	<-s.idle
}

func (s *spinner) clearLine() {
	fmt.Fprintf(s.out, "\r%s\r", strings.Repeat(" ", len(s.message)+4))
}
