package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/term"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/qrdoc-cli/internal/core/ports/driving"
)

// progressInterval is the minimum time between redraws of the progress line.
const progressInterval = 100 * time.Millisecond

// progressPrinter renders scan progress on a single terminal line.
// Nothing is drawn when the output is not a terminal.
type progressPrinter struct {
	w       io.Writer
	tty     bool
	limiter rate.Sometimes
	drawn   bool
}

func newProgressPrinter(w io.Writer) *progressPrinter {
	return &progressPrinter{
		w:       w,
		tty:     isTerminal(w),
		limiter: rate.Sometimes{Interval: progressInterval},
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Update is a ScanAll progress callback.
func (p *progressPrinter) Update(pr driving.ScanProgress) {
	if !p.tty {
		return
	}
	if pr.Processed >= pr.Total {
		p.draw(pr)
		return
	}
	p.limiter.Do(func() { p.draw(pr) })
}

func (p *progressPrinter) draw(pr driving.ScanProgress) {
	label := ""
	if pr.Last != nil {
		label = pr.Last.Label()
	}
	fmt.Fprintf(p.w, "\r\033[KScanning %d/%d (%d%%) %s", pr.Processed, pr.Total, pr.Percent(), label)
	p.drawn = true
}

// Done ends the progress line.
func (p *progressPrinter) Done() {
	if p.drawn {
		fmt.Fprintln(p.w)
		p.drawn = false
	}
}
