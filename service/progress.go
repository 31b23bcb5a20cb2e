package service

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

// progressScale maps the 0.0..1.0 fraction onto progress bar ticks.
const progressScale = 100

// ProgressReporterImpl implements the ProgressReporter interface on top of a
// terminal progress bar. Non-interactive writers get no output at all.
type ProgressReporterImpl struct {
	mu          sync.Mutex
	writer      io.Writer
	bar         *progressbar.ProgressBar
	interactive bool
}

// NewProgressReporter creates a progress reporter writing to stderr
func NewProgressReporter() *ProgressReporterImpl {
	return &ProgressReporterImpl{
		writer:      os.Stderr,
		interactive: isInteractive(os.Stderr),
	}
}

// SetWriter sets the output writer and re-checks interactivity
func (p *ProgressReporterImpl) SetWriter(writer io.Writer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.writer = writer
	p.interactive = isInteractive(writer)
}

// Start initializes the progress bar
func (p *ProgressReporterImpl) Start(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.interactive {
		return
	}
	p.bar = p.createBar("Analyzing")
}

// Update moves the bar to the given fraction and relabels the stage.
func (p *ProgressReporterImpl) Update(stage string, fraction float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar == nil {
		return
	}
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	p.bar.Describe(stage)
	_ = p.bar.Set(int(fraction * progressScale))
}

// Finish completes the progress bar
func (p *ProgressReporterImpl) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar == nil {
		return
	}
	_ = p.bar.Finish()
	p.bar = nil
}

func (p *ProgressReporterImpl) createBar(description string) *progressbar.ProgressBar {
	writer := p.writer
	if writer == nil {
		writer = io.Discard
	}

	return progressbar.NewOptions(progressScale,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(50),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionSetWriter(writer),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(writer)
		}),
	)
}

func isInteractive(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

// NoOpProgressReporter is a progress reporter that does nothing
type NoOpProgressReporter struct{}

// NewNoOpProgressReporter creates a no-op progress reporter
func NewNoOpProgressReporter() *NoOpProgressReporter {
	return &NoOpProgressReporter{}
}

func (n *NoOpProgressReporter) Start(total int)                   {}
func (n *NoOpProgressReporter) Update(stage string, frac float64) {}
func (n *NoOpProgressReporter) Finish()                           {}
