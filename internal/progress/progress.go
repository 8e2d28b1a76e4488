package progress

import (
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Tracker advances once per compared pair.
type Tracker interface {
	Describe(desc string)
	Advance()
	Close()
}

type Bar struct {
	bar *progressbar.ProgressBar
}

func New(w io.Writer, total int) *Bar {
	return &Bar{
		bar: progressbar.NewOptions(
			total,
			progressbar.OptionSetWriter(w),
			progressbar.OptionUseANSICodes(true),
			progressbar.OptionSetDescription("comparing"),
			progressbar.OptionShowCount(),
			progressbar.OptionSetPredictTime(true),
			progressbar.OptionThrottle(120*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		),
	}
}

func (b *Bar) Describe(desc string) {
	b.bar.Describe(desc)
}

func (b *Bar) Advance() {
	_ = b.bar.Add(1)
}

func (b *Bar) Close() {
	_ = b.bar.Finish()
}

type Nop struct{}

func (Nop) Describe(string) {}
func (Nop) Advance()        {}
func (Nop) Close()          {}
