package cmdutil

import (
	"io"

	"github.com/cheggaaa/pb/v3"
)

// Progress counts records on a terminal progress bar. A nil *Progress is
// a no-op, so callers need not check whether progress is enabled.
type Progress struct {
	bar *pb.ProgressBar
}

// StartProgress shows a bar titled label on w. total may be 0 when the
// number of records is unknown.
func StartProgress(w io.Writer, label string, total int64) *Progress {
	tmpl := `{{string . "label"}} {{counters . }} {{speed . "%s rec/s"}} {{etime . }}`
	if total > 0 {
		tmpl = `{{string . "label"}} {{counters . }} {{bar . }} {{percent . }} {{etime . }}`
	}
	bar := pb.New64(total)
	bar.SetTemplateString(tmpl)
	bar.Set("label", label)
	bar.SetWriter(w)
	bar.Start()
	return &Progress{bar: bar}
}

// Add advances the bar by n records.
func (p *Progress) Add(n int) {
	if p == nil {
		return
	}
	p.bar.Add(n)
}

// Finish stops the bar.
func (p *Progress) Finish() {
	if p == nil {
		return
	}
	p.bar.Finish()
}
