package simulator

import (
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

var progressOutput io.Writer = os.Stderr

func newProgressBar(total int, w io.Writer) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("delivering orders"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionClearOnFinish(),
	)
}
