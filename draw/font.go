package draw

import (
	"sync"

	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/graphcalc/internal/logging"
)

// LabelSize is the default axis label size in points.
const LabelSize = 11.0

var (
	fontOnce   sync.Once
	fontSource *text.FontSource
)

// defaultFace returns the bundled Go Regular face at size, or nil when the
// font cannot be parsed. Labels are skipped without a face.
func defaultFace(size float64) text.Face {
	fontOnce.Do(func() {
		src, err := text.NewFontSource(goregular.TTF)
		if err != nil {
			logging.Logger().Warn("draw: bundled font unavailable, labels disabled", "err", err)
			return
		}
		fontSource = src
	})
	if fontSource == nil {
		return nil
	}
	return fontSource.Face(size)
}
