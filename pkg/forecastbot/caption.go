package forecastbot

import (
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/user/forecastbot/pkg/pipeline"
)

// DateLayout renders dates like "October 18, 2026".
const DateLayout = "January 2, 2006"

// CaptionData is the template data for post captions.
type CaptionData struct {
	Date string
	Site string
}

// NewCaptionData formats now in loc.
func NewCaptionData(now time.Time, loc *time.Location, site string) CaptionData {
	if loc != nil {
		now = now.In(loc)
	}
	return CaptionData{Date: now.Format(DateLayout), Site: site}
}

// RenderCaption executes a text/template caption.
func RenderCaption(tmpl string, data CaptionData) (string, error) {
	t, err := template.New("caption").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("%w: caption template: %v", pipeline.ErrConfig, err)
	}
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return "", fmt.Errorf("%w: caption template: %v", pipeline.ErrConfig, err)
	}
	return b.String(), nil
}
