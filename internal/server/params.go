package server

import (
	"net/http"
	"strconv"

	"github.com/arborview/arborview/pkg/errors"
	"github.com/arborview/arborview/pkg/pipeline"
)

// parseRenderParams applies width, height and popups query parameters on
// top of the configured render defaults. Malformed values fail with an
// invalid input error so clients get a 400, not a silent fallback.
func parseRenderParams(r *http.Request, opts *pipeline.Options) error {
	q := r.URL.Query()

	if v := q.Get("width"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			return errors.New(errors.ErrCodeInvalidInput, "invalid width: %q", v)
		}
		opts.Width = f
	}
	if v := q.Get("height"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			return errors.New(errors.ErrCodeInvalidInput, "invalid height: %q", v)
		}
		opts.Height = f
	}
	if v := q.Get("popups"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.New(errors.ErrCodeInvalidInput, "invalid popups flag: %q", v)
		}
		opts.Popups = b
	}
	return nil
}
