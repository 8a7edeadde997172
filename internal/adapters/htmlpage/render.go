package htmlpage

import (
	"fmt"
	"io"

	"stayin/internal/page"
)

// Render parses a rendered page, reruns the filter pipeline against its
// pre-filled controls, replays events, and writes the patched page to w.
// It returns the navigation target of the last event that produced one.
func Render(r io.Reader, w io.Writer, events []page.Event, opts ...page.Option) (string, error) {
	d, err := Parse(r)
	if err != nil {
		return "", err
	}
	s := page.NewSession(d.Layout(), opts...)
	d.Apply(s.Refresh())

	var nav string
	for _, ev := range events {
		p := s.Dispatch(ev)
		d.Apply(p)
		if p.Navigate != "" {
			nav = p.Navigate
		}
	}

	out, err := d.HTML()
	if err != nil {
		return "", fmt.Errorf("serialize page: %w", err)
	}
	if _, err := io.WriteString(w, out); err != nil {
		return "", err
	}
	return nav, nil
}
