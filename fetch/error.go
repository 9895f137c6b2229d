package fetch

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrExhausted is matched by every *Error: no strategy could fetch the URL.
	ErrExhausted = errors.New("all fetch strategies failed")
	// ErrAuthWall is matched when a login page was returned instead of data.
	ErrAuthWall = errors.New("sheet requires a login")
)

// Attempt records why a strategy failed.
type Attempt struct {
	Strategy string
	Err      error
}

// Error is returned by FetchText when no strategy succeeded.
type Error struct {
	URL      string
	Attempts []Attempt
	AuthWall bool
}

func (e *Error) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "cannot fetch %s", e.URL)
	for _, a := range e.Attempts {
		fmt.Fprintf(&sb, "\n  %s: %v", a.Strategy, a.Err)
	}
	if e.AuthWall {
		sb.WriteString("\nthe sheet is not public: use File > Share > Publish to web, and share it with anyone with the link")
	} else {
		sb.WriteString("\nlikely causes: the sheet is not published to the web or not shared publicly, a proxy or firewall blocks the relays, or the relays are rate limiting; retry later")
	}
	return sb.String()
}

func (e *Error) Is(target error) bool {
	return target == ErrExhausted || (target == ErrAuthWall && e.AuthWall)
}

// Unwrap returns the error of each attempt.
func (e *Error) Unwrap() []error {
	errs := make([]error, len(e.Attempts))
	for i, a := range e.Attempts {
		errs[i] = a.Err
	}
	return errs
}
