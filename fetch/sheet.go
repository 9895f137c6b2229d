package fetch

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// ErrInvalidSheet is returned for text that is neither a spreadsheet id nor
// a spreadsheet URL.
var ErrInvalidSheet = errors.New("invalid spreadsheet id or url")

const sheetsBase = "https://docs.google.com/spreadsheets/d/"

var (
	publishedPath = regexp.MustCompile(`/spreadsheets/d/e/([a-zA-Z0-9-_]+)`)
	editPath      = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9-_]+)`)
	bareID        = regexp.MustCompile(`^([a-zA-Z0-9-_]{21,})(?:#gid=[0-9]+)?$`)
	gidParam      = regexp.MustCompile(`[#&?]gid=([0-9]+)`)
)

// SheetID extracts the spreadsheet id from a URL, or from a bare id with an
// optional "#gid=N" tab. Published ids start with "2PACX-".
func SheetID(s string) (string, error) {
	s = strings.TrimSpace(s)
	if m := publishedPath.FindStringSubmatch(s); m != nil {
		return m[1], nil
	}
	if m := editPath.FindStringSubmatch(s); m != nil {
		return m[1], nil
	}
	if m := bareID.FindStringSubmatch(s); m != nil {
		return m[1], nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSheet, s)
}

// SheetRef returns the id of the spreadsheet s, followed by "#gid=N" when s
// selects a tab. SheetURL accepts the result.
func SheetRef(s string) (string, error) {
	id, err := SheetID(s)
	if err != nil {
		return "", err
	}
	if m := gidParam.FindStringSubmatch(s); m != nil {
		id += "#gid=" + m[1]
	}
	return id, nil
}

// SheetURL returns the export URL of a spreadsheet given by id or URL, in
// format "csv" or "html". The sheet tab (gid) of a URL is kept.
func SheetURL(idOrURL, format string) (string, error) {
	if format != "csv" && format != "html" {
		return "", fmt.Errorf("unsupported sheet format %q", format)
	}
	id, err := SheetID(idOrURL)
	if err != nil {
		return "", err
	}
	q := url.Values{}
	var addr string
	if strings.HasPrefix(id, "2PACX-") {
		if format == "csv" {
			addr = sheetsBase + "e/" + id + "/pub"
			q.Set("output", "csv")
		} else {
			addr = sheetsBase + "e/" + id + "/pubhtml"
		}
	} else {
		addr = sheetsBase + id + "/export"
		q.Set("format", format)
	}
	if m := gidParam.FindStringSubmatch(idOrURL); m != nil {
		q.Set("gid", m[1])
	}
	if len(q) > 0 {
		addr += "?" + q.Encode()
	}
	return addr, nil
}
