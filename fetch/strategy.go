package fetch

import (
	"fmt"
	"net/url"
)

// Strategy is one way to reach a URL: Rewrite returns the address actually
// requested for the target.
type Strategy struct {
	Name    string
	Rewrite func(target string) string
}

var (
	CorsProxy = Strategy{"corsproxy", func(t string) string {
		return "https://corsproxy.io/?url=" + url.QueryEscape(t)
	}}
	AllOrigins = Strategy{"allorigins", func(t string) string {
		return "https://api.allorigins.win/raw?url=" + url.QueryEscape(t)
	}}
	CodeTabs = Strategy{"codetabs", func(t string) string {
		return "https://api.codetabs.com/v1/proxy?quest=" + url.QueryEscape(t)
	}}
	Direct = Strategy{"direct", func(t string) string { return t }}
)

// DefaultStrategies returns the relays in the order they are tried, the
// direct URL being the last resort.
func DefaultStrategies() []Strategy {
	return []Strategy{CorsProxy, AllOrigins, CodeTabs, Direct}
}

// StrategiesByName returns the named strategies in the given order.
func StrategiesByName(names []string) ([]Strategy, error) {
	known := map[string]Strategy{}
	for _, s := range DefaultStrategies() {
		known[s.Name] = s
	}
	var list []Strategy
	for _, n := range names {
		s, ok := known[n]
		if !ok {
			return nil, fmt.Errorf("unknown fetch strategy %q", n)
		}
		list = append(list, s)
	}
	return list, nil
}
