package sqlite

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/leapstack-labs/leapterm/pkg/adapter"
)

// Params holds SQLite-specific configuration.
type Params struct {
	// Pragmas applied to every connection, e.g. foreign_keys: "on".
	Pragmas map[string]string `mapstructure:"pragmas"`

	// BusyTimeout in milliseconds.
	BusyTimeout int `mapstructure:"busy_timeout"`

	ReadOnly bool `mapstructure:"read_only"`
}

func parseParams(raw map[string]any) (*Params, error) {
	p := &Params{}
	if err := adapter.DecodeParams(raw, p); err != nil {
		return nil, err
	}
	return p, nil
}

// buildDSN appends pragmas as _pragma query parameters so that every pooled
// connection gets them.
func buildDSN(path string, p *Params) string {
	q := url.Values{}
	if p.BusyTimeout > 0 {
		q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", p.BusyTimeout))
	}
	keys := make([]string, 0, len(p.Pragmas))
	for k := range p.Pragmas {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		q.Add("_pragma", fmt.Sprintf("%s(%s)", k, p.Pragmas[k]))
	}
	if p.ReadOnly {
		q.Set("mode", "ro")
	}
	if len(q) == 0 {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + q.Encode()
}
