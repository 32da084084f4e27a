package network

import (
	"net/url"
	"strings"

	"github.com/lcalzada-xor/auditlens/pkg/config"
)

// Strategy is one route to a page: either the page itself or a relay that
// fetches it on our behalf.
type Strategy struct {
	Name     string
	Template string
}

// Direct fetches the target URL as-is.
var Direct = Strategy{Name: "direct", Template: "{raw}"}

// Rewrite maps the target URL to the URL this strategy requests.
func (s Strategy) Rewrite(target string) string {
	r := strings.NewReplacer(
		"{url}", url.QueryEscape(target),
		"{raw}", target,
	)
	return r.Replace(s.Template)
}

// StrategiesFromConfig converts configured routes, falling back to Direct
// when none are configured.
func StrategiesFromConfig(cfgs []config.StrategyConfig) []Strategy {
	if len(cfgs) == 0 {
		return []Strategy{Direct}
	}
	out := make([]Strategy, 0, len(cfgs))
	for _, c := range cfgs {
		out = append(out, Strategy{Name: c.Name, Template: c.Template})
	}
	return out
}
