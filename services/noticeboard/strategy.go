package noticeboard

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// The markup on the club platform is inconsistent between page
// templates, so most fields are extracted by an ordered list of named
// strategies tried until one produces a value. The strategy name is
// recorded alongside some records (photo/sponsor `source`) so a
// broken layout change can be traced back to the rule that matched.

type Strategy struct {
	Name    string
	Extract func(s *goquery.Selection) string
}

// firstMatch runs strategies in order against sel and returns the
// first non-empty value along with the name of the strategy that
// produced it.
func firstMatch(sel *goquery.Selection, strategies []Strategy) (string, string) {
	for _, st := range strategies {
		if v := st.Extract(sel); v != "" {
			return v, st.Name
		}
	}
	return "", ""
}

// attr returns a strategy reading a plain attribute.
func attrStrategy(name, key string) Strategy {
	return Strategy{
		Name: name,
		Extract: func(s *goquery.Selection) string {
			return strings.TrimSpace(s.AttrOr(key, ""))
		},
	}
}

// imageSourceStrategies resolve the real source of an <img> that may
// be lazy-loaded: src, then the common lazy-load attributes, then the
// first candidate of a srcset.
var imageSourceStrategies = []Strategy{
	attrStrategy("src", "src"),
	attrStrategy("data-src", "data-src"),
	attrStrategy("data-lazy-src", "data-lazy-src"),
	{
		Name: "srcset",
		Extract: func(s *goquery.Selection) string {
			srcset := strings.TrimSpace(s.AttrOr("srcset", ""))
			if srcset == "" {
				return ""
			}
			return strings.Fields(srcset)[0]
		},
	},
}
