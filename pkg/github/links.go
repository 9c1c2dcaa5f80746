package github

import (
	"net/http"
	"strings"
)

// nextPageURL extracts the rel="next" target from an RFC 8288 Link header,
// or "" when the response is the last page.
func nextPageURL(h http.Header) string {
	return linkWithRel(h.Get("Link"), "next")
}

// linkWithRel parses a Link header value of the form
//
//	<https://api.github.com/...&page=2>; rel="next", <...&page=7>; rel="last"
//
// and returns the target whose relation matches rel.
func linkWithRel(header, rel string) string {
	for _, part := range strings.Split(header, ",") {
		segments := strings.Split(part, ";")
		if len(segments) < 2 {
			continue
		}
		target := strings.Trim(strings.TrimSpace(segments[0]), "<>")
		for _, param := range segments[1:] {
			param = strings.TrimSpace(param)
			if param == `rel="`+rel+`"` || param == "rel="+rel {
				return target
			}
		}
	}
	return ""
}
