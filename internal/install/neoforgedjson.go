package install

import (
	"github.com/Jeffail/gabs"

	"github.com/conicapps/launcher-core/internal/conicerr"
)

// parseNeoForgedVersionList reads the maven versions-metadata shape
// `{"isSnapshot": bool, "versions": ["20.1.0", ...]}`.
func parseNeoForgedVersionList(raw []byte) ([]string, error) {
	parsed, err := gabs.ParseJSON(raw)
	if err != nil {
		return nil, conicerr.JSONParse(err)
	}
	children, err := parsed.Path("versions").Children()
	if err != nil {
		return nil, conicerr.InvalidVersionJSON("versions")
	}
	out := make([]string, 0, len(children))
	for _, c := range children {
		if s, ok := c.Data().(string); ok {
			out = append(out, s)
		}
	}
	return out, nil
}
