package version

import "github.com/Jeffail/gabs"

// resolveArgumentList implements spec.md §4.4.2: each element is
// either a literal string, emitted as-is, or an object {rules, value}
// whose value (string or array of strings) is emitted only when its
// rules allow for the caller's features.
func resolveArgumentList(raw *gabs.Container, features Features) ([]string, error) {
	if raw == nil || raw.Data() == nil {
		return nil, nil
	}
	children, err := raw.Children()
	if err != nil {
		return nil, nil
	}

	var out []string
	for _, el := range children {
		switch v := el.Data().(type) {
		case string:
			out = append(out, v)
		case map[string]interface{}:
			rules, err := parseRules(el.Path("rules"))
			if err != nil {
				return nil, err
			}
			if !Allowed(rules, features) {
				continue
			}
			value := el.Path("value")
			switch val := value.Data().(type) {
			case string:
				out = append(out, val)
			case []interface{}:
				for _, item := range val {
					if s, ok := item.(string); ok {
						out = append(out, s)
					}
				}
			}
		}
	}
	return out, nil
}
