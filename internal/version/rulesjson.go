package version

import (
	"github.com/Jeffail/gabs"
)

// parseRules reads a raw "rules" JSON array into typed Rules.
func parseRules(raw *gabs.Container) ([]Rule, error) {
	if raw == nil || raw.Data() == nil {
		return nil, nil
	}
	children, err := raw.Children()
	if err != nil {
		return nil, nil
	}
	rules := make([]Rule, 0, len(children))
	for _, child := range children {
		rules = append(rules, parseRule(child))
	}
	return rules, nil
}

func parseRule(raw *gabs.Container) Rule {
	r := Rule{Action: ActionAllow}
	if action, _ := raw.Path("action").Data().(string); action == string(ActionDisallow) {
		r.Action = ActionDisallow
	}
	if raw.Exists("os") {
		osc := raw.Path("os")
		pred := OSPredicate{
			Name:        stringField(osc, "name"),
			VersionExpr: stringField(osc, "version"),
			Arch:        stringField(osc, "arch"),
		}
		r.OS = &pred
	}
	if raw.Exists("features") {
		featMap, err := raw.Path("features").ChildrenMap()
		if err == nil {
			r.Features = make(map[string]bool, len(featMap))
			for k, v := range featMap {
				if b, ok := v.Data().(bool); ok {
					r.Features[k] = b
				}
			}
		}
	}
	return r
}
