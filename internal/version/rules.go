package version

import (
	"regexp"

	"github.com/conicapps/launcher-core/internal/platform"
)

// Allowed evaluates a rule list against the current platform and the
// caller's enabled features, per spec.md §3 "Rule predicate":
// default allow when no rules; otherwise each matching rule in order
// overwrites the running verdict.
func Allowed(rules []Rule, features Features) bool {
	if len(rules) == 0 {
		return true
	}
	verdict := false
	for _, r := range rules {
		if ruleMatches(r, features) {
			verdict = r.Action == ActionAllow
		}
	}
	return verdict
}

func ruleMatches(r Rule, features Features) bool {
	if r.OS != nil && !osMatches(*r.OS) {
		return false
	}
	for name, want := range r.Features {
		if features[name] != want {
			return false
		}
	}
	return true
}

// mojangOSName maps our platform family onto the "os.name" values
// Mojang's version JSON rules use (notably "osx", not "macos").
func mojangOSName(family platform.OSFamily) string {
	if family == platform.MacOS {
		return "osx"
	}
	return string(family)
}

func osMatches(pred OSPredicate) bool {
	if pred.Name != "" && pred.Name != mojangOSName(platform.Current.OSFamily) {
		return false
	}
	if pred.Arch != "" && pred.Arch != platform.Current.Arch {
		return false
	}
	if pred.VersionExpr != "" {
		re, err := regexp.Compile(pred.VersionExpr)
		if err != nil || !re.MatchString(platform.Current.OSVersion) {
			return false
		}
	}
	return true
}
