package pipeline

import (
	"strings"

	"github.com/user/forecastbot/pkg/ports"
)

// ResolveCredentials looks up every key in src. Blank values count as
// missing; all missing keys are reported together in a MissingEnvError.
func ResolveCredentials(platform ports.Platform, src ports.CredentialSource, keys []string) (map[string]string, error) {
	values := make(map[string]string, len(keys))
	var missing []string
	for _, key := range keys {
		var v string
		if src != nil {
			v, _ = src.Lookup(key)
		}
		v = strings.TrimSpace(v)
		if v == "" {
			missing = append(missing, key)
			continue
		}
		values[key] = v
	}
	if len(missing) > 0 {
		return nil, MissingEnvError{Platform: string(platform), Variables: missing}
	}
	return values, nil
}
