package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrUnsetSetting indicates a named runtime setting has no value.
var ErrUnsetSetting = errors.New("setting is not set")

// InterpolateSetting resolves a named runtime setting from the
// environment and expands any ${VAR} references embedded in its value.
// Setting names use dotted form ("tablerag.openai_key") and map to
// upper-snake environment variables ("TABLERAG_OPENAI_KEY"). Resolution
// fails if the setting, or any variable it references, is unset.
func InterpolateSetting(name string) (string, error) {
	raw, ok := os.LookupEnv(settingEnvName(name))
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsetSetting, name)
	}

	var expandErr error
	expanded := os.Expand(raw, func(ref string) string {
		v, ok := os.LookupEnv(ref)
		if !ok && expandErr == nil {
			expandErr = fmt.Errorf("%w: %q referenced by %q", ErrUnsetSetting, ref, name)
		}
		return v
	})
	if expandErr != nil {
		return "", expandErr
	}
	return expanded, nil
}

// settingEnvName maps a dotted setting name to its environment variable.
func settingEnvName(name string) string {
	name = strings.ReplaceAll(name, ".", "_")
	name = strings.ReplaceAll(name, "-", "_")
	return strings.ToUpper(name)
}
