package helper

import (
	"os"
	"strings"
)

type BasePlugin struct {
	PluginName string
}

func (b *BasePlugin) Name() string {
	return b.PluginName
}

// ResolveEnvValue resolves "${ENV_VAR}" references in a string.
func ResolveEnvValue(s string) string {
	if name, ok := EnvReference(s); ok {
		return os.Getenv(name)
	}
	return s
}

// EnvReference returns the variable name of an "${ENV_VAR}" reference.
func EnvReference(s string) (string, bool) {
	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") && len(s) > 3 {
		return s[2 : len(s)-1], true
	}
	return "", false
}
