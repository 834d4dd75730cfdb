package op_service

import (
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/ethereum/go-ethereum/log"
)

// PrefixEnvVar returns the environment variable names a flag is read from,
// namespaced by the service prefix.
func PrefixEnvVar(prefix, suffix string) []string {
	return []string{prefix + "_" + suffix}
}

// ValidEnvVarName reports whether name only contains upper-case letters,
// digits and underscores.
func ValidEnvVarName(name string) bool {
	if name == "" {
		return false
	}
	for _, c := range name {
		if !(c == '_' || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')) {
			return false
		}
	}
	return !strings.HasPrefix(name, "_")
}

// ValidateEnvVars logs all env vars that are found where the env var is
// prefixed with the supplied prefix (like OP_CHAINVIEW) but there is no
// actual env var with that name.
// It helps validate that the supplied env vars are in fact valid.
func ValidateEnvVars(prefix string, flags []cli.Flag, log log.Logger) {
	for _, envVar := range validateEnvVars(prefix, os.Environ(), cliFlagsToEnvVars(flags)) {
		log.Warn("Unknown env var", "prefix", prefix, "env_var", envVar)
	}
}

func cliFlagsToEnvVars(flags []cli.Flag) map[string]struct{} {
	definedEnvVars := make(map[string]struct{})
	for _, flag := range flags {
		envFlag, ok := flag.(interface {
			GetEnvVars() []string
		})
		if !ok {
			continue
		}
		for _, envVar := range envFlag.GetEnvVars() {
			definedEnvVars[envVar] = struct{}{}
		}
	}
	return definedEnvVars
}

// validateEnvVars returns a list of the unknown environment variables that match the prefix.
func validateEnvVars(prefix string, providedEnvVars []string, definedEnvVars map[string]struct{}) []string {
	var out []string
	for _, envVar := range providedEnvVars {
		parts := strings.Split(envVar, "=")
		if len(parts) == 0 {
			continue
		}
		key := parts[0]
		if strings.HasPrefix(key, prefix) {
			if _, ok := definedEnvVars[key]; !ok {
				out = append(out, envVar)
			}
		}
	}
	return out
}

// FlagNameToEnvVarName converts a flag name to an environment variable name
// Example: "rpc.port" with prefix "OP_CHAINVIEW" becomes "OP_CHAINVIEW_RPC_PORT"
func FlagNameToEnvVarName(f string, prefix string) string {
	f = strings.ReplaceAll(f, ".", "_")
	f = strings.ReplaceAll(f, "-", "_")
	return fmt.Sprintf("%s_%s", prefix, strings.ToUpper(f))
}
