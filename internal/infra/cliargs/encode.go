// Package cliargs converts tool-call argument objects into AWS CLI flag tokens.
package cliargs

import (
	"strings"

	"latticemcp/internal/domain"
)

// FlagName converts a camelCase key into its kebab-case CLI form. Only ASCII
// uppercase letters are rewritten; hyphens, digits and everything else pass through.
func FlagName(key string) string {
	var b strings.Builder
	b.Grow(len(key) + 4)
	for i := 0; i < len(key); i++ {
		c := key[i]
		if c >= 'A' && c <= 'Z' {
			b.WriteByte('-')
			b.WriteByte(c + ('a' - 'A'))
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// Encode renders args as CLI tokens in argument order. Values are not quoted or
// escaped; each token is meant to be passed as a discrete argv entry.
func Encode(args domain.Arguments) []string {
	tokens := make([]string, 0, len(args)*2)
	for _, arg := range args {
		name := FlagName(arg.Name)
		switch arg.Value.Kind() {
		case domain.ArgBool:
			if arg.Value.Bool() {
				tokens = append(tokens, "--"+name)
			} else {
				tokens = append(tokens, "--no-"+name)
			}
		case domain.ArgList:
			tokens = append(tokens, "--"+name, strings.Join(arg.Value.List(), ","))
		default:
			tokens = append(tokens, "--"+name, arg.Value.Scalar())
		}
	}
	return tokens
}
