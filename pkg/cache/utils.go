package cache

import (
	"fmt"
	"strings"
)

// GenerateKey joins prefix and parts with ':', e.g. chart:revenue:800:dark.
func GenerateKey(prefix string, parts ...interface{}) string {
	var b strings.Builder
	b.WriteString(prefix)
	for _, p := range parts {
		b.WriteByte(':')
		fmt.Fprint(&b, p)
	}
	return b.String()
}

// BuildPattern matches every key under prefix.
func BuildPattern(prefix string) string {
	return prefix + ":*"
}
