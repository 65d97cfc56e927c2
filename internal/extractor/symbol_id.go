package extractor

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// TypeKey is the stable identity of a type declaration: its namespace and nesting path.
// Every part of a partial type shares the same key.
func TypeKey(namespace, qualified string) string {
	namespace = strings.TrimSpace(namespace)
	if namespace == "" {
		namespace = "_"
	}
	return namespace + ":" + qualified
}

// BuildStableSymbolID creates a deterministic symbol ID.
// Types are identified by TypeKey; members by their owner plus a hash of the canonical signature.
func BuildStableSymbolID(unit *CodeUnit) string {
	if unit == nil {
		return ""
	}

	switch d := unit.Details.(type) {
	case TypeDetails:
		return TypeKey(unit.Package, d.Qualified)
	case MethodDetails:
		fingerprint := strings.Join([]string{
			nonEmpty(unit.Language, "unknown"),
			d.Owner,
			nonEmpty(unit.UnitType, "symbol"),
			nonEmpty(unit.Name, "_"),
			canonicalize(d.Signature),
		}, "|")
		sum := sha256.Sum256([]byte(fingerprint))
		short := hex.EncodeToString(sum[:8])
		return fmt.Sprintf("%s.%s:%s", d.Owner, unit.Name, short)
	}

	sum := sha256.Sum256([]byte(unit.Filepath + "|" + unit.Name))
	return fmt.Sprintf("%s:%s:%s", nonEmpty(unit.Package, "_"), nonEmpty(unit.Name, "_"), hex.EncodeToString(sum[:8]))
}

func nonEmpty(s, fallback string) string {
	if s = strings.TrimSpace(s); s == "" {
		return fallback
	}
	return s
}

func canonicalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return whitespaceRe.ReplaceAllString(s, " ")
}
