package extractor

// CalibrateRelationConfidence scores a relation by kind, the resolver that produced it and its evidence.
func CalibrateRelationConfidence(kind string, resolver string, evidence Evidence) float64 {
	base := baseConfidence(kind)

	switch resolver {
	case "contract_link":
		base += 0.18
	case "heuristic":
		base += 0.05
	case "ast_heuristic":
		// no-op
	default:
		base -= 0.03
	}

	if evidence.Filepath == "" {
		base -= 0.05
	}
	if evidence.StartLine <= 0 || evidence.EndLine < evidence.StartLine {
		base -= 0.05
	}

	return clamp(base, 0.1, 0.99)
}

// CalibrateLinkConfidence scores a confirmed contract holder link. A holder that does not
// derive from the type it holds contracts for can never map a member, so it scores low.
func CalibrateLinkConfidence(kind string, evidence Evidence, holderDerives bool) float64 {
	score := CalibrateRelationConfidence(kind, "contract_link", evidence)
	if !holderDerives {
		score -= 0.4
	}
	return clamp(score, 0.1, 0.99)
}

func baseConfidence(kind string) float64 {
	switch kind {
	case RelationBelongsTo:
		return 0.8
	case RelationContractClass, RelationContractClassFor:
		return 0.75
	case RelationBase:
		return 0.7
	default:
		return 0.55
	}
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
