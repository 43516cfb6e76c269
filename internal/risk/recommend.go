package risk

// maxRecommendations caps the advice list returned to the caller.
const maxRecommendations = 5

// Recommendations evaluates the advice rules in fixed order against the
// probability and the analyzed factors, falling back to the universal pair
// when no rule fires. Never returns an empty list.
func Recommendations(strokeProb float64, factors []Factor) []string {
	recommendations := []string{}

	if strokeProb > 0.4 {
		recommendations = append(recommendations,
			"Regular blood pressure monitoring",
			"Annual health checkups",
		)
	}

	for _, factor := range factors {
		if factor.Contribution <= 0.1 {
			continue
		}
		switch factor.Name {
		case FactorBMI:
			if factor.NumericValue > 25 {
				recommendations = append(recommendations, "Weight management program")
			}
		case FactorGlucose:
			if factor.NumericValue > 100 {
				recommendations = append(recommendations, "Diabetes screening and management")
			}
		case FactorSmoking:
			recommendations = append(recommendations, "Smoking cessation support")
		}
	}

	if len(recommendations) == 0 {
		recommendations = append(recommendations,
			"Maintain current healthy lifestyle",
			"Regular exercise and balanced diet",
		)
	}

	if len(recommendations) > maxRecommendations {
		recommendations = recommendations[:maxRecommendations]
	}
	return recommendations
}
