// Package algo has the reusability formula and the ordering rules for its results.
package algo

import (
	"math"

	"github.com/reusabilityapi/reusability/internal/contract"
	"github.com/reusabilityapi/reusability/schema"
)

// Formula weights. A positive weight lowers the index as the metric grows.
const (
	weightCBO  = 8.753
	weightDIT  = 2.505
	weightWMC  = -1.922
	weightRFC  = 0.892
	weightLCOM = -0.399
	weightNOCC = -1.080
)

// formulaTerms lists the terms in evaluation order.
var formulaTerms = []schema.FormulaTerm{
	{Metric: schema.MetricCBO, Description: "Coupling Between Objects", Weight: weightCBO},
	{Metric: schema.MetricDIT, Description: "Depth of Inheritance Tree", Weight: weightDIT},
	{Metric: schema.MetricWMC, Description: "Weighted Methods per Class", Weight: weightWMC},
	{Metric: schema.MetricRFC, Description: "Response For a Class", Weight: weightRFC},
	{Metric: schema.MetricLCOM, Description: "Lack of Cohesion of Methods", Weight: weightLCOM},
	{Metric: schema.MetricNOCC, Description: "Number of Children", Weight: weightNOCC},
}

// FormulaTerms returns a copy of the weighted terms of the reusability formula.
func FormulaTerms() []schema.FormulaTerm {
	terms := make([]schema.FormulaTerm, len(formulaTerms))
	copy(terms, formulaTerms)
	return terms
}

// ComputeIndex returns the reusability index of a metrics record:
//
//	-(8.753·log10(CBO+1) + 2.505·log10(DIT+1) - 1.922·log10(WMC+1)
//	  + 0.892·log10(RFC+1) - 0.399·log10(LCOM+1) - 1.080·log10(NOCC+1))
//
// Higher is more reusable. A record with all metrics at zero yields exactly +0.
// Any metric that is NaN or <= -1 yields a *contract.DomainError.
func ComputeIndex(r schema.MetricsRecord) (float64, error) {
	values := [...]struct {
		name  string
		value float64
	}{
		{schema.MetricCBO, r.CBO},
		{schema.MetricDIT, r.DIT},
		{schema.MetricWMC, r.WMC},
		{schema.MetricRFC, r.RFC},
		{schema.MetricLCOM, r.LCOM},
		{schema.MetricNOCC, r.NOCC},
	}
	for _, v := range values {
		if math.IsNaN(v.value) || v.value <= -1 {
			return 0, &contract.DomainError{Metric: v.name, Value: v.value}
		}
	}

	// Explicit float64 conversions keep each product rounded before the sum,
	// so fused multiply-add cannot change the result across platforms.
	sum := float64(weightCBO*math.Log10(r.CBO+1)) +
		float64(weightDIT*math.Log10(r.DIT+1)) +
		float64(weightWMC*math.Log10(r.WMC+1)) +
		float64(weightRFC*math.Log10(r.RFC+1)) +
		float64(weightLCOM*math.Log10(r.LCOM+1)) +
		float64(weightNOCC*math.Log10(r.NOCC+1))

	if sum == 0 {
		return 0, nil
	}
	return -sum, nil
}
