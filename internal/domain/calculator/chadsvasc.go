package calculator

import "fmt"

// annualStrokeRisk is the adjusted annual stroke rate (%) by CHA2DS2-VASc score.
var annualStrokeRisk = []float64{0, 1.3, 2.2, 3.2, 4.0, 6.7, 9.8, 9.6, 12.5, 15.2}

// CHA2DS2VASc stratifies stroke risk in atrial fibrillation. Age contributes
// 1 point for 65-74 and 2 points for >= 75, never both.
func CHA2DS2VASc() *Definition {
	b := New("cha2ds2_vasc").
		Name("CHA2DS2-VASc").
		Category(CategoryCardiovascular).
		Description("Riesgo de ictus en fibrilación auricular").
		Reference("Lip GY, et al. Refining clinical risk stratification for predicting stroke and thromboembolism in atrial fibrillation using a novel risk factor-based approach. Chest. 2010;137(2):263-272.").
		Boolean("congestive_heart_failure", "Insuficiencia cardíaca congestiva / disfunción VI").
		Boolean("hypertension", "Hipertensión").
		Integer("age", "Edad", 0, 120, Unit("años")).
		Boolean("diabetes", "Diabetes mellitus").
		Boolean("stroke_tia_history", "Ictus, AIT o tromboembolismo previo").
		Boolean("vascular_disease", "Enfermedad vascular (IAM previo, enfermedad arterial periférica, placa aórtica)").
		Boolean("sex_female", "Sexo femenino").
		Terms(
			Points("Insuficiencia cardíaca", 1, IsTrue("congestive_heart_failure")),
			Points("Hipertensión", 1, IsTrue("hypertension")),
			Points("Edad ≥ 75 años", 2, AtLeast("age", 75)),
			Points("Diabetes", 1, IsTrue("diabetes")),
			Points("Ictus/AIT/tromboembolismo", 2, IsTrue("stroke_tia_history")),
			Points("Enfermedad vascular", 1, IsTrue("vascular_disease")),
			Points("Edad 65-74 años", 1, Between("age", 65, 74)),
			Points("Sexo femenino", 1, IsTrue("sex_female")),
		).
		Range(0, float64(len(annualStrokeRisk)-1))

	for score, pct := range annualStrokeRisk {
		lower := float64(score)
		upper := lower + 1
		if score == len(annualStrokeRisk)-1 {
			upper = lower
		}
		risk, label, advice := chadsvascBand(score)
		b.Band(lower, upper, risk,
			fmt.Sprintf("Riesgo %s de ictus (CHA2DS2-VASc %d). Riesgo anual: %.1f%%", label, score, pct),
			advice)
	}
	return b.MustBuild()
}

func chadsvascBand(score int) (Risk, string, string) {
	switch {
	case score == 0:
		return RiskLow, "muy bajo", "No se recomienda anticoagulación."
	case score == 1:
		return RiskLow, "bajo", "Considerar anticoagulación oral según sexo y factores individuales."
	case score == 2:
		return RiskModerate, "moderado", "Anticoagulación oral recomendada."
	default:
		return RiskHigh, "alto", "Anticoagulación oral fuertemente recomendada."
	}
}
