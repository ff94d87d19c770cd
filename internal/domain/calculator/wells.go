package calculator

// WellsPE estimates the pretest probability of pulmonary embolism with the
// three-tier Wells rule (< 2 low, 2-6 moderate, > 6 high). Every weight is a
// multiple of 0.5, so [2, 6.5) is the same set of scores as [2, 6]. The band
// texts also carry the two-tier reading (PE likely when the score is > 4).
func WellsPE() *Definition {
	return New("wells_pe").
		Name("Wells PE").
		Category(CategoryCardiovascular).
		Description("Probabilidad clínica pretest de embolia pulmonar").
		Reference("Wells PS, et al. Derivation of a simple clinical model to categorize patients probability of pulmonary embolism. Thromb Haemost. 2000;83(3):416-420.").
		Boolean("clinical_signs_dvt", "Signos clínicos de TVP").
		Boolean("alternative_less_likely", "Diagnóstico alternativo menos probable que EP").
		Boolean("heart_rate_over_100", "FC > 100 lpm").
		Boolean("immobilization_surgery", "Inmovilización ≥ 3 días o cirugía en las últimas 4 semanas").
		Boolean("previous_pe_dvt", "EP o TVP previa").
		Boolean("hemoptysis", "Hemoptisis").
		Boolean("malignancy", "Malignidad activa").
		Terms(
			Points("Signos clínicos de TVP", 3, IsTrue("clinical_signs_dvt")),
			Points("Diagnóstico alternativo menos probable", 3, IsTrue("alternative_less_likely")),
			Points("FC > 100 lpm", 1.5, IsTrue("heart_rate_over_100")),
			Points("Inmovilización o cirugía", 1.5, IsTrue("immobilization_surgery")),
			Points("EP o TVP previa", 1.5, IsTrue("previous_pe_dvt")),
			Points("Hemoptisis", 1, IsTrue("hemoptysis")),
			Points("Malignidad", 1, IsTrue("malignancy")),
		).
		Range(0, 12.5).
		Band(0, 2, RiskLow,
			"Probabilidad baja de EP (< 2 puntos, ~1.3%). EP improbable según el modelo dicotómico (≤ 4).",
			"Aplicar criterios PERC o solicitar dímero D. Si es negativo, EP descartada.").
		Band(2, 4.5, RiskModerate,
			"Probabilidad moderada de EP (2-6 puntos, ~16%). EP improbable según el modelo dicotómico (≤ 4).",
			"Solicitar dímero D de alta sensibilidad. Si es positivo, AngioTC pulmonar.").
		Band(4.5, 6.5, RiskModerate,
			"Probabilidad moderada de EP (2-6 puntos, ~16%). EP probable según el modelo dicotómico (> 4).",
			"Realizar AngioTC pulmonar o gammagrafía V/Q.").
		Band(6.5, 12.5, RiskHigh,
			"Probabilidad alta de EP (> 6 puntos, ~40%). EP probable según el modelo dicotómico (> 4).",
			"AngioTC pulmonar urgente. Considerar anticoagulación empírica si hay retraso.").
		MustBuild()
}
