package calculator

// CURB65 scores community-acquired pneumonia severity.
//
// One point each for confusion, urea > 7 mmol/L, respiratory rate >= 30,
// low blood pressure (SBP < 90 or DBP <= 60) and age >= 65.
func CURB65() *Definition {
	return New("curb65").
		Name("CURB-65").
		Category(CategoryRespiratory).
		Description("Severidad de la neumonía adquirida en la comunidad y mortalidad a 30 días").
		Reference("Lim WS, et al. Defining community acquired pneumonia severity on presentation to hospital: an international derivation and validation study. Thorax. 2003;58(5):377-382.").
		Boolean("confusion", "Confusión mental de nueva aparición").
		Boolean("urea_high", "Urea > 7 mmol/L (BUN > 19 mg/dL)").
		Integer("rr", "Frecuencia respiratoria", 0, 100, Unit("/min")).
		Integer("sbp", "Presión arterial sistólica", 40, 300, Unit("mmHg")).
		Integer("dbp", "Presión arterial diastólica", 20, 200, Unit("mmHg")).
		Integer("age", "Edad", 0, 120, Unit("años")).
		Terms(
			Points("Confusión", 1, IsTrue("confusion")),
			Points("Urea elevada", 1, IsTrue("urea_high")),
			Points("Frecuencia respiratoria ≥ 30/min", 1, AtLeast("rr", 30)),
			Points("PAS < 90 o PAD ≤ 60 mmHg", 1, AnyOf(Below("sbp", 90), AtMost("dbp", 60))),
			Points("Edad ≥ 65 años", 1, AtLeast("age", 65)),
		).
		Range(0, 5).
		Band(0, 1, RiskLow,
			"Riesgo bajo de mortalidad (0.7%)",
			"Manejo ambulatorio. Considerar tratamiento oral.").
		Band(1, 2, RiskLow,
			"Riesgo bajo de mortalidad (2.1%)",
			"Manejo ambulatorio. Considerar tratamiento oral.").
		Band(2, 3, RiskModerate,
			"Riesgo moderado de mortalidad (9.2%)",
			"Considerar hospitalización. Tratamiento antibiótico endovenoso.").
		Band(3, 4, RiskHigh,
			"Riesgo alto de mortalidad (14.5%)",
			"Hospitalización recomendada. Considerar UCI si hay deterioro.").
		Band(4, 5, RiskHigh,
			"Riesgo muy alto de mortalidad (40%)",
			"Hospitalización urgente. Considerar manejo en UCI.").
		MustBuild()
}
