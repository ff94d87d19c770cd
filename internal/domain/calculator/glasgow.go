package calculator

// Glasgow sums the eye (1-4), verbal (1-5) and motor (1-6) responses into a
// total of 3-15.
func Glasgow() *Definition {
	return New("glasgow").
		Name("Escala de Coma de Glasgow").
		Category(CategoryNeurological).
		Description("Evaluación del nivel de conciencia (Glasgow Coma Scale)").
		Reference("Teasdale G, Jennett B. Assessment of coma and impaired consciousness. A practical scale. Lancet. 1974;2(7872):81-84.").
		Enum("eye", "Apertura ocular", Levels(1,
			"Ninguna",
			"Al dolor",
			"Al habla",
			"Espontánea",
		)).
		Enum("verbal", "Respuesta verbal", Levels(1,
			"Ninguna",
			"Sonidos incomprensibles",
			"Palabras inapropiadas",
			"Confusa",
			"Orientada",
		)).
		Enum("motor", "Respuesta motora", Levels(1,
			"Ninguna",
			"Extensión anormal",
			"Flexión anormal",
			"Retira al dolor",
			"Localiza el dolor",
			"Obedece órdenes",
		)).
		Terms(
			OptionValue("Apertura ocular", "eye"),
			OptionValue("Respuesta verbal", "verbal"),
			OptionValue("Respuesta motora", "motor"),
		).
		Range(3, 15).
		Band(3, 9, RiskSevere,
			"Lesión cerebral grave (GCS 3-8)",
			"UCI. Asegurar vía aérea (considerar intubación). TC urgente. Monitoreo de PIC.").
		Band(9, 13, RiskModerate,
			"Lesión cerebral moderada (GCS 9-12)",
			"Hospitalización. Monitoreo neurológico frecuente. Considerar TC.").
		Band(13, 15, RiskLow,
			"Lesión cerebral leve (GCS 13-14)",
			"Observación. Monitoreo neurológico rutinario.").
		Band(15, 15, RiskLow,
			"Nivel de conciencia normal (GCS 15)",
			"Sin alteración del nivel de conciencia.").
		MustBuild()
}
