package calculator

// NIHSS is the National Institutes of Health Stroke Scale: 15 ordinal items
// summed into a total of 0-42.
func NIHSS() *Definition {
	limb := Levels(0,
		"Sin caída",
		"Caída antes de 10 segundos",
		"Algún esfuerzo contra gravedad",
		"Sin esfuerzo contra gravedad",
		"Sin movimiento",
	)
	return New("nihss").
		Name("NIHSS").
		Category(CategoryNeurological).
		Description("Escala de ictus del National Institutes of Health: gravedad del déficit neurológico").
		Reference("Brott T, et al. Measurements of acute cerebral infarction: a clinical examination scale. Stroke. 1989;20(7):864-870.").
		Enum("consciousness", "1a. Nivel de conciencia", Levels(0,
			"Alerta", "Somnoliento", "Estuporoso", "Coma")).
		Enum("orientation", "1b. Preguntas (mes y edad)", Levels(0,
			"Ambas correctas", "Una correcta", "Ninguna correcta")).
		Enum("commands", "1c. Órdenes motoras", Levels(0,
			"Ambas correctas", "Una correcta", "Ninguna correcta")).
		Enum("gaze", "2. Mirada conjugada", Levels(0,
			"Normal", "Parálisis parcial", "Desviación forzada")).
		Enum("visual_fields", "3. Campos visuales", Levels(0,
			"Normal", "Hemianopsia parcial", "Hemianopsia completa", "Hemianopsia bilateral")).
		Enum("facial_palsy", "4. Parálisis facial", Levels(0,
			"Normal", "Paresia leve", "Parálisis parcial", "Parálisis completa")).
		Enum("motor_arm_left", "5a. Motor brazo izquierdo", limb).
		Enum("motor_arm_right", "5b. Motor brazo derecho", limb).
		Enum("motor_leg_left", "6a. Motor pierna izquierda", limb).
		Enum("motor_leg_right", "6b. Motor pierna derecha", limb).
		Enum("ataxia", "7. Ataxia de miembros", Levels(0,
			"Ausente", "En un miembro", "En dos miembros")).
		Enum("sensory", "8. Sensibilidad", Levels(0,
			"Normal", "Hipoestesia leve a moderada", "Anestesia grave o total")).
		Enum("language", "9. Lenguaje", Levels(0,
			"Normal", "Afasia leve a moderada", "Afasia grave", "Mutismo o afasia global")).
		Enum("dysarthria", "10. Disartria", Levels(0,
			"Normal", "Leve a moderada", "Grave o anartria")).
		Enum("extinction", "11. Extinción e inatención", Levels(0,
			"Normal", "En una modalidad", "Hemi-inatención profunda")).
		Terms(
			OptionValue("Nivel de conciencia", "consciousness"),
			OptionValue("Preguntas", "orientation"),
			OptionValue("Órdenes", "commands"),
			OptionValue("Mirada", "gaze"),
			OptionValue("Campos visuales", "visual_fields"),
			OptionValue("Parálisis facial", "facial_palsy"),
			OptionValue("Motor brazo izquierdo", "motor_arm_left"),
			OptionValue("Motor brazo derecho", "motor_arm_right"),
			OptionValue("Motor pierna izquierda", "motor_leg_left"),
			OptionValue("Motor pierna derecha", "motor_leg_right"),
			OptionValue("Ataxia", "ataxia"),
			OptionValue("Sensibilidad", "sensory"),
			OptionValue("Lenguaje", "language"),
			OptionValue("Disartria", "dysarthria"),
			OptionValue("Extinción", "extinction"),
		).
		Range(0, 42).
		Band(0, 1, RiskLow,
			"Sin síntomas de ictus (NIHSS 0)",
			"Sin déficit neurológico detectable.").
		Band(1, 5, RiskLow,
			"Ictus menor (NIHSS 1-4)",
			"Ictus leve. Considerar trombólisis según criterios.").
		Band(5, 16, RiskModerate,
			"Ictus moderado (NIHSS 5-15)",
			"Candidato a trombólisis o trombectomía.").
		Band(16, 21, RiskHigh,
			"Ictus moderado a grave (NIHSS 16-20)",
			"Trombólisis o trombectomía urgente si es candidato.").
		Band(21, 42, RiskSevere,
			"Ictus grave (NIHSS 21-42)",
			"Evaluar tratamiento agresivo frente a cuidados paliativos.").
		MustBuild()
}
