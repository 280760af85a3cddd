package obras

var premiumPlans = []Plan{
	{
		ID:      "basic",
		Title:   "Premium 3 meses",
		Months:  3,
		Price:   "$4.99",
		Summary: "Mejoras básicas: exportar PDF, portada personalizada, subir 3 imágenes.",
	},
	{
		ID:      "plus",
		Title:   "Premium 9 meses",
		Months:  9,
		Price:   "$12.99",
		Summary: "Todo de 3m + revisión profesional automática (básica), hasta 10 imágenes, estadísticas.",
	},
	{
		ID:      "pro",
		Title:   "Premium 12 meses",
		Months:  12,
		Price:   "$19.99",
		Summary: "Todo de 9m + promoción destacada, revisión avanzada, colaboraciones, herramientas avanzadas de formato.",
	},
}

// Plans returns a copy of the premium catalog in tier order.
func Plans() []Plan {
	out := make([]Plan, len(premiumPlans))
	copy(out, premiumPlans)
	return out
}

// PlanByID looks a plan up by its id.
func PlanByID(id string) (*Plan, error) {
	for _, p := range premiumPlans {
		if p.ID == id {
			plan := p
			return &plan, nil
		}
	}
	return nil, ErrPlanNotFound
}
