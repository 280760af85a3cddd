package obras

// sampleWorks returns the works created by Seed on an empty store.
func sampleWorks() []Work {
	return []Work{
		{
			Title:   "El primer amanecer",
			Author:  "Anónimo",
			Kind:    "cuento",
			Content: "Era una vez un amanecer que cambió todo...",
			Views:   12,
			Images:  []string{},
			Status:  WorkStatusPublished,
		},
		{
			Title:   "Reseña: Libro X",
			Author:  "Lector1",
			Kind:    "reseña",
			Content: "Este libro ofrece una visión profunda...",
			Views:   5,
			Images:  []string{},
			Status:  WorkStatusPublished,
		},
	}
}
