package roster

func ptr(v float64) *float64 { return &v }

// SeedStudents returns the demo roster shown on first launch.
func SeedStudents() []Student {
	return []Student{
		{
			ID:             "1",
			Name:           "Liam Garcia",
			Grade:          "1st",
			Tier:           Tier1,
			Accommodations: "Front seating",
			IsELL:          true,
			Scores:         []float64{85, 78, 82, 88, 91},
			MClassBOY:      ptr(82),
			MapBOY:         ptr(78),
		},
		{
			ID:             "2",
			Name:           "Sophia Chen",
			Grade:          "1st",
			Tier:           Tier2,
			Accommodations: "ESL Support",
			IEPNotes:       "Visual aids",
			Scores:         []float64{65, 62, 70, 68, 72},
			MClassBOY:      ptr(60),
			MapBOY:         ptr(65),
		},
	}
}
