package models

// ExtractedProfile is the structured resume data handed back to the builder UI.
// It lives for a single request and is never persisted.
type ExtractedProfile struct {
	FullName   string            `json:"fullName"`
	Title      string            `json:"title"`
	Email      string            `json:"email"`
	Phone      string            `json:"phone"`
	Summary    string            `json:"summary"`
	Experience []ExperienceEntry `json:"experience"`
	Education  []EducationEntry  `json:"education"`
	Skills     []string          `json:"skills"`
}

type ExperienceEntry struct {
	ID          string `json:"id"`
	Company     string `json:"company"`
	Position    string `json:"position"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

type EducationEntry struct {
	ID             string `json:"id"`
	Institution    string `json:"institution"`
	Degree         string `json:"degree"`
	Field          string `json:"field"`
	GraduationYear string `json:"graduationYear"`
}

// EmptyProfile returns the all-default profile. Sequences are non-nil so they
// serialize as [] rather than null.
func EmptyProfile() *ExtractedProfile {
	return &ExtractedProfile{
		Experience: []ExperienceEntry{},
		Education:  []EducationEntry{},
		Skills:     []string{},
	}
}
