package job

import (
	"time"

	"github.com/Abraxas-365/sift/pkg/kernel"
	"github.com/Abraxas-365/sift/screening/pipeline"
)

// JobPosting is a job description enriched with the attributes extracted
// from it.
type JobPosting struct {
	ID                     kernel.JobID          `db:"id" json:"id"`
	Title                  kernel.JobTitle       `db:"title" json:"title"`
	Company                kernel.CompanyName    `db:"company" json:"company"`
	Description            kernel.JobDescription `db:"description" json:"description"`
	RequiredSkills         string                `db:"required_skills" json:"required_skills"`
	RequiredExperience     string                `db:"required_experience" json:"required_experience"`
	RequiredQualifications string                `db:"required_qualifications" json:"required_qualifications"`
	Responsibilities       string                `db:"responsibilities" json:"responsibilities"`
	Summary                string                `db:"summary" json:"summary"`
	CreatedAt              time.Time             `db:"created_at" json:"created_at"`
	UpdatedAt              time.Time             `db:"updated_at" json:"updated_at"`
}

// ApplyExtraction copies pipeline extraction output onto the posting.
func (j *JobPosting) ApplyExtraction(rec pipeline.AttributeRecord) {
	j.RequiredSkills = rec["required_skills"]
	j.RequiredExperience = rec["required_experience"]
	j.RequiredQualifications = rec["required_qualifications"]
	j.Responsibilities = rec["responsibilities"]
	j.Summary = rec["summary"]
	j.UpdatedAt = time.Now()
}

// Requirements returns the extracted attributes as a pipeline record.
func (j *JobPosting) Requirements() pipeline.AttributeRecord {
	return pipeline.AttributeRecord{
		"required_skills":         j.RequiredSkills,
		"required_experience":     j.RequiredExperience,
		"required_qualifications": j.RequiredQualifications,
		"responsibilities":        j.Responsibilities,
		"summary":                 j.Summary,
	}
}

// HasExtraction reports whether any attribute field is populated.
func (j *JobPosting) HasExtraction() bool {
	return j.RequiredSkills != "" ||
		j.RequiredExperience != "" ||
		j.RequiredQualifications != "" ||
		j.Responsibilities != "" ||
		j.Summary != ""
}
