package candidate

import (
	"strings"
	"time"

	"github.com/Abraxas-365/sift/pkg/kernel"
	"github.com/Abraxas-365/sift/screening/pipeline"
)

// Candidate represents an applicant and the attributes extracted from
// their resume.
type Candidate struct {
	ID             kernel.CandidateID        `db:"id" json:"id"`
	Name           string                    `db:"name" json:"name"`
	Email          string                    `db:"email" json:"email"`
	Education      string                    `db:"education" json:"education"`
	Experience     string                    `db:"experience" json:"experience"`
	Skills         string                    `db:"skills" json:"skills"`
	Certifications string                    `db:"certifications" json:"certifications"`
	ResumeText     kernel.ResumeText         `db:"resume_text" json:"resume_text"`
	ResumePath     string                    `db:"resume_path" json:"resume_path,omitempty"`
	Embedding      kernel.CandidateEmbedding `db:"-" json:"-"`
	CreatedAt      time.Time                 `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time                 `db:"updated_at" json:"updated_at"`
}

// ApplyExtraction copies extracted resume attributes onto the candidate.
func (c *Candidate) ApplyExtraction(rec pipeline.AttributeRecord) {
	c.Education = rec["education"]
	c.Experience = rec["experience"]
	c.Skills = rec["skills"]
	c.Certifications = rec["certifications"]
	c.UpdatedAt = time.Now()
}

// Attributes returns the candidate profile in extraction record form.
func (c *Candidate) Attributes() pipeline.AttributeRecord {
	return pipeline.AttributeRecord{
		"education":      c.Education,
		"experience":     c.Experience,
		"skills":         c.Skills,
		"certifications": c.Certifications,
	}
}

// HasAttributes reports whether any resume attribute has been extracted.
func (c *Candidate) HasAttributes() bool {
	return c.Education != "" || c.Experience != "" ||
		c.Skills != "" || c.Certifications != ""
}

// EmbeddingText builds the text representation used for the profile
// embedding. Falls back to raw resume text when nothing was extracted.
func (c *Candidate) EmbeddingText() string {
	if !c.HasAttributes() {
		return c.ResumeText.String()
	}

	var b strings.Builder
	b.WriteString("Name: " + c.Name + "\n")
	if c.Skills != "" {
		b.WriteString("Skills: " + c.Skills + "\n")
	}
	if c.Experience != "" {
		b.WriteString("Experience: " + c.Experience + "\n")
	}
	if c.Education != "" {
		b.WriteString("Education: " + c.Education + "\n")
	}
	if c.Certifications != "" {
		b.WriteString("Certifications: " + c.Certifications + "\n")
	}
	return b.String()
}
