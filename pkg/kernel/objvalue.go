package kernel

type JobTitle string

func (t JobTitle) String() string { return string(t) }
func (t JobTitle) IsEmpty() bool  { return string(t) == "" }

type JobDescription string

func (d JobDescription) String() string { return string(d) }
func (d JobDescription) IsEmpty() bool  { return string(d) == "" }

type CompanyName string

func (c CompanyName) String() string { return string(c) }
func (c CompanyName) IsEmpty() bool  { return string(c) == "" }

type ResumeText string

func (r ResumeText) String() string { return string(r) }
func (r ResumeText) IsEmpty() bool  { return string(r) == "" }

// CandidateEmbedding is the vector representation of a candidate's resume,
// stored in a pgvector column for semantic search.
type CandidateEmbedding []float32

func (e CandidateEmbedding) IsEmpty() bool { return len(e) == 0 }
