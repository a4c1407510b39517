package model

// ScoreTriple holds the three sub-scores of an address.
type ScoreTriple struct {
	Connectivity int     `json:"connectivity"`
	Crime        float64 `json:"crime"`
	Education    float64 `json:"education"`
}

// Report is the outcome of checking one address.
type Report struct {
	CheckID  string           `json:"check_id"`
	Address  Address          `json:"address"`
	Location ResolvedLocation `json:"location"`
	Scores   ScoreTriple      `json:"scores"`
	Final    float64          `json:"final"`
}

// Comparison is the outcome of checking two addresses.
type Comparison struct {
	First  Report `json:"first"`
	Second Report `json:"second"`
	Best   Report `json:"best"`
}
