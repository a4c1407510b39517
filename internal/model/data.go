package model

// EducationCount is the number of residents whose highest completed education is one level.
type EducationCount struct {
	Code  string `json:"code"`
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// EducationDistribution holds residents per education level for one municipality,
// in the order the levels were reported.
type EducationDistribution []EducationCount

// Count returns the count for a level code and whether the level is present.
func (d EducationDistribution) Count(code string) (int64, bool) {
	for _, e := range d {
		if e.Code == code {
			return e.Count, true
		}
	}
	return 0, false
}

// Total returns the number of residents across all levels.
func (d EducationDistribution) Total() int64 {
	var total int64
	for _, e := range d {
		total += e.Count
	}
	return total
}

// Speed is the best private-tier speed a technology offers, in Mbit/s.
type Speed struct {
	DownloadMbps float64 `json:"download_mbps"`
	UploadMbps   float64 `json:"upload_mbps"`
}

// ConnectivityOffering maps a broadband technology name to its max speeds.
// An empty offering is valid: nothing is available at the address.
type ConnectivityOffering map[string]Speed

// Max returns the highest download and upload speed across all technologies.
func (o ConnectivityOffering) Max() (download, upload float64) {
	for _, s := range o {
		if s.DownloadMbps > download {
			download = s.DownloadMbps
		}
		if s.UploadMbps > upload {
			upload = s.UploadMbps
		}
	}
	return download, upload
}

// CrimeRecord is one row of reported offences for an area and period.
type CrimeRecord struct {
	Area         string `json:"area"`
	CategoryCode string `json:"category_code"`
	Category     string `json:"category"`
	Period       string `json:"period"`
	Count        int64  `json:"count"`
}

// CrimeRecords is the filtered crime table for a municipality and the national baseline.
type CrimeRecords []CrimeRecord

// ForArea returns the rows whose area equals name.
func (r CrimeRecords) ForArea(name string) CrimeRecords {
	var out CrimeRecords
	for _, rec := range r {
		if rec.Area == name {
			out = append(out, rec)
		}
	}
	return out
}

// Sum adds up all counts.
func (r CrimeRecords) Sum() int64 {
	var sum int64
	for _, rec := range r {
		sum += rec.Count
	}
	return sum
}
