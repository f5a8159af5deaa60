package analysis

import (
	"math"

	"github.com/google/generative-ai-go/genai"
)

// ATSReport is the AI-generated assessment of a resume against a job.
type ATSReport struct {
	OverallScore                 float64                      `json:"overallScore"`
	KeywordAnalysis              KeywordAnalysis              `json:"keywordAnalysis"`
	ExperienceQualificationMatch ExperienceQualificationMatch `json:"experienceQualificationMatch"`
	ATSCompatibility             ATSCompatibility             `json:"atsCompatibility"`
	DetailedSuggestions          DetailedSuggestions          `json:"detailedSuggestions"`
}

// KeywordAnalysis compares job keywords with the resume.
type KeywordAnalysis struct {
	KeywordsMatched  []string     `json:"keywordsMatched"`
	KeywordsMissing  []string     `json:"keywordsMissing"`
	SkillGapAnalysis []SkillScore `json:"skillGapAnalysis"`
}

// SkillScore rates one skill category from 0 to 100.
type SkillScore struct {
	Skill string  `json:"skill"`
	Score float64 `json:"score"`
}

// ExperienceQualificationMatch describes fit on experience and education.
type ExperienceQualificationMatch struct {
	ExperienceAlignment        string `json:"experienceAlignment"`
	EducationAndCertifications string `json:"educationAndCertifications"`
}

// ATSCompatibility describes how parseable the resume is.
type ATSCompatibility struct {
	ReadabilityScore string `json:"readabilityScore"`
	ReadabilityNotes string `json:"readabilityNotes"`
	FileType         string `json:"fileType"`
}

// DetailedSuggestions holds section-level advice.
type DetailedSuggestions struct {
	Summary                string   `json:"summary"`
	WorkExperience         string   `json:"workExperience"`
	SkillsSection          string   `json:"skillsSection"`
	OverallRecommendations []string `json:"overallRecommendations"`
}

// normalize rounds scores into 0..100 and replaces nil lists with empty ones.
func (r *ATSReport) normalize() {
	r.OverallScore = clampScore(r.OverallScore)
	for i := range r.KeywordAnalysis.SkillGapAnalysis {
		r.KeywordAnalysis.SkillGapAnalysis[i].Score = clampScore(r.KeywordAnalysis.SkillGapAnalysis[i].Score)
	}
	if r.KeywordAnalysis.KeywordsMatched == nil {
		r.KeywordAnalysis.KeywordsMatched = []string{}
	}
	if r.KeywordAnalysis.KeywordsMissing == nil {
		r.KeywordAnalysis.KeywordsMissing = []string{}
	}
	if r.KeywordAnalysis.SkillGapAnalysis == nil {
		r.KeywordAnalysis.SkillGapAnalysis = []SkillScore{}
	}
	if r.DetailedSuggestions.OverallRecommendations == nil {
		r.DetailedSuggestions.OverallRecommendations = []string{}
	}
}

func clampScore(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Round(math.Max(0, math.Min(100, v)))
}

func object(required []string, props map[string]*genai.Schema) *genai.Schema {
	return &genai.Schema{Type: genai.TypeObject, Properties: props, Required: required}
}

func stringList() *genai.Schema {
	return &genai.Schema{Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}}
}

var (
	str = &genai.Schema{Type: genai.TypeString}
	num = &genai.Schema{Type: genai.TypeNumber}
)

// reportSchema constrains the model's JSON output to the ATSReport shape.
var reportSchema = object(
	[]string{"overallScore", "keywordAnalysis", "experienceQualificationMatch", "atsCompatibility", "detailedSuggestions"},
	map[string]*genai.Schema{
		"overallScore": num,
		"keywordAnalysis": object(
			[]string{"keywordsMatched", "keywordsMissing", "skillGapAnalysis"},
			map[string]*genai.Schema{
				"keywordsMatched": stringList(),
				"keywordsMissing": stringList(),
				"skillGapAnalysis": {
					Type:  genai.TypeArray,
					Items: object([]string{"skill", "score"}, map[string]*genai.Schema{"skill": str, "score": num}),
				},
			},
		),
		"experienceQualificationMatch": object(
			[]string{"experienceAlignment", "educationAndCertifications"},
			map[string]*genai.Schema{"experienceAlignment": str, "educationAndCertifications": str},
		),
		"atsCompatibility": object(
			[]string{"readabilityScore", "readabilityNotes", "fileType"},
			map[string]*genai.Schema{"readabilityScore": str, "readabilityNotes": str, "fileType": str},
		),
		"detailedSuggestions": object(
			[]string{"summary", "workExperience", "skillsSection", "overallRecommendations"},
			map[string]*genai.Schema{
				"summary":                str,
				"workExperience":         str,
				"skillsSection":          str,
				"overallRecommendations": stringList(),
			},
		),
	},
)
