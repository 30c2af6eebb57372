package predictor

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// RawAnswers holds one questionnaire submission before encoding. Categorical
// fields carry the exact option strings offered by the input layer; Gender is
// only consulted when the loaded schema asks for it.
type RawAnswers struct {
	AgeGroup        string  `json:"ageGroup"`
	Gender          string  `json:"gender,omitempty"`
	Pregnancy       string  `json:"pregnancy"`
	BloodPressure   string  `json:"bloodPressure"`
	Cholesterol     string  `json:"cholesterol"`
	Diabetes        string  `json:"diabetes"`
	HomePesticides  string  `json:"homePesticides"`
	WeedPesticides  string  `json:"weedPesticides"`
	HadAsthma       string  `json:"hadAsthma"`
	StillAsthma     string  `json:"stillAsthma"`
	ERVisit         string  `json:"erVisit"`
	Smoking         string  `json:"smoking"`
	Cigarettes      string  `json:"cigarettes"`
	InsulinDuration string  `json:"insulinDuration"`
	WeightKg        float64 `json:"weightKg"`
	HeightCm        float64 `json:"heightCm"`
	ExerciseDays    int     `json:"exerciseDays"`
}

// Assessment is the outcome of a single pipeline run. It is handed to the
// display layer and never persisted.
type Assessment struct {
	ID            uuid.UUID     `json:"id"`
	Probability   float64       `json:"probability"`
	Level         RiskLevel     `json:"level"`
	SchemaVersion SchemaVersion `json:"schemaVersion"`
	AssessedAt    time.Time     `json:"assessedAt"`
}

// Bounds and defaults enforced by the input layer. The encoder itself does
// not range-check numeric answers.
const (
	MinWeightKg     = 1.0
	MaxWeightKg     = 200.0
	DefaultWeightKg = 70.0

	MinHeightCm     = 50.0
	MaxHeightCm     = 220.0
	DefaultHeightCm = 170.0

	MaxExerciseDays     = 30
	DefaultExerciseDays = 8

	DefaultInsulinDuration = "Invalid"
)

// DefaultAnswers returns the questionnaire pre-filled the way the form opens.
func DefaultAnswers() RawAnswers {
	return RawAnswers{
		AgeGroup:        AgeGroupOptions()[0],
		Gender:          GenderOptions()[0],
		Pregnancy:       YesNoOptions()[0],
		BloodPressure:   YesNoOptions()[0],
		Cholesterol:     YesNoOptions()[0],
		Diabetes:        YesNoOptions()[0],
		HomePesticides:  YesNoOptions()[0],
		WeedPesticides:  YesNoOptions()[0],
		HadAsthma:       YesNoOptions()[0],
		StillAsthma:     YesNoOptions()[0],
		ERVisit:         YesNoOptions()[0],
		Smoking:         SmokingOptions()[0],
		Cigarettes:      CigaretteOptions(SchemaV1)[0],
		InsulinDuration: DefaultInsulinDuration,
		WeightKg:        DefaultWeightKg,
		HeightCm:        DefaultHeightCm,
		ExerciseDays:    DefaultExerciseDays,
	}
}

// Config aggregates runtime settings persisted to config.json.
type Config struct {
	ModelPath   string `json:"modelPath"`
	SchemaPath  string `json:"schemaPath"`
	OrtLibrary  string `json:"ortLibrary"`
	LoadRetries int    `json:"loadRetries"`
	LogLevel    string `json:"logLevel"`
	LogJSON     bool   `json:"logJson"`
}

// Clone creates a copy of the configuration so callers can mutate safely.
func (c Config) Clone() Config {
	buf, _ := json.Marshal(c)
	var out Config
	_ = json.Unmarshal(buf, &out)
	return out
}

// ApplyDefaults populates zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.ModelPath == "" {
		c.ModelPath = defaultModelFile
	}
	if c.SchemaPath == "" {
		c.SchemaPath = defaultSchemaFile
	}
	if c.LoadRetries <= 0 {
		c.LoadRetries = defaultLoadRetries
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}
