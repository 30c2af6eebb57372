package predictor

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Canonical feature names the encoder can produce. These match the column
// names the scoring artifact was trained with.
const (
	FeatureAgeGroup        = "Age_Group"
	FeatureGender          = "Gender"
	FeaturePregnancy       = "Pregnancy_status"
	FeatureBloodPressure   = "Blood_pressure"
	FeatureCholesterol     = "Cholesterol"
	FeatureDiabetes        = "Diabetes"
	FeatureHomePesticides  = "Home_pesticides"
	FeatureWeedPesticides  = "Weed_pesticides"
	FeatureHadAsthma       = "Had_asthma"
	FeatureStillAsthma     = "Still_asthma"
	FeatureERVisit         = "ER_visit_past_year"
	FeatureSmoking         = "Smoking_frequency"
	FeatureCigarettes      = "Cigarettes_per_day"
	FeatureInsulinDuration = "Duration_insulin"
	FeatureWeightKg        = "Weight_kg"
	FeatureHeightCm        = "Height_cm"
	FeatureBMI             = "BMI"
	FeatureExercise        = "Exercise_per_month"
)

// Encoding tables fixed at training time. The option lists exposed to the
// input layer are derived from the same values.
var (
	ageGroupCodes = map[string]float32{"Under 15": 0, "15-30": 1, "30-45": 2, "45-60": 3, "60+": 4}
	yesNoCodes    = map[string]float32{"Yes": 1, "No": 0}
	smokingCodes  = map[string]float32{"No": 0, "Some days": 1, "Every day": 2, "Invalid": -1}
	genderCodes   = map[string]float32{"Female": 0, "Male": 1}

	cigaretteCodesV1 = map[string]float32{"<1": 0, ">5": 1, "Invalid": -1}
	cigaretteCodesV2 = map[string]float32{"<1": 0, "1-5": 1, ">5": 2, "Invalid": -1}
)

// AgeGroupOptions returns the selectable age brackets in presentation order.
func AgeGroupOptions() []string {
	return []string{"Under 15", "15-30", "30-45", "45-60", "60+"}
}

// YesNoOptions returns the two-state answers in presentation order.
func YesNoOptions() []string {
	return []string{"Yes", "No"}
}

// SmokingOptions returns the smoking frequency buckets in presentation order.
func SmokingOptions() []string {
	return []string{"No", "Some days", "Every day", "Invalid"}
}

// CigaretteOptions returns the cigarettes-per-day buckets for the given
// schema version.
func CigaretteOptions(version SchemaVersion) []string {
	if version == SchemaV2 {
		return []string{"<1", "1-5", ">5", "Invalid"}
	}
	return []string{"<1", ">5", "Invalid"}
}

// GenderOptions returns the gender answers consumed by the v2 schema.
func GenderOptions() []string {
	return []string{"Female", "Male"}
}

// ComputeBMI derives body mass index from weight in kilograms and height in
// centimeters.
func ComputeBMI(weightKg, heightCm float64) float64 {
	meters := heightCm / 100
	return weightKg / (meters * meters)
}

// EncodeAnswers maps one submission onto the model's column layout. Position
// i of the returned vector holds the encoded value of order[i]; order names
// with no encoded counterpart stay zero and are reported in missing so
// callers can log them. An answer outside its fixed table is an error.
func EncodeAnswers(answers RawAnswers, order FeatureOrder) ([]float32, []string, error) {
	fields, err := encodeFields(answers, order.Version())
	if err != nil {
		return nil, nil, err
	}
	vec := make([]float32, len(order))
	var missing []string
	for i, name := range order {
		value, ok := fields[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		vec[i] = value
	}
	return vec, missing, nil
}

type categoricalField struct {
	feature string
	answer  string
	table   map[string]float32
}

func encodeFields(answers RawAnswers, version SchemaVersion) (map[string]float32, error) {
	fields := map[string]float32{
		FeatureInsulinDuration: encodeDuration(answers.InsulinDuration),
		FeatureWeightKg:        float32(answers.WeightKg),
		FeatureHeightCm:        float32(answers.HeightCm),
		FeatureBMI:             float32(ComputeBMI(answers.WeightKg, answers.HeightCm)),
		FeatureExercise:        float32(answers.ExerciseDays),
	}
	categoricals := []categoricalField{
		{FeatureAgeGroup, answers.AgeGroup, ageGroupCodes},
		{FeaturePregnancy, answers.Pregnancy, yesNoCodes},
		{FeatureBloodPressure, answers.BloodPressure, yesNoCodes},
		{FeatureCholesterol, answers.Cholesterol, yesNoCodes},
		{FeatureDiabetes, answers.Diabetes, yesNoCodes},
		{FeatureHomePesticides, answers.HomePesticides, yesNoCodes},
		{FeatureWeedPesticides, answers.WeedPesticides, yesNoCodes},
		{FeatureHadAsthma, answers.HadAsthma, yesNoCodes},
		{FeatureStillAsthma, answers.StillAsthma, yesNoCodes},
		{FeatureERVisit, answers.ERVisit, yesNoCodes},
		{FeatureSmoking, answers.Smoking, smokingCodes},
		{FeatureCigarettes, answers.Cigarettes, cigaretteTable(version)},
	}
	if version == SchemaV2 {
		categoricals = append(categoricals, categoricalField{FeatureGender, answers.Gender, genderCodes})
	}
	for _, f := range categoricals {
		code, ok := f.table[f.answer]
		if !ok {
			return nil, fmt.Errorf("field %s: answer %q is not a valid option", f.feature, f.answer)
		}
		fields[f.feature] = code
	}
	return fields, nil
}

func cigaretteTable(version SchemaVersion) map[string]float32 {
	if version == SchemaV2 {
		return cigaretteCodesV2
	}
	return cigaretteCodesV1
}

// encodeDuration turns free text such as "6 months" into the numeric code
// the model was trained on. Anything that does not lead with a number
// becomes -1, never an error.
func encodeDuration(text string) float32 {
	text = NormalizeAnswer(text)
	if text == "" || strings.EqualFold(text, "Invalid") {
		return -1
	}
	token := strings.Fields(text)[0]
	value, err := strconv.ParseFloat(token, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return -1
	}
	return float32(math.Trunc(value))
}
