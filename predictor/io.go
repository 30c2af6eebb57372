package predictor

import (
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

type answerColumn struct {
	names []string
	set   func(*RawAnswers, string) error
}

type boundColumn struct {
	index int
	spec  answerColumn
}

// answerColumnSpecs maps recognized CSV headers onto answer fields. The
// canonical feature names are accepted alongside the questionnaire wording.
// Categorical cells are stored as-is; the encoder validates them later.
func answerColumnSpecs() []answerColumn {
	text := func(assign func(*RawAnswers, string)) func(*RawAnswers, string) error {
		return func(a *RawAnswers, v string) error {
			assign(a, v)
			return nil
		}
	}
	return []answerColumn{
		{[]string{FeatureAgeGroup, "Age Group"}, text(func(a *RawAnswers, v string) { a.AgeGroup = v })},
		{[]string{FeatureGender}, text(func(a *RawAnswers, v string) { a.Gender = v })},
		{[]string{FeaturePregnancy, "Pregnancy"}, text(func(a *RawAnswers, v string) { a.Pregnancy = v })},
		{[]string{FeatureBloodPressure, "Blood Pressure"}, text(func(a *RawAnswers, v string) { a.BloodPressure = v })},
		{[]string{FeatureCholesterol}, text(func(a *RawAnswers, v string) { a.Cholesterol = v })},
		{[]string{FeatureDiabetes}, text(func(a *RawAnswers, v string) { a.Diabetes = v })},
		{[]string{FeatureHomePesticides, "Home Pesticides"}, text(func(a *RawAnswers, v string) { a.HomePesticides = v })},
		{[]string{FeatureWeedPesticides, "Weed Pesticides"}, text(func(a *RawAnswers, v string) { a.WeedPesticides = v })},
		{[]string{FeatureHadAsthma, "Had Asthma"}, text(func(a *RawAnswers, v string) { a.HadAsthma = v })},
		{[]string{FeatureStillAsthma, "Still Asthma"}, text(func(a *RawAnswers, v string) { a.StillAsthma = v })},
		{[]string{FeatureERVisit, "ER Visit"}, text(func(a *RawAnswers, v string) { a.ERVisit = v })},
		{[]string{FeatureSmoking, "Smoking"}, text(func(a *RawAnswers, v string) { a.Smoking = v })},
		{[]string{FeatureCigarettes, "Cigarettes"}, text(func(a *RawAnswers, v string) { a.Cigarettes = v })},
		{[]string{FeatureInsulinDuration, "Insulin Duration"}, text(func(a *RawAnswers, v string) { a.InsulinDuration = v })},
		{[]string{FeatureWeightKg, "Weight (kg)", "Weight"}, func(a *RawAnswers, v string) error {
			f, err := parseNumericCell(v, MinWeightKg, MaxWeightKg, "weight")
			if err != nil {
				return err
			}
			a.WeightKg = f
			return nil
		}},
		{[]string{FeatureHeightCm, "Height (cm)", "Height"}, func(a *RawAnswers, v string) error {
			f, err := parseNumericCell(v, MinHeightCm, MaxHeightCm, "height")
			if err != nil {
				return err
			}
			a.HeightCm = f
			return nil
		}},
		{[]string{FeatureExercise, "Exercise Days", "Exercise"}, func(a *RawAnswers, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("parse exercise days %q: %w", v, err)
			}
			if n < 0 || n > MaxExerciseDays {
				return fmt.Errorf("exercise days %d must be between 0 and %d", n, MaxExerciseDays)
			}
			a.ExerciseDays = n
			return nil
		}},
	}
}

// ParseAnswersFile reads raw answer rows from a CSV or TSV file with a
// header row. Missing columns keep the questionnaire defaults; malformed
// numeric cells are errors naming the offending row.
func ParseAnswersFile(path string) ([]RawAnswers, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()
	reader := csv.NewReader(f)
	if strings.EqualFold(filepath.Ext(path), ".tsv") {
		reader.Comma = '\t'
	}
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if len(rows) == 0 {
		return nil, errors.New("empty answers file")
	}
	header := make([]string, len(rows[0]))
	for i, cell := range rows[0] {
		header[i] = cleanCell(cell)
	}
	var bound []boundColumn
	for _, spec := range answerColumnSpecs() {
		if idx := findColumn(header, spec.names); idx >= 0 {
			bound = append(bound, boundColumn{index: idx, spec: spec})
		}
	}
	if len(bound) == 0 {
		return nil, fmt.Errorf("no recognizable answer columns in %s", filepath.Base(path))
	}
	out := make([]RawAnswers, 0, len(rows)-1)
	for rowNum, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		answers := DefaultAnswers()
		for _, b := range bound {
			if b.index >= len(row) {
				continue
			}
			cell := cleanCell(row[b.index])
			if cell == "" {
				continue
			}
			if err := b.spec.set(&answers, cell); err != nil {
				return nil, fmt.Errorf("row %d: %w", rowNum+2, err)
			}
		}
		out = append(out, answers)
	}
	if len(out) == 0 {
		return nil, errors.New("answers file has no data rows")
	}
	return out, nil
}

// parseNumericCell parses a weight or height cell against the questionnaire
// bounds. NaN and infinities are rejected like any other junk value.
func parseNumericCell(v string, min, max float64, what string) (float64, error) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("parse %s %q: not a number", what, v)
	}
	if f < min || f > max {
		return 0, fmt.Errorf("%s %q must be between %g and %g", what, v, min, max)
	}
	return f, nil
}

func cleanCell(v string) string {
	v = strings.TrimSpace(v)
	v = strings.TrimPrefix(v, "\ufeff")
	return v
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if cleanCell(cell) != "" {
			return false
		}
	}
	return true
}

func findColumn(header []string, candidates []string) int {
	for i, col := range header {
		for _, cand := range candidates {
			if columnNameEqual(col, cand) {
				return i
			}
		}
	}
	return -1
}

// columnNameEqual compares header names ignoring case and treating spaces
// and underscores as interchangeable.
func columnNameEqual(a, b string) bool {
	return strings.EqualFold(normalizeColumnName(a), normalizeColumnName(b))
}

func normalizeColumnName(name string) string {
	return strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
}
