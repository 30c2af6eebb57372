package app

import (
	"context"
	"fmt"
	"image/color"
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"medscreen/asthmarisk/predictor"
)

// Result card backgrounds, one per risk band.
var riskColors = map[string]color.Color{
	"green":  color.NRGBA{R: 0xc8, G: 0xf7, B: 0xc5, A: 0xff},
	"yellow": color.NRGBA{R: 0xff, G: 0xfa, B: 0xcd, A: 0xff},
	"red":    color.NRGBA{R: 0xff, G: 0xb3, B: 0xb3, A: 0xff},
}

const guidanceText = "Your risk is influenced by age and BMI, exposure and smoking, " +
	"past asthma history, insulin and comorbidities. " +
	"This tool is for awareness only, not diagnosis."

type uiState struct {
	service *predictor.Service
	cfg     predictor.Config
	cfgPath string

	w fyne.Window

	ageSel       *widget.Select
	genderSel    *widget.Select
	pregnancySel *widget.Select
	bpSel        *widget.Select
	cholSel      *widget.Select
	diabetesSel  *widget.Select
	homePesSel   *widget.Select
	weedPesSel   *widget.Select
	hadSel       *widget.Select
	stillSel     *widget.Select
	erSel        *widget.Select
	smokingSel   *widget.Select
	cigsSel      *widget.Select

	weightEntry   *widget.Entry
	heightEntry   *widget.Entry
	durationEntry *widget.Entry
	exerciseSlide *widget.Slider
	exerciseLabel *widget.Label
	bmiLabel      *widget.Label

	predictBtn *widget.Button

	resultCard  *fyne.Container
	resultFill  *canvas.Rectangle
	resultLabel *widget.Label
	guidance    *widget.Label

	status     *widget.Label
	statusBind binding.String
}

func buildUI(a fyne.App, svc *predictor.Service, cfg predictor.Config, cfgPath string) *uiState {
	u := &uiState{service: svc, cfg: cfg, cfgPath: cfgPath}
	u.w = a.NewWindow("Asthma Risk Predictor")

	u.statusBind = binding.NewString()
	_ = u.statusBind.Set(fmt.Sprintf("Loaded %s (%d features, %s schema)",
		svc.ModelID(), len(svc.Order()), svc.SchemaVersion()))

	defaults := predictor.DefaultAnswers()
	version := svc.SchemaVersion()

	u.ageSel = newSelect(predictor.AgeGroupOptions(), defaults.AgeGroup)
	u.genderSel = newSelect(predictor.GenderOptions(), defaults.Gender)
	u.pregnancySel = newSelect(predictor.YesNoOptions(), defaults.Pregnancy)
	u.bpSel = newSelect(predictor.YesNoOptions(), defaults.BloodPressure)
	u.cholSel = newSelect(predictor.YesNoOptions(), defaults.Cholesterol)
	u.diabetesSel = newSelect(predictor.YesNoOptions(), defaults.Diabetes)
	u.homePesSel = newSelect(predictor.YesNoOptions(), defaults.HomePesticides)
	u.weedPesSel = newSelect(predictor.YesNoOptions(), defaults.WeedPesticides)
	u.hadSel = newSelect(predictor.YesNoOptions(), defaults.HadAsthma)
	u.stillSel = newSelect(predictor.YesNoOptions(), defaults.StillAsthma)
	u.erSel = newSelect(predictor.YesNoOptions(), defaults.ERVisit)
	u.smokingSel = newSelect(predictor.SmokingOptions(), defaults.Smoking)
	u.cigsSel = newSelect(predictor.CigaretteOptions(version), predictor.CigaretteOptions(version)[0])

	u.weightEntry = widget.NewEntry()
	u.weightEntry.SetText(formatNumber(defaults.WeightKg))
	u.heightEntry = widget.NewEntry()
	u.heightEntry.SetText(formatNumber(defaults.HeightCm))

	u.durationEntry = widget.NewEntry()
	u.durationEntry.SetText(defaults.InsulinDuration)
	u.durationEntry.SetPlaceHolder("e.g. 6 months, or Invalid")

	u.exerciseSlide = widget.NewSlider(0, predictor.MaxExerciseDays)
	u.exerciseSlide.Step = 1
	u.exerciseLabel = widget.NewLabel("")
	u.exerciseSlide.OnChanged = func(v float64) {
		u.exerciseLabel.SetText(fmt.Sprintf("%d days", int(v)))
	}
	u.exerciseSlide.SetValue(float64(defaults.ExerciseDays))
	u.exerciseLabel.SetText(fmt.Sprintf("%d days", defaults.ExerciseDays))

	u.bmiLabel = widget.NewLabel("")
	u.weightEntry.OnChanged = func(string) { u.updateBMI() }
	u.heightEntry.OnChanged = func(string) { u.updateBMI() }
	u.updateBMI()

	u.predictBtn = widget.NewButtonWithIcon("Predict Asthma Risk", theme.ConfirmIcon(), func() { u.onPredict() })
	settingsBtn := widget.NewButtonWithIcon("Settings", theme.SettingsIcon(), func() { u.openSettings() })

	u.resultFill = canvas.NewRectangle(color.Transparent)
	u.resultLabel = widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	u.resultCard = container.NewStack(u.resultFill, container.NewPadded(u.resultLabel))
	u.resultCard.Hide()

	u.guidance = widget.NewLabel(guidanceText)
	u.guidance.Wrapping = fyne.TextWrapWord
	u.guidance.Hide()

	u.status = widget.NewLabelWithData(u.statusBind)

	leftItems := []*widget.FormItem{
		{Text: "Age Group", Widget: u.ageSel},
	}
	if version == predictor.SchemaV2 {
		leftItems = append(leftItems, &widget.FormItem{Text: "Gender", Widget: u.genderSel})
	}
	leftItems = append(leftItems,
		&widget.FormItem{Text: "Pregnancy", Widget: u.pregnancySel},
		&widget.FormItem{Text: "High Blood Pressure", Widget: u.bpSel},
		&widget.FormItem{Text: "High Cholesterol", Widget: u.cholSel},
		&widget.FormItem{Text: "Diabetes", Widget: u.diabetesSel},
		&widget.FormItem{Text: "Home Pesticides Exposure", Widget: u.homePesSel},
		&widget.FormItem{Text: "Weed Pesticides Exposure", Widget: u.weedPesSel},
		&widget.FormItem{Text: "Ever Diagnosed with Asthma?", Widget: u.hadSel},
	)
	rightItems := []*widget.FormItem{
		{Text: "Weight (kg)", Widget: u.weightEntry},
		{Text: "Height (cm)", Widget: u.heightEntry},
		{Text: "Exercise Days per Month", Widget: container.NewBorder(nil, nil, nil, u.exerciseLabel, u.exerciseSlide)},
		{Text: "Smoking Frequency", Widget: u.smokingSel},
		{Text: "Cigarettes per Day", Widget: u.cigsSel},
		{Text: "Insulin Duration", Widget: u.durationEntry},
		{Text: "Currently Have Asthma?", Widget: u.stillSel},
		{Text: "ER Visit for Breathing Problems (Past year?)", Widget: u.erSel},
	}
	forms := container.NewGridWithColumns(2, widget.NewForm(leftItems...), widget.NewForm(rightItems...))

	content := container.NewVBox(
		widget.NewLabelWithStyle("Asthma Risk Assessment", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		forms,
		u.bmiLabel,
		container.NewGridWithColumns(2, u.predictBtn, settingsBtn),
		widget.NewSeparator(),
		u.resultCard,
		u.guidance,
		widget.NewSeparator(),
		u.status,
	)

	u.w.SetContent(container.NewPadded(content))
	u.w.Resize(fyne.NewSize(840, 680))
	return u
}

func newSelect(options []string, selected string) *widget.Select {
	sel := widget.NewSelect(options, nil)
	sel.SetSelected(selected)
	return sel
}

func (u *uiState) readAnswers() (predictor.RawAnswers, error) {
	weight, err := parseBounded(u.weightEntry.Text, predictor.MinWeightKg, predictor.MaxWeightKg, "weight")
	if err != nil {
		return predictor.RawAnswers{}, err
	}
	height, err := parseBounded(u.heightEntry.Text, predictor.MinHeightCm, predictor.MaxHeightCm, "height")
	if err != nil {
		return predictor.RawAnswers{}, err
	}
	return predictor.RawAnswers{
		AgeGroup:        u.ageSel.Selected,
		Gender:          u.genderSel.Selected,
		Pregnancy:       u.pregnancySel.Selected,
		BloodPressure:   u.bpSel.Selected,
		Cholesterol:     u.cholSel.Selected,
		Diabetes:        u.diabetesSel.Selected,
		HomePesticides:  u.homePesSel.Selected,
		WeedPesticides:  u.weedPesSel.Selected,
		HadAsthma:       u.hadSel.Selected,
		StillAsthma:     u.stillSel.Selected,
		ERVisit:         u.erSel.Selected,
		Smoking:         u.smokingSel.Selected,
		Cigarettes:      u.cigsSel.Selected,
		InsulinDuration: u.durationEntry.Text,
		WeightKg:        weight,
		HeightCm:        height,
		ExerciseDays:    int(u.exerciseSlide.Value),
	}, nil
}

func (u *uiState) onPredict() {
	answers, err := u.readAnswers()
	if err != nil {
		dialog.ShowError(err, u.w)
		return
	}
	u.setBusy(true)
	u.setStatus("Scoring...")
	start := time.Now()

	go func() {
		assessment, err := u.service.Predict(context.Background(), answers)
		u.setBusy(false)
		if err != nil {
			fyne.Do(func() {
				dialog.ShowError(err, u.w)
			})
			u.setStatus("Error")
			return
		}
		fyne.Do(func() {
			u.showAssessment(assessment)
		})
		u.setStatus(fmt.Sprintf("Done in %.2fs", time.Since(start).Seconds()))
	}()
}

func (u *uiState) showAssessment(a predictor.Assessment) {
	fill, ok := riskColors[a.Level.Color()]
	if !ok {
		fill = color.Transparent
	}
	u.resultFill.FillColor = fill
	u.resultFill.Refresh()
	u.resultLabel.SetText(fmt.Sprintf("%s (%.2f)", a.Level, a.Probability))
	u.resultCard.Show()
	u.guidance.Show()
}

func (u *uiState) updateBMI() {
	w, errW := strconv.ParseFloat(strings.TrimSpace(u.weightEntry.Text), 64)
	h, errH := strconv.ParseFloat(strings.TrimSpace(u.heightEntry.Text), 64)
	if errW != nil || errH != nil || h <= 0 {
		u.bmiLabel.SetText("BMI: -")
		return
	}
	u.bmiLabel.SetText(fmt.Sprintf("BMI: %.1f", predictor.ComputeBMI(w, h)))
}

func (u *uiState) setBusy(b bool) {
	fyne.Do(func() {
		if b {
			u.predictBtn.Disable()
		} else {
			u.predictBtn.Enable()
		}
	})
}

func (u *uiState) setStatus(text string) {
	_ = u.statusBind.Set(text)
}

func (u *uiState) openSettings() {
	cfg := u.cfg.Clone()
	modelEntry := widget.NewEntry()
	modelEntry.SetText(cfg.ModelPath)
	schemaEntry := widget.NewEntry()
	schemaEntry.SetText(cfg.SchemaPath)
	ortEntry := widget.NewEntry()
	ortEntry.SetText(cfg.OrtLibrary)
	levelSel := widget.NewSelect([]string{"debug", "info", "warn", "error"}, nil)
	levelSel.SetSelected(cfg.LogLevel)
	jsonCheck := widget.NewCheck("JSON log output", nil)
	jsonCheck.SetChecked(cfg.LogJSON)

	form := &widget.Form{Items: []*widget.FormItem{
		{Text: "Model file", Widget: modelEntry},
		{Text: "Feature order file", Widget: schemaEntry},
		{Text: "onnxruntime library", Widget: ortEntry},
		{Text: "Log level", Widget: levelSel},
		{Text: "Log format", Widget: jsonCheck},
	}}
	dialog.NewCustomConfirm("Settings", "Save", "Cancel", form, func(ok bool) {
		if !ok {
			return
		}
		newCfg := cfg
		newCfg.ModelPath = strings.TrimSpace(modelEntry.Text)
		newCfg.SchemaPath = strings.TrimSpace(schemaEntry.Text)
		newCfg.OrtLibrary = strings.TrimSpace(ortEntry.Text)
		if levelSel.Selected != "" {
			newCfg.LogLevel = levelSel.Selected
		}
		newCfg.LogJSON = jsonCheck.Checked
		if err := predictor.SaveConfig(u.cfgPath, newCfg); err != nil {
			dialog.ShowError(err, u.w)
			return
		}
		u.cfg = newCfg
		dialog.ShowInformation("Settings", "Saved. Artifact changes take effect after restart.", u.w)
	}, u.w).Show()
}
