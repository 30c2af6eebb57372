package app

import (
	fyneapp "fyne.io/fyne/v2/app"
	"github.com/joho/godotenv"

	"medscreen/asthmarisk/predictor"
)

const fyneAppID = "com.medscreen.asthmarisk"

// Run loads the artifacts, builds the pipeline and starts the desktop UI.
func Run() error {
	// The .env file may relocate artifacts, so it loads before the config.
	dotenvErr := godotenv.Load()

	cfg, err := predictor.LoadConfig("")
	if err != nil {
		return err
	}
	logger := predictor.NewLogger(cfg)
	if dotenvErr != nil {
		logger.Debug("no .env file found")
	}

	svc, err := predictor.SharedService(cfg, logger)
	if err != nil {
		return err
	}
	defer svc.Close()

	a := fyneapp.NewWithID(fyneAppID)
	u := buildUI(a, svc, cfg, "")
	u.w.ShowAndRun()
	return nil
}
