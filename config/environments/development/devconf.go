// Package development contains development configuration of the app
package development

import (
	"os"
	"strings"

	"promptdeck/config"
)

type devconf struct{}

func New() config.AppConfiger {
	return devconf{}
}

func (dc devconf) GetPort() string {
	appPort := os.Getenv("PD_APP_PORT")
	if strings.TrimSpace(appPort) == "" {
		appPort = "8080"
	}
	return appPort
}

func (dc devconf) GetDataDir() string {
	dataDir := os.Getenv("PD_DATA_DIR")
	if strings.TrimSpace(dataDir) == "" {
		dataDir = "data"
	}
	return dataDir
}
