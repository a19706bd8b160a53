// Package production contains production configuration of the app
package production

import (
	"os"
	"strings"

	"promptdeck/config"
)

type prodconf struct{}

func New() config.AppConfiger {
	return prodconf{}
}

func (pc prodconf) GetPort() string {
	appPort := os.Getenv("PD_APP_PORT")
	if strings.TrimSpace(appPort) == "" {
		appPort = "8080"
	}
	return appPort
}

func (pc prodconf) GetDataDir() string {
	dataDir := os.Getenv("PD_DATA_DIR")
	if strings.TrimSpace(dataDir) == "" {
		dataDir = "/var/lib/promptdeck"
	}
	return dataDir
}
