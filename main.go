package main

import (
	"fmt"
	"log"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"promptdeck/app"
	"promptdeck/app/jobs/flushjob"
	"promptdeck/config"
	"promptdeck/config/appconf"
	"promptdeck/internal/validator"
)

func main() {
	container := app.NewContainer(app.Config{
		DataDir:        appconf.DataDir(),
		AutosaveDelay:  appconf.AutosaveDelay(),
		ExecuteTimeout: appconf.ExecuteTimeout(),
	})
	defer container.Shutdown()

	e := echo.New()
	e.Validator = validator.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	config.AddRoutes(e, container)

	flushjob.Register(container.Sessions.FlushAll)

	log.Fatal(e.Start(fmt.Sprintf(":%s", appconf.Port())))
}
