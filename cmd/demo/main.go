// Command demo draws a field of rotating sprites, a minimap, an imgui panel
// and a frame rate overlay.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/db47h/glint/app"
	"github.com/db47h/glint/internal/log"
)

func main() {
	cfgPath := flag.String("config", configFile, "configuration file")
	flag.Parse()

	conf, err := loadConfig(*cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	lg := log.New(log.Options{Level: conf.Log.Level, File: conf.Log.File})
	lg.Info("starting", "driver", app.DriverVersion(), "config", *cfgPath)

	opts := []app.WindowOption{
		app.Title("glint demo"),
		app.Size(conf.Window.Width, conf.Window.Height),
		app.VSync(conf.Window.VSync),
		app.Logger(lg),
	}
	if conf.Window.FullScreen {
		opts = append(opts, app.FullScreen())
	}
	if err := app.Main(&demo{conf: conf, log: lg}, opts...); err != nil {
		lg.Error("demo failed", "error", err)
		os.Exit(1)
	}
}
