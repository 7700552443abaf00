package main

import (
	"fmt"
	"runtime/debug"

	kingpin "github.com/alecthomas/kingpin/v2"
	"gopkg.in/yaml.v3"
)

const version = "0.3.0"

var (
	versionCommand = app.Command("version", "Report the binary version and build information.")
	configCommand  = app.Command("config", "Print the effective configuration as YAML.")
)

func init() {
	commandHandlers = append(commandHandlers, func(command string) bool {
		switch command {
		case versionCommand.FullCommand():
			res, err := yaml.Marshal(map[string]string{"name": "dexboard", "version": version})
			kingpin.FatalIfError(err, "Unable to encode version.")
			fmt.Printf("%v", string(res))

			if *verboseFlag {
				if info, ok := debug.ReadBuildInfo(); ok {
					fmt.Printf("\n\nBuild Info:\n%v\n", info)
				}
			}

		case configCommand.FullCommand():
			c, err := loadConfig()
			kingpin.FatalIfError(err, "config")
			res, err := c.Marshal()
			kingpin.FatalIfError(err, "Unable to encode config.")
			fmt.Printf("%v", string(res))

		default:
			return false
		}
		return true
	})
}
