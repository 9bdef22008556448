/*
flag package sets up cli flags shared across the service.

Flags listed here are service-agnostic. Parse must be called from main, not
from init, so that test binaries can register their own flags first.
*/

package flag

import (
	"flag"
)

const (
	APIServer = "api_server"
)

var (
	IsDevelopment bool
	ServiceName   string
)

func init() {
	flag.BoolVar(&IsDevelopment, "dev", true, "set to true if the current run is for development. default value is true")
	flag.StringVar(&ServiceName, "service", APIServer, "name reported in logs")
}

// Parse delegates to the standard flag package. Call once from main.
func Parse() {
	flag.Parse()
}
