// Command tac_converter converts aviation weather messages in TAC form
// (METAR, SPECI, TAF, SIGMET, AIRMET, space weather advisories and GTS
// bulletins) to JSON and back, and runs the conversion API and feed
// listener.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
