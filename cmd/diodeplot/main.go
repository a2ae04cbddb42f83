// Command diodeplot fits exponential conduction models to diode
// current/voltage captures.
package main

import "github.com/banshee-data/diodeplot/cmd/diodeplot/cmd"

func main() {
	cmd.Execute()
}
